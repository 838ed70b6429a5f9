package pagescrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// maxBodySize caps how much of a static response is parsed (16 MB).
const maxBodySize = 16 << 20

// document is a parsed page ready for extraction.
type document struct {
	url  string   // as requested
	base *url.URL // resolves relative links
	doc  *goquery.Document
}

// parseTarget validates a user-supplied URL. Only absolute http and https
// URLs can be fetched.
func parseTarget(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Op: "parse url", Err: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &FetchError{URL: rawURL, Op: "parse url", Err: fmt.Errorf("want an absolute http(s) URL")}
	}
	return u, nil
}

// fetchStatic performs a single GET and parses the body. Redirects are followed;
// the final URL becomes the base for link resolution.
func (s *Scraper) fetchStatic(ctx context.Context, rawURL string) (*document, error) {
	if _, err := parseTarget(rawURL); err != nil {
		return nil, err
	}

	if s.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Op: "create request", Err: err}
	}
	req.Header.Set("User-Agent", s.cfg.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	client := s.cfg.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	s.log.Debug("static fetch", zap.String("url", rawURL))
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Op: "request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: rawURL, Op: "status", StatusCode: resp.StatusCode}
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Op: "decode body", Err: err}
	}

	return parseDocument(rawURL, resp.Request.URL, body)
}

// parseDocument builds a document from markup. base is the location the markup
// was served from; a <base href> element in the markup overrides it.
func parseDocument(rawURL string, base *url.URL, r io.Reader) (*document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ExtractionError{URL: rawURL, Err: err}
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	return &document{url: rawURL, base: base, doc: doc}, nil
}
