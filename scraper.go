package pagescrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Scraper fetches a page and extracts its structure.
//
// A Scraper holds no per-page state; every call to [Scraper.Scrape] is an
// independent fetch-extract transaction. Dynamic fetches start a browser
// process and terminate it before returning.
type Scraper struct {
	cfg scraperConfig
	log *zap.Logger
}

// New creates a Scraper with the given options.
func New(opts ...Option) *Scraper {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Scraper{cfg: cfg, log: cfg.logger}
}

// Mode returns the configured fetch strategy.
func (s *Scraper) Mode() Mode {
	return s.cfg.mode
}

// Scrape fetches rawURL with the configured [Mode] and extracts a [ScrapeResult].
//
// Errors are [*FetchError] when the page could not be retrieved and
// [*ExtractionError] when it could not be parsed. Nothing is retried; in
// [ModeAuto] the static fetch is a fallback, not a retry.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*ScrapeResult, error) {
	if _, err := parseTarget(rawURL); err != nil {
		return nil, err
	}

	switch s.cfg.mode {
	case ModeStatic:
		return s.scrapeStatic(ctx, rawURL)
	case ModeDynamic:
		return s.scrapeDynamic(ctx, rawURL)
	case ModeAuto:
		res, err := s.scrapeDynamic(ctx, rawURL)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		s.log.Warn("dynamic fetch failed, falling back to static", zap.String("url", rawURL), zap.Error(err))
		return s.scrapeStatic(ctx, rawURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, s.cfg.mode)
	}
}

// ExtractHTML extracts a ScrapeResult from markup that has already been
// fetched. rawURL must be absolute; it is the base for relative links. Tabs are
// not captured.
func (s *Scraper) ExtractHTML(rawURL string, r io.Reader) (*ScrapeResult, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, &ExtractionError{URL: rawURL, Err: err}
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, &ExtractionError{URL: rawURL, Err: errors.New("base URL must be absolute")}
	}
	doc, err := parseDocument(rawURL, base, r)
	if err != nil {
		return nil, err
	}
	res := s.extract(doc)
	res.Mode = ModeStatic
	return res, nil
}

func (s *Scraper) scrapeStatic(ctx context.Context, rawURL string) (*ScrapeResult, error) {
	doc, err := s.fetchStatic(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	res := s.extract(doc)
	res.Mode = ModeStatic
	s.logResult(res)
	return res, nil
}

func (s *Scraper) scrapeDynamic(ctx context.Context, rawURL string) (*ScrapeResult, error) {
	target, err := parseTarget(rawURL)
	if err != nil {
		return nil, err
	}

	var res *ScrapeResult
	err = withSession(ctx, s.cfg.browser, s.log, func(sess *session) error {
		tabCtx, cancel := sess.tabContext(s.cfg.navTimeout)
		defer cancel()

		markup, location, err := sess.render(tabCtx, rawURL, s.cfg.settleDelay)
		if err != nil {
			return &FetchError{URL: rawURL, Op: "navigate", Err: err}
		}

		base := target
		if loc, err := url.Parse(location); err == nil && loc.Host != "" {
			base = loc
		}
		doc, err := parseDocument(rawURL, base, strings.NewReader(markup))
		if err != nil {
			return err
		}

		res = s.extract(doc)
		res.Mode = ModeDynamic
		res.Tabs = extractTabs(chromeTabs{ctx: tabCtx}, s.tabSelectorsFor(base), s.log)
		return nil
	})
	if err != nil {
		var fe *FetchError
		var ee *ExtractionError
		if !errors.As(err, &fe) && !errors.As(err, &ee) {
			err = &FetchError{URL: rawURL, Op: "launch", Err: err}
		}
		return nil, err
	}

	s.logResult(res)
	return res, nil
}

// tabSelectorsFor returns the host profile for u, or the default selectors.
func (s *Scraper) tabSelectorsFor(u *url.URL) TabSelectors {
	if sel, ok := s.cfg.tabProfiles[strings.ToLower(u.Hostname())]; ok {
		return sel
	}
	return s.cfg.tabs
}

func (s *Scraper) logResult(res *ScrapeResult) {
	s.log.Info("page extracted",
		zap.String("url", res.Metadata.URL),
		zap.String("mode", string(res.Mode)),
		zap.Int("headings", len(res.Headings)),
		zap.Int("links", len(res.Links)),
		zap.Int("downloads", len(res.Downloads)),
		zap.Int("tabs", len(res.Tabs)),
	)
}
