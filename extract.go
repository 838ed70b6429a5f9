package pagescrape

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// skippedSchemes are href prefixes that never lead to a document.
var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// extract builds a ScrapeResult from d. Tab content is left to the caller.
func (s *Scraper) extract(d *document) *ScrapeResult {
	res := &ScrapeResult{
		Metadata: extractMetadata(d),
		Headings: extractHeadings(d.doc),
		Links:    extractLinks(d),
	}
	res.Downloads = filterDownloads(res.Links, s.cfg.downloadExts)
	return res
}

func extractMetadata(d *document) PageMetadata {
	md := PageMetadata{URL: d.url}

	// SVG icons carry their own <title> elements.
	if title := d.doc.Find("title").Not("svg title").First(); title.Length() > 0 {
		md.Title = stringPtr(strings.TrimSpace(title.Text()))
	}

	d.doc.Find("meta[name]").EachWithBreak(func(_ int, m *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(m.AttrOr("name", "")), "description") {
			return true
		}
		if content, ok := m.Attr("content"); ok {
			md.Description = stringPtr(strings.TrimSpace(content))
			return false
		}
		return true
	})

	return md
}

// extractLinks returns every navigable anchor in document order, resolved
// against the document base.
func extractLinks(d *document) []LinkRecord {
	var links []LinkRecord
	d.doc.Find("a[href], area[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if !isNavigable(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := d.base.ResolveReference(ref)

		text := collapseSpace(a.Text())
		if text == "" {
			text = strings.TrimSpace(a.AttrOr("aria-label", a.AttrOr("title", "")))
		}
		if text == "" {
			text = href
		}
		links = append(links, LinkRecord{URL: abs.String(), Text: text})
	})
	return links
}

func isNavigable(href string) bool {
	if href == "" || href == "#" {
		return false
	}
	lower := strings.ToLower(href)
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return true
}

// filterDownloads keeps the links whose path extension is in exts.
func filterDownloads(links []LinkRecord, exts map[string]struct{}) []DownloadRecord {
	var downloads []DownloadRecord
	for _, l := range links {
		ext := downloadExtension(l.URL)
		if ext == "" {
			continue
		}
		if _, ok := exts[ext]; ok {
			downloads = append(downloads, DownloadRecord{LinkRecord: l, Extension: ext})
		}
	}
	return downloads
}

// downloadExtension returns the lower-cased extension of the URL path, without
// the dot. Query strings and fragments are ignored.
func downloadExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
