package pagescrape

import (
	"fmt"
	"io"
	"strings"
)

// WriteText prints res to w as labeled plain-text sections. Write errors on w
// are returned as-is.
func WriteText(w io.Writer, res *ScrapeResult) error {
	p := &textPrinter{w: w}

	p.section("Metadata")
	p.linef("URL:         %s", res.Metadata.URL)
	p.linef("Title:       %s", valueOr(res.Metadata.Title, "(none)"))
	p.linef("Description: %s", valueOr(res.Metadata.Description, "(none)"))
	p.linef("Fetched:     %s", res.Mode)

	p.section(fmt.Sprintf("Headings (%d)", len(res.Headings)))
	for _, h := range res.Headings {
		p.linef("%s%s %s", strings.Repeat("  ", h.Level-1), strings.Repeat("#", h.Level), h.Text)
		for _, line := range paragraphs(h.Body) {
			p.linef("%s    %s", strings.Repeat("  ", h.Level-1), line)
		}
	}

	p.section(fmt.Sprintf("Links (%d)", len(res.Links)))
	for _, l := range res.Links {
		p.linef("  %s -> %s", l.Text, l.URL)
	}

	p.section(fmt.Sprintf("Downloads (%d)", len(res.Downloads)))
	for _, d := range res.Downloads {
		p.linef("  [%s] %s -> %s", d.Extension, d.Text, d.URL)
	}

	if res.TabsCaptured() {
		p.section(fmt.Sprintf("Tabs (%d)", len(res.Tabs)))
		for _, t := range res.Tabs {
			p.linef("  [%s]", t.Label)
			for _, line := range paragraphs(t.Text) {
				p.linef("    %s", line)
			}
		}
	}

	return p.err
}

// textPrinter remembers the first write error and skips everything after it.
type textPrinter struct {
	w       io.Writer
	err     error
	started bool
}

func (p *textPrinter) section(title string) {
	if p.started {
		p.linef("")
	}
	p.started = true
	p.linef("== %s ==", title)
}

func (p *textPrinter) linef(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}
