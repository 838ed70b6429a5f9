package pagescrape

// PageMetadata describes the page as a whole.
//
// Title and Description are nil when the page does not declare them, and point
// to an empty string when the page declares them empty.
type PageMetadata struct {
	URL         string  `json:"url"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// HeadingNode is one h1–h6 heading together with the text that follows it up to
// the next heading.
type HeadingNode struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Body  string `json:"body"`
}

// LinkRecord is an outbound hyperlink. URL is always absolute.
type LinkRecord struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// DownloadRecord is a link whose path ends in an allow-listed document extension.
type DownloadRecord struct {
	LinkRecord
	Extension string `json:"extension"` // lower case, without the dot
}

// TabContent is the text revealed by activating one tab control.
type TabContent struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// ScrapeResult aggregates everything extracted from one page.
type ScrapeResult struct {
	Metadata  PageMetadata     `json:"metadata"`
	Headings  []HeadingNode    `json:"headings"`
	Links     []LinkRecord     `json:"links"`
	Downloads []DownloadRecord `json:"downloads"`

	// Tabs is nil when tab extraction did not run (static fetches) and an
	// empty, non-nil slice when it ran and found no tab controls.
	Tabs []TabContent `json:"tabs"`

	// Mode is the strategy that actually produced the document. In ModeAuto
	// this is either ModeDynamic or ModeStatic.
	Mode Mode `json:"mode"`
}

// TabsCaptured reports whether tab extraction ran for this result.
func (r *ScrapeResult) TabsCaptured() bool {
	return r.Tabs != nil
}

func stringPtr(s string) *string {
	return &s
}

// valueOr dereferences p, or returns def when p is nil.
func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
