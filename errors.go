package pagescrape

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Converter].
	ErrClosed = errors.New("pagescrape: browser is closed")

	// ErrUnknownMode is returned for a [Mode] the scraper does not recognize.
	ErrUnknownMode = errors.New("pagescrape: unknown fetch mode")
)

// FetchError reports a failure to retrieve a page: an invalid URL, a transport
// error or timeout, a non-successful HTTP status, or a browser that could not be
// started or navigated.
type FetchError struct {
	URL        string
	Op         string // "request", "status", "launch", "navigate", ...
	StatusCode int    // set when Op is "status"
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("pagescrape: fetch %s: %s: HTTP %d", e.URL, e.Op, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("pagescrape: fetch %s: %s: %v", e.URL, e.Op, e.Err)
	}
	return fmt.Sprintf("pagescrape: fetch %s: %s", e.URL, e.Op)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExtractionError reports a document that could not be parsed at all.
// Missing fields are never reported this way; they come back absent.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("pagescrape: extract %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// WriteError reports an output path that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("pagescrape: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
