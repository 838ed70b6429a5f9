// Package pagescrape fetches a single web page, extracts its structure, and
// reports it as a PDF file or plain text.
//
// # Scraping
//
// A [Scraper] fetches a page either statically, with one HTTP GET, or
// dynamically, by rendering it in headless Chrome:
//
//	s := pagescrape.New(pagescrape.WithMode(pagescrape.ModeDynamic))
//	res, err := s.Scrape(ctx, "https://example.com/docs/")
//
// The [ScrapeResult] carries the page title and meta description, every
// heading with the text that follows it, every link resolved to an absolute
// URL, the links that point at documents (pdf, docx, xlsx, ...) and, for
// dynamic fetches, the text revealed by each tab control.
//
// [ModeAuto], the default, renders the page and falls back to a static fetch
// when Chrome is unavailable or the page fails to load.
//
// Tab controls are located with [TabSelectors]. The defaults follow the
// WAI-ARIA pattern (role="tab" / role="tabpanel"); pages with their own
// markup need their own selectors:
//
//	s := pagescrape.New(
//	    pagescrape.WithTabProfile("www.example.com", pagescrape.TabSelectors{
//	        Tab:   ".contact-tabs li a",
//	        Panel: ".contact-tabs .tab-pane.active",
//	        Wait:  time.Second,
//	    }),
//	)
//
// # Reporting
//
// [WritePDF] lays the result out as HTML and prints it to PDF with headless
// Chrome; [WriteText] prints labeled sections to any [io.Writer]:
//
//	err = pagescrape.WritePDF(ctx, res, "report.pdf", nil)
//	err = pagescrape.WriteText(os.Stdout, res)
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload].
// Every browser process is terminated before the call that started it returns.
package pagescrape
