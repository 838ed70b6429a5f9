package pagescrape

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Converter prints HTML documents to PDF with headless Chrome.
//
// A Converter owns one browser process, reused across conversions. Call
// [Converter.Close] when it is no longer needed to terminate the browser.
type Converter struct {
	sess    *session
	timeout time.Duration
	log     *zap.Logger
}

// NewConverter starts a headless browser. Browser options (chrome path,
// sandbox, auto download), [WithNavigationTimeout] and [WithLogger] apply;
// other options are ignored. The browser is killed when ctx is cancelled.
func NewConverter(ctx context.Context, opts ...Option) (*Converter, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	sess, err := openSession(ctx, cfg.browser, cfg.logger)
	if err != nil {
		return nil, err
	}
	return &Converter{sess: sess, timeout: cfg.navTimeout, log: cfg.logger}, nil
}

// Close releases the browser process. Close is idempotent.
func (c *Converter) Close() error {
	return c.sess.Close()
}

// ConvertHTML prints an HTML string to PDF.
// If pg is nil, [DefaultPageConfig] values are used.
func (c *Converter) ConvertHTML(ctx context.Context, html string, pg *PageConfig) (*PDF, error) {
	if err := c.sess.checkClosed(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "pagescrape-*.html")
	if err != nil {
		return nil, fmt.Errorf("pagescrape: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return nil, fmt.Errorf("pagescrape: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("pagescrape: closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("pagescrape: resolving path: %w", err)
	}
	return c.convert(ctx, "file://"+abs, pg)
}

// convert opens a fresh tab on targetURL and prints it.
func (c *Converter) convert(ctx context.Context, targetURL string, pg *PageConfig) (*PDF, error) {
	resolved := pg.resolved()

	tabCtx, tabCancel := chromedp.NewContext(c.sess.browserCtx)
	defer tabCancel()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, c.timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	width, height := resolved.paperDimensions()
	marginTop, marginRight, marginBottom, marginLeft := resolved.marginInches()

	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			params := page.PrintToPDF().
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(marginTop).
				WithMarginRight(marginRight).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithScale(resolved.Scale).
				WithPrintBackground(true).
				WithLandscape(resolved.Orientation == Landscape).
				WithDisplayHeaderFooter(!resolved.NoFooter)

			if !resolved.NoFooter {
				params = params.
					WithHeaderTemplate("<span></span>").
					WithFooterTemplate(footerTemplate)
			}

			var err error
			buf, _, err = params.Do(ctx)
			return err
		}),
	); err != nil {
		return nil, fmt.Errorf("pagescrape: printing PDF: %w", err)
	}

	c.log.Debug("pdf printed", zap.Int("bytes", len(buf)))
	return &PDF{data: buf}, nil
}
