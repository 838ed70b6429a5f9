package pagescrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// session is one running headless Chrome process and its first tab.
// It is not safe for concurrent use.
type session struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	log           *zap.Logger

	mu     sync.Mutex
	closed bool
}

// openSession starts Chrome. The process is tied to ctx: cancelling ctx kills
// it even if Close is never reached.
func openSession(ctx context.Context, cfg browserConfig, log *zap.Logger) (*session, error) {
	allocOpts, err := allocatorOptions(cfg)
	if err != nil {
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("pagescrape: starting browser: %w", err)
	}
	log.Debug("browser started")

	return &session{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		log:           log,
	}, nil
}

// withSession opens a session, runs fn, and closes it on every exit
// path, including a panic inside fn.
func withSession(ctx context.Context, cfg browserConfig, log *zap.Logger, fn func(*session) error) error {
	s, err := openSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// Close terminates the browser process. Close is idempotent.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.browserCancel()
	s.allocCancel()
	s.log.Debug("browser closed")
	return nil
}

func (s *session) checkClosed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// tabContext returns the session tab context bounded by timeout. A zero or
// negative timeout leaves it unbounded. Cancelling the returned context does
// not close the tab.
func (s *session) tabContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(s.browserCtx, timeout)
	}
	return context.WithCancel(s.browserCtx)
}

// render navigates the session tab to rawURL, waits for the body, lets scripts
// run for settle, and returns the rendered markup and the final location.
// ctx must come from tabContext.
func (s *session) render(ctx context.Context, rawURL string, settle time.Duration) (html, location string, err error) {
	if err := s.checkClosed(); err != nil {
		return "", "", err
	}

	actions := []chromedp.Action{
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if settle > 0 {
		actions = append(actions, chromedp.Sleep(settle))
	}
	actions = append(actions,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(ctx, actions...); err != nil {
		return "", "", err
	}
	s.log.Debug("page rendered", zap.String("url", location), zap.Int("bytes", len(html)))
	return html, location, nil
}
