package pagescrape

import (
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod/lib/launcher"
)

// resolveBrowser downloads a compatible Chromium binary if one is not
// already cached and returns the path to the executable. The binary is
// stored in ~/.cache/rod/browser (Unix) or %APPDATA%\rod\browser (Windows).
func resolveBrowser() (string, error) {
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("pagescrape: downloading browser: %w", err)
	}
	return path, nil
}

// allocatorOptions translates cfg into chromedp exec allocator flags.
func allocatorOptions(cfg browserConfig) ([]chromedp.ExecAllocatorOption, error) {
	headless := cfg.headless
	if headless == "" {
		headless = "new"
	}
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", headless),
		chromedp.WindowSize(1920, 1080),
	)

	path := cfg.chromePath
	if path == "" && cfg.autoDownload {
		p, err := resolveBrowser()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}
	if cfg.noSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	return opts, nil
}
