package pagescrape

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Mode selects how a page is fetched.
type Mode string

const (
	// ModeStatic issues a single HTTP GET and parses the response body.
	ModeStatic Mode = "static"
	// ModeDynamic renders the page in headless Chrome and captures tab content.
	ModeDynamic Mode = "dynamic"
	// ModeAuto tries ModeDynamic and falls back to ModeStatic when the browser
	// cannot be started or the page cannot be rendered.
	ModeAuto Mode = "auto"
)

// ParseMode converts a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeStatic, ModeDynamic, ModeAuto:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// DefaultUserAgent is sent with static requests. Some sites refuse obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// DefaultDownloadExtensions is the allow-list used to classify document links.
var DefaultDownloadExtensions = []string{
	"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx",
	"odt", "ods", "odp", "rtf", "csv", "txt", "zip",
}

// scraperConfig holds internal configuration for a Scraper.
type scraperConfig struct {
	mode         Mode
	timeout      time.Duration
	navTimeout   time.Duration
	settleDelay  time.Duration
	userAgent    string
	httpClient   *http.Client
	browser      browserConfig
	tabs         TabSelectors
	tabProfiles  map[string]TabSelectors
	downloadExts map[string]struct{}
	logger       *zap.Logger
}

// browserConfig holds the Chrome launch settings shared by the fetcher and the
// PDF converter.
type browserConfig struct {
	chromePath   string
	noSandbox    bool
	headless     string
	autoDownload bool
}

func defaultConfig() scraperConfig {
	return scraperConfig{
		mode:         ModeAuto,
		timeout:      10 * time.Second,
		navTimeout:   30 * time.Second,
		settleDelay:  3 * time.Second,
		userAgent:    DefaultUserAgent,
		browser:      browserConfig{headless: "new"},
		tabs:         DefaultTabSelectors(),
		downloadExts: extensionSet(DefaultDownloadExtensions),
		logger:       zap.NewNop(),
	}
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}

// Option configures a [Scraper].
type Option func(*scraperConfig)

// WithMode sets the fetch strategy. Defaults to [ModeAuto].
func WithMode(m Mode) Option {
	return func(c *scraperConfig) {
		c.mode = m
	}
}

// WithTimeout sets the timeout of a static HTTP request.
// Defaults to 10 seconds. A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *scraperConfig) {
		c.timeout = d
	}
}

// WithNavigationTimeout bounds a whole dynamic fetch, from navigation to tab
// extraction. Defaults to 30 seconds. A zero or negative value disables it.
func WithNavigationTimeout(d time.Duration) Option {
	return func(c *scraperConfig) {
		c.navTimeout = d
	}
}

// WithSettleDelay sets how long a rendered page is given to run its scripts
// after the body is ready. Defaults to 3 seconds.
func WithSettleDelay(d time.Duration) Option {
	return func(c *scraperConfig) {
		c.settleDelay = d
	}
}

// WithUserAgent overrides [DefaultUserAgent] for static requests.
func WithUserAgent(ua string) Option {
	return func(c *scraperConfig) {
		c.userAgent = ua
	}
}

// WithHTTPClient replaces the client used for static fetches. The client's
// own Timeout is left alone; [WithTimeout] still applies per request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *scraperConfig) {
		c.httpClient = hc
	}
}

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default chromedp searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *scraperConfig) {
		c.browser.chromePath = path
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *scraperConfig) {
		c.browser.noSandbox = true
	}
}

// WithAutoDownload downloads a compatible Chromium build when no Chrome path
// is configured.
func WithAutoDownload() Option {
	return func(c *scraperConfig) {
		c.browser.autoDownload = true
	}
}

// WithTabSelectors sets the tab convention used when no host profile matches.
func WithTabSelectors(sel TabSelectors) Option {
	return func(c *scraperConfig) {
		c.tabs = sel
	}
}

// WithTabProfile registers tab selectors for one host, e.g. "www.example.com".
func WithTabProfile(host string, sel TabSelectors) Option {
	return func(c *scraperConfig) {
		if c.tabProfiles == nil {
			c.tabProfiles = make(map[string]TabSelectors)
		}
		c.tabProfiles[strings.ToLower(host)] = sel
	}
}

// WithDownloadExtensions replaces [DefaultDownloadExtensions].
func WithDownloadExtensions(exts ...string) Option {
	return func(c *scraperConfig) {
		c.downloadExts = extensionSet(exts)
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *scraperConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
