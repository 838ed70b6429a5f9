package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	pagescrape "github.com/porticus-lab/go-page-scrape"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("mode", "auto", "")
	fs.Duration("timeout", 10*time.Second, "")
	fs.String("chrome-path", "", "")
	fs.Bool("no-sandbox", false, "")
	fs.String("tab-selector", "", "")
	fs.String("log-level", "warn", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Mode)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 30*time.Second, cfg.NavTimeout)
	assert.Equal(t, 3*time.Second, cfg.Settle)
	assert.Equal(t, pagescrape.DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, "output.pdf", cfg.Output)
	assert.Equal(t, pagescrape.DefaultDownloadExtensions, cfg.DownloadExtensions)
	assert.Equal(t, pagescrape.DefaultTabSelectors(), cfg.Tabs.selectors())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Profiles)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", `
mode: static
timeout: 5s
download_extensions: [pdf, epub]
browser:
  no_sandbox: true
tabs:
  tab: ".nav-tabs a"
  panel: ".tab-pane.active"
  wait: 500ms
profiles:
  - host: docs.example.com
    tab: "button.tab"
    panel: "section.visible"
    wait: 2s
log:
  level: debug
  format: json
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "static", cfg.Mode)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 30*time.Second, cfg.NavTimeout)
	assert.Equal(t, []string{"pdf", "epub"}, cfg.DownloadExtensions)
	assert.True(t, cfg.Browser.NoSandbox)
	assert.Equal(t, TabConfig{Tab: ".nav-tabs a", Panel: ".tab-pane.active", Wait: 500 * time.Millisecond}, cfg.Tabs)
	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, "docs.example.com", cfg.Profiles[0].Host)
	assert.Equal(t, "button.tab", cfg.Profiles[0].Tab)
	assert.Equal(t, 2*time.Second, cfg.Profiles[0].Wait)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultFile, "mode: dynamic\n")
	chdir(t, dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "dynamic", cfg.Mode)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.yaml", "mode: static\ntimeout: 5s\nbrowser:\n  chrome_path: /opt/chrome\n")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--mode", "dynamic", "--tab-selector", ".tab"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "dynamic", cfg.Mode)
	assert.Equal(t, ".tab", cfg.Tabs.Tab)
	// Unset flags keep the file value, not the flag default.
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "/opt/chrome", cfg.Browser.ChromePath)
}

func TestLoad_DurationFlag(t *testing.T) {
	chdir(t, t.TempDir())

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--timeout", "90s", "--no-sandbox"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.True(t, cfg.Browser.NoSandbox)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"mode.yaml":    "mode: turbo\n",
		"level.yaml":   "log:\n  level: loud\n",
		"profile.yaml": "profiles:\n  - host: example.com\n",
		"timeout.yaml": "timeout: -1s\n",
	} {
		_, err := Load(writeFile(t, dir, name, content), nil)
		assert.Error(t, err, name)
	}
}

func TestScraperOptions(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)
	cfg.Mode = "static"

	s := pagescrape.New(cfg.ScraperOptions(nil)...)
	assert.Equal(t, pagescrape.ModeStatic, s.Mode())
}

func TestBrowserOptions(t *testing.T) {
	cfg := &Config{Browser: BrowserConfig{ChromePath: "/usr/bin/chromium", NoSandbox: true}}
	assert.Len(t, cfg.BrowserOptions(), 3)

	cfg = &Config{}
	assert.Len(t, cfg.BrowserOptions(), 1)
}

func TestInitLogger(t *testing.T) {
	logger, err := InitLogger(LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = InitLogger(LogConfig{Level: "error", Format: "console"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = InitLogger(LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestLoad_ModeCaseInsensitive(t *testing.T) {
	chdir(t, t.TempDir())

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--mode", "Static"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	s := pagescrape.New(cfg.ScraperOptions(nil)...)
	assert.Equal(t, pagescrape.ModeStatic, s.Mode())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
