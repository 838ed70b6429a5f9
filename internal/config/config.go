// Package config loads pagescrape settings from an optional YAML file and
// command-line flags. Environment variables are never consulted.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	pagescrape "github.com/porticus-lab/go-page-scrape"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "pagescrape.yaml"

// Config holds the full application configuration.
type Config struct {
	Mode       string        `yaml:"mode" mapstructure:"mode" validate:"fetchmode"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	NavTimeout time.Duration `yaml:"nav_timeout" mapstructure:"nav_timeout" validate:"gte=0"`
	Settle     time.Duration `yaml:"settle" mapstructure:"settle" validate:"gte=0"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	Output     string        `yaml:"output" mapstructure:"output"`

	DownloadExtensions []string `yaml:"download_extensions" mapstructure:"download_extensions" validate:"dive,required"`

	Browser  BrowserConfig `yaml:"browser" mapstructure:"browser"`
	Tabs     TabConfig     `yaml:"tabs" mapstructure:"tabs"`
	Profiles []TabProfile  `yaml:"profiles" mapstructure:"profiles" validate:"dive"`
	Log      LogConfig     `yaml:"log" mapstructure:"log"`
}

// BrowserConfig controls how Chrome is launched.
type BrowserConfig struct {
	ChromePath   string `yaml:"chrome_path" mapstructure:"chrome_path"`
	NoSandbox    bool   `yaml:"no_sandbox" mapstructure:"no_sandbox"`
	AutoDownload bool   `yaml:"auto_download" mapstructure:"auto_download"`
}

// TabConfig is one tab selector convention.
type TabConfig struct {
	Tab   string        `yaml:"tab" mapstructure:"tab" validate:"required"`
	Panel string        `yaml:"panel" mapstructure:"panel" validate:"required"`
	Wait  time.Duration `yaml:"wait" mapstructure:"wait" validate:"gte=0"`
}

// TabProfile binds a tab convention to a single host.
type TabProfile struct {
	Host      string `yaml:"host" mapstructure:"host" validate:"required"`
	TabConfig `yaml:",inline" mapstructure:",squash"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=console json"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"mode":           "mode",
	"timeout":        "timeout",
	"nav-timeout":    "nav_timeout",
	"settle":         "settle",
	"user-agent":     "user_agent",
	"output":         "output",
	"chrome-path":    "browser.chrome_path",
	"no-sandbox":     "browser.no_sandbox",
	"auto-download":  "browser.auto_download",
	"tab-selector":   "tabs.tab",
	"panel-selector": "tabs.panel",
	"tab-wait":       "tabs.wait",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// Load reads the configuration. path names a YAML file that must exist; an
// empty path reads DefaultFile from the working directory if it is there.
// Flags that were set explicitly on the command line win over the file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	sel := pagescrape.DefaultTabSelectors()
	v.SetDefault("mode", string(pagescrape.ModeAuto))
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("nav_timeout", 30*time.Second)
	v.SetDefault("settle", 3*time.Second)
	v.SetDefault("user_agent", pagescrape.DefaultUserAgent)
	v.SetDefault("output", "output.pdf")
	v.SetDefault("download_extensions", pagescrape.DefaultDownloadExtensions)
	v.SetDefault("tabs.tab", sel.Tab)
	v.SetDefault("tabs.panel", sel.Panel)
	v.SetDefault("tabs.wait", sel.Wait)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pagescrape")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, eris.Wrapf(err, "config: bind flag %s", name)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values. Mode is matched case-insensitively.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("fetchmode", validFetchMode); err != nil {
		return eris.Wrap(err, "config: register validator")
	}
	if err := v.Struct(c); err != nil {
		return eris.Wrap(err, "config: invalid")
	}
	return nil
}

func validFetchMode(fl validator.FieldLevel) bool {
	_, err := pagescrape.ParseMode(fl.Field().String())
	return err == nil
}

// mode returns the parsed fetch mode. An invalid value is passed through so
// that Scrape reports pagescrape.ErrUnknownMode.
func (c *Config) mode() pagescrape.Mode {
	m, err := pagescrape.ParseMode(c.Mode)
	if err != nil {
		return pagescrape.Mode(c.Mode)
	}
	return m
}

// ScraperOptions translates the configuration into library options.
func (c *Config) ScraperOptions(log *zap.Logger) []pagescrape.Option {
	opts := []pagescrape.Option{
		pagescrape.WithMode(c.mode()),
		pagescrape.WithTimeout(c.Timeout),
		pagescrape.WithNavigationTimeout(c.NavTimeout),
		pagescrape.WithSettleDelay(c.Settle),
		pagescrape.WithUserAgent(c.UserAgent),
		pagescrape.WithTabSelectors(c.Tabs.selectors()),
		pagescrape.WithLogger(log),
	}
	opts = append(opts, c.BrowserOptions()...)
	if len(c.DownloadExtensions) > 0 {
		opts = append(opts, pagescrape.WithDownloadExtensions(c.DownloadExtensions...))
	}
	for _, p := range c.Profiles {
		opts = append(opts, pagescrape.WithTabProfile(p.Host, p.selectors()))
	}
	return opts
}

// BrowserOptions returns only the Chrome launch options, for the PDF converter.
func (c *Config) BrowserOptions() []pagescrape.Option {
	var opts []pagescrape.Option
	if c.Browser.ChromePath != "" {
		opts = append(opts, pagescrape.WithChromePath(c.Browser.ChromePath))
	}
	if c.Browser.NoSandbox {
		opts = append(opts, pagescrape.WithNoSandbox())
	}
	if c.Browser.AutoDownload {
		opts = append(opts, pagescrape.WithAutoDownload())
	}
	return append(opts, pagescrape.WithNavigationTimeout(c.NavTimeout))
}

func (t TabConfig) selectors() pagescrape.TabSelectors {
	return pagescrape.TabSelectors{Tab: t.Tab, Panel: t.Panel, Wait: t.Wait}
}

// InitLogger builds the process logger and installs it as zap's global.
func InitLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}
