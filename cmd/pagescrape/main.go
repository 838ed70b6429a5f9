// Command pagescrape fetches a web page and reports its metadata, headings,
// links, downloadable files and tab content as a PDF or as plain text.
//
// Usage:
//
//	pagescrape run <URL> -o report.pdf
//	pagescrape print <URL>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/porticus-lab/go-page-scrape/internal/config"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "pagescrape",
		Short: "Scrape a web page into a PDF report or the console",
		Long: `pagescrape fetches one web page, statically or in headless Chrome, and
extracts its title, description, headings with their text, links, document
downloads and tab content.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.Load(a.configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = c

			l, err := config.InitLogger(c.Log)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.log = l
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file (default: ./"+config.DefaultFile+" if present)")
	pf.String("mode", "auto", "Fetch mode: static, dynamic or auto")
	pf.Duration("timeout", 0, "Static request timeout (default 10s)")
	pf.Duration("nav-timeout", 0, "Browser navigation timeout (default 30s)")
	pf.Duration("settle", 0, "Time given to page scripts after load (default 3s)")
	pf.String("user-agent", "", "User-Agent for static requests")
	pf.String("chrome-path", "", "Chrome/Chromium executable")
	pf.Bool("no-sandbox", false, "Disable the Chrome sandbox (needed as root)")
	pf.Bool("auto-download", false, "Download Chromium if none is installed")
	pf.String("tab-selector", "", `CSS selector for tab controls (default [role="tab"])`)
	pf.String("panel-selector", "", `CSS selector for the visible tab panel (default [role="tabpanel"]:not([hidden]))`)
	pf.Duration("tab-wait", 0, "Pause after activating a tab (default 1s)")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	pf.String("log-format", "console", "Log format: console or json")

	root.AddCommand(newRunCmd(a), newPrintCmd(a))
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
