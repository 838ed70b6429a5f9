package main

import (
	"encoding/json"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	pagescrape "github.com/porticus-lab/go-page-scrape"
)

func newPrintCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "print <URL>",
		Short: "Scrape a page and print the result",
		Example: `  pagescrape print https://example.com
  pagescrape print https://example.com --mode static --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
			s.Suffix = " fetching " + args[0]
			s.Start()
			res, err := pagescrape.New(a.cfg.ScraperOptions(a.log)...).Scrape(cmd.Context(), args[0])
			s.Stop()
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return pagescrape.WriteText(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
