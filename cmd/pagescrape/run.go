package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pagescrape "github.com/porticus-lab/go-page-scrape"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		paper     string
		landscape bool
	)

	cmd := &cobra.Command{
		Use:   "run <URL>",
		Short: "Scrape a page and write a PDF report",
		Example: `  pagescrape run https://example.com -o example.pdf
  pagescrape run https://example.com/contact --mode dynamic --no-sandbox`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := paperSize(paper)
			if err != nil {
				return err
			}
			pg := &pagescrape.PageConfig{Size: size}
			if landscape {
				pg.Orientation = pagescrape.Landscape
			}

			ctx := cmd.Context()
			res, err := pagescrape.New(a.cfg.ScraperOptions(a.log)...).Scrape(ctx, args[0])
			if err != nil {
				return err
			}

			out := a.cfg.Output
			opts := append(a.cfg.BrowserOptions(), pagescrape.WithLogger(a.log))
			if err := pagescrape.WritePDF(ctx, res, out, pg, opts...); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "PDF generated successfully: %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "output.pdf", "Output PDF file")
	cmd.Flags().StringVar(&paper, "paper", "a4", "Paper size: a4, letter or legal")
	cmd.Flags().BoolVar(&landscape, "landscape", false, "Landscape orientation")
	return cmd
}

func paperSize(name string) (pagescrape.PageSize, error) {
	switch strings.ToLower(name) {
	case "a4", "":
		return pagescrape.A4, nil
	case "letter":
		return pagescrape.Letter, nil
	case "legal":
		return pagescrape.Legal, nil
	default:
		return pagescrape.PageSize{}, fmt.Errorf("unknown paper size %q", name)
	}
}
