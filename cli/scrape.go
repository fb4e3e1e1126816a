package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/morden35/spatula"
	"github.com/morden35/spatula/report"
	"github.com/spf13/cobra"
)

// defaultMaxScrapePages bounds pagination so a broken NextSource hook
// cannot loop forever.
const defaultMaxScrapePages = 100

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [page]",
		Short: "Run a page, follow its pagination, and write a report",
		Long: `Scrape runs a registered page through its lifecycle, collects every
extracted item, and keeps following the page's next-source hook until
it reports no further page. Pages are fetched strictly one at a time.

Examples:
  # Scrape a paginated listing into a JSON report on stdout
  spatula scrape PersonList

  # Write a Markdown report to a file
  spatula scrape PersonList --markdown -o people.md`,
		Args: cobra.ExactArgs(1),
		RunE: runScrapeCmd,
	}

	addClientFlags(cmd)
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (default; mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Int("max-pages", defaultMaxScrapePages,
		"Maximum number of pages to follow through pagination")
	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	if err := checkFormatFlags(cmd); err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	client, cleanup, err := buildClient(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	page, rebuild, err := buildPage(cmd, args[0])
	if err != nil {
		return err
	}
	maxPages, _ := cmd.Flags().GetInt("max-pages")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result := &report.Result{Page: page.Name()}
	fromCache := true
	for fetched := 0; ; fetched++ {
		if maxPages > 0 && fetched >= maxPages {
			break
		}
		if err := page.Prepare(ctx, client); err != nil {
			return fmt.Errorf("prepare %s: %w", page, err)
		}
		if result.Source == "" {
			result.Source = sourceString(page)
		}
		if resp := page.Response(); resp == nil || !resp.FromCache {
			fromCache = false
		}

		extracted, err := page.Extract()
		if err != nil {
			return fmt.Errorf("extract %s: %w", page, err)
		}
		items, err := materialize(extracted)
		if err != nil {
			return fmt.Errorf("extract %s: %w", page, err)
		}
		result.Items = append(result.Items, items...)

		next := page.NextSource()
		if next == nil {
			break
		}
		page = rebuild()
		page.SetSource(next)
	}
	result.FromCache = fromCache
	result.ScrapedAt = now()

	return writeReport(cmd, result)
}

// writeReport renders the result to the requested destination in the
// requested format.
func writeReport(cmd *cobra.Command, result *report.Result) error {
	var out io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w report.Writer
	if markdownFlag, _ := cmd.Flags().GetBool("markdown"); markdownFlag {
		w = report.NewMarkdownWriter(out)
	} else {
		w = report.NewJSONWriter(out)
	}
	_, err := w.Write(result)
	return err
}

// NewListCmd creates the list command, which prints the registered
// page names.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := spatula.Names()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pages registered")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
