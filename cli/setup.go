package cli

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"time"

	"github.com/morden35/spatula"
	"github.com/morden35/spatula/fetch"
	"github.com/morden35/spatula/internal/config"
	"github.com/morden35/spatula/internal/log"
	"github.com/spf13/cobra"
)

// loadConfig assembles the harness configuration: defaults, then the
// config file (when found), then command-line flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""

	cfg := config.Default()
	if found := config.FindConfigFile(configPath); found != "" {
		loaded, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if explicit {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
	if cmd.Flags().Changed("user-agent") {
		cfg.UserAgent, _ = cmd.Flags().GetString("user-agent")
	}
	if cmd.Flags().Changed("retries") {
		cfg.Retries, _ = cmd.Flags().GetInt("retries")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache, _ = cmd.Flags().GetBool("cache")
	}
	if cmd.Flags().Changed("cache-dir") {
		cfg.CacheDir, _ = cmd.Flags().GetString("cache-dir")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// addClientFlags registers the fetch client flags shared by the test
// and scrape commands.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("user-agent", "", "User-Agent header to send with requests")
	cmd.Flags().Int("retries", config.DefaultRetries, "Retry attempts after a failed request")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each request")
	cmd.Flags().Bool("cache", false, "Cache responses on disk between runs")
	cmd.Flags().String("cache-dir", "", "Response cache directory (default: per-user cache dir)")
	cmd.Flags().StringP("source", "s", "", "Override the page's source with this URL")
}

// setupLogging installs the masking logger as the process default.
func setupLogging(cfg *config.Config) {
	slog.SetDefault(log.NewLogger(os.Stderr, cfg.Verbose))
}

// buildClient constructs the fetch client from the configuration. The
// returned cleanup closes the response cache, when one is open.
func buildClient(cfg *config.Config) (*fetch.Client, func(), error) {
	opts := []fetch.Option{
		fetch.WithRetries(cfg.Retries),
		fetch.WithTimeout(cfg.Timeout),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(cfg.UserAgent))
	}

	cleanup := func() {}
	if cfg.Cache {
		cache, err := fetch.OpenCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("open response cache: %w", err)
		}
		opts = append(opts, fetch.WithCache(cache))
		cleanup = func() { _ = cache.Close() }
	}

	return fetch.New(opts...), cleanup, nil
}

// buildPage looks up a registered page, applies its example
// declarations, and applies the --source override when given.
func buildPage(cmd *cobra.Command, name string) (*spatula.Page, func() *spatula.Page, error) {
	factory, ok := spatula.Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("unknown page %q (registered: %v)", name, spatula.Names())
	}

	override, _ := cmd.Flags().GetString("source")
	build := func() *spatula.Page {
		page := factory()
		page.ApplyExample()
		if override != "" {
			page.SetSource(spatula.Literal(override))
		}
		return page
	}
	return build(), build, nil
}

// materialize drains a page's extraction result into a slice. Scalar
// results become a single-item slice; list results are consumed fully.
func materialize(result any) ([]any, error) {
	seq, ok := result.(iter.Seq2[any, error])
	if !ok {
		return []any{result}, nil
	}
	var items []any
	for item, err := range seq {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

// checkFormatFlags rejects conflicting output format flags.
func checkFormatFlags(cmd *cobra.Command) error {
	jsonFlag, _ := cmd.Flags().GetBool("json")
	markdownFlag, _ := cmd.Flags().GetBool("markdown")
	if jsonFlag && markdownFlag {
		return errConflictingFormats
	}
	return nil
}

// errConflictingFormats is returned when both output formats are
// requested at once.
var errConflictingFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

// sourceString renders a page's resolved source for reports.
func sourceString(page *spatula.Page) string {
	src := page.Source()
	if src == nil {
		return ""
	}
	return fmt.Sprintf("%v", src)
}

// now is stubbed in tests.
var now = time.Now
