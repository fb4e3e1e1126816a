package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewTestCmd creates the test command.
func NewTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [page]",
		Short: "Run one page in isolation and print its items",
		Long: `Test runs a single registered page through its full lifecycle —
dependency resolution, fetch, post-processing — and prints each
extracted item as a JSON line.

The page's example input and example source are used unless the page
already declares a source or --source overrides it.

Examples:
  # Run a registered page with its example declarations
  spatula test PersonList

  # Point the page at a different location during development
  spatula test PersonList --source https://example.com/people?page=2

  # Cache responses so repeated runs skip the network
  spatula test PersonList --cache`,
		Args: cobra.ExactArgs(1),
		RunE: runTestCmd,
	}

	addClientFlags(cmd)
	return cmd
}

// runTestCmd executes the test command.
func runTestCmd(cmd *cobra.Command, args []string) error {
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

	page, _, err := buildPage(cmd, args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := page.Prepare(ctx, client); err != nil {
		return fmt.Errorf("prepare %s: %w", page, err)
	}

	result, err := page.Extract()
	if err != nil {
		return fmt.Errorf("extract %s: %w", page, err)
	}
	items, err := materialize(result)
	if err != nil {
		return fmt.Errorf("extract %s: %w", page, err)
	}

	out := cmd.OutOrStdout()
	for i, item := range items {
		line, err := json.Marshal(item)
		if err != nil {
			fmt.Fprintf(out, "%d: %v\n", i+1, item)
			continue
		}
		fmt.Fprintf(out, "%d: %s\n", i+1, line)
	}
	fmt.Fprintf(out, "%s: %d items\n", page.Name(), len(items))
	return nil
}
