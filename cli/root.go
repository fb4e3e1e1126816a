// Package cli provides the development harness for page definitions:
// a cobra command tree that looks pages up in the registry, runs their
// lifecycle against example or overridden sources, and renders the
// extracted items.
//
// A scraper project embeds it from its own main:
//
//	func main() {
//		spatula.Register("PersonList", pages.NewPersonList)
//		cli.Execute()
//	}
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the spatula harness.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spatula",
		Short: "Development harness for spatula page definitions",
		Long: `spatula runs page definitions registered by the embedding program.

The test command runs one page in isolation using its example input and
source, printing extracted items as they stream. The scrape command
follows pagination and writes a full report.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .spatula.yaml in current or home directory)")

	// Add subcommands
	cmd.AddCommand(NewTestCmd())
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
