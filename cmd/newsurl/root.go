package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for newsurl.
// Running it without a subcommand performs a scrape.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsurl",
		Short: "Collect keyword-matching news links into markdown files",
		Long: `newsurl reads the listing pages of configured news sites, keeps the
articles whose title mentions a keyword and writes one markdown
file per site:

  # <site title>

  - [headline](https://...)

Without a subcommand it behaves like 'newsurl scrape' for every enabled site.`,
		Version:       currentBuild().Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrapeCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	addScrapeFlags(cmd)

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewSitesCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
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
