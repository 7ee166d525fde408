package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewSitesCmd creates the sites command.
func NewSitesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "List the known sites and whether they are enabled",
		Long: `Sites lists every site defined by the built-in defaults and the
configuration file, with its adapter kind and listing URL.

Enabled sites are scraped in the order of the 'adapters' option.

Examples:
  # List sites from the default configuration
  newsurl sites

  # List sites defined in a specific file
  newsurl sites -c myconfig.yaml`,
		Args: cobra.NoArgs,
		RunE: runSitesCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .newsurl in current or home directory)")

	return cmd
}

// runSitesCmd executes the sites command.
func runSitesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tENABLED\tTITLE\tURL")
	for _, id := range cfg.SiteIDs() {
		site := cfg.Sites[id]
		enabled := "no"
		if cfg.IsEnabled(id) {
			enabled = "yes"
		}
		title := site.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", id, site.Kind, enabled, title, site.URL)
	}
	return tw.Flush()
}
