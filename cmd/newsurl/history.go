package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hkfire/newsurl/internal/database"
)

// NewHistoryCmd creates the history command.
// It reads the runs and seen URLs recorded by earlier scrapes.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [site]",
		Short: "Show recorded scrape runs",
		Long: `History lists the runs recorded in the database, newest first.

Every scrape records one row per site with its status and counters, and
remembers the URLs it wrote so that '--dedup registry' can skip them later.

Examples:
  # Show the latest runs of every site
  newsurl history

  # Show the last 5 runs of one site
  newsurl history inmedia -n 5

  # List the sites that have recorded runs
  newsurl history --sites

  # Forget the URLs written for a site so they are written again
  newsurl history --forget inmedia`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .newsurl in current or home directory)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolP("sites", "s", false,
		"List the sites that have recorded runs")
	cmd.Flags().Bool("forget", false,
		"Delete the seen URLs recorded for the given site")
	cmd.Flags().BoolP("json", "j", false,
		"Output runs in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	listSites, err := flags.GetBool("sites")
	if err != nil {
		return err
	}
	forget, err := flags.GetBool("forget")
	if err != nil {
		return err
	}
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var site string
	if len(args) > 0 {
		site = strings.ToLower(strings.TrimSpace(args[0]))
	}
	if forget && site == "" {
		return errors.New("--forget requires a site id")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBDir, database.ReadOnlyOptions())
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No history recorded yet.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case listSites:
		return listRecordedSites(ctx, out, db)
	case forget:
		return forgetSite(ctx, out, db, site)
	default:
		return listRunHistory(ctx, out, db, site, limit, jsonOutput)
	}
}

// listRecordedSites prints the sites that have recorded runs.
func listRecordedSites(ctx context.Context, out io.Writer, db *database.NewsDB) error {
	sites, err := db.ListSites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}
	if len(sites) == 0 {
		fmt.Fprintln(out, "No history recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SITE\tSEEN URLS")
	for _, site := range sites {
		n, err := db.SeenCount(ctx, site)
		if err != nil {
			return fmt.Errorf("failed to count seen urls: %w", err)
		}
		fmt.Fprintf(tw, "%s\t%d\n", site, n)
	}
	return tw.Flush()
}

// forgetSite deletes the seen URLs of one site.
func forgetSite(ctx context.Context, out io.Writer, db *database.NewsDB, site string) error {
	n, err := db.ForgetSite(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to forget %s: %w", site, err)
	}
	fmt.Fprintf(out, "Forgot %d seen URLs for %s\n", n, site)
	return nil
}

// listRunHistory prints the recorded runs, newest first.
func listRunHistory(ctx context.Context, out io.Writer, db *database.NewsDB, site string, limit int, jsonOutput bool) error {
	runs, err := db.ListRuns(ctx, site, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if jsonOutput {
		if runs == nil {
			runs = []database.RunRecord{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		if site != "" {
			fmt.Fprintf(out, "No runs recorded for %s.\n", site)
		} else {
			fmt.Fprintln(out, "No runs recorded.")
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSITE\tSTATUS\tCANDIDATES\tMATCHED\tWRITTEN\tSKIPPED\tERROR")
	for _, r := range runs {
		errText := r.Error
		if errText == "" {
			errText = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Site,
			r.Status,
			r.Candidates,
			r.Matched,
			r.Written,
			r.Skipped,
			errText,
		)
	}
	return tw.Flush()
}
