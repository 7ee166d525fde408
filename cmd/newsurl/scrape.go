package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hkfire/newsurl/internal/adapter"
	"github.com/hkfire/newsurl/internal/config"
	"github.com/hkfire/newsurl/internal/database"
	"github.com/hkfire/newsurl/internal/filter"
	"github.com/hkfire/newsurl/internal/httpclient"
	newslog "github.com/hkfire/newsurl/internal/log"
	"github.com/hkfire/newsurl/internal/pipeline"
	"github.com/hkfire/newsurl/internal/report"
)

// Summary output formats.
const (
	formatText = "text"
	formatJSON = "json"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [site...]",
		Short: "Fetch listings and write keyword-matching links",
		Long: `Scrape fetches the listing of every enabled site, keeps the articles
whose title contains at least one keyword (teasers too with
--match-summary) and writes <output-dir>/<site>.md.

A site that cannot be fetched is reported and skipped; the command only
fails when every site failed or an output file could not be written.

Examples:
  # Scrape the enabled sites with the default keywords (大埔, 宏福苑)
  newsurl scrape

  # Scrape two sites only
  newsurl scrape inmedia rthk

  # Use other keywords and keep earlier results
  newsurl scrape -k 火警 -k 大埔 --mode append

  # Skip articles already written by an earlier run
  newsurl scrape --dedup registry

  # Print the run summary as JSON
  newsurl scrape --format json

Configuration file (.newsurl) example:
  keywords: [大埔, 宏福苑]
  adapters: [inmedia, rthk]
  output_dir: ./output
  sites:
    mysite:
      kind: selector
      url: https://news.example/list?page={page}
      pages: 2
      selectors:
        item: article
        link: h2 a`,
		Args: cobra.ArbitraryArgs,
		RunE: runScrapeCmd,
	}

	addScrapeFlags(cmd)
	return cmd
}

// addScrapeFlags registers the scrape flags on cmd.
func addScrapeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .newsurl in current or home directory)")
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory receiving one markdown file per site")
	cmd.Flags().StringArrayP("keyword", "k", nil,
		"Keyword to match (repeatable, replaces the configured keywords)")
	cmd.Flags().Bool("match-summary", false,
		"Also match keywords against article summaries")
	cmd.Flags().String("mode", config.ModeOverwrite,
		"Output mode: overwrite or append")
	cmd.Flags().String("layout", config.LayoutList,
		"Output layout: list or by-date")
	cmd.Flags().String("dedup", config.DedupNone,
		"Dedup policy: none or registry (skip URLs written by earlier runs, append mode only)")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of sites scraped at once")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Duration("delay", config.DefaultRequestDelay,
		"Minimum delay between two requests")
	cmd.Flags().Bool("no-db", false,
		"Do not record runs and seen URLs in the database")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().String("format", formatText,
		"Run summary format: text or json")
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if format != formatText && format != formatJSON {
		return fmt.Errorf("configuration error: invalid format %q: must be text or json", format)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	// Stop fetching on interrupt; sites already written stay written.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScrape(ctx, cmd.OutOrStdout(), cfg, format, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadConfig returns the defaults overlaid by the configuration file.
// An explicit -c path that does not exist is an error; a missing default
// file is not.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	found := config.FindConfigFile(configPath)
	switch {
	case found != "":
		f, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cfg.ApplyFile(f)
		cfg.ConfigFilePath = found
	case configPath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	if cmd.Flags().Lookup("db-dir") != nil && cmd.Flags().Changed("db-dir") {
		if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// buildConfig creates a Config from the configuration file and the flags
// the user set explicitly. Positional args restrict the run to those sites.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("keyword") {
		keywords, err := flags.GetStringArray("keyword")
		if err != nil {
			return nil, err
		}
		cfg.Keywords = config.CleanList(keywords)
	}
	if flags.Changed("match-summary") {
		if cfg.MatchSummary, err = flags.GetBool("match-summary"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("mode") {
		if cfg.Mode, err = flags.GetString("mode"); err != nil {
			return nil, err
		}
		cfg.Mode = strings.ToLower(cfg.Mode)
	}
	if flags.Changed("layout") {
		if cfg.Layout, err = flags.GetString("layout"); err != nil {
			return nil, err
		}
		cfg.Layout = strings.ToLower(cfg.Layout)
	}
	if flags.Changed("dedup") {
		if cfg.Dedup, err = flags.GetString("dedup"); err != nil {
			return nil, err
		}
		cfg.Dedup = strings.ToLower(cfg.Dedup)
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("delay") {
		if cfg.RequestDelay, err = flags.GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return nil, err
	}
	if noDB {
		cfg.SaveToDB = false
	}

	if len(args) > 0 {
		ids := config.CleanList(args)
		for i := range ids {
			ids[i] = strings.ToLower(ids[i])
		}
		cfg.Adapters = ids
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// Cookies and header values of the configured sites never reach the log.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var secrets []string
	for _, site := range cfg.Sites {
		if site.Cookie != "" {
			secrets = append(secrets, site.Cookie)
		}
		for _, v := range site.Headers {
			secrets = append(secrets, v)
		}
	}
	return newslog.NewLogger(w, cfg.Verbose, newslog.WithSecrets(secrets...))
}

// runScrape executes the scrape and prints the run summary to out.
func runScrape(ctx context.Context, out io.Writer, cfg *config.Config, format string, logger *slog.Logger) error {
	logger.Info("starting scrape",
		"sites", cfg.Adapters,
		"keywords", cfg.Keywords,
		"outputDir", cfg.OutputDir,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.NewsDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	client := httpclient.New(
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithUserAgent(cfg.UserAgent),
		httpclient.WithMaxBodySize(cfg.MaxBodySize),
		httpclient.WithDelay(cfg.RequestDelay),
		httpclient.WithLogger(logger),
	)

	registry, err := adapter.NewRegistryFromConfig(cfg, client, logger)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	adapters, err := registry.Select(cfg.Adapters)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	p := createPipeline(cfg, db, logger)
	summary := p.Run(ctx, adapters)

	if err := writeSummary(out, format, cfg.Verbose, summary); err != nil {
		logger.Error("failed to print summary", "error", err)
	}

	if err := summary.Err(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("scrape interrupted: %w", err)
	}
	return nil
}

// createPipeline assembles the per-site steps for cfg.
// db may be nil when the database is disabled.
func createPipeline(cfg *config.Config, db *database.NewsDB, logger *slog.Logger) *pipeline.Pipeline {
	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithConcurrency(cfg.Concurrency),
	}
	if db != nil {
		opts = append(opts, pipeline.WithRecorder(db))
	}

	p := pipeline.New(opts...)
	p.AddSteps(
		pipeline.NewCollectStep(),
		pipeline.NewFilterStep(filter.NewKeyword(cfg.Keywords, filter.WithSummary(cfg.MatchSummary))),
	)
	if cfg.Dedup == config.DedupRegistry && db != nil {
		p.AddStep(pipeline.NewDedupStep(db))
	}
	p.AddStep(pipeline.NewWriteStep(report.NewFileWriter(cfg.Mode, cfg.Layout), cfg.OutputPath))

	return p
}

// writeSummary prints the run summary in the requested format.
func writeSummary(out io.Writer, format string, verbose bool, summary *pipeline.Summary) error {
	var w report.SummaryWriter
	switch format {
	case formatJSON:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case formatText:
		w = report.NewSimpleWriter(out, report.WithVerbose(verbose))
	default:
		return errors.New("unknown summary format: " + format)
	}
	_, err := w.Write(summary.RunSummary())
	return err
}
