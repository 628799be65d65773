package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlcrawler/internal/config"
	"github.com/nao1215/urlcrawler/internal/crawler"
	"github.com/nao1215/urlcrawler/internal/database"
	"github.com/nao1215/urlcrawler/internal/fetch"
	"github.com/nao1215/urlcrawler/internal/log"
	"github.com/nao1215/urlcrawler/internal/report"
)

// msgDone is logged once the worker pool has finished.
const msgDone = "Done!"

// errSeedConflict is returned when the positional seed and --url disagree.
var errSeedConflict = errors.New("seed given both as argument and --url with different values")

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl a site starting from a seed URL",
		Long: `Crawl fetches the seed URL and every same-host page reachable from it.

Only links whose host (port included) matches the seed's host are followed.
Links to other hosts are recorded as discoveries but never fetched. Each worker
waits the politeness delay before taking the next URL from the queue.

Progress is logged to stderr ("Visited URL", "Found URL", "Worker completed",
"Done!"). Use --print for a report on stdout and --save to archive the result.

Examples:
  # Crawl with the defaults (1 worker, 2 second delay)
  urlcrawler crawl https://example.com

  # Four workers without delay, print a Markdown report
  urlcrawler crawl -w 4 -d 0 -p -f markdown https://example.com

  # Save the result for later inspection with 'urlcrawler history'
  urlcrawler crawl --save --url https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("url", "u", "",
		"Seed URL (alternative to the positional argument)")

	// Pool flags
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent workers")
	cmd.Flags().Float64P("delay", "d", config.DefaultDelay.Seconds(),
		"Politeness delay in seconds before each dequeue (0 disables it)")

	// Request flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page request")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header")
	cmd.Flags().StringToStringP("header", "H", nil,
		"Extra request header as Name=Value (repeatable)")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum number of body bytes read per page")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (host:port)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .urlcrawler in current or home directory)")

	// Output flags
	cmd.Flags().BoolP("print", "p", false,
		"Print the crawl report after the crawl")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: text, json or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to this file instead of stdout (implies --print)")
	cmd.Flags().Bool("save", false,
		"Archive the result in the SQLite database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the archive database")

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Seed == "" {
		return fmt.Errorf("configuration error: %w", config.ErrNoSeed)
	}

	origin, err := crawler.ParseOrigin(cfg.Seed)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFile(origin.Host, cmd.Flags().Changed); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), log.Level(cfg.Verbose, cfg.Quiet))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout())
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	urlFlag, err := flags.GetString("url")
	if err != nil {
		return nil, err
	}
	switch {
	case len(args) > 0 && urlFlag != "" && args[0] != urlFlag:
		return nil, errSeedConflict
	case len(args) > 0:
		cfg.Seed = args[0]
	default:
		cfg.Seed = urlFlag
	}

	if cfg.Workers, err = flags.GetInt("workers"); err != nil {
		return nil, err
	}
	delay, err := flags.GetFloat64("delay")
	if err != nil {
		return nil, err
	}
	cfg.Delay = time.Duration(delay * float64(time.Second))

	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	headers, err := flags.GetStringToString("header")
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		cfg.Headers[k] = v
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	if cfg.Print, err = flags.GetBool("print"); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cfg.OutputFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.OutputFile != "" {
		cfg.Print = true
	}
	if cfg.Save, err = flags.GetBool("save"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	cfg.Verbose, cfg.Quiet = verbosity(cmd)
	return cfg, nil
}

// verbosity reads the persistent --verbose and --quiet flags.
func verbosity(cmd *cobra.Command) (verbose, quiet bool) {
	verbose, _ = cmd.Flags().GetBool("verbose") //nolint:errcheck // absent flag means false
	quiet, _ = cmd.Flags().GetBool("quiet")     //nolint:errcheck // absent flag means false
	return verbose, quiet
}

// runCrawl runs the pool, then archives and prints the result as configured.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	factory, err := fetch.NewFactory(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithHeaders(cfg.Headers),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithProxy(cfg.ProxyAddress),
	)
	if err != nil {
		return err
	}

	started := time.Now()
	store, err := crawler.Run(ctx, cfg.Seed, cfg.Workers, cfg.Delay,
		crawler.WithHTTPFetcherFactory(factory),
		crawler.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	logger.Info(msgDone)

	result := &report.Result{
		Seed:       cfg.Seed,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Workers:    cfg.Workers,
		Delay:      cfg.Delay,
		Snapshot:   store.Snapshot(),
	}

	if cfg.Save {
		// An interrupted crawl is still archived.
		id, err := saveResult(context.WithoutCancel(ctx), cfg.DBDir, result)
		if err != nil {
			return err
		}
		result.ID = id
		logger.Info("crawl archived", "id", id, "dir", cfg.DBDir)
	}

	if cfg.Print {
		return writeReport(cfg.Format, cfg.OutputFile, stdout, result)
	}
	return nil
}

func saveResult(ctx context.Context, dbDir string, result *report.Result) (int64, error) {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveCrawl(ctx, database.CrawlMeta{
		Seed:       result.Seed,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Workers:    result.Workers,
		Delay:      result.Delay,
	}, result.Snapshot)
	if err != nil {
		return 0, fmt.Errorf("failed to save crawl: %w", err)
	}
	return id, nil
}
