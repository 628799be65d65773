package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlcrawler/internal/config"
	"github.com/nao1215/urlcrawler/internal/database"
	"github.com/nao1215/urlcrawler/internal/report"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print an archived crawl",
		Long: `Show prints an archived crawl with the same report writers as 'crawl --print'.

Examples:
  # Text report of crawl 3
  urlcrawler show 3

  # JSON report written to a file
  urlcrawler show 3 -f json -o crawl-3.json`,
		Args: cobra.ExactArgs(1),
		RunE: runShowCmd,
	}

	cmd.Flags().StringP("format", "f", config.DefaultFormat, "Report format: text, json or markdown")
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the archive database")

	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid crawl id %q: must be a positive integer", args[0])
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	meta, snapshot, err := db.LoadCrawl(cmd.Context(), id)
	if err != nil {
		return err
	}

	return writeReport(format, output, cmd.OutOrStdout(), &report.Result{
		ID:         meta.ID,
		Seed:       meta.Seed,
		StartedAt:  meta.StartedAt,
		FinishedAt: meta.FinishedAt,
		Workers:    meta.Workers,
		Delay:      meta.Delay,
		Snapshot:   snapshot,
	})
}
