package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlcrawler/internal/config"
	"github.com/nao1215/urlcrawler/internal/database"
)

// digestWidth is how many digest characters history prints.
const digestWidth = 12

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived crawls",
		Long: `History lists the crawls saved with 'urlcrawler crawl --save', newest first.

Crawls with the same digest produced identical results.

Examples:
  # List every archived crawl
  urlcrawler history

  # Only crawls of one seed
  urlcrawler history --seed https://example.com`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("seed", "s", "", "Only list crawls started from this seed URL")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the archive database")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	seed, err := cmd.Flags().GetString("seed")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return listHistory(cmd.Context(), db, seed, cmd.OutOrStdout())
}

func listHistory(ctx context.Context, db *database.ArchiveDB, seed string, out io.Writer) error {
	crawls, err := db.ListCrawls(ctx, seed)
	if err != nil {
		return err
	}

	if len(crawls) == 0 {
		if seed != "" {
			fmt.Fprintf(out, "No archived crawls found for %s\n", seed)
		} else {
			fmt.Fprintln(out, "No archived crawls found")
		}
		fmt.Fprintln(out, "\nUse 'urlcrawler crawl --save <url>' to archive a crawl.")
		return nil
	}

	fmt.Fprintf(out, "Archived crawls (%d):\n\n", len(crawls))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %-8s  %-12s  %s\n", "ID", "Date", "Visited", "Records", "Digest", "Seed")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 80))

	for _, meta := range crawls {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8d  %-8d  %-12s  %s\n",
			meta.ID,
			meta.StartedAt.Local().Format("2006-01-02 15:04:05"),
			meta.Visited,
			meta.Records,
			shortDigest(meta.Digest),
			meta.Seed,
		)
	}

	fmt.Fprintln(out, "\nUse 'urlcrawler show <id>' to print a crawl.")
	return nil
}

func shortDigest(digest string) string {
	if len(digest) > digestWidth {
		return digest[:digestWidth]
	}
	return digest
}
