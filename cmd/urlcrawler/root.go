package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for urlcrawler.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urlcrawler",
		Short: "Bounded same-origin web crawler",
		Long: `urlcrawler crawls a website from a seed URL.

A fixed pool of workers fetches pages, extracts links and follows the ones
that stay on the seed's scheme and host. Every visited URL and every
discovered link is recorded and can be printed or archived.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewShowCmd())
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
