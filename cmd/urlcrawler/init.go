package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlcrawler/internal/config"
)

//go:embed templates/urlcrawler.yaml
var configTemplate embed.FS

const templatePath = "templates/urlcrawler.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a urlcrawler configuration file",
		Long: `Init writes a commented .urlcrawler configuration file.

The generated file documents the defaults block and per-host site blocks:
workers, delay, timeout, user agent, proxy, cookie and extra headers.
Values set on the command line always win over the file.

Examples:
  # Create .urlcrawler in current directory
  urlcrawler init

  # Create config file at a specific path
  urlcrawler init -o crawl.yaml

  # Force overwrite existing file
  urlcrawler init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure per-host settings such as:")
	fmt.Fprintln(out, "  - Worker count and politeness delay")
	fmt.Fprintln(out, "  - Authentication cookies and headers")
	fmt.Fprintln(out, "  - SOCKS5 proxy")

	return nil
}
