package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/urlcrawler/internal/report"
)

// writeReport renders result in format to outputFile, or to stdout when
// outputFile is empty. Parent directories are created as needed.
func writeReport(format, outputFile string, stdout io.Writer, result *report.Result) (err error) {
	out := stdout
	if outputFile != "" {
		if dir := filepath.Dir(outputFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, createErr := os.Create(outputFile) //nolint:gosec // User-provided output path is intentional
		if createErr != nil {
			return fmt.Errorf("failed to create report file: %w", createErr)
		}
		defer closeReport(f, &err)
		out = f
	}

	w, err := report.New(format, out)
	if err != nil {
		return err
	}
	if _, err := w.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// closeReport closes c and stores the close error in *err unless an earlier
// error is already there.
func closeReport(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("failed to close report file: %w", cerr)
	}
}
