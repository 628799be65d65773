package main

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nao1215/urlcrawler/internal/config"
)

func runInit(t *testing.T, args ...string) error {
	t.Helper()

	cmd := NewInitCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// TestRunInitCmd tests the init command execution.
func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("default output is .urlcrawler", func(t *testing.T) {
		t.Parallel()

		flag := NewInitCmd().Flags().Lookup("output")
		if flag == nil || flag.DefValue != config.DefaultConfigFile {
			t.Fatalf("expected output flag defaulting to %s", config.DefaultConfigFile)
		}
	})

	t.Run("creates a loadable config file", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), ".urlcrawler")
		if err := runInit(t, "-o", outputPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cf, err := config.LoadConfigFile(outputPath)
		if err != nil {
			t.Fatalf("expected the template to parse, got %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected Sites map")
		}
	})

	t.Run("fails if file exists without force", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), ".urlcrawler")
		if err := os.WriteFile(outputPath, []byte("existing"), 0600); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		err := runInit(t, "-o", outputPath)
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("expected 'already exists' error, got %v", err)
		}
	})

	t.Run("overwrites file with force flag", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), ".urlcrawler")
		if err := os.WriteFile(outputPath, []byte("existing"), 0600); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		if err := runInit(t, "-o", outputPath, "-f"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(content) == "existing" {
			t.Error("expected file to be overwritten")
		}
	})

	t.Run("creates parent directories with 0600 permissions", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), "subdir", "nested", ".urlcrawler")
		if err := runInit(t, "-o", outputPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		info, err := os.Stat(outputPath)
		if err != nil {
			t.Fatalf("expected config file in nested directory: %v", err)
		}
		if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
			t.Errorf("expected permissions 0600, got %o", info.Mode().Perm())
		}
	})
}

// TestConfigTemplate tests the embedded config template.
func TestConfigTemplate(t *testing.T) {
	t.Parallel()

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		t.Fatalf("failed to read template: %v", err)
	}

	for _, want := range []string{"defaults:", "sites:", "workers", "delay", "userAgent", "#"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("expected template to contain %q", want)
		}
	}
}
