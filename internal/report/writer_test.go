package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/urlcrawler/internal/crawler"
)

// createTestResult mirrors a crawl of a two-page site that links out once.
func createTestResult() *Result {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Result{
		ID:         7,
		Seed:       "http://example.com/",
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Workers:    3,
		Delay:      2 * time.Second,
		Snapshot: crawler.Snapshot{
			"http://example.com/": {
				Visited:    true,
				Discovered: []string{"http://example.com/a", "http://google.com"},
			},
			"http://example.com/a": {
				Visited:    true,
				Discovered: []string{},
			},
			"http://google.com": {
				Visited:    false,
				Discovered: []string{},
			},
		},
	}
}

// TestTextWriter tests the human-readable report writer.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"URLCRAWLER REPORT",
			"Crawl ID:  7",
			"Seed:      http://example.com/",
			"Duration:  1.5s",
			"Workers:   3",
			"Records:          3",
			"Visited:          2",
			"Discovered only:  1",
			"Discovery edges:  2",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("lists records in key order with title-cased states", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		root := strings.Index(output, "[Visited] http://example.com/\n")
		page := strings.Index(output, "[Visited] http://example.com/a\n")
		external := strings.Index(output, "[Discovered] http://google.com\n")
		if root < 0 || page < 0 || external < 0 {
			t.Fatalf("expected all records to be listed, got:\n%s", output)
		}
		if root >= page || page >= external {
			t.Errorf("expected records in lexical order, got:\n%s", output)
		}
		if !strings.Contains(output, "    -> http://google.com\n") {
			t.Errorf("expected discovered targets to be listed, got:\n%s", output)
		}
	})

	t.Run("summary only omits records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf, WithSummaryOnly(true)).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "[Visited]") {
			t.Errorf("expected no record listing, got:\n%s", buf.String())
		}
	})

	t.Run("empty snapshot", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(&Result{Seed: "http://example.com"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No URLs recorded.") {
			t.Errorf("expected empty notice, got:\n%s", buf.String())
		}
		if strings.Contains(buf.String(), "Started:") {
			t.Errorf("expected no timing without a start time, got:\n%s", buf.String())
		}
	})

	t.Run("returns bytes written", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewTextWriter(&buf).Write(createTestResult())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes, got %d", buf.Len(), n)
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc JSONReport
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("expected valid JSON, got error: %v", err)
		}
		if doc.Seed != "http://example.com/" {
			t.Errorf("expected seed, got %q", doc.Seed)
		}
		if doc.DelayMS != 2000 {
			t.Errorf("expected delayMs 2000, got %d", doc.DelayMS)
		}
		if doc.Summary.Visited != 2 || doc.Summary.DiscoveredOnly != 1 {
			t.Errorf("unexpected summary %+v", doc.Summary)
		}
		root := doc.Records["http://example.com/"]
		if !root.Visited || len(root.Discovered) != 2 || root.Discovered[1] != "http://google.com" {
			t.Errorf("unexpected root record %+v", root)
		}
	})

	t.Run("compact output is a single line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("expected one trailing newline, got:\n%s", buf.String())
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"seed\"") {
			t.Errorf("expected indented output, got:\n%s", buf.String())
		}
	})

	t.Run("nil discovered lists become empty arrays", func(t *testing.T) {
		t.Parallel()

		result := &Result{
			Seed:     "http://example.com",
			Snapshot: crawler.Snapshot{"http://example.com": {}},
		}

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"discovered":[]`) {
			t.Errorf("expected empty array, got %s", buf.String())
		}
		if strings.Contains(buf.String(), "startedAt") {
			t.Errorf("expected no timestamps without a start time, got %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Crawl Report",
			"## Summary",
			"## URLs",
			"`http://example.com/`",
			"mermaid",
			"Discovered only",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("warns when nothing was visited", func(t *testing.T) {
		t.Parallel()

		result := &Result{
			Seed:     "http://example.com",
			Snapshot: crawler.Snapshot{"http://example.com": {Discovered: []string{}}},
		}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!WARNING]") {
			t.Errorf("expected a warning alert, got:\n%s", buf.String())
		}
	})

	t.Run("empty snapshot", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(&Result{Seed: "http://example.com"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No URLs recorded.") {
			t.Errorf("expected empty notice, got:\n%s", buf.String())
		}
	})
}

// TestNew tests format selection.
func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{format: "", want: "*report.TextWriter"},
		{format: "text", want: "*report.TextWriter"},
		{format: "json", want: "*report.JSONWriter"},
		{format: "markdown", want: "*report.MarkdownWriter"},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.format, func(t *testing.T) {
			t.Parallel()

			w, err := New(tt.format, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := typeName(w); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		if _, err := New("xml", &bytes.Buffer{}); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})
}

func typeName(w Writer) string {
	switch w.(type) {
	case *TextWriter:
		return "*report.TextWriter"
	case *JSONWriter:
		return "*report.JSONWriter"
	case *MarkdownWriter:
		return "*report.MarkdownWriter"
	default:
		return "unknown"
	}
}

type failingWriter struct{}

func (failingWriter) Write(*Result) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		mw := NewMultiWriter(NewTextWriter(&text), NewJSONWriter(&js))

		n, err := mw.Write(createTestResult())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != text.Len()+js.Len() {
			t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewTextWriter(&after))

		if _, err := mw.Write(createTestResult()); err == nil {
			t.Error("expected error")
		}
		if after.Len() != 0 {
			t.Error("expected later writers to be skipped")
		}
	})
}

// TestResultDuration tests duration edge cases.
func TestResultDuration(t *testing.T) {
	t.Parallel()

	now := time.Now()
	if d := (&Result{StartedAt: now, FinishedAt: now.Add(-time.Second)}).Duration(); d != 0 {
		t.Errorf("expected 0 for inverted bounds, got %v", d)
	}
}

// TestTruncateString tests the truncateString helper.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{input: "short", maxLen: 10, want: "short"},
		{input: "exactly10!", maxLen: 10, want: "exactly10!"},
		{input: "this is too long", maxLen: 10, want: "this is..."},
		{input: "abcdef", maxLen: 3, want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
