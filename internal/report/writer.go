package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nao1215/urlcrawler/internal/crawler"
)

// ErrUnknownFormat is returned by New for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Result is a finished crawl as seen by the report writers.
type Result struct {
	// ID is the archive id, or zero when the crawl was not saved.
	ID int64

	// Seed is the URL the crawl started from.
	Seed string

	// StartedAt and FinishedAt bound the crawl.
	StartedAt  time.Time
	FinishedAt time.Time

	// Workers is the pool size.
	Workers int

	// Delay is the politeness delay.
	Delay time.Duration

	// Snapshot is the store contents after the pool finished.
	Snapshot crawler.Snapshot
}

// Duration returns how long the crawl ran.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Writer writes a crawl result in one format.
type Writer interface {
	// Write outputs the result and returns the number of bytes written.
	Write(result *Result) (int, error)
}

// New returns the writer for format ("text", "json" or "markdown").
// An empty format selects text.
func New(format string, output io.Writer) (Writer, error) {
	switch format {
	case "", "text":
		return NewTextWriter(output), nil
	case "json":
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case "markdown":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// MultiWriter writes to multiple Writers, e.g. terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to every writer and stops on the first error.
func (m *MultiWriter) Write(result *Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
