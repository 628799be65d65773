package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/urlcrawler/internal/crawler"
)

const ruleWidth = 70

// TextWriter outputs human-readable text reports.
// Plain ASCII formatting is used so the output pipes cleanly into files.
type TextWriter struct {
	baseWriter

	// summaryOnly omits the per-URL listing.
	summaryOnly bool

	title cases.Caser
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithSummaryOnly limits the report to the header and counts.
func WithSummaryOnly(summaryOnly bool) TextWriterOption {
	return func(w *TextWriter) {
		w.summaryOnly = summaryOnly
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		title:      cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the result in human-readable format.
func (w *TextWriter) Write(result *Result) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeSummary(&sb, result.Snapshot.Stats())
	if !w.summaryOnly {
		w.writeRecords(&sb, result.Snapshot)
	}

	return io.WriteString(w.output, sb.String())
}

func (w *TextWriter) writeHeader(sb *strings.Builder, result *Result) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                         URLCRAWLER REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	if result.ID != 0 {
		fmt.Fprintf(sb, "Crawl ID:  %d\n", result.ID)
	}
	fmt.Fprintf(sb, "Seed:      %s\n", result.Seed)
	if !result.StartedAt.IsZero() {
		fmt.Fprintf(sb, "Started:   %s\n", result.StartedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(sb, "Duration:  %s\n", result.Duration().Round(time.Millisecond))
	}
	if result.Workers > 0 {
		fmt.Fprintf(sb, "Workers:   %d\n", result.Workers)
		fmt.Fprintf(sb, "Delay:     %s\n", result.Delay)
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeSummary(sb *strings.Builder, st crawler.SnapshotStats) {
	fmt.Fprintf(sb, "Records:          %d\n", st.Records)
	fmt.Fprintf(sb, "Visited:          %d\n", st.Visited)
	fmt.Fprintf(sb, "Discovered only:  %d\n", st.DiscoveredOnly)
	fmt.Fprintf(sb, "Discovery edges:  %d\n", st.Discoveries)
}

func (w *TextWriter) writeRecords(sb *strings.Builder, snapshot crawler.Snapshot) {
	if len(snapshot) == 0 {
		sb.WriteString("\nNo URLs recorded.\n")
		return
	}

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	for _, key := range snapshot.Keys() {
		record := snapshot[key]
		fmt.Fprintf(sb, "[%s] %s\n", w.title.String(stateLabel(record)), key)
		for _, target := range record.Discovered {
			fmt.Fprintf(sb, "    -> %s\n", target)
		}
	}
}

// stateLabel names the record state in lower case.
func stateLabel(record crawler.Record) string {
	if record.Visited {
		return "visited"
	}
	return "discovered"
}
