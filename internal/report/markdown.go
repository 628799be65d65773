package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/urlcrawler/internal/crawler"
)

// maxURLWidth keeps table cells readable.
const maxURLWidth = 80

// MarkdownWriter outputs reports in GitHub Flavored Markdown, built with
// nao1215/markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *Result) (int, error) {
	md := markdown.NewMarkdown(w.output)
	st := result.Snapshot.Stats()

	w.writeHeader(md, result)
	w.writeSummary(md, st)
	w.writePages(md, result.Snapshot)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *Result) {
	md.H1("Crawl Report")
	md.PlainText("")

	rows := [][]string{{"Seed", "`" + result.Seed + "`"}}
	if result.ID != 0 {
		rows = append(rows, []string{"Crawl ID", strconv.FormatInt(result.ID, 10)})
	}
	if !result.StartedAt.IsZero() {
		rows = append(rows,
			[]string{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			[]string{"Duration", result.Duration().Round(time.Millisecond).String()},
		)
	}
	if result.Workers > 0 {
		rows = append(rows,
			[]string{"Workers", strconv.Itoa(result.Workers)},
			[]string{"Delay", result.Delay.String()},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, st crawler.SnapshotStats) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Records", strconv.Itoa(st.Records)},
			{"Visited", strconv.Itoa(st.Visited)},
			{"Discovered only", strconv.Itoa(st.DiscoveredOnly)},
			{"Discovery edges", strconv.Itoa(st.Discoveries)},
		},
	})
	md.PlainText("")

	if st.Records > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("URL States"),
			piechart.WithShowData(true),
		)
		if st.Visited > 0 {
			chart.LabelAndIntValue("Visited", uint64(st.Visited))
		}
		if st.DiscoveredOnly > 0 {
			chart.LabelAndIntValue("Discovered only", uint64(st.DiscoveredOnly))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case st.Records == 0:
		md.Caution("Nothing was recorded. The seed could not be parsed or the crawl was aborted.")
	case st.Visited == 0:
		md.Warning("No page was fetched successfully. Check the seed URL and network access.")
	default:
		md.Tip("Crawl finished.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, snapshot crawler.Snapshot) {
	md.H2("URLs")
	md.PlainText("")

	if len(snapshot) == 0 {
		md.PlainText("No URLs recorded.")
		md.PlainText("")
		return
	}

	keys := snapshot.Keys()
	rows := make([][]string, len(keys))
	for i, key := range keys {
		record := snapshot[key]
		rows[i] = []string{
			truncateString(key, maxURLWidth),
			stateLabel(record),
			strconv.Itoa(len(record.Discovered)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "State", "Discovered"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, key := range keys {
		record := snapshot[key]
		if len(record.Discovered) == 0 {
			continue
		}
		md.Details(key, strings.Join(record.Discovered, "\n"))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [urlcrawler](https://github.com/nao1215/urlcrawler)*")
}

// truncateString truncates s to maxLen bytes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
