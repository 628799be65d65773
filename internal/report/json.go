package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/urlcrawler/internal/crawler"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	ID         int64                     `json:"id,omitempty"`
	Seed       string                    `json:"seed"`
	StartedAt  *time.Time                `json:"startedAt,omitempty"`
	FinishedAt *time.Time                `json:"finishedAt,omitempty"`
	Workers    int                       `json:"workers,omitempty"`
	DelayMS    int64                     `json:"delayMs"`
	Summary    JSONSummary               `json:"summary"`
	Records    map[string]crawler.Record `json:"records"`
}

// JSONSummary mirrors crawler.SnapshotStats.
type JSONSummary struct {
	Records        int `json:"records"`
	Visited        int `json:"visited"`
	DiscoveredOnly int `json:"discoveredOnly"`
	Discoveries    int `json:"discoveries"`
}

// NewJSONReport converts a result to its JSON document.
func NewJSONReport(result *Result) *JSONReport {
	st := result.Snapshot.Stats()
	doc := &JSONReport{
		ID:      result.ID,
		Seed:    result.Seed,
		Workers: result.Workers,
		DelayMS: result.Delay.Milliseconds(),
		Summary: JSONSummary{
			Records:        st.Records,
			Visited:        st.Visited,
			DiscoveredOnly: st.DiscoveredOnly,
			Discoveries:    st.Discoveries,
		},
		Records: make(map[string]crawler.Record, len(result.Snapshot)),
	}
	if !result.StartedAt.IsZero() {
		started, finished := result.StartedAt, result.FinishedAt
		doc.StartedAt, doc.FinishedAt = &started, &finished
	}
	for k, r := range result.Snapshot {
		if r.Discovered == nil {
			r.Discovered = []string{}
		}
		doc.Records[k] = r
	}
	return doc
}

// Write outputs the result as one JSON document followed by a newline.
func (w *JSONWriter) Write(result *Result) (int, error) {
	return w.writeJSON(NewJSONReport(result))
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
