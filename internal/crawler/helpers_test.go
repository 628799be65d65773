package crawler

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"

	"github.com/nao1215/urlcrawler/internal/extract"
)

// logLine is one captured log record reduced to what the tests assert on.
type logLine struct {
	Level   slog.Level
	Message string
	URL     string
}

func (l logLine) String() string {
	if l.URL == "" {
		return l.Message
	}
	return l.Message + ": " + l.URL
}

// recordingHandler captures records in emission order.
type recordingHandler struct {
	mu      *sync.Mutex
	lines   *[]logLine
	onLine  func(logLine)
	preAttr []slog.Attr
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{mu: &sync.Mutex{}, lines: &[]logLine{}}
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	line := logLine{Level: r.Level, Message: r.Message}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "url" {
			line.URL = a.Value.String()
		}
		return true
	})

	h.mu.Lock()
	*h.lines = append(*h.lines, line)
	cb := h.onLine
	h.mu.Unlock()

	if cb != nil {
		cb(line)
	}
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.preAttr = append(append([]slog.Attr{}, h.preAttr...), attrs...)
	return &c
}

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }

// Lines returns a copy of every captured line.
func (h *recordingHandler) Lines() []logLine {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]logLine(nil), *h.lines...)
}

// Messages returns the captured lines rendered as "message: url".
func (h *recordingHandler) Messages() []string {
	lines := h.Lines()
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

// Count returns how many lines carry msg.
func (h *recordingHandler) Count(msg string) int {
	n := 0
	for _, l := range h.Lines() {
		if l.Message == msg {
			n++
		}
	}
	return n
}

var errUnreachable = errors.New("connection refused")

// mapFetcher serves bodies from a map and fails for unknown URLs.
type mapFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	gates  map[string]chan struct{}
	served []string
}

func newMapFetcher(pages map[string]string) *mapFetcher {
	return &mapFetcher{pages: pages, gates: make(map[string]chan struct{})}
}

// block makes Get(url) wait until the returned channel is closed.
func (f *mapFetcher) block(url string) chan struct{} {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[url] = ch
	f.mu.Unlock()
	return ch
}

func (f *mapFetcher) Get(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	gate := f.gates[url]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.served = append(f.served, url)
	body, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("GET %s: %w", url, errUnreachable)
	}
	return body, nil
}

func (f *mapFetcher) Served() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.served...)
}

// anchors renders hrefs the same unterminated way the original fixtures do.
func anchors(hrefs ...string) string {
	var b strings.Builder
	for _, h := range hrefs {
		fmt.Fprintf(&b, `<a href="%s"</a>`, h)
	}
	return b.String()
}

// sliceExtractor yields a fixed list per body.
type sliceExtractor map[string][]string

func (e sliceExtractor) Extract(body string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, href := range e[body] {
			if !yield(href) {
				return
			}
		}
	}
}

var htmlExtractor = extract.NewHTMLExtractor()
