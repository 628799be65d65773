package crawler

import (
	"context"
	"iter"
	"log/slog"
	"sync"
)

// Log messages emitted by the crawl. The end-to-end tests match on them.
const (
	MsgVisited         = "Visited URL"
	MsgFound           = "Found URL"
	MsgFetchFailed     = "Error requesting URL"
	MsgWorkerCompleted = "Worker completed"
)

// Fetcher performs the GET for one URL and returns the body as text.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// LinkExtractor yields the raw href strings of a body in document order.
type LinkExtractor interface {
	Extract(body string) iter.Seq[string]
}

// LockScope controls how much of a worker iteration runs under the shared
// frontier lock.
type LockScope int

const (
	// LockScopeIteration holds the frontier lock from dequeue until the
	// discoveries of that page have been enqueued.
	LockScopeIteration LockScope = iota

	// LockScopeDequeue holds the frontier lock only around the dequeue call.
	LockScopeDequeue
)

// DefaultLockScope is the lock scope used by Run unless overridden.
const DefaultLockScope = LockScopeIteration

// String returns the lock scope name.
func (s LockScope) String() string {
	switch s {
	case LockScopeIteration:
		return "iteration"
	case LockScopeDequeue:
		return "dequeue"
	default:
		return "unknown"
	}
}

// Dependencies are the collaborators shared by every worker of a pool.
type Dependencies struct {
	Frontier  Frontier
	Store     Store
	Extractor LinkExtractor
	Origin    Origin

	// Lock is the frontier lock. Workers of the same pool must share it.
	Lock sync.Locker

	// LockScope selects how long Lock is held per iteration.
	LockScope LockScope

	// Logger receives the progress lines. Nil means slog.Default().
	Logger *slog.Logger
}

// Worker runs the per-worker crawl loop.
type Worker struct {
	id      int
	deps    *Dependencies
	fetcher Fetcher
	logger  *slog.Logger
}

// NewWorker creates worker id using its own fetcher and the shared deps.
func NewWorker(id int, deps *Dependencies, fetcher Fetcher) *Worker {
	if deps.Lock == nil {
		deps.Lock = &sync.Mutex{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		id:      id,
		deps:    deps,
		fetcher: fetcher,
		logger:  logger,
	}
}

// ID returns the worker number.
func (w *Worker) ID() int {
	return w.id
}

// Run loops until the worker observes an empty frontier or ctx is done.
func (w *Worker) Run(ctx context.Context) {
	for w.step(ctx) {
	}
}

// step performs one iteration and reports whether the worker should go on.
func (w *Worker) step(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	lock := w.deps.Lock
	lock.Lock()
	held := true
	release := func() {
		if held {
			held = false
			lock.Unlock()
		}
	}
	defer release()

	current, ok := w.deps.Frontier.Dequeue(ctx)
	if !ok {
		return false
	}
	if w.deps.LockScope == LockScopeDequeue {
		release()
	}

	store := w.deps.Store
	if store.HasVisited(current) {
		return true
	}

	body, err := w.fetcher.Get(ctx, current)
	if err != nil {
		w.logger.Warn(MsgFetchFailed, "worker", w.id, "url", current, "error", err)
		return true
	}

	store.Add(current)
	store.Visited(current)
	w.logger.Info(MsgVisited, "worker", w.id, "url", current)

	for href := range w.deps.Extractor.Extract(body) {
		link := Resolve(href, current)
		next, inScope := Filter(link, w.deps.Origin)
		if inScope {
			// In-scope links are recorded under the same key they are fetched by.
			link = Normalize(next)
		}
		w.logger.Info(MsgFound, "worker", w.id, "url", link)

		store.Add(current, link)

		if inScope && !store.HasVisited(link) {
			w.deps.Frontier.Enqueue(link)
		}
	}

	return true
}
