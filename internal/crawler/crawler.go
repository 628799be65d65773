package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/urlcrawler/internal/extract"
	"github.com/nao1215/urlcrawler/internal/fetch"
	"golang.org/x/sync/errgroup"
)

// FetcherFactory builds the fetcher of one worker.
type FetcherFactory func() (Fetcher, error)

// Crawler coordinates a fixed pool of workers over one frontier and one store.
type Crawler struct {
	workers        int
	delay          time.Duration
	fetcherFactory FetcherFactory
	extractor      LinkExtractor
	lockScope      LockScope
	logger         *slog.Logger
	store          *MemoryStore
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithFetcherFactory sets how each worker's fetcher is built.
func WithFetcherFactory(factory FetcherFactory) Option {
	return func(c *Crawler) {
		c.fetcherFactory = factory
	}
}

// WithHTTPFetcherFactory adapts a fetch.Factory into a FetcherFactory.
func WithHTTPFetcherFactory(factory *fetch.Factory) Option {
	return WithFetcherFactory(func() (Fetcher, error) {
		return factory.New()
	})
}

// WithExtractor sets the link extractor shared by all workers.
func WithExtractor(e LinkExtractor) Option {
	return func(c *Crawler) {
		c.extractor = e
	}
}

// WithLockScope overrides DefaultLockScope.
func WithLockScope(scope LockScope) Option {
	return func(c *Crawler) {
		c.lockScope = scope
	}
}

// WithLogger sets the logger for progress lines.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithStore makes the crawl write into store instead of a fresh one.
func WithStore(store *MemoryStore) Option {
	return func(c *Crawler) {
		c.store = store
	}
}

// New creates a Crawler with the given worker count and politeness delay.
// Unset collaborators default to the HTTP fetcher and the HTML extractor.
func New(workers int, delay time.Duration, opts ...Option) *Crawler {
	c := &Crawler{
		workers:   workers,
		delay:     delay,
		lockScope: DefaultLockScope,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.extractor == nil {
		c.extractor = extract.NewHTMLExtractor()
	}
	if c.fetcherFactory == nil {
		c.fetcherFactory = func() (Fetcher, error) {
			return fetch.NewHTTPFetcher()
		}
	}
	if c.store == nil {
		c.store = NewMemoryStore()
	}

	return c
}

// Crawl runs the pool from seed until every worker has observed an empty
// frontier and returns the populated store. Errors are only returned before
// any worker starts.
func (c *Crawler) Crawl(ctx context.Context, seed string) (*MemoryStore, error) {
	origin, err := ParseOrigin(seed)
	if err != nil {
		return nil, err
	}
	if c.workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.workers)
	}

	fetchers := make([]Fetcher, c.workers)
	for i := range fetchers {
		f, err := c.fetcherFactory()
		if err != nil {
			return nil, fmt.Errorf("failed to create fetcher for worker %d: %w", i+1, err)
		}
		fetchers[i] = f
	}

	deps := &Dependencies{
		Frontier: NewURLFrontier(
			WithPolitenessDelay(c.delay),
			WithSeed(Normalize(seed)),
		),
		Store:     c.store,
		Extractor: c.extractor,
		Origin:    origin,
		Lock:      &sync.Mutex{},
		LockScope: c.lockScope,
		Logger:    c.logger,
	}

	c.logger.Debug("starting crawl",
		"seed", seed,
		"origin", origin.String(),
		"workers", c.workers,
		"delay", c.delay,
		"lockScope", c.lockScope.String(),
	)

	var g errgroup.Group
	for i, f := range fetchers {
		w := NewWorker(i+1, deps, f)
		g.Go(func() error {
			w.Run(ctx)
			c.logger.Info(MsgWorkerCompleted, "worker", w.ID())
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return c.store, nil
}

// Run parses seed, spawns workers workers sharing one frontier (with the
// given politeness delay) and one store, waits for all of them and returns
// the store.
func Run(ctx context.Context, seed string, workers int, delay time.Duration, opts ...Option) (*MemoryStore, error) {
	return New(workers, delay, opts...).Crawl(ctx, seed)
}
