// Package crawler implements the crawl orchestration core: the URL frontier,
// the crawl store, the same-origin scope filter, the worker task loop and the
// pool coordinator that ties them together.
//
// # Components
//
//   - URLFrontier: FIFO of pending URLs with an optional politeness delay
//   - MemoryStore: URL key to Record mapping (visited flag, discovered URLs)
//   - Origin, Resolve, Filter: pure scope and normalization helpers
//   - Worker: per-worker loop pulling from the frontier until it is empty
//   - Run: spawns the workers, waits for them and returns the store
//
// # Locking
//
// Every worker iteration runs under the frontier lock for its whole length
// (dequeue, fetch, store updates, re-enqueues) when the lock scope is
// LockScopeIteration, which is DefaultLockScope. LockScopeDequeue narrows the
// lock to the dequeue call only.
//
// # Termination
//
// A worker exits as soon as it observes an empty frontier, even when a sibling
// is still processing a page that may enqueue more work. With more than one
// worker the pool can therefore finish with fewer active workers than it
// started with; the iteration lock keeps the single-seed scenario deterministic.
//
// # Usage
//
//	store, err := crawler.Run(ctx, "http://example.com/", 3, 2*time.Second,
//	    crawler.WithFetcherFactory(fetch.NewFactory()),
//	    crawler.WithExtractor(extract.NewHTMLExtractor()),
//	)
package crawler
