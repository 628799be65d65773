package crawler

import (
	"context"
	"sync"
	"time"
)

// Frontier is the pending-work queue shared by all workers.
type Frontier interface {
	// Enqueue appends url to the tail of the queue. It never blocks.
	Enqueue(url string)

	// Dequeue waits for the politeness delay, if any, and then pops the head
	// of the queue. The boolean is false when the queue is empty.
	Dequeue(ctx context.Context) (string, bool)
}

// URLFrontier is an unbounded FIFO of URL strings.
// The same URL may be enqueued more than once; the store's visited flag is
// what prevents a second fetch.
type URLFrontier struct {
	// delay is waited before each pop attempt. Zero disables the wait.
	delay time.Duration

	mu    sync.Mutex
	queue []string
}

// FrontierOption configures a URLFrontier.
type FrontierOption func(*URLFrontier)

// WithPolitenessDelay sets the fixed wait applied before every dequeue.
// Non-positive values disable the wait.
func WithPolitenessDelay(d time.Duration) FrontierOption {
	return func(f *URLFrontier) {
		if d > 0 {
			f.delay = d
		}
	}
}

// WithSeed pushes the given URLs onto the queue at construction time.
func WithSeed(urls ...string) FrontierOption {
	return func(f *URLFrontier) {
		f.queue = append(f.queue, urls...)
	}
}

// NewURLFrontier creates an empty frontier with no politeness delay.
func NewURLFrontier(opts ...FrontierOption) *URLFrontier {
	f := &URLFrontier{
		queue: make([]string, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Enqueue appends url to the tail of the queue.
func (f *URLFrontier) Enqueue(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, url)
}

// Dequeue waits for the politeness delay and pops the head of the queue.
// A cancelled context aborts the wait and reports an empty queue.
func (f *URLFrontier) Dequeue(ctx context.Context) (string, bool) {
	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", false
		case <-timer.C:
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return "", false
	}
	head := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return head, true
}

// Len returns the number of queued URLs.
func (f *URLFrontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Delay returns the configured politeness delay.
func (f *URLFrontier) Delay() time.Duration {
	return f.delay
}
