package crawler

import "errors"

var (
	// ErrMalformedURL is returned when the seed URL cannot be parsed into an
	// absolute URL with a scheme and a host.
	ErrMalformedURL = errors.New("malformed url: expected an absolute url with scheme and host")

	// ErrInvalidWorkers is returned when the pool is asked for fewer than
	// one worker.
	ErrInvalidWorkers = errors.New("worker count must be at least 1")
)
