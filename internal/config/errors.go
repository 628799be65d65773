package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use errors.Is().
var (
	// ErrNoSeed is returned when no seed URL is given as argument or via --url.
	ErrNoSeed = errors.New("no seed url specified: provide a url argument or use --url")

	// ErrInvalidWorkers is returned when the worker count is less than one.
	ErrInvalidWorkers = errors.New("invalid workers: must be at least 1")

	// ErrInvalidDelay is returned when the politeness delay is negative.
	// Use 0 for no delay between dequeues.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidFormat is returned when the report format is not one of
	// text, json or markdown.
	ErrInvalidFormat = errors.New("invalid report format: must be text, json or markdown")

	// ErrConflictingVerbosity is returned when both --verbose and --quiet are set.
	ErrConflictingVerbosity = errors.New("conflicting log levels: --verbose and --quiet cannot be used together")
)
