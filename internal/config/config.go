package config

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultWorkers is the number of concurrent crawl workers.
	DefaultWorkers = 1

	// DefaultDelay is the politeness delay each worker waits before every dequeue.
	DefaultDelay = 2 * time.Second

	// DefaultTimeout bounds a single page request.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies urlcrawler in HTTP requests.
	DefaultUserAgent = "urlcrawler/1.0"

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultFormat is the report format used by --print.
	DefaultFormat = FormatText

	// AppName is the application name used for XDG directory paths.
	AppName = "urlcrawler"
)

// Report formats accepted by --format.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Formats lists every supported report format.
var Formats = []string{FormatText, FormatJSON, FormatMarkdown}

// Config holds all configuration options for a crawl.
// It is populated from CLI flags and the optional config file and passed
// down explicitly; there is no global configuration state.
type Config struct {
	// Seed is the URL the crawl starts from. Its scheme and host define the
	// crawl scope.
	Seed string

	// Workers is the number of concurrent workers in the pool.
	Workers int

	// Delay is the politeness delay applied before every dequeue.
	// Zero disables the wait.
	Delay time.Duration

	// Timeout is the whole-request timeout of each page fetch.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Larger bodies are truncated. Zero means DefaultMaxBodySize.
	MaxBodySize int64

	// ProxyAddress routes requests through a SOCKS5 proxy ("host:port").
	// Empty means direct connections.
	ProxyAddress string

	// Verbose lowers the log level to debug.
	Verbose bool

	// Quiet raises the log level to warn, hiding per-URL progress lines.
	Quiet bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .urlcrawler is searched for in the current directory
	// and then in the home directory.
	ConfigFilePath string

	// SiteConfigs holds the configuration file contents, if one was loaded.
	SiteConfigs *File

	// Print writes the crawl result report after the crawl finishes.
	Print bool

	// Format is the report format: text, json or markdown.
	Format string

	// OutputFile is where the report is written. Empty means stdout.
	OutputFile string

	// Save archives the crawl result in the SQLite database.
	Save bool

	// DBDir is the directory that holds the archive database.
	// Defaults to the XDG data directory (~/.local/share/urlcrawler on Linux).
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Workers:     DefaultWorkers,
		Delay:       DefaultDelay,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		Headers:     make(map[string]string),
		MaxBodySize: DefaultMaxBodySize,
		Format:      DefaultFormat,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for urlcrawler.
// On Linux: ~/.local/share/urlcrawler
// On macOS: ~/Library/Application Support/urlcrawler
// On Windows: %LOCALAPPDATA%\urlcrawler
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for urlcrawler.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Seed == "" {
		return ErrNoSeed
	}

	if c.Workers < 1 {
		return ErrInvalidWorkers
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.Format != "" && !slices.Contains(Formats, c.Format) {
		return ErrInvalidFormat
	}

	if c.Verbose && c.Quiet {
		return ErrConflictingVerbosity
	}

	return nil
}

// ApplySiteConfig merges sc into c. A field is taken from sc only when it is
// set there and isSet reports that the matching CLI flag was not given
// explicitly. Headers are always merged, with the CLI values winning.
// isSet may be nil, in which case every field set in sc is applied.
func (c *Config) ApplySiteConfig(sc SiteConfig, isSet func(flag string) bool) {
	explicit := func(flag string) bool {
		return isSet != nil && isSet(flag)
	}

	if sc.Workers > 0 && !explicit("workers") {
		c.Workers = sc.Workers
	}
	if sc.Delay != nil && !explicit("delay") {
		c.Delay = *sc.Delay
	}
	if sc.Timeout > 0 && !explicit("timeout") {
		c.Timeout = sc.Timeout
	}
	if sc.UserAgent != "" && !explicit("user-agent") {
		c.UserAgent = sc.UserAgent
	}
	if sc.Proxy != "" && !explicit("proxy") {
		c.ProxyAddress = sc.Proxy
	}

	merged := make(map[string]string, len(sc.Headers)+len(c.Headers)+1)
	for k, v := range sc.Headers {
		merged[k] = v
	}
	if sc.Cookie != "" {
		merged["Cookie"] = sc.Cookie
	}
	for k, v := range c.Headers {
		merged[k] = v
	}
	c.Headers = merged
}
