package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default fetcher settings.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultUserAgent   = "urlcrawler/1.0 (+https://github.com/nao1215/urlcrawler)"
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
	maxRedirects       = 10
)

// HTTPFetcher performs GET requests and returns bodies as text.
type HTTPFetcher struct {
	// client is owned by this fetcher only.
	client *http.Client

	userAgent   string
	headers     map[string]string
	maxBodySize int64
	timeout     time.Duration
	proxyAddr   string
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the whole-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *HTTPFetcher) {
		for k, v := range headers {
			f.headers[k] = v
		}
	}
}

// WithMaxBodySize limits how many body bytes are read. Bodies are truncated
// beyond the limit.
func WithMaxBodySize(size int64) Option {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithProxy routes requests through the SOCKS5 proxy at addr ("host:port").
func WithProxy(addr string) Option {
	return func(f *HTTPFetcher) {
		f.proxyAddr = addr
	}
}

// WithHTTPClient replaces the client built by NewHTTPFetcher.
// The timeout and proxy options are ignored when it is used.
func WithHTTPClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// NewHTTPFetcher creates a fetcher with its own http.Client.
func NewHTTPFetcher(opts ...Option) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		userAgent:   DefaultUserAgent,
		headers:     make(map[string]string),
		maxBodySize: DefaultMaxBodySize,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		transport, err := newTransport(f.proxyAddr)
		if err != nil {
			return nil, err
		}
		f.client = &http.Client{
			Transport: transport,
			Timeout:   f.timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	return f, nil
}

// Get fetches url and returns the body as a string.
func (f *HTTPFetcher) Get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	return string(body), nil
}

// UserAgent returns the User-Agent sent with each request.
func (f *HTTPFetcher) UserAgent() string {
	return f.userAgent
}

// Factory builds a fresh fetcher for every worker.
type Factory struct {
	opts []Option
}

// NewFactory captures opts for the fetchers it builds.
// The proxy address is validated once here.
func NewFactory(opts ...Option) (*Factory, error) {
	probe := &HTTPFetcher{headers: make(map[string]string)}
	for _, opt := range opts {
		opt(probe)
	}
	if probe.proxyAddr != "" {
		if err := validateProxyAddress(probe.proxyAddr); err != nil {
			return nil, err
		}
	}
	return &Factory{opts: opts}, nil
}

// New returns a new fetcher with its own client.
func (fa *Factory) New() (*HTTPFetcher, error) {
	return NewHTTPFetcher(fa.opts...)
}
