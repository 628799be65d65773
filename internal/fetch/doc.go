// Package fetch provides the HTTP page fetcher used by crawl workers.
//
// Each worker gets its own HTTPFetcher with its own http.Client so that
// connection pools are never shared between workers. A fetch returns the
// response body as text for any HTTP status; only transport failures and
// body read failures are errors.
//
// Requests can be routed through a SOCKS5 proxy (for example a local Tor
// daemon on 127.0.0.1:9050) with WithProxy.
package fetch
