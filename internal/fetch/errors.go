package fetch

import "errors"

var (
	// ErrTransport wraps every failure to obtain a response body.
	ErrTransport = errors.New("transport error")

	// ErrInvalidProxyAddress is returned when the proxy address is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")
)
