package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is matched by every *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrBodyTooLarge is returned when a response exceeds the body size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrDisallowedByRobots is returned by RobotsFetcher for pages robots.txt disallows.
	ErrDisallowedByRobots = errors.New("disallowed by robots.txt")

	// ErrInvalidProxyAddress is returned when the proxy address cannot be used.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port or a http, https, socks5 or socks5h URL")

	// ErrProxyUnreachable is returned by CheckProxy when no connection can be made.
	ErrProxyUnreachable = errors.New("proxy is not reachable")

	// ErrProxyNotSOCKS5 is returned by CheckProxy when a SOCKS5 proxy fails the handshake.
	ErrProxyNotSOCKS5 = errors.New("proxy did not answer as a SOCKS5 proxy without authentication")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d for %s", ErrUnexpectedStatus, e.StatusCode, e.URL)
}

// Unwrap returns ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
