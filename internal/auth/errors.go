package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCredentials is matched by every ParseError.
	ErrMalformedCredentials = errors.New("malformed credentials")

	// ErrNoCredentials is returned when a provider has nothing to offer,
	// for example a static provider configured with an empty string or a
	// scripted provider that ran out of values.
	ErrNoCredentials = errors.New("no credentials available")
)

// ParseError describes why a raw cookie string could not be parsed.
// Cookie values are never included in the message.
type ParseError struct {
	// Index is the zero-based position of the offending pair.
	// It is -1 when the input as a whole is unusable (e.g. empty).
	Index int

	// Name is the cookie name of the offending pair, if one could be read.
	Name string

	// Reason is a short human readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("cannot parse credentials: %s", e.Reason)
	}
	if e.Name != "" {
		return fmt.Sprintf("cannot parse credentials: pair %d (%q): %s", e.Index, e.Name, e.Reason)
	}
	return fmt.Sprintf("cannot parse credentials: pair %d: %s", e.Index, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformedCredentials).
func (e *ParseError) Unwrap() error {
	return ErrMalformedCredentials
}
