package archive

import (
	"errors"
	"fmt"
)

// Archive query errors.
// Client.Snapshots wraps one of these so callers can use errors.Is to tell
// failure modes apart.
var (
	// ErrNotArchived is returned when the index answers 404 for the target.
	ErrNotArchived = errors.New("no archived data for target")

	// ErrUnexpectedStatus is returned for any HTTP status other than 200 and 404.
	// The concrete error is a *StatusError carrying the code.
	ErrUnexpectedStatus = errors.New("unexpected archive status")

	// ErrUpstreamTimeout is returned when the request exceeds the configured
	// timeout. The public index is frequently overloaded for large domains.
	ErrUpstreamTimeout = errors.New("archive request timed out")

	// ErrMalformedResponse is returned when a 200 response body is not a JSON
	// array of string arrays.
	ErrMalformedResponse = errors.New("malformed archive response")

	// ErrFetch is returned for any other transport failure.
	ErrFetch = errors.New("archive fetch failed")

	// ErrInvalidProxyAddress is returned when the proxy address is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// StatusError reports an HTTP status the client does not handle.
type StatusError struct {
	// Code is the HTTP status code returned by the index.
	Code int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("archive returned unexpected status: %d", e.Code)
}

// Unwrap makes errors.Is(err, ErrUnexpectedStatus) succeed.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Retryable reports whether the status is a server-side error worth retrying.
func (e *StatusError) Retryable() bool {
	return e.Code >= 500
}
