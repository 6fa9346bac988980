package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyAPIKey is returned by New when no API key is configured.
	ErrEmptyAPIKey = errors.New("transport: API key is required")

	// ErrInvalidBaseURL is returned by New for a malformed base URL.
	ErrInvalidBaseURL = errors.New("transport: invalid base URL")

	// ErrInvalidRateLimit is returned by New for a negative throttle rate.
	ErrInvalidRateLimit = errors.New("transport: invalid rate limit")

	// ErrInvalidPath is returned when a request path is absolute or unparsable.
	ErrInvalidPath = errors.New("transport: invalid request path")
)

// ConnectionError reports a request that never produced an HTTP response,
// after all retries were used.
type ConnectionError struct {
	Method   string
	// Path is the request target with guest addresses and secrets redacted.
	Path     string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s failed after %d attempt(s): %v", e.Method, e.Path, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
