package transport

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.example-calendar.com"

	// DefaultAccept is sent as the Accept header.
	DefaultAccept = "application/json"

	// DefaultTimeout bounds a single HTTP attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the client.
	DefaultUserAgent = "eventcal"

	// HeaderAPIKey carries the API key.
	HeaderAPIKey = "x-api-key"

	// HeaderRequestID correlates all attempts of one call.
	HeaderRequestID = "X-Request-ID"
)

// Config holds the immutable transport settings.
type Config struct {
	// BaseURL is the API root (default: DefaultBaseURL).
	BaseURL string

	// APIKey authenticates every request. Required.
	APIKey string

	// Accept is the Accept header value (default: application/json).
	Accept string

	// UserAgent is the User-Agent header value.
	UserAgent string

	// Timeout bounds a single HTTP attempt, not the whole retry sequence.
	Timeout time.Duration

	// RequestsPerSecond enables client-side throttling when > 0.
	RequestsPerSecond float64

	// Burst is the throttle bucket size (default: 1).
	Burst int
}

// withDefaults returns a copy of c with empty fields filled in.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Accept == "" {
		c.Accept = DefaultAccept
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RequestsPerSecond > 0 && c.Burst <= 0 {
		c.Burst = 1
	}
	return c
}

// Validate checks the configuration after defaults are applied.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrEmptyAPIKey
	}

	u, err := url.Parse(c.withDefaults().BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", ErrInvalidRateLimit)
	}
	return nil
}
