package eventcal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/teemow/eventcal/internal/calendar"
	"github.com/teemow/eventcal/internal/codec"
	"github.com/teemow/eventcal/internal/dispatch"
	"github.com/teemow/eventcal/internal/event"
	"github.com/teemow/eventcal/internal/instrumentation"
	"github.com/teemow/eventcal/internal/transport"
)

// ErrEmptyAPIKey is returned by New when Options.APIKey is blank.
var ErrEmptyAPIKey = transport.ErrEmptyAPIKey

// Options configures a Client. Only APIKey is required.
type Options struct {
	APIKey    string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// RequestsPerSecond throttles outgoing requests when positive.
	RequestsPerSecond float64
	Burst             int

	// RetryPolicy overrides the default of 3 retries, 60s after a 429 and
	// 2s/4s/8s after connection failures.
	RetryPolicy *transport.RetryPolicy

	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *instrumentation.Metrics
	Codec      *codec.Codec
}

// Client gives access to the calendar and event endpoints.
type Client struct {
	transport  *transport.Transport
	dispatcher *dispatch.Dispatcher
	calendar   *calendar.Manager
	events     *event.Manager
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	cfg := transport.Config{
		BaseURL:           opts.BaseURL,
		APIKey:            opts.APIKey,
		UserAgent:         opts.UserAgent,
		Timeout:           opts.Timeout,
		RequestsPerSecond: opts.RequestsPerSecond,
		Burst:             opts.Burst,
	}

	var topts []transport.Option
	if opts.HTTPClient != nil {
		topts = append(topts, transport.WithHTTPClient(opts.HTTPClient))
	}
	if opts.Logger != nil {
		topts = append(topts, transport.WithLogger(opts.Logger))
	}
	if opts.Metrics != nil {
		topts = append(topts, transport.WithMetrics(opts.Metrics))
	}
	if opts.RetryPolicy != nil {
		topts = append(topts, transport.WithRetryPolicy(*opts.RetryPolicy))
	}

	t, err := transport.New(cfg, topts...)
	if err != nil {
		return nil, err
	}

	c := codec.Default()
	if opts.Codec != nil {
		c = *opts.Codec
	}
	d := dispatch.New(t, c, dispatch.WithLogger(opts.Logger), dispatch.WithMetrics(opts.Metrics))

	return &Client{
		transport:  t,
		dispatcher: d,
		calendar:   calendar.NewManager(d),
		events:     event.NewManager(d),
	}, nil
}

// Calendar returns the calendar endpoints.
func (c *Client) Calendar() *calendar.Manager {
	return c.calendar
}

// Events returns the event endpoints.
func (c *Client) Events() *event.Manager {
	return c.events
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.transport.BaseURL()
}
