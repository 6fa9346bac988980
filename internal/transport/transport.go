package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/teemow/eventcal/internal/instrumentation"
	"github.com/teemow/eventcal/internal/logging"
)

// maxDrainSize caps how much of a discarded body is read before closing.
const maxDrainSize = 64 * 1024

// Log messages as constants to avoid duplication
const (
	logMsgRateLimited = "rate limit hit, waiting before retry"
	logMsgTransient   = "transient failure, waiting before retry"
	logMsgExhausted   = "retries exhausted"
)

// Response is the raw result of a call.
// The caller owns Body and must close it.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// IsSuccess reports whether the status is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Close drains and closes the body.
func (r *Response) Close() error {
	if r == nil || r.Body == nil {
		return nil
	}
	return drainAndClose(r.Body)
}

// Transport sends authenticated requests to the API with retries.
// It is safe for concurrent use; every call keeps its own retry state.
type Transport struct {
	cfg     Config
	baseURL string
	client  *http.Client
	policy  RetryPolicy
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *instrumentation.Metrics
	sleep   Sleeper
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the default otelhttp-instrumented client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(t *Transport) {
		if m != nil {
			t.metrics = m
		}
	}
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(t *Transport) {
		t.policy = p
	}
}

// WithSleeper overrides how backoff waits are performed.
func WithSleeper(s Sleeper) Option {
	return func(t *Transport) {
		if s != nil {
			t.sleep = s
		}
	}
}

// New validates cfg and returns a Transport. It fails with ErrEmptyAPIKey
// when no key is configured.
func New(cfg Config, opts ...Option) (*Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	t := &Transport{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		policy:  DefaultRetryPolicy(),
		logger:  slog.Default(),
		metrics: &instrumentation.Metrics{},
		sleep:   sleepWithContext,
	}
	for _, opt := range opts {
		opt(t)
	}

	if cfg.RequestsPerSecond > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	t.logger.Debug("transport configured",
		slog.String("base_url", t.baseURL),
		slog.String("api_key", logging.SanitizeToken(cfg.APIKey)),
		slog.Int(logging.KeyMaxRetries, t.policy.MaxRetries),
	)

	return t, nil
}

// BaseURL returns the API root requests are sent to.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Get sends a GET request.
func (t *Transport) Get(ctx context.Context, path string) (*Response, error) {
	return t.Do(ctx, http.MethodGet, path, nil)
}

// Post sends a POST request with a JSON body.
func (t *Transport) Post(ctx context.Context, path string, body []byte) (*Response, error) {
	return t.Do(ctx, http.MethodPost, path, body)
}

// Put sends a PUT request with a JSON body.
func (t *Transport) Put(ctx context.Context, path string, body []byte) (*Response, error) {
	return t.Do(ctx, http.MethodPut, path, body)
}

// Delete sends a DELETE request.
func (t *Transport) Delete(ctx context.Context, path string) (*Response, error) {
	return t.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends method to path (relative to the base URL, query included) and
// applies the retry policy. A non-2xx status is not an error.
func (t *Transport) Do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	target, err := t.resolve(path)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	logger := logging.WithRequest(t.logger, method, path, requestID)
	span := trace.SpanFromContext(ctx)

	var (
		resp     *http.Response
		lastErr  error
		attempts int
	)
	for {
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter wait: %w", err)
			}
		}

		req, err := t.newRequest(ctx, method, target, body, requestID)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		resp, lastErr = t.client.Do(req)
		lastErr = logging.RedactURLError(lastErr)
		attempts++

		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
		}
		t.metrics.RecordAPIRequest(ctx, method, path, statusCode, time.Since(start))

		outcome := t.policy.Classify(ctx, resp, lastErr)
		if outcome == OutcomeDone {
			break
		}
		if attempts > t.policy.MaxRetries {
			logger.WarnContext(ctx, logMsgExhausted,
				logging.Attempt(attempts),
				logging.Status(outcome.String()),
				logging.Err(lastErr),
			)
			break
		}

		delay := t.policy.Backoff(outcome, attempts)
		t.recordRetry(ctx, logger, span, path, outcome, attempts, delay, lastErr)

		if resp != nil {
			_ = drainAndClose(resp.Body)
		}
		if err := t.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("retry backoff interrupted: %w", err)
		}
	}

	if lastErr != nil {
		return nil, &ConnectionError{
			Method:   method,
			Path:     logging.RedactTarget(path),
			Attempts: attempts,
			Err:      lastErr,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}

func (t *Transport) recordRetry(ctx context.Context, logger *slog.Logger, span trace.Span, path string, outcome Outcome, retry int, delay time.Duration, cause error) {
	attrs := []any{
		logging.Attempt(retry),
		slog.Int(logging.KeyMaxRetries, t.policy.MaxRetries),
		logging.Delay(delay),
	}

	switch outcome {
	case OutcomeRateLimited:
		logger.WarnContext(ctx, logMsgRateLimited, append(attrs, logging.StatusCode(http.StatusTooManyRequests))...)
	default:
		logger.WarnContext(ctx, logMsgTransient, append(attrs, logging.Err(cause))...)
	}

	t.metrics.RecordRetry(ctx, path, outcome.String())
	instrumentation.RecordRetryEvent(span, retry, outcome.String(), delay)
}

func (t *Transport) newRequest(ctx context.Context, method, target string, body []byte, requestID string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", target, err)
	}

	req.Header.Set(HeaderAPIKey, t.cfg.APIKey)
	req.Header.Set("Accept", t.cfg.Accept)
	req.Header.Set("User-Agent", t.cfg.UserAgent)
	req.Header.Set(HeaderRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (t *Transport) resolve(path string) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	if u.IsAbs() || u.Host != "" {
		return "", fmt.Errorf("%w: %q must be relative to the base URL", ErrInvalidPath, path)
	}
	return t.baseURL + "/" + strings.TrimLeft(path, "/"), nil
}

func drainAndClose(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrainSize))
	return body.Close()
}
