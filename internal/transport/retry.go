package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/teemow/eventcal/internal/instrumentation"
)

// Outcome classifies a single attempt.
type Outcome int

const (
	// OutcomeDone means the attempt is final: a response to hand back, or an
	// error that must not be retried.
	OutcomeDone Outcome = iota

	// OutcomeRateLimited means the server answered 429.
	OutcomeRateLimited

	// OutcomeTransient means the request failed before a response arrived.
	OutcomeTransient
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRateLimited:
		return instrumentation.RetryReasonRateLimited
	case OutcomeTransient:
		return instrumentation.RetryReasonTransient
	default:
		return "done"
	}
}

// RetryPolicy decides whether and when an attempt is repeated.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// RateLimitDelay is the fixed wait after a 429.
	RateLimitDelay time.Duration

	// BaseDelay is scaled by 2^retry after a transient failure.
	BaseDelay time.Duration
}

// DefaultRetryPolicy returns 3 retries, 60s after a 429 and 2s/4s/8s after
// connection failures.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     3,
		RateLimitDelay: 60 * time.Second,
		BaseDelay:      time.Second,
	}
}

// Classify inspects the outcome of the current attempt only.
// A cancelled or expired ctx is never retried.
func (p RetryPolicy) Classify(ctx context.Context, resp *http.Response, err error) Outcome {
	if err != nil {
		if ctx.Err() != nil {
			return OutcomeDone
		}
		return OutcomeTransient
	}
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		return OutcomeRateLimited
	}
	return OutcomeDone
}

// Backoff returns the wait before retry number retry (1-based).
func (p RetryPolicy) Backoff(outcome Outcome, retry int) time.Duration {
	switch outcome {
	case OutcomeRateLimited:
		return p.RateLimitDelay
	case OutcomeTransient:
		if retry < 0 {
			retry = 0
		}
		return p.BaseDelay * time.Duration(1<<uint(retry))
	default:
		return 0
	}
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
