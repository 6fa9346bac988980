package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/teemow/eventcal/internal/apierror"
	"github.com/teemow/eventcal/internal/codec"
	"github.com/teemow/eventcal/internal/instrumentation"
	"github.com/teemow/eventcal/internal/logging"
	"github.com/teemow/eventcal/internal/transport"
)

// Doer sends one request. *transport.Transport implements it.
type Doer interface {
	Do(ctx context.Context, method, path string, body []byte) (*transport.Response, error)
}

// Dispatcher sends operations through a Doer and interprets the responses.
// It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	doer    Doer
	codec   codec.Codec
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for failed operations.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// New creates a Dispatcher.
func New(doer Doer, c codec.Codec, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		doer:    doer,
		codec:   c,
		logger:  slog.Default(),
		metrics: &instrumentation.Metrics{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Codec returns the codec used for request and response bodies.
func (d *Dispatcher) Codec() codec.Codec {
	return d.codec
}

// Metrics returns the metrics recorder.
func (d *Dispatcher) Metrics() *instrumentation.Metrics {
	return d.metrics
}

// Send performs op and decodes a successful response into T.
func Send[T any](ctx context.Context, d *Dispatcher, op Operation) (T, error) {
	var zero T

	ctx, span := instrumentation.StartAPISpan(ctx, op.Name, op.Method, op.Path)

	start := time.Now()
	result, err := send[T](ctx, d, op)
	duration := time.Since(start)
	instrumentation.EndSpan(span, err)

	if err != nil {
		d.metrics.RecordAPIOperation(ctx, op.Name, instrumentation.StatusError, duration)
		logging.WithOperation(d.logger, op.Name).DebugContext(ctx, "API operation failed",
			slog.String(logging.KeyMethod, op.Method),
			slog.String(logging.KeyPath, op.Path),
			logging.StatusCode(apierror.StatusCode(err)),
			logging.Err(err),
		)
		return zero, err
	}

	d.metrics.RecordAPIOperation(ctx, op.Name, instrumentation.StatusSuccess, duration)
	return result, nil
}

// Exec performs op and discards any response body.
func Exec(ctx context.Context, d *Dispatcher, op Operation) error {
	op.Expect = ExpectNone
	_, err := Send[struct{}](ctx, d, op)
	return err
}

func send[T any](ctx context.Context, d *Dispatcher, op Operation) (T, error) {
	var zero T

	var body []byte
	if op.Body != nil {
		encoded, err := d.codec.Marshal(op.Body)
		if err != nil {
			return zero, apierror.Wrap(apierror.MessageEncode, err, apierror.DefaultStatusCode)
		}
		body = encoded
	}

	resp, err := d.doer.Do(ctx, op.Method, op.Target(), body)
	if err != nil {
		return zero, apierror.Wrap(apierror.MessageTransport, err, statusOf(err))
	}
	defer func() { _ = resp.Close() }()

	return Interpret[T](d.codec, op.Expect, resp)
}

// Interpret converts resp into a T or an *apierror.Error.
//
// A 2xx response with ExpectNone yields the zero T. A 2xx response with
// ExpectValue must carry a non-null JSON body. Any other status yields an
// error carrying that status and, when the body parses, the server's
// error payload.
func Interpret[T any](c codec.Codec, expect ResultKind, resp *transport.Response) (T, error) {
	var zero T

	if resp == nil {
		return zero, apierror.New(apierror.MessageEmptyResult, nil, apierror.DefaultStatusCode)
	}

	if !resp.IsSuccess() {
		return zero, apierror.New(apierror.StatusMessage(resp.StatusCode), decodePayload(c, resp.Body), resp.StatusCode)
	}

	if expect == ExpectNone {
		return zero, nil
	}

	if resp.Body == nil {
		return zero, apierror.New(apierror.MessageEmptyResult, nil, apierror.DefaultStatusCode)
	}

	var raw json.RawMessage
	if err := c.Decode(resp.Body, &raw); err != nil {
		if errors.Is(err, io.EOF) {
			return zero, apierror.New(apierror.MessageEmptyResult, nil, apierror.DefaultStatusCode)
		}
		return zero, apierror.Wrap(apierror.MessageDeserialize, err, statusOf(err))
	}
	if isNull(raw) {
		return zero, apierror.New(apierror.MessageEmptyResult, nil, apierror.DefaultStatusCode)
	}

	var result T
	if err := c.Unmarshal(raw, &result); err != nil {
		return zero, apierror.Wrap(apierror.MessageDeserialize, err, statusOf(err))
	}
	return result, nil
}

// decodePayload reads the error body. Anything unreadable or empty gives nil.
func decodePayload(c codec.Codec, body io.Reader) *apierror.Payload {
	if body == nil {
		return nil
	}
	var payload apierror.Payload
	if err := c.Decode(body, &payload); err != nil {
		return nil
	}
	if payload.Message == "" && payload.Code == nil {
		return nil
	}
	return &payload
}

// statusOf returns the status attached to err, or the default.
func statusOf(err error) int {
	if code := apierror.StatusCode(err); code > 0 {
		return code
	}
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) && sc.StatusCode() > 0 {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
