package logging

import (
	"log/slog"
	"time"
)

// Attribute keys shared by the transport, the dispatcher and the server.
const (
	KeyOperation  = "operation"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyStatusCode = "status_code"
	KeyRequestID  = "request_id"
	KeyAttempt    = "attempt"
	KeyMaxRetries = "max_retries"
	KeyDelay      = "delay"
	KeyError      = "error"
)

// WithOperation returns logger tagged with an SDK operation name.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(Operation(operation))
}

// WithRequest returns logger tagged with one HTTP request. Guest addresses
// and proxy keys in target's query are redacted.
func WithRequest(logger *slog.Logger, method, target, requestID string) *slog.Logger {
	return logger.With(
		slog.String(KeyMethod, method),
		slog.String(KeyPath, RedactTarget(target)),
		slog.String(KeyRequestID, requestID),
	)
}

func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Status is a retry outcome or a success/error label.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatusCode, code)
}

// Attempt is 1-based.
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

func Delay(d time.Duration) slog.Attr {
	return slog.Duration(KeyDelay, d)
}

// Err is dropped from the output when err is nil, so Err(maybeNil) is safe.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
