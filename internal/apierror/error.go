package apierror

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
)

// DefaultStatusCode is used when a failure has no HTTP status of its own.
const DefaultStatusCode = http.StatusInternalServerError

// Messages shared by the request pipeline.
const (
	MessageEmptyResult = "API request succeeded but returned no parseable result"
	MessageDeserialize = "failed to deserialize API response"
	MessageTransport   = "failed to send API request"
	MessageEncode      = "failed to encode API request"
)

// Payload is the error body returned by the API.
type Payload struct {
	Message string `json:"message"`
	Code    any    `json:"code,omitempty"`
}

// Error is the typed error returned for every failed API call.
type Error struct {
	// Message is a human readable summary of the failure.
	Message string

	// API is the structured error sent by the server, or a payload
	// describing the underlying cause. May be nil.
	API *Payload

	// StatusCode is the HTTP status, or DefaultStatusCode.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// New creates an Error. A non-positive status becomes DefaultStatusCode.
func New(message string, payload *Payload, statusCode int) *Error {
	if statusCode <= 0 {
		statusCode = DefaultStatusCode
	}
	return &Error{
		Message:    message,
		API:        payload,
		StatusCode: statusCode,
	}
}

// Wrap creates an Error for cause, describing it in the payload with a
// code derived from its text.
func Wrap(message string, cause error, statusCode int) *Error {
	e := New(message, nil, statusCode)
	if cause != nil {
		e.API = &Payload{Message: cause.Error(), Code: DerivedCode(cause)}
		e.Err = cause
	}
	return e
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	if e.API != nil && e.API.Message != "" {
		msg += ": " + e.API.Message
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusMessage is the message used for non-2xx responses.
func StatusMessage(statusCode int) string {
	return fmt.Sprintf("API request failed with status code %d", statusCode)
}

// DerivedCode returns a stable numeric code for err's text.
func DerivedCode(err error) int64 {
	if err == nil {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(err.Error()))
	return int64(h.Sum32())
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the status of the *Error in err's chain, or 0.
func StatusCode(err error) int {
	if apiErr, ok := As(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the API key was rejected.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsRateLimited checks if the error is a 429 that survived all retries.
func IsRateLimited(err error) bool {
	return StatusCode(err) == http.StatusTooManyRequests
}
