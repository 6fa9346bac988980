package codec

import (
	"errors"
	"fmt"
)

const (
	kindTime     = "ISO-8601 date-time"
	kindDuration = "ISO-8601 duration"
)

var (
	errEmptyValue = errors.New("empty value")
	errOverflow   = errors.New("value out of range")
	errSyntax     = errors.New("invalid syntax")
)

// ParseError reports a wire value that could not be converted.
type ParseError struct {
	Kind  string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot parse %q as %s", e.Value, e.Kind)
	}
	return fmt.Sprintf("cannot parse %q as %s: %v", e.Value, e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
