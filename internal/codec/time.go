package codec

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// TimeLayout is the layout used for every timestamp sent to the API.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// parseLayouts are tried in order. Layouts without a zone are read as UTC.
var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses an ISO-8601 timestamp and returns it in UTC.
func ParseTime(s string) (time.Time, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return time.Time{}, &ParseError{Kind: kindTime, Value: s, Err: errEmptyValue}
	}

	var lastErr error
	for _, layout := range parseLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, &ParseError{Kind: kindTime, Value: s, Err: lastErr}
}

// FormatTime renders t in UTC with millisecond precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// FormatBound renders t in UTC without dropping sub-second precision. Filter
// bounds use it so the server sees exactly the instant the caller passed.
func FormatBound(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Time is a UTC timestamp with the API's JSON encoding.
type Time struct {
	time.Time
}

// NewTime returns t as a Time normalised to UTC.
func NewTime(t time.Time) Time {
	return Time{Time: t.UTC()}
}

// TimePtr is a convenience for optional timestamp fields.
func TimePtr(t time.Time) *Time {
	v := NewTime(t)
	return &v
}

// String implements fmt.Stringer.
func (t Time) String() string {
	return FormatTime(t.Time)
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatTime(t.Time))
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null is rejected; nullable
// fields use *Time, which encoding/json sets to nil without calling this.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return &ParseError{Kind: kindTime, Value: "null", Err: errEmptyValue}
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &ParseError{Kind: kindTime, Value: string(data), Err: err}
	}

	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
