package codec

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

var durationPattern = regexp.MustCompile(
	`^(-)?P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)(?:\.(\d+))?S)?)?$`,
)

// ParseDuration parses an ISO-8601 duration such as "P1DT2H30M" or "PT0.5S".
// Years count as 365 days and months as 30 days.
func ParseDuration(s string) (time.Duration, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return 0, &ParseError{Kind: kindDuration, Value: s, Err: errEmptyValue}
	}

	m := durationPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, &ParseError{Kind: kindDuration, Value: s, Err: errSyntax}
	}

	datePart, timePart, _ := strings.Cut(strings.TrimPrefix(value, "-"), "T")
	if datePart == "P" && timePart == "" {
		// "P" and "PT" carry no component.
		return 0, &ParseError{Kind: kindDuration, Value: s, Err: errSyntax}
	}
	if strings.Contains(value, "T") && timePart == "" {
		return 0, &ParseError{Kind: kindDuration, Value: s, Err: errSyntax}
	}

	units := []time.Duration{year, month, week, day, time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, unit := range units {
		group := m[i+2]
		if group == "" {
			continue
		}
		n, err := strconv.ParseInt(group, 10, 64)
		if err != nil || n > int64(math.MaxInt64/unit) {
			return 0, &ParseError{Kind: kindDuration, Value: s, Err: errOverflow}
		}
		part := time.Duration(n) * unit
		if total > math.MaxInt64-part {
			return 0, &ParseError{Kind: kindDuration, Value: s, Err: errOverflow}
		}
		total += part
	}

	if frac := m[9]; frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		frac += strings.Repeat("0", 9-len(frac))
		ns, _ := strconv.ParseInt(frac, 10, 64)
		if total > math.MaxInt64-time.Duration(ns) {
			return 0, &ParseError{Kind: kindDuration, Value: s, Err: errOverflow}
		}
		total += time.Duration(ns)
	}

	if m[1] == "-" {
		total = -total
	}
	return total, nil
}

// FormatDuration renders d as an ISO-8601 duration using days, hours,
// minutes and fractional seconds. The zero duration is "PT0S".
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}

	var sb strings.Builder
	// uint64 keeps math.MinInt64 representable.
	u := uint64(d)
	if d < 0 {
		sb.WriteByte('-')
		u = uint64(-d)
	}
	sb.WriteByte('P')

	if days := u / uint64(day); days > 0 {
		sb.WriteString(strconv.FormatUint(days, 10))
		sb.WriteByte('D')
		u %= uint64(day)
	}
	if u == 0 {
		return sb.String()
	}

	sb.WriteByte('T')
	if hours := u / uint64(time.Hour); hours > 0 {
		sb.WriteString(strconv.FormatUint(hours, 10))
		sb.WriteByte('H')
		u %= uint64(time.Hour)
	}
	if minutes := u / uint64(time.Minute); minutes > 0 {
		sb.WriteString(strconv.FormatUint(minutes, 10))
		sb.WriteByte('M')
		u %= uint64(time.Minute)
	}
	if u > 0 {
		sb.WriteString(strconv.FormatUint(u/uint64(time.Second), 10))
		if ns := u % uint64(time.Second); ns > 0 {
			frac := strconv.FormatUint(ns+uint64(time.Second), 10)[1:]
			sb.WriteByte('.')
			sb.WriteString(strings.TrimRight(frac, "0"))
		}
		sb.WriteByte('S')
	}
	return sb.String()
}

// Duration is a time.Duration with ISO-8601 JSON encoding.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return FormatDuration(time.Duration(d))
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatDuration(time.Duration(d)))
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null decodes to zero.
func (d *Duration) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &ParseError{Kind: kindDuration, Value: string(data), Err: err}
	}

	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Set implements pflag.Value so durations can be passed as CLI flags.
func (d *Duration) Set(s string) error {
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Type implements pflag.Value.
func (d *Duration) Type() string {
	return "iso8601-duration"
}
