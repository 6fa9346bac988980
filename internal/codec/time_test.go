package codec

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "utc with milliseconds",
			input: "2024-06-10T17:29:03.123Z",
			want:  time.Date(2024, 6, 10, 17, 29, 3, 123_000_000, time.UTC),
		},
		{
			name:  "positive offset is normalised",
			input: "2024-06-10T19:29:03+02:00",
			want:  time.Date(2024, 6, 10, 17, 29, 3, 0, time.UTC),
		},
		{
			name:  "negative offset crosses midnight",
			input: "2024-06-10T22:00:00.5-05:00",
			want:  time.Date(2024, 6, 11, 3, 0, 0, 500_000_000, time.UTC),
		},
		{
			name:  "no offset is read as utc",
			input: "2024-06-10T17:29:03",
			want:  time.Date(2024, 6, 10, 17, 29, 3, 0, time.UTC),
		},
		{
			name:  "minutes precision",
			input: "2024-06-10T17:29",
			want:  time.Date(2024, 6, 10, 17, 29, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2024-06-10",
			want:  time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			input: "  2024-06-10T17:29:03Z ",
			want:  time.Date(2024, 6, 10, 17, 29, 3, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTime_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not-a-date", "2024-13-01T00:00:00Z", "10/06/2024"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTime(input)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, kindTime, parseErr.Kind)
			assert.Equal(t, input, parseErr.Value)
		})
	}
}

func TestFormatTime(t *testing.T) {
	cest := time.FixedZone("CEST", 2*60*60)

	assert.Equal(t, "2024-06-10T17:29:03.000Z", FormatTime(time.Date(2024, 6, 10, 19, 29, 3, 0, cest)))
	assert.Equal(t, "2024-06-10T17:29:03.123Z", FormatTime(time.Date(2024, 6, 10, 17, 29, 3, 123_456_789, time.UTC)))
	assert.Equal(t, "0001-01-01T00:00:00.000Z", FormatTime(time.Time{}))
}

func TestFormatBound(t *testing.T) {
	cest := time.FixedZone("CEST", 2*60*60)

	bound := time.Date(2024, 6, 10, 19, 29, 3, 123_456_789, cest)
	assert.Equal(t, "2024-06-10T17:29:03.123456789Z", FormatBound(bound))
	assert.Equal(t, "2024-06-10T17:29:03Z", FormatBound(time.Date(2024, 6, 10, 17, 29, 3, 0, time.UTC)))

	parsed, err := ParseTime(FormatBound(bound))
	require.NoError(t, err)
	assert.True(t, bound.Equal(parsed))
}

func TestTime_RoundTrip(t *testing.T) {
	original := time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC)

	parsed, err := ParseTime(FormatTime(original))
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))

	// A non-UTC input re-encodes as its UTC equivalent.
	parsed, err = ParseTime("2025-01-02T05:04:05.006+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02T03:04:05.006Z", FormatTime(parsed))
}

func TestTime_JSON(t *testing.T) {
	type payload struct {
		At       Time  `json:"at"`
		Optional *Time `json:"optional"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-06-10T19:29:03+02:00","optional":null}`), &p))
	assert.True(t, time.Date(2024, 6, 10, 17, 29, 3, 0, time.UTC).Equal(p.At.Time))
	assert.Nil(t, p.Optional)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-06-10T17:29:03.000Z","optional":null}`, string(out))

	p.Optional = TimePtr(time.Date(2024, 6, 11, 8, 0, 0, 0, time.UTC))
	out, err = json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-06-10T17:29:03.000Z","optional":"2024-06-11T08:00:00.000Z"}`, string(out))
}

func TestTime_UnmarshalNull(t *testing.T) {
	var required struct {
		StartAt Time `json:"start_at"`
	}
	err := json.Unmarshal([]byte(`{"start_at":null}`), &required)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, errEmptyValue)
	assert.True(t, required.StartAt.IsZero())

	optional := struct {
		EndAt *Time `json:"end_at"`
	}{EndAt: TimePtr(time.Now())}
	require.NoError(t, json.Unmarshal([]byte(`{"end_at":null}`), &optional))
	assert.Nil(t, optional.EndAt)
}

func TestTime_UnmarshalInvalid(t *testing.T) {
	var tm Time

	err := json.Unmarshal([]byte(`12345`), &tm)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	err = json.Unmarshal([]byte(`"yesterday"`), &tm)
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "yesterday", parseErr.Value)
}
