package codec

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "PT0S"},
		{time.Second, "PT1S"},
		{1500 * time.Millisecond, "PT1.5S"},
		{90 * time.Minute, "PT1H30M"},
		{26 * time.Hour, "P1DT2H"},
		{48 * time.Hour, "P2D"},
		{-2 * time.Hour, "-PT2H"},
		{time.Nanosecond, "PT0.000000001S"},
		{24*time.Hour + 3*time.Minute + 4*time.Second, "P1DT3M4S"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT0S", 0},
		{"P1Y", 365 * 24 * time.Hour},
		{"P1M", 30 * 24 * time.Hour},
		{"PT1M", time.Minute},
		{"P1W", 7 * 24 * time.Hour},
		{"P1DT2H30M", 26*time.Hour + 30*time.Minute},
		{"PT0.5S", 500 * time.Millisecond},
		{"PT1.123456789123S", time.Second + 123456789*time.Nanosecond},
		{"-P1DT1S", -(24*time.Hour + time.Second)},
		{"P1Y2M3DT4H5M6S", (365+60+3)*24*time.Hour + 4*time.Hour + 5*time.Minute + 6*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, in := range []string{"", "P", "PT", "P1DT", "1D", "P1H", "PT1.5M", "P1.5D", "P99999999999999999999D", "P200000D", "PT1S junk"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDuration(in)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, kindDuration, parseErr.Kind)
		})
	}
}

func TestDuration_RoundTrip(t *testing.T) {
	for _, d := range []time.Duration{
		0,
		time.Millisecond,
		59 * time.Second,
		3*time.Hour + 7*time.Millisecond,
		400 * 24 * time.Hour,
		-(36*time.Hour + 250*time.Microsecond),
	} {
		got, err := ParseDuration(FormatDuration(d))
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
}

func TestDuration_JSON(t *testing.T) {
	type payload struct {
		Length Duration `json:"length"`
	}

	out, err := json.Marshal(payload{Length: Duration(90 * time.Minute)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"length":"PT1H30M"}`, string(out))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"length":"P1DT1H"}`), &p))
	assert.Equal(t, 25*time.Hour, p.Length.Std())

	require.NoError(t, json.Unmarshal([]byte(`{"length":null}`), &p))
	assert.Zero(t, p.Length)

	assert.Error(t, json.Unmarshal([]byte(`{"length":"soon"}`), &p))
}

func TestDuration_Set(t *testing.T) {
	var d Duration
	require.NoError(t, d.Set("PT45M"))
	assert.Equal(t, 45*time.Minute, d.Std())
	assert.Equal(t, "PT45M", d.String())
	assert.Error(t, d.Set("45m"))
}
