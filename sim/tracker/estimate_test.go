package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEstimate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"4h", 4 * time.Hour, false},
		{"0h", 0, false},
		{"20h", 20 * time.Hour, false},
		{"4", 0, true},
		{"4.5h", 0, true},
		{"-1h", 0, true},
		{"4m", 0, true},
		{" 4h", 0, true},
		{"h", 0, true},
		{"99999999999999999999h", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEstimate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatEstimate(t *testing.T) {
	s, err := FormatEstimate(10 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "10h", s)

	s, err = FormatEstimate(0)
	require.NoError(t, err)
	assert.Equal(t, "0h", s)

	_, err = FormatEstimate(90 * time.Minute)
	assert.Error(t, err)
	_, err = FormatEstimate(-time.Hour)
	assert.Error(t, err)
}

func TestEstimate_RoundTrip(t *testing.T) {
	for _, h := range []int{0, 1, 4, 37, 1000} {
		s, err := FormatEstimate(time.Duration(h) * time.Hour)
		require.NoError(t, err)
		d, err := ParseEstimate(s)
		require.NoError(t, err)
		assert.Equal(t, time.Duration(h)*time.Hour, d)
	}
}
