package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(42)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, int64(math.MaxInt64), cfg.Horizon)
	assert.True(t, cfg.CarryOver)
	assert.Zero(t, cfg.MaxSprints)
}

func TestConfig_CanCreateSprint(t *testing.T) {
	tests := []struct {
		max, existing int
		want          bool
	}{
		{max: 0, existing: 100, want: true},
		{max: 2, existing: 1, want: true},
		{max: 2, existing: 2, want: false},
		{max: 2, existing: 3, want: false},
	}
	for _, tt := range tests {
		cfg := Config{MaxSprints: tt.max}
		assert.Equal(t, tt.want, cfg.canCreateSprint(tt.existing), "max=%d existing=%d", tt.max, tt.existing)
	}
}
