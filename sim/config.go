package sim

import "math"

// Config groups the run-wide simulation parameters.
type Config struct {
	Seed       int64 // master seed for every random draw
	Horizon    int64 // events after this tick are not executed (math.MaxInt64 = unbounded)
	CarryOver  bool  // move incomplete issues into a successor sprint when a sprint ends
	MaxSprints int   // total sprint budget including carry-over successors (0 = unlimited)
}

// DefaultConfig returns an unbounded configuration with carry-over enabled.
func DefaultConfig(seed int64) Config {
	return Config{
		Seed:       seed,
		Horizon:    math.MaxInt64,
		CarryOver:  true,
		MaxSprints: 0,
	}
}

// canCreateSprint reports whether another sprint fits within MaxSprints.
func (c Config) canCreateSprint(existing int) bool {
	return c.MaxSprints <= 0 || existing < c.MaxSprints
}
