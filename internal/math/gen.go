package math

import (
	"math/rand"
	"time"
)

// Random creates a random source seeded from the current time.
func Random() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Seeded creates a deterministic random source.
// A zero seed falls back to a time based one.
func Seeded(seed int64) *rand.Rand {
	if seed == 0 {
		return Random()
	}
	return rand.New(rand.NewSource(seed))
}

// Uniform returns a sample within [min, min+width).
func Uniform(rnd *rand.Rand, min, width float64) float64 {
	return min + rnd.Float64()*width
}
