package ctmc

import "math/rand"

// Source is the only entropy a run consumes. *rand.Rand satisfies it.
//
// Thread-safety: a Source belongs to exactly one run at a time.
type Source interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
	// ExpFloat64 returns an exponential draw with rate 1.
	ExpFloat64() float64
}

// NewSource returns a deterministically seeded Source. Two runs of the same
// model and configuration on sources with equal seeds produce identical
// results.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
