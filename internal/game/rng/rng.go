// Package rng provides the core randomness abstraction for the Skirmish
// combat engine. Every probabilistic outcome in combat is drawn through a
// Source so that battles replay identically under an identical seed.
package rng

// Source is the randomness provider for combat resolution.
//
// A battle owns its Source exclusively for its whole lifetime; implementations
// are not required to be safe for concurrent use unless documented otherwise.
type Source interface {
	// Float64 returns a uniformly distributed float64 in [0.0, 1.0).
	Float64() float64

	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Chance draws once from src and reports whether the draw landed under p.
// A p <= 0 never succeeds; a p >= 1 always does.
//
// Postcondition: exactly one Float64 draw is consumed from src.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Between draws a uniformly distributed float64 in [lo, hi).
// Used for damage variance multipliers.
//
// Precondition: lo <= hi.
// Postcondition: exactly one Float64 draw is consumed from src.
func Between(src Source, lo, hi float64) float64 {
	if lo > hi {
		panic("rng: Between called with lo > hi")
	}
	return lo + src.Float64()*(hi-lo)
}
