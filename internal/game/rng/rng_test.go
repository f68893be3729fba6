package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/castellan/skirmish/internal/game/rng"
	"github.com/castellan/skirmish/internal/testutil"
)

// TestSeededSource_Determinism verifies that two sources built from the same
// seed produce identical draw sequences.
func TestSeededSource_Determinism(t *testing.T) {
	a := rng.NewSeededSource(1337)
	b := rng.NewSeededSource(1337)

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64(), "float draw %d diverged", i)
		require.Equal(t, a.Intn(20), b.Intn(20), "int draw %d diverged", i)
	}
	assert.Equal(t, a.Draws(), b.Draws(), "draw counters must match")
	assert.Equal(t, int64(200), a.Draws(), "every call must count as one draw")
}

// TestSeededSource_Seed verifies the seed accessor round-trips.
func TestSeededSource_Seed(t *testing.T) {
	s := rng.NewSeededSource(42)
	assert.Equal(t, int64(42), s.Seed())
}

// TestSeededSource_DifferentSeedsDiverge verifies distinct seeds do not repeat
// the same sequence (probabilistically certain over 32 draws).
func TestSeededSource_DifferentSeedsDiverge(t *testing.T) {
	a := rng.NewSeededSource(1)
	b := rng.NewSeededSource(2)

	same := true
	for i := 0; i < 32; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds must not replay the same sequence")
}

// TestCryptoSource_Ranges_Property verifies Intn stays in [0, n) and Float64
// stays in [0, 1) for arbitrary bounds.
func TestCryptoSource_Ranges_Property(t *testing.T) {
	src := rng.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 1_000_000).Draw(rt, "n")

		v := src.Intn(n)
		assert.GreaterOrEqual(rt, v, 0, "Intn must be non-negative")
		assert.Less(rt, v, n, "Intn must be below its bound")

		f := src.Float64()
		assert.GreaterOrEqual(rt, f, 0.0, "Float64 must be >= 0")
		assert.Less(rt, f, 1.0, "Float64 must be < 1")
	})
}

// TestSource_IntnPanicsOnNonPositive verifies the Intn precondition for both
// production sources.
func TestSource_IntnPanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { rng.NewCryptoSource().Intn(0) })
	assert.Panics(t, func() { rng.NewSeededSource(7).Intn(-1) })
}

// TestChance verifies the strict "draw < p" comparison.
func TestChance(t *testing.T) {
	assert.True(t, rng.Chance(&testutil.FixedSource{F: 0.49}, 0.5), "draw under p succeeds")
	assert.False(t, rng.Chance(&testutil.FixedSource{F: 0.5}, 0.5), "draw equal to p fails")
	assert.False(t, rng.Chance(&testutil.FixedSource{F: 0.0}, 0.0), "p = 0 never succeeds")
	assert.True(t, rng.Chance(&testutil.FixedSource{F: 0.999}, 1.0), "p = 1 always succeeds")
}

// TestBetween verifies the variance draw maps [0,1) onto [lo,hi).
func TestBetween(t *testing.T) {
	assert.InDelta(t, 0.9, rng.Between(&testutil.FixedSource{F: 0.0}, 0.9, 1.1), 1e-9)
	assert.InDelta(t, 1.0, rng.Between(&testutil.FixedSource{F: 0.5}, 0.9, 1.1), 1e-9)
	assert.InDelta(t, 1.1, rng.Between(&testutil.FixedSource{F: 0.9999}, 0.9, 1.1), 1e-3)
	assert.Panics(t, func() { rng.Between(&testutil.FixedSource{}, 2, 1) })
}

// TestBetween_Property verifies Between never leaves [lo, hi) for arbitrary
// bounds and draws.
func TestBetween_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.Float64Range(-100, 100).Draw(rt, "lo")
		span := rapid.Float64Range(0.001, 100).Draw(rt, "span")
		f := rapid.Float64Range(0, 0.999999).Draw(rt, "draw")

		v := rng.Between(&testutil.FixedSource{F: f}, lo, lo+span)
		assert.GreaterOrEqual(rt, v, lo, "Between must not undershoot lo")
		assert.Less(rt, v, lo+span+1e-9, "Between must stay under hi")
	})
}

// TestLogged_Passthrough verifies the logged wrapper changes no values.
func TestLogged_Passthrough(t *testing.T) {
	plain := rng.NewSeededSource(99)
	logged := rng.NewLogged(rng.NewSeededSource(99), zap.NewNop())

	for i := 0; i < 50; i++ {
		require.Equal(t, plain.Float64(), logged.Float64(), "float draw %d altered by logging", i)
		require.Equal(t, plain.Intn(100), logged.Intn(100), "int draw %d altered by logging", i)
	}
}
