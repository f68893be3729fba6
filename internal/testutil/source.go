package testutil

// ScriptedSource implements rng.Source by replaying queued draws in order.
// Draw order is part of the combat contract, so tests script the exact
// sequence an operation will consume and fail fast on any mismatch.
type ScriptedSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

// Draws creates a ScriptedSource that returns the given Float64 values in order.
func Draws(floats ...float64) *ScriptedSource {
	return &ScriptedSource{floats: floats}
}

// WithInts queues values for Intn and returns the receiver for chaining.
func (s *ScriptedSource) WithInts(vals ...int) *ScriptedSource {
	s.ints = append(s.ints, vals...)
	return s
}

// Float64 returns the next queued float draw.
// Panics if the queue is exhausted: the test scripted too few draws.
func (s *ScriptedSource) Float64() float64 {
	if s.fi >= len(s.floats) {
		panic("testutil: ScriptedSource exhausted its Float64 queue")
	}
	v := s.floats[s.fi]
	s.fi++
	return v
}

// Intn returns the next queued int draw, clamped into [0, n).
// Panics if the queue is exhausted.
func (s *ScriptedSource) Intn(n int) int {
	if s.ii >= len(s.ints) {
		panic("testutil: ScriptedSource exhausted its Intn queue")
	}
	v := s.ints[s.ii]
	s.ii++
	if v >= n {
		return n - 1
	}
	return v
}

// Remaining reports how many scripted draws were never consumed.
// Tests asserting exact draw counts check that this is zero.
func (s *ScriptedSource) Remaining() int {
	return (len(s.floats) - s.fi) + (len(s.ints) - s.ii)
}

// FixedSource implements rng.Source by returning the same values on every
// draw. F is returned by Float64; N by Intn, clamped into [0, n).
type FixedSource struct {
	F float64
	N int
}

// Float64 returns the fixed float value.
func (f *FixedSource) Float64() float64 { return f.F }

// Intn returns the fixed int value, clamped into [0, n).
func (f *FixedSource) Intn(n int) int {
	if f.N >= n {
		return n - 1
	}
	return f.N
}
