// Package rng provides the single seedable random stream the kernel draws
// from. Every draw advances the stream in exactly the order callers
// request it — there is never more than one Stream alive per run, and it
// is never read from goroutines other than the kernel's own tick loop.
//
// A pooled-client-with-small-typed-accessors shape wraps a seeded
// math/rand.Rand, the same primitive worldgen.Generate uses for
// reproducible generation. Anything sourced from
// an external entropy service would be non-deterministic and break
// replay, so every draw stays on the seeded stream.
package rng

import "math/rand"

// Stream is the kernel's single random source for a run.
type Stream struct {
	r *rand.Rand
}

// New creates a Stream seeded from seed. Two Streams created from the same
// seed and drawn from in the same order produce identical sequences.
func New(seed int64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns the next draw in [0.0, 1.0).
func (s *Stream) Float64() float64 {
	return s.r.Float64()
}

// Range returns the next draw uniformly distributed in [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.r.Float64()*(hi-lo)
}

// Intn returns the next draw in [0, n). Panics if n <= 0.
func (s *Stream) Intn(n int) int {
	return s.r.Intn(n)
}

// Bool returns true with the given probability (clamped to [0, 1]).
func (s *Stream) Bool(probability float64) bool {
	if probability <= 0 {
		return false
	}
	if probability >= 1 {
		return true
	}
	return s.r.Float64() < probability
}

// Pick returns a uniformly random index into a slice of length n. Panics
// if n <= 0.
func (s *Stream) Pick(n int) int {
	return s.r.Intn(n)
}

// WeightedPick draws an index from weights proportional to their value.
// Weights must be non-negative and sum to > 0; iteration is over the
// supplied slice in order, so callers must pass weights in a stable,
// pre-sorted order to keep the draw deterministic across runs (spec
// Section 5(v)).
func (s *Stream) WeightedPick(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	roll := s.r.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if roll < acc {
			return i
		}
	}
	return len(weights) - 1
}
