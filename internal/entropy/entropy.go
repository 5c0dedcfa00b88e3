// Package entropy isolates the simulation's randomness behind an injectable
// source so world generation and AI wandering are reproducible under test.
package entropy

import "math/rand"

// Source wraps a seeded PRNG. The simulation is single-threaded by
// construction, so no locking is needed here.
type Source struct {
	rng *rand.Rand
}

// New creates a source from a seed. A zero seed picks a random one.
func New(seed int64) *Source {
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform int in [0, n).
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// Between returns a uniform int in [lo, hi] inclusive.
func (s *Source) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Jitter returns a uniform int in {-1, 0, +1}.
func (s *Source) Jitter() int {
	return s.rng.Intn(3) - 1
}

// Sample returns k distinct indices drawn without replacement from [0, n).
func (s *Source) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	perm := s.rng.Perm(n)
	return perm[:k]
}
