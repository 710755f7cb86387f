package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// DeriveRNG seeds an RNG from a base seed plus a stream of identifiers such as
// a tick number and a chunk ordinal. The same inputs always give the same
// sequence regardless of which goroutine draws from it.
func DeriveRNG(seed int64, stream ...uint64) *RNG {
	hi := uint64(seed)
	for _, s := range stream {
		hi = hi*0x9e3779b97f4a7c15 + s + 1
	}
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), hi))}
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Chance reports true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.r.Float64() < p
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
