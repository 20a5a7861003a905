// Package rng provides the seeded pseudo-random source used by layout
// generation. A seed always yields the same sequence.
package rng

import "math/rand/v2"

// stream is the fixed PCG increment shared by every generator.
const stream = 0x9e3779b97f4a7c15

// Rand is a deterministic generator. It is not safe for concurrent use.
type Rand struct {
	src *rand.PCG
}

// New returns a generator seeded from seed.
func New(seed int64) *Rand {
	return &Rand{src: rand.NewPCG(uint64(seed), stream)}
}

// Uint64 returns the next raw 64-bit value.
func (r *Rand) Uint64() uint64 {
	return r.src.Uint64()
}

// Float64 returns a value in [0, 1) built from the top 53 bits of the next
// raw value.
func (r *Rand) Float64() float64 {
	return float64(r.src.Uint64()>>11) / (1 << 53)
}

// Centered returns a value uniformly distributed in [-span/2, span/2).
func (r *Rand) Centered(span float64) float64 {
	return (r.Float64() - 0.5) * span
}
