// Package rng provides the seeded random streams used by the render pipeline.
//
// A Context wraps a PCG generator from math/rand/v2. Every subsystem draws
// from its own substream obtained with Derive, so subsystems can run in any
// order, or concurrently, without changing each other's output.
package rng

import (
	"math"
	"math/rand/v2"

	"github.com/zeebo/xxh3"
)

// Context is a deterministic random stream.
//
// A Context is NOT safe for concurrent use. Derive a separate substream for
// every goroutine instead of sharing one.
type Context struct {
	seed int64
	key  uint64
	src  *rand.Rand
}

// New creates the master stream for seed.
func New(seed int64) *Context {
	key := splitmix(uint64(seed))
	return newContext(seed, key)
}

func newContext(seed int64, key uint64) *Context {
	return &Context{
		seed: seed,
		key:  key,
		src:  rand.New(rand.NewPCG(key, splitmix(key^0x9e3779b97f4a7c15))),
	}
}

// Seed returns the master seed the stream was created from.
func (c *Context) Seed() int64 { return c.seed }

// Derive returns the substream identified by id.
//
// The substream is a pure function of (master seed, id): it does not depend
// on how many values were drawn from c, nor on the order in which
// substreams are derived. Derive on a derived stream nests the ids.
func (c *Context) Derive(id string) *Context {
	return newContext(c.seed, xxh3.HashStringSeed(id, c.key))
}

// Float64 returns a uniform value in [0, 1).
func (c *Context) Float64() float64 { return c.src.Float64() }

// Uniform returns a uniform value in [lo, hi).
func (c *Context) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*c.src.Float64()
}

// Angle returns a uniform angle in [0, 2π).
func (c *Context) Angle() float64 { return c.src.Float64() * 2 * math.Pi }

// Gaussian returns a normally distributed value.
func (c *Context) Gaussian(mean, std float64) float64 {
	return mean + std*c.src.NormFloat64()
}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (c *Context) IntN(n int) int { return c.src.IntN(n) }

// Perm returns a pseudo-random permutation of [0, n).
func (c *Context) Perm(n int) []int { return c.src.Perm(n) }

// Reject performs rejection sampling on src.
//
// propose draws a candidate from src; accept returns the acceptance
// probability of a candidate in [0, 1]. Reject returns the first accepted
// candidate and true, or the last candidate and false once maxTries
// proposals have been rejected. Each try draws one acceptance value from
// src after the proposal.
func Reject[T any](src *Context, propose func(*Context) T, accept func(T) float64, maxTries int) (T, bool) {
	var v T
	for range max(maxTries, 1) {
		v = propose(src)
		if src.src.Float64() < accept(v) {
			return v, true
		}
	}
	return v, false
}

// splitmix is the SplitMix64 finalizer, used to spread seeds into
// well-mixed PCG state.
func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
