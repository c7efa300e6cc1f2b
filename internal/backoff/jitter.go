// Package backoff computes retry delays for source watchers and KV setup.
package backoff

import (
	rand "math/rand/v2"
	"time"
)

// Policy describes a capped, jittered exponential backoff.
//
// Given the previous delay (prev), the next delay is
//
//	next = min(Cap, Base + rand(prev*Multiplier - Base))
//
// Behavior:
//   - If prev <= 0, start from Base
//   - Multiplier < 1.0 falls back to 1.0 (no growth)
//   - Cap < Base returns Cap
type Policy struct {
	Base       time.Duration
	Multiplier float64
	Cap        time.Duration

	// rng is nil for the package-level PRNG.
	rng *rand.Rand
}

// Default returns the policy used by source watchers: 100ms growing by 1.6x up to 5s.
func Default() Policy {
	return Policy{Base: 100 * time.Millisecond, Multiplier: 1.6, Cap: 5 * time.Second}
}

// WithSeed returns a copy of p using a deterministic RNG. A zero seed keeps the
// package-level PRNG.
//
//nolint:gosec
func (p Policy) WithSeed(seed int64) Policy {
	if seed == 0 {
		p.rng = nil
		return p
	}
	s1 := uint64(seed)
	s2 := s1 ^ 0x9e3779b97f4a7c15
	p.rng = rand.New(rand.NewPCG(s1, s2))

	return p
}

// Next returns the delay following prev.
func (p Policy) Next(prev time.Duration) time.Duration {
	base := p.Base
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	mult := p.Multiplier
	if mult < 1.0 {
		mult = 1.0
	}
	if p.Cap > 0 && p.Cap < base {
		return p.Cap
	}
	if prev <= 0 {
		return base
	}

	span := time.Duration(float64(prev)*mult) - base
	if span <= 0 {
		span = base
	}

	var jitter int64
	if p.rng != nil {
		jitter = p.rng.Int64N(int64(span))
	} else {
		jitter = rand.Int64N(int64(span)) //nolint:gosec // non-crypto backoff jitter
	}

	next := base + time.Duration(jitter)
	if p.Cap > 0 && next > p.Cap {
		return p.Cap
	}

	return next
}
