package idrpseudo

import (
	"math"
	"math/rand/v2"
)

// DPRNG is a Deterministic Pseudo-Random Number Generator based on the xorshift* algorithm
// (see https://en.wikipedia.org/wiki/Xorshift#xorshift*).
// It is deterministic in the sequence of numbers it generates and has a period of 2^64-1.
// It is not cryptographically secure and not thread-safe.
// *DPRNG implements math/rand/v2.Source, so it can drive gonum's distributions.
// The state must not be zero.
type DPRNG struct {
	State uint64
	Round uint64 // for debugging purposes
}

var _ rand.Source = (*DPRNG)(nil)

// NewDPRNG returns a generator seeded with seed[0]. Without a seed, or with a zero seed,
// a random non-zero state is chosen.
func NewDPRNG(seed ...uint64) *DPRNG {
	var s uint64
	if len(seed) > 0 {
		s = seed[0]
	}
	for s == 0 {
		s = rand.Uint64()
	}
	return &DPRNG{State: s}
}

// Uint64 returns the next pseudo-random number in the sequence.
func (thisState *DPRNG) Uint64() uint64 {
	x := thisState.State
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	thisState.State = x
	thisState.Round++
	return x * 0x2545F4914F6CDD1D
}

// Float64 returns a uniformly distributed float64 in [0.0, 1.0) built from 52 random mantissa bits.
func (thisState *DPRNG) Float64() float64 {
	u := thisState.Uint64() & 0x000FFFFFFFFFFFFF
	return math.Float64frombits((uint64(1023)<<52)|u) - 1.0
}

// UInt32N returns a pseudo-random number in [0,n) without modulo bias.
// For n=0 and n=1 it returns 0.
// See https://lemire.me/blog/2016/06/30/fast-random-shuffling
func (thisState *DPRNG) UInt32N(n uint32) uint32 {
	v := uint32(thisState.Uint64() >> 32)
	prod := uint64(v) * uint64(n)
	low := uint32(prod)
	if low < n {
		thresh := -n % n
		for low < thresh {
			v = uint32(thisState.Uint64() >> 32)
			prod = uint64(v) * uint64(n)
			low = uint32(prod)
		}
	}
	return uint32(prod >> 32)
}
