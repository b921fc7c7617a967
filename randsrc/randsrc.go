package randsrc

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// defaultSeed is the fixed "zero" seed used when a caller passes seed==0
// to New. The value is arbitrary but stable to keep reproducible defaults.
const defaultSeed int64 = 1

// Source couples a deterministic *rand.Rand with the seed that produced it,
// so any failure or replay request can report the exact seed of the run.
type Source struct {
	seed int64
	rnd  *rand.Rand
}

// New returns a deterministic Source for the given seed.
// Policy: seed==0 ⇒ use defaultSeed; otherwise use the provided seed verbatim.
//
// Complexity: O(1).
func New(seed int64) *Source {
	s := seed
	if s == 0 {
		s = defaultSeed
	}

	return &Source{seed: s, rnd: rand.New(rand.NewSource(s))}
}

// NewRandom draws a fresh seed from the operating system entropy source and
// returns a Source for it. The drawn seed is reported via Seed, so a run
// started without an explicit seed remains replayable.
// If the entropy read fails, falls back to defaultSeed (still deterministic,
// still reported).
func NewRandom() *Source {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return New(defaultSeed)
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]))
	if seed == 0 {
		seed = defaultSeed
	}

	return New(seed)
}

// Seed reports the seed this Source was created with.
func (s *Source) Seed() int64 { return s.seed }

// Rand exposes the underlying deterministic RNG.
// The returned *rand.Rand must not be shared across goroutines.
func (s *Source) Rand() *rand.Rand { return s.rnd }

// Derive creates an independent deterministic Source based on this one and a
// stream identifier, for per-instance or per-worker streams.
// Int63 is consumed once from the parent to decorrelate consecutive
// derivations, then mixed with the stream via mixSeed.
//
// Complexity: O(1).
func (s *Source) Derive(stream uint64) *Source {
	// Int63 advances parent state; intentional, so reusing the same stream id
	// by mistake still yields distinct children.
	return New(mixSeed(s.rnd.Int63(), stream))
}

// mixSeed mixes a parent seed and a stream identifier into a new 64-bit seed
// using a SplitMix64-style finalizer (canonical constants, strong diffusion).
func mixSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}
