package mutagens

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// RandomSource is the generator consumed by RandomizeAssignments.
// *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

const pcgStream = 0x9e3779b97f4a7c15

// NewRandomSource returns a PCG generator seeded with seed. Two sources built
// from the same seed produce the same sequence.
func NewRandomSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^pcgStream))
}

// EntropySeed draws a seed from the operating system.
func EntropySeed() (int64, error) {
	var buf [8]byte

	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read entropy: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}
