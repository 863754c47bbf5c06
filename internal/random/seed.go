// Package random provides seeding for the pseudo-random sources used to draw
// pairs.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewSource returns a generator seeded from NewSeed. A fixed seed is used if
// crypto/rand fails.
func NewSource() *rand.Rand {
	seed, err := NewSeed()
	if err != nil {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}
