package hd

import (
	"errors"
	"fmt"

	"github.com/blockberries/crosign/crypto"
)

const (
	minSeedSize = 16
	maxSeedSize = 64
)

// Seed is the BIP39 seed a master key is derived from.
//
// Seed is sensitive: it never prints its bytes, refuses JSON encoding and
// should be wiped with Zeroize once the master key exists.
type Seed struct {
	b []byte
}

// SeedFromBytes copies raw seed bytes (16 to 64 bytes, as BIP32 allows).
func SeedFromBytes(b []byte) (*Seed, error) {
	if len(b) < minSeedSize || len(b) > maxSeedSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSeed, len(b))
	}
	return &Seed{b: append([]byte(nil), b...)}, nil
}

// Bytes returns the seed's backing buffer. It is zeroed by Zeroize.
func (s *Seed) Bytes() []byte {
	return s.b
}

// Zeroize overwrites the seed.
func (s *Seed) Zeroize() {
	crypto.Zeroize(s.b)
}

func (s *Seed) String() string {
	return "Seed{redacted}"
}

func (s *Seed) GoString() string {
	return s.String()
}

// MarshalJSON refuses to serialize the seed.
func (s *Seed) MarshalJSON() ([]byte, error) {
	return nil, errors.New("hd: seed must not be serialized")
}
