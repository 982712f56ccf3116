// Package address encodes account addresses: the hash160 of a compressed
// secp256k1 public key, rendered as bech32 under a human-readable prefix.
package address

import (
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/blockberries/crosign/crypto"
)

const (
	// DefaultPrefix is the mainnet account prefix.
	DefaultPrefix = "cro"

	// TestnetPrefix is the public testnet account prefix.
	TestnetPrefix = "tcro"

	// DigestSize is the length of an address digest.
	DigestSize = crypto.Hash160Size

	maxPrefixLen = 83
)

// Address is a 20-byte account digest, optionally tagged with the prefix it
// was decoded under.
type Address struct {
	digest [DigestSize]byte
	prefix string
}

// FromPublicKey computes the address of a 33-byte compressed public key.
// The result carries no prefix.
func FromPublicKey(pub []byte) (Address, error) {
	if _, err := crypto.PublicKeyFromBytes(pub); err != nil {
		return Address{}, err
	}
	var a Address
	copy(a.digest[:], crypto.Hash160(pub))
	return a, nil
}

// FromDigest wraps a raw 20-byte digest.
func FromDigest(digest []byte) (Address, error) {
	if len(digest) != DigestSize {
		return Address{}, fmt.Errorf("%w: digest is %d bytes, want %d", ErrInvalidAddress, len(digest), DigestSize)
	}
	var a Address
	copy(a.digest[:], digest)
	return a, nil
}

// Encode returns the bech32 address of pub under prefix.
func Encode(pub []byte, prefix string) (string, error) {
	a, err := FromPublicKey(pub)
	if err != nil {
		return "", err
	}
	return a.Bech32(prefix)
}

// Decode parses a bech32 address and returns its prefix and 20-byte digest.
// A checksum failure returns ErrInvalidChecksum; anything else malformed
// returns ErrInvalidAddress.
func Decode(s string) (prefix string, digest []byte, err error) {
	hrp, data, version, err := bech32.DecodeGeneric(s)
	if err != nil {
		var checksumErr bech32.ErrInvalidChecksum
		if errors.As(err, &checksumErr) {
			return "", nil, ErrInvalidChecksum
		}
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if version != bech32.Version0 {
		return "", nil, fmt.Errorf("%w: bech32m checksum", ErrInvalidChecksum)
	}

	digest, err = bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(digest) != DigestSize {
		return "", nil, fmt.Errorf("%w: digest is %d bytes, want %d", ErrInvalidAddress, len(digest), DigestSize)
	}
	return hrp, digest, nil
}

// DecodeWithPrefix decodes s and requires its prefix to equal prefix.
func DecodeWithPrefix(s, prefix string) (Address, error) {
	hrp, digest, err := Decode(s)
	if err != nil {
		return Address{}, err
	}
	if hrp != prefix {
		return Address{}, fmt.Errorf("%w: got %q, want %q", ErrInvalidPrefix, hrp, prefix)
	}
	a, err := FromDigest(digest)
	if err != nil {
		return Address{}, err
	}
	a.prefix = hrp
	return a, nil
}

// Bech32 renders the address under prefix.
func (a Address) Bech32(prefix string) (string, error) {
	if err := validatePrefix(prefix); err != nil {
		return "", err
	}
	s, err := bech32.EncodeFromBase256(prefix, a.digest[:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return s, nil
}

// WithPrefix returns a copy of a tagged with prefix.
func (a Address) WithPrefix(prefix string) Address {
	a.prefix = prefix
	return a
}

// Prefix returns the prefix a was decoded under, or "".
func (a Address) Prefix() string { return a.prefix }

// Bytes returns a copy of the digest.
func (a Address) Bytes() []byte {
	return append([]byte(nil), a.digest[:]...)
}

// Equals compares digests only.
func (a Address) Equals(other Address) bool {
	return subtle.ConstantTimeCompare(a.digest[:], other.digest[:]) == 1
}

// Empty reports whether a is the zero address.
func (a Address) Empty() bool {
	return a.digest == [DigestSize]byte{}
}

// String returns the bech32 form when a carries a prefix, else the hex digest.
func (a Address) String() string {
	if a.prefix != "" {
		if s, err := a.Bech32(a.prefix); err == nil {
			return s
		}
	}
	return hex.EncodeToString(a.digest[:])
}

// MarshalJSON encodes a tagged address as its bech32 string.
func (a Address) MarshalJSON() ([]byte, error) {
	if a.prefix == "" {
		return nil, fmt.Errorf("%w: address has no prefix", ErrInvalidPrefix)
	}
	s, err := a.Bech32(a.prefix)
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// UnmarshalJSON decodes a bech32 string under whatever prefix it carries.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	hrp, digest, err := Decode(s)
	if err != nil {
		return err
	}
	decoded, err := FromDigest(digest)
	if err != nil {
		return err
	}
	*a = decoded.WithPrefix(hrp)
	return nil
}

func validatePrefix(prefix string) error {
	if prefix == "" || len(prefix) > maxPrefixLen {
		return fmt.Errorf("%w: length %d", ErrInvalidPrefix, len(prefix))
	}
	if strings.ToLower(prefix) != prefix {
		return fmt.Errorf("%w: %q is not lowercase", ErrInvalidPrefix, prefix)
	}
	for i := 0; i < len(prefix); i++ {
		if prefix[i] < 33 || prefix[i] > 126 {
			return fmt.Errorf("%w: invalid character at %d", ErrInvalidPrefix, i)
		}
	}
	return nil
}
