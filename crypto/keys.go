// Package crypto provides the secp256k1 key primitives and the signing
// capability used by the transaction pipeline.
package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"runtime"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// PublicKeySize is the length of a compressed secp256k1 public key.
	PublicKeySize = 33

	// PrivateKeySize is the length of a secp256k1 scalar.
	PrivateKeySize = 32

	// SignatureSize is the length of a compact r||s signature.
	SignatureSize = 64
)

// Zeroize securely overwrites a byte slice with zeros.
// Used to clear sensitive data (seeds, scalars, chain codes) from memory.
//
// subtle.XORBytes(b, b, b) cannot be elided as a dead store, and
// runtime.KeepAlive keeps b live until the write has happened.
func Zeroize(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.XORBytes(b, b, b)
	runtime.KeepAlive(b)
}

// PublicKey represents a compressed secp256k1 public key.
type PublicKey interface {
	// Bytes returns the 33-byte compressed encoding.
	Bytes() []byte

	// Verify checks a 64-byte r||s signature over SHA-256(data).
	// High-S signatures are rejected, matching the chain's verifier.
	Verify(data, signature []byte) bool

	// Equals checks if two public keys are equal.
	// Uses constant-time comparison to prevent timing attacks.
	Equals(other PublicKey) bool

	// String returns the Base64-encoded compressed key.
	String() string
}

// PrivateKey represents a secp256k1 signing key.
//
// The scalar is deliberately not readable through this interface; the only
// operations are signing, deriving the public key and wiping.
type PrivateKey interface {
	// PublicKey returns the corresponding public key.
	PublicKey() PublicKey

	// Sign hashes data with SHA-256 and returns a low-S 64-byte r||s
	// signature using an RFC 6979 deterministic nonce.
	Sign(data []byte) ([]byte, error)

	// Zeroize overwrites the private scalar with zeros.
	// After calling Zeroize, Sign returns ErrSigningFailure.
	Zeroize()
}

// secp256k1PublicKey implements PublicKey.
type secp256k1PublicKey struct {
	key *secp256k1.PublicKey
}

// Bytes returns the 33-byte compressed public key.
func (k *secp256k1PublicKey) Bytes() []byte {
	return k.key.SerializeCompressed()
}

// Verify verifies an ECDSA signature.
func (k *secp256k1PublicKey) Verify(data, signature []byte) bool {
	if len(signature) != SignatureSize {
		return false
	}

	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(signature[:32]) {
		return false // overflow
	}
	if s.SetByteSlice(signature[32:]) {
		return false // overflow
	}
	if s.IsOverHalfOrder() {
		return false
	}

	hash := sha256.Sum256(data)
	return dcrecdsa.NewSignature(&r, &s).Verify(hash[:], k.key)
}

// Equals checks equality using constant-time comparison.
func (k *secp256k1PublicKey) Equals(other PublicKey) bool {
	if other == nil {
		return false
	}
	return subtle.ConstantTimeCompare(k.Bytes(), other.Bytes()) == 1
}

// String returns Base64-encoded compressed public key.
func (k *secp256k1PublicKey) String() string {
	return base64.StdEncoding.EncodeToString(k.Bytes())
}

// secp256k1PrivateKey implements PrivateKey.
type secp256k1PrivateKey struct {
	mu  sync.RWMutex
	key *secp256k1.PrivateKey
	pub *secp256k1PublicKey
}

// PublicKey returns the corresponding public key.
// It stays valid after Zeroize.
func (k *secp256k1PrivateKey) PublicKey() PublicKey {
	return k.pub
}

// Sign signs SHA-256(data) using RFC 6979 deterministic k.
// dcrd produces canonical (low-S) signatures.
func (k *secp256k1PrivateKey) Sign(data []byte) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.key.Key.IsZero() {
		return nil, fmt.Errorf("%w: private key is zero", ErrSigningFailure)
	}

	hash := sha256.Sum256(data)
	sig := dcrecdsa.Sign(k.key, hash[:])

	r := sig.R()
	s := sig.S()
	if r.IsZero() || s.IsZero() {
		return nil, fmt.Errorf("%w: degenerate signature", ErrSigningFailure)
	}
	rBytes := r.Bytes()
	sBytes := s.Bytes()

	signature := make([]byte, SignatureSize)
	copy(signature[:32], rBytes[:])
	copy(signature[32:], sBytes[:])

	return signature, nil
}

// Zeroize overwrites the private key with zeros.
func (k *secp256k1PrivateKey) Zeroize() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.key.Zero()
}

// String never prints key material.
func (k *secp256k1PrivateKey) String() string {
	return "PrivateKey{secp256k1, pub=" + k.pub.String() + "}"
}

// GoString keeps %#v from dumping the scalar.
func (k *secp256k1PrivateKey) GoString() string {
	return k.String()
}

// PrivateKeyFromBytes creates a private key from a 32-byte big-endian scalar.
// The scalar must be in [1, n-1]. The input is copied; the caller should zero
// its own buffer afterwards.
func PrivateKeyFromBytes(data []byte) (PrivateKey, error) {
	if len(data) != PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, PrivateKeySize, len(data))
	}

	var scalar secp256k1.ModNScalar
	overflow := scalar.SetByteSlice(data)
	if overflow || scalar.IsZero() {
		scalar.Zero()
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidPrivateKey)
	}
	return newPrivateKey(&scalar), nil
}

// PrivateKeyFromScalar wraps a scalar produced by HD derivation. The scalar is
// copied and the argument is left untouched.
func PrivateKeyFromScalar(scalar *secp256k1.ModNScalar) (PrivateKey, error) {
	if scalar == nil || scalar.IsZero() {
		return nil, fmt.Errorf("%w: scalar is zero", ErrInvalidPrivateKey)
	}
	return newPrivateKey(scalar), nil
}

func newPrivateKey(scalar *secp256k1.ModNScalar) *secp256k1PrivateKey {
	key := secp256k1.NewPrivateKey(scalar)
	return &secp256k1PrivateKey{
		key: key,
		pub: &secp256k1PublicKey{key: key.PubKey()},
	}
}

// GeneratePrivateKey generates a new random private key.
func GeneratePrivateKey() (PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secp256k1 key: %w", err)
	}
	defer key.Zero()
	return newPrivateKey(&key.Key), nil
}

// PublicKeyFromBytes parses a 33-byte compressed public key.
func PublicKeyFromBytes(data []byte) (PublicKey, error) {
	if len(data) != PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes (compressed), got %d", ErrInvalidPublicKey, PublicKeySize, len(data))
	}

	key, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	return &secp256k1PublicKey{key: key}, nil
}

// PublicKeyFromPoint wraps an already-parsed curve point.
func PublicKeyFromPoint(key *secp256k1.PublicKey) PublicKey {
	return &secp256k1PublicKey{key: key}
}

// PublicKeyFromBase64 parses the Base64 form returned by PublicKey.String.
func PublicKeyFromBase64(s string) (PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return PublicKeyFromBytes(raw)
}
