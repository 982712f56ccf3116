package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Low-S signature normalization.
//
// ECDSA signatures are malleable: for any valid signature (r, s), the signature
// (r, n-s) is also valid where n is the curve order. The chain only accepts
// s <= n/2, so every signature that leaves this module is in that form.
//
// Local keys already sign low-S. These helpers exist for signatures produced
// elsewhere, such as a hardware device.

// IsLowS reports whether a 64-byte r||s signature has s in the lower half of
// the curve order. Returns false for invalid lengths or out-of-range s.
func IsLowS(sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	var s secp256k1.ModNScalar
	if s.SetByteSlice(sig[32:]) {
		return false
	}
	return !s.IsOverHalfOrder()
}

// NormalizeSignature returns sig in compact low-S form.
//
// sig may be a 64-byte r||s signature or a DER encoding. If s is in the upper
// half it is replaced by n-s. The input is never modified.
func NormalizeSignature(sig []byte) ([]byte, error) {
	var r, s secp256k1.ModNScalar

	switch {
	case len(sig) == SignatureSize:
		if r.SetByteSlice(sig[:32]) || s.SetByteSlice(sig[32:]) {
			return nil, fmt.Errorf("%w: signature component overflows curve order", ErrInvalidSignature)
		}
	default:
		parsed, err := dcrecdsa.ParseDERSignature(sig)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		r = parsed.R()
		s = parsed.S()
	}

	if r.IsZero() || s.IsZero() {
		return nil, fmt.Errorf("%w: zero signature component", ErrInvalidSignature)
	}

	if s.IsOverHalfOrder() {
		s.Negate()
	}

	rBytes := r.Bytes()
	sBytes := s.Bytes()
	out := make([]byte, SignatureSize)
	copy(out[:32], rBytes[:])
	copy(out[32:], sBytes[:])
	return out, nil
}

// MakeHighS returns the (r, n-s) twin of a low-S signature. Used in tests to
// check that verification rejects malleated signatures. Returns nil for
// invalid input.
func MakeHighS(sig []byte) []byte {
	if len(sig) != SignatureSize {
		return nil
	}
	var s secp256k1.ModNScalar
	if s.SetByteSlice(sig[32:]) || !IsLowS(sig) {
		return nil
	}
	s.Negate()
	sBytes := s.Bytes()

	out := make([]byte, SignatureSize)
	copy(out[:32], sig[:32])
	copy(out[32:], sBytes[:])
	return out
}
