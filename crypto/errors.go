package crypto

import "github.com/blockberries/crosign/types"

// Key and signature errors.
var (
	// ErrInvalidPublicKey is returned when a public key cannot be parsed.
	ErrInvalidPublicKey = types.Categorized(types.ErrInputValidation, "invalid public key")

	// ErrInvalidPrivateKey is returned when a scalar is zero or not below the curve order.
	ErrInvalidPrivateKey = types.Categorized(types.ErrInputValidation, "invalid private key")

	// ErrInvalidSignature is returned when an externally produced signature is malformed.
	ErrInvalidSignature = types.Categorized(types.ErrSigningFailure, "invalid signature")

	// ErrSigningFailure is returned when a key cannot produce a signature,
	// for example after it has been zeroized.
	ErrSigningFailure = types.Categorized(types.ErrSigningFailure, "signature could not be produced")
)
