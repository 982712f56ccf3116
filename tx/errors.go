package tx

import "github.com/blockberries/crosign/types"

var (
	// ErrEncodingMismatch is returned when a sign document is assembled under a
	// different mode than the one that produced it.
	ErrEncodingMismatch = types.ErrEncodingMismatch

	// ErrSignerMismatch is returned when a signer's public key differs from the
	// key the sign document was built for.
	ErrSignerMismatch = types.Categorized(types.ErrSigningFailure, "signer does not match sign document")

	// ErrInvalidSignature is returned when a signature is not 64 bytes, is
	// high-S or does not verify against the sign document.
	ErrInvalidSignature = types.Categorized(types.ErrSigningFailure, "invalid signature")

	// ErrUnknownSignMode is returned by ParseSignMode and for a nil mode.
	ErrUnknownSignMode = types.Categorized(types.ErrInputValidation, "unknown sign mode")

	// ErrUnknownBroadcastMode is returned by ParseBroadcastMode.
	ErrUnknownBroadcastMode = types.Categorized(types.ErrInputValidation, "unknown broadcast mode")
)
