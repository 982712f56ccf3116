package wallet

import "github.com/blockberries/crosign/types"

var (
	// ErrKeyClosed is returned by Sign after Close.
	ErrKeyClosed = types.Categorized(types.ErrSigningFailure, "key service is closed")

	// ErrDeviceSignature is returned when a device returns a signature that
	// does not verify against its own public key.
	ErrDeviceSignature = types.Categorized(types.ErrSigningFailure, "device returned an invalid signature")

	// ErrDevice wraps transport failures reported by a device.
	ErrDevice = types.Categorized(types.ErrSigningFailure, "device error")
)
