package address

import "github.com/blockberries/crosign/types"

var (
	// ErrInvalidPrefix is returned when a prefix is malformed or not the one expected.
	ErrInvalidPrefix = types.Categorized(types.ErrInputValidation, "invalid address prefix")

	// ErrInvalidChecksum is returned when the bech32 checksum does not verify.
	ErrInvalidChecksum = types.Categorized(types.ErrInputValidation, "invalid address checksum")

	// ErrInvalidAddress is returned for any other malformed address.
	ErrInvalidAddress = types.Categorized(types.ErrInputValidation, "invalid address")
)
