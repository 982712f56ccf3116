package types

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error in this module wraps exactly one of
// these, so callers can branch on the category with errors.Is without knowing
// the concrete failure.
var (
	// ErrInputValidation covers malformed caller input: mnemonics, paths,
	// addresses, coins and transactions. Never retried locally.
	ErrInputValidation = errors.New("input validation failed")

	// ErrDerivationFailure indicates an out-of-range scalar during HD derivation.
	// The caller may retry with a different index; the library never does.
	ErrDerivationFailure = errors.New("key derivation failed")

	// ErrEncodingMismatch indicates a sign document and an envelope were produced
	// under different sign modes. This is a programming error in the caller.
	ErrEncodingMismatch = errors.New("sign mode encoding mismatch")

	// ErrSigningFailure indicates a degenerate key or signature.
	ErrSigningFailure = errors.New("signing failed")
)

var (
	// ErrInvalidCoin indicates an invalid coin (empty or malformed denom)
	ErrInvalidCoin = Categorized(ErrInputValidation, "invalid coin")

	// ErrInvalidMessage indicates an invalid message
	ErrInvalidMessage = Categorized(ErrInputValidation, "invalid message")

	// ErrInvalidTransaction indicates an invalid unsigned transaction
	ErrInvalidTransaction = Categorized(ErrInputValidation, "invalid transaction")

	// ErrUnsupportedMessageType is returned when a message is not a bank send.
	ErrUnsupportedMessageType = Categorized(ErrInputValidation, "unsupported message type")
)

// Categorized returns a sentinel error that wraps category. Sibling packages
// use it to declare their own sentinels under one of the categories above.
func Categorized(category error, msg string) error {
	return fmt.Errorf("%w: %s", category, msg)
}
