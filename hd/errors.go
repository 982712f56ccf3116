package hd

import "github.com/blockberries/crosign/types"

// Mnemonic errors. None of them carry the offending words.
var (
	// ErrInvalidWordCount is returned when a phrase is not 12, 15, 18, 21 or 24 words.
	ErrInvalidWordCount = types.Categorized(types.ErrInputValidation, "invalid mnemonic word count")

	// ErrUnknownWord is returned when a word is not in the English wordlist.
	// The wrapping error names the 1-based position only.
	ErrUnknownWord = types.Categorized(types.ErrInputValidation, "unknown mnemonic word")

	// ErrChecksumMismatch is returned when the embedded checksum bits are wrong.
	ErrChecksumMismatch = types.Categorized(types.ErrInputValidation, "mnemonic checksum mismatch")

	// ErrInvalidSeed is returned for a seed outside the 16..64 byte range.
	ErrInvalidSeed = types.Categorized(types.ErrInputValidation, "invalid seed length")
)

// Derivation errors.
var (
	// ErrInvalidPath is returned for a malformed path string or an index >= 2^31.
	ErrInvalidPath = types.Categorized(types.ErrInputValidation, "invalid derivation path")

	// ErrHardenedFromPublic is returned when a hardened child is requested
	// from a public-only key.
	ErrHardenedFromPublic = types.Categorized(types.ErrInputValidation, "cannot derive hardened child from public key")

	// ErrInvalidExtendedKey is returned when an xpub string cannot be parsed.
	ErrInvalidExtendedKey = types.Categorized(types.ErrInputValidation, "invalid extended key")

	// ErrNotPrivate is returned when private material is requested from a
	// public-only key.
	ErrNotPrivate = types.Categorized(types.ErrInputValidation, "extended key is public only")

	// ErrInvalidChildKey is returned when IL >= n or the resulting key is zero
	// (or the point at infinity). The caller may try the next index.
	ErrInvalidChildKey = types.Categorized(types.ErrDerivationFailure, "invalid child key")

	// ErrDepthExceeded is returned when deriving below depth 255.
	ErrDepthExceeded = types.Categorized(types.ErrDerivationFailure, "maximum derivation depth exceeded")

	// ErrKeyZeroized is returned when deriving from a key after Zeroize.
	ErrKeyZeroized = types.Categorized(types.ErrDerivationFailure, "extended key has been zeroized")
)
