// Package hd implements BIP39 mnemonics and BIP32/BIP44 hierarchical key
// derivation over secp256k1.
package hd

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"

	"github.com/blockberries/crosign/crypto"
)

const (
	// seedIterations is the BIP39 PBKDF2 round count.
	seedIterations = 2048

	// SeedSize is the length of a BIP39 seed.
	SeedSize = 64

	seedSaltPrefix = "mnemonic"
)

// validWordCounts maps each accepted phrase length to its entropy size in bits.
var validWordCounts = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	21: 224,
	24: 256,
}

// Mnemonic is a validated BIP39 English phrase.
//
// INVARIANT: every word is in the wordlist, the word count is valid and the
// checksum bits match. A Mnemonic can only be obtained through ParseMnemonic
// or NewMnemonic.
type Mnemonic struct {
	words []string
}

// ParseMnemonic normalizes (NFKD) and validates a phrase. Words may be
// separated by any run of whitespace.
func ParseMnemonic(phrase string) (*Mnemonic, error) {
	words := strings.Fields(norm.NFKD.String(phrase))

	if _, ok := validWordCounts[len(words)]; !ok {
		return nil, fmt.Errorf("%w: got %d words", ErrInvalidWordCount, len(words))
	}

	for i, w := range words {
		if _, ok := bip39.GetWordIndex(w); !ok {
			return nil, fmt.Errorf("%w: position %d", ErrUnknownWord, i+1)
		}
	}

	entropy, err := bip39.EntropyFromMnemonic(strings.Join(words, " "))
	if err != nil {
		if errors.Is(err, bip39.ErrChecksumIncorrect) {
			return nil, ErrChecksumMismatch
		}
		return nil, fmt.Errorf("%w: %v", ErrChecksumMismatch, err)
	}
	crypto.Zeroize(entropy)

	return &Mnemonic{words: words}, nil
}

// NewMnemonic generates a phrase of wordCount words from fresh OS entropy.
func NewMnemonic(wordCount int) (*Mnemonic, error) {
	bits, ok := validWordCounts[wordCount]
	if !ok {
		return nil, fmt.Errorf("%w: got %d words", ErrInvalidWordCount, wordCount)
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return nil, fmt.Errorf("failed to read entropy: %w", err)
	}
	defer crypto.Zeroize(entropy)

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mnemonic: %w", err)
	}
	return ParseMnemonic(phrase)
}

// WordCount returns the number of words in the phrase.
func (m *Mnemonic) WordCount() int {
	return len(m.words)
}

// Entropy returns a fresh copy of the entropy the phrase encodes.
// The caller owns the slice and should zero it when done.
func (m *Mnemonic) Entropy() []byte {
	entropy, err := bip39.EntropyFromMnemonic(m.Phrase())
	if err != nil {
		// unreachable for a Mnemonic built by ParseMnemonic
		panic(fmt.Sprintf("hd: validated mnemonic failed to decode: %v", err))
	}
	return entropy
}

// Phrase returns the normalized phrase with single-space separators.
// Handle the result as secret material.
func (m *Mnemonic) Phrase() string {
	return strings.Join(m.words, " ")
}

// Seed stretches the phrase into a 64-byte BIP39 seed.
// The passphrase is NFKD-normalized; the empty passphrase is valid.
func (m *Mnemonic) Seed(passphrase string) *Seed {
	salt := []byte(seedSaltPrefix + norm.NFKD.String(passphrase))
	password := []byte(m.Phrase())
	defer crypto.Zeroize(password)

	return &Seed{b: pbkdf2.Key(password, salt, seedIterations, SeedSize, sha512.New)}
}

// String never prints the phrase.
func (m *Mnemonic) String() string {
	return fmt.Sprintf("Mnemonic{%d words, redacted}", len(m.words))
}

// GoString keeps %#v from dumping the words.
func (m *Mnemonic) GoString() string {
	return m.String()
}

// MarshalJSON refuses to serialize the phrase.
func (m *Mnemonic) MarshalJSON() ([]byte, error) {
	return nil, errors.New("hd: mnemonic must not be serialized")
}
