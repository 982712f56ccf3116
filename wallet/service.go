// Package wallet binds derived key material to the signing capability used
// by the transaction pipeline.
package wallet

import (
	"fmt"
	"sync"

	"github.com/blockberries/crosign/address"
	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/hd"
)

// KeyService holds one secp256k1 signing key in memory and implements
// crypto.Signer.
//
// KeyService is safe for concurrent use. After Close the scalar is zeroed and
// Sign returns ErrKeyClosed; PublicKey and Address keep working.
type KeyService struct {
	mu     sync.RWMutex
	key    crypto.PrivateKey
	pub    crypto.PublicKey
	closed bool
}

var _ crypto.Signer = (*KeyService)(nil)

// NewFromMnemonic derives the key at path from m and passphrase. The seed and
// every intermediate extended key are zeroed before returning.
func NewFromMnemonic(m *hd.Mnemonic, passphrase string, path hd.DerivationPath) (*KeyService, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil mnemonic", hd.ErrInvalidWordCount)
	}

	seed := m.Seed(passphrase)
	defer seed.Zeroize()

	master, err := hd.NewMaster(seed)
	if err != nil {
		return nil, err
	}
	defer master.Zeroize()

	leaf, err := hd.DerivePath(master, path)
	if err != nil {
		return nil, err
	}
	defer leaf.Zeroize()

	return NewFromExtendedKey(leaf)
}

// NewFromExtendedKey copies the private scalar out of k. k itself is not
// modified; the caller remains responsible for zeroizing it.
func NewFromExtendedKey(k *hd.ExtendedKey) (*KeyService, error) {
	if k == nil {
		return nil, hd.ErrNotPrivate
	}
	key, err := k.PrivateKey()
	if err != nil {
		return nil, err
	}
	return NewFromPrivateKey(key), nil
}

// NewFromPrivateKey takes ownership of key. Close zeroizes it.
func NewFromPrivateKey(key crypto.PrivateKey) *KeyService {
	return &KeyService{
		key: key,
		pub: key.PublicKey(),
	}
}

// PublicKey returns the 33-byte compressed public key.
func (s *KeyService) PublicKey() crypto.PublicKey {
	return s.pub
}

// Address returns the account address under prefix.
func (s *KeyService) Address(prefix string) (address.Address, error) {
	return accountAddress(s.pub, prefix)
}

// Sign returns a 64-byte low-S signature over SHA-256(msg).
func (s *KeyService) Sign(msg []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrKeyClosed
	}
	return s.key.Sign(msg)
}

// Close zeroizes the private key. It is idempotent.
func (s *KeyService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.key.Zeroize()
	s.closed = true
	return nil
}

// String never prints key material.
func (s *KeyService) String() string {
	return "KeyService{pub=" + s.pub.String() + "}"
}

func accountAddress(pub crypto.PublicKey, prefix string) (address.Address, error) {
	a, err := address.FromPublicKey(pub.Bytes())
	if err != nil {
		return address.Address{}, err
	}
	if _, err := a.Bech32(prefix); err != nil {
		return address.Address{}, err
	}
	return a.WithPrefix(prefix), nil
}
