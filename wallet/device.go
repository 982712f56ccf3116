package wallet

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/blockberries/crosign/address"
	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/hd"
)

// Device is a hardware signer holding the seed. Transport is the
// implementation's concern; paths are BIP32 child numbers with the hardened
// bit applied.
type Device interface {
	// GetPublicKeySECP256K1 returns the public key at path, compressed or
	// uncompressed.
	GetPublicKeySECP256K1(path []uint32) ([]byte, error)

	// SignSECP256K1 signs SHA-256(msg) on the device and returns a DER or
	// 64-byte r||s signature. It may require user confirmation.
	SignSECP256K1(path []uint32, msg []byte) ([]byte, error)

	// Close releases the transport.
	Close() error
}

// DeviceService implements crypto.Signer on top of a Device. Every signature
// is normalized to low-S and verified against the device's public key before
// it is returned.
type DeviceService struct {
	dev  Device
	path []uint32
	pub  crypto.PublicKey
}

var _ crypto.Signer = (*DeviceService)(nil)

// NewDeviceService queries dev for the public key at path.
func NewDeviceService(dev Device, path hd.DerivationPath) (*DeviceService, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}

	raw := make([]uint32, len(path))
	for i, c := range path {
		raw[i] = c.Value()
	}

	pubBytes, err := dev.GetPublicKeySECP256K1(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: get public key: %v", ErrDevice, err)
	}
	// ParsePubKey accepts both the compressed and uncompressed forms.
	point, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", crypto.ErrInvalidPublicKey, err)
	}

	return &DeviceService{
		dev:  dev,
		path: raw,
		pub:  crypto.PublicKeyFromPoint(point),
	}, nil
}

// PublicKey returns the device key at the configured path.
func (s *DeviceService) PublicKey() crypto.PublicKey {
	return s.pub
}

// Address returns the account address under prefix.
func (s *DeviceService) Address(prefix string) (address.Address, error) {
	return accountAddress(s.pub, prefix)
}

// Sign asks the device to sign msg.
func (s *DeviceService) Sign(msg []byte) ([]byte, error) {
	raw, err := s.dev.SignSECP256K1(s.path, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: sign: %v", ErrDevice, err)
	}

	sig, err := crypto.NormalizeSignature(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceSignature, err)
	}
	if !s.pub.Verify(msg, sig) {
		return nil, ErrDeviceSignature
	}
	return sig, nil
}

// Close closes the device transport.
func (s *DeviceService) Close() error {
	return s.dev.Close()
}
