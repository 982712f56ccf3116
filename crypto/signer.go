package crypto

// Signer is the capability the transaction pipeline signs with.
// Implementations must never expose private key material.
type Signer interface {
	// PublicKey returns the public key matching produced signatures.
	PublicKey() PublicKey

	// Sign hashes message with SHA-256 and returns a 64-byte low-S r||s
	// signature.
	Sign(message []byte) ([]byte, error)
}

// BasicSigner wraps a PrivateKey to implement Signer.
// Thread-safe: signing operations are stateless.
type BasicSigner struct {
	privateKey PrivateKey
}

// NewSigner creates a new Signer from a PrivateKey.
func NewSigner(privateKey PrivateKey) Signer {
	return &BasicSigner{privateKey: privateKey}
}

// Sign signs the given data.
func (s *BasicSigner) Sign(data []byte) ([]byte, error) {
	return s.privateKey.Sign(data)
}

// PublicKey returns the signer's public key.
func (s *BasicSigner) PublicKey() PublicKey {
	return s.privateKey.PublicKey()
}
