package tx

import (
	"fmt"

	"github.com/blockberries/crosign/crypto"
)

// Sign has s sign doc's bytes. Both modes pre-hash with one SHA-256, which
// happens inside the signer.
//
// s must hold the key doc was built for, otherwise ErrSignerMismatch. The
// result is checked before it is returned: a signature that is not 64 bytes,
// is high-S or does not verify yields ErrInvalidSignature.
func Sign(s crypto.Signer, doc *SignDoc) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil sign document", ErrSignerMismatch)
	}
	if s == nil || !doc.pub.Equals(s.PublicKey()) {
		return nil, ErrSignerMismatch
	}

	sig, err := s.Sign(doc.bytes)
	if err != nil {
		return nil, fmt.Errorf("sign %s document: %w", doc.mode, err)
	}
	if err := verifySignature(doc, sig); err != nil {
		return nil, err
	}
	return sig, nil
}

func verifySignature(doc *SignDoc, sig []byte) error {
	if len(sig) != crypto.SignatureSize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrInvalidSignature, len(sig), crypto.SignatureSize)
	}
	if !crypto.IsLowS(sig) {
		return fmt.Errorf("%w: high S", ErrInvalidSignature)
	}
	if !doc.pub.Verify(doc.bytes, sig) {
		return fmt.Errorf("%w: does not verify", ErrInvalidSignature)
	}
	return nil
}
