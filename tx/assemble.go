package tx

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// SignedTx is a broadcast-ready transaction.
type SignedTx struct {
	mode      SignMode
	bytes     []byte
	signature []byte
	broadcast BroadcastMode

	// legacy mode: the StdTx object without the broadcast wrapper
	legacyTx json.RawMessage
}

// AssembleOption configures Assemble.
type AssembleOption func(*assembleOptions)

type assembleOptions struct {
	broadcast BroadcastMode
}

// WithEnvelopeBroadcastMode sets the broadcast mode written into the
// envelope. The default is BroadcastSync.
func WithEnvelopeBroadcastMode(m BroadcastMode) AssembleOption {
	return func(o *assembleOptions) { o.broadcast = m }
}

// Assemble combines doc and its signature into the envelope for mode.
//
// mode must be the mode doc was built under, otherwise ErrEncodingMismatch.
// The signature is verified against doc.
func Assemble(doc *SignDoc, mode SignMode, sig []byte, opts ...AssembleOption) (*SignedTx, error) {
	if doc == nil || mode == nil {
		return nil, fmt.Errorf("%w: missing document or mode", ErrEncodingMismatch)
	}
	if doc.mode != mode {
		return nil, fmt.Errorf("%w: document built as %s, assembling as %s", ErrEncodingMismatch, doc.mode, mode)
	}

	o := assembleOptions{broadcast: BroadcastSync}
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := ParseBroadcastMode(string(o.broadcast)); err != nil {
		return nil, err
	}

	if err := verifySignature(doc, sig); err != nil {
		return nil, err
	}
	return mode.assemble(doc, sig, o.broadcast)
}

// Mode returns the encoding of Bytes.
func (t *SignedTx) Mode() SignMode { return t.mode }

// Bytes returns the envelope: the legacy JSON broadcast body, or TxRaw bytes
// in direct mode.
func (t *SignedTx) Bytes() []byte {
	return append([]byte(nil), t.bytes...)
}

// Signature returns the 64-byte signature.
func (t *SignedTx) Signature() []byte {
	return append([]byte(nil), t.signature...)
}

// BroadcastMode returns the mode written into the envelope.
func (t *SignedTx) BroadcastMode() BroadcastMode { return t.broadcast }

// Base64 returns Bytes in standard base64.
func (t *SignedTx) Base64() string {
	return base64.StdEncoding.EncodeToString(t.bytes)
}
