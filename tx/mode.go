// Package tx builds sign documents for bank-send transactions, signs them and
// assembles broadcast-ready envelopes.
//
// Two encodings are supported and they are not interchangeable: a sign
// document produced under one SignMode can only be assembled under the same
// mode.
package tx

import (
	"fmt"
	"strings"

	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/types"
)

// SignMode selects how a transaction is serialized for signing and broadcast.
//
// The set of modes is closed: the interface has unexported methods, so the
// only values are LegacyJSON and Direct.
type SignMode interface {
	// String returns the mode's configuration name.
	String() string

	buildSignDoc(utx *types.UnsignedTransaction, pub crypto.PublicKey) (*SignDoc, error)
	assemble(doc *SignDoc, sig []byte, broadcast BroadcastMode) (*SignedTx, error)
}

var (
	// LegacyJSON is the amino-JSON mode: sorted-key JSON sign bytes and a JSON
	// envelope for the legacy REST endpoint.
	LegacyJSON SignMode = legacyJSONMode{}

	// Direct is SIGN_MODE_DIRECT: protobuf SignDoc bytes and a TxRaw envelope.
	Direct SignMode = directMode{}
)

// ParseSignMode maps a configuration name to a mode.
func ParseSignMode(s string) (SignMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "amino-json", "legacy-json", "legacy", "amino":
		return LegacyJSON, nil
	case "direct", "protobuf":
		return Direct, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSignMode, s)
	}
}

type legacyJSONMode struct{}

func (legacyJSONMode) String() string { return "amino-json" }

type directMode struct{}

func (directMode) String() string { return "direct" }

// BroadcastMode is the node-side wait behavior requested in an envelope.
type BroadcastMode string

const (
	// BroadcastSync waits for CheckTx.
	BroadcastSync BroadcastMode = "sync"

	// BroadcastAsync returns immediately.
	BroadcastAsync BroadcastMode = "async"

	// BroadcastBlock waits for the transaction to be committed.
	BroadcastBlock BroadcastMode = "block"
)

// ParseBroadcastMode validates a broadcast mode name.
func ParseBroadcastMode(s string) (BroadcastMode, error) {
	m := BroadcastMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case BroadcastSync, BroadcastAsync, BroadcastBlock:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBroadcastMode, s)
	}
}

// gatewayName returns the gRPC-gateway enum name, e.g. BROADCAST_MODE_SYNC.
func (m BroadcastMode) gatewayName() string {
	return "BROADCAST_MODE_" + strings.ToUpper(string(m))
}

// Decode implements envconfig.Decoder.
func (m *BroadcastMode) Decode(value string) error {
	parsed, err := ParseBroadcastMode(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
