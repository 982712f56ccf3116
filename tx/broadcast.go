package tx

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// gatewayBroadcastRequest is the body of POST /cosmos/tx/v1beta1/txs.
type gatewayBroadcastRequest struct {
	TxBytes string `json:"tx_bytes"`
	Mode    string `json:"mode"`
}

// BroadcastBody returns the HTTP body an external broadcaster posts for t.
//
// Direct transactions become {"tx_bytes":<base64>,"mode":"BROADCAST_MODE_*"}
// for the gRPC gateway. Legacy transactions become the /txs body with mode
// replaced. Nothing is sent.
func BroadcastBody(t *SignedTx, mode BroadcastMode) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil transaction", ErrEncodingMismatch)
	}
	if _, err := ParseBroadcastMode(string(mode)); err != nil {
		return nil, err
	}

	switch t.mode {
	case Direct:
		return json.Marshal(gatewayBroadcastRequest{
			TxBytes: base64.StdEncoding.EncodeToString(t.bytes),
			Mode:    mode.gatewayName(),
		})
	case LegacyJSON:
		return legacyEnvelope(t.legacyTx, mode)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownSignMode, t.mode)
	}
}
