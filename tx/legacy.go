package tx

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/types"
)

// Amino type names used in the legacy envelope.
const (
	aminoPubKeyType = "tendermint/PubKeySecp256k1"
)

// Legacy amino-JSON sign bytes.
//
// INVARIANT: keys are sorted at every level, there is no insignificant
// whitespace and every uint64 is a decimal string. String escaping is
// encoding/json's, including the HTML escapes of <, > and &, which is what the
// node produces when it re-derives the document.
//
// The public key is not part of the document; it travels in the envelope.

func (legacyJSONMode) buildSignDoc(utx *types.UnsignedTransaction, pub crypto.PublicKey) (*SignDoc, error) {
	c := cloneTx(utx)

	fee := legacyFee(c.Fee)
	msgs := legacyMsgs(c.Messages)

	doc := sortedJSONObject{
		"account_number": strconv.FormatUint(c.AccountNumber, 10),
		"chain_id":       c.ChainID,
		"fee":            fee,
		"memo":           c.Memo,
		"msgs":           msgs,
		"sequence":       strconv.FormatUint(c.Sequence, 10),
	}
	if c.TimeoutHeight != 0 {
		doc["timeout_height"] = strconv.FormatUint(c.TimeoutHeight, 10)
	}

	signBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	return &SignDoc{
		mode:     LegacyJSON,
		bytes:    signBytes,
		pub:      pub,
		tx:       c,
		feeJSON:  fee,
		msgsJSON: msgs,
	}, nil
}

func (legacyJSONMode) assemble(doc *SignDoc, sig []byte, broadcast BroadcastMode) (*SignedTx, error) {
	txJSON, err := legacyTxJSON(doc, sig)
	if err != nil {
		return nil, err
	}
	envelope, err := legacyEnvelope(txJSON, broadcast)
	if err != nil {
		return nil, err
	}
	return &SignedTx{
		mode:      LegacyJSON,
		bytes:     envelope,
		signature: append([]byte(nil), sig...),
		broadcast: broadcast,
		legacyTx:  txJSON,
	}, nil
}

// legacyTxJSON renders the StdTx object: fee, memo, msg, signatures.
func legacyTxJSON(doc *SignDoc, sig []byte) (json.RawMessage, error) {
	stdTx := sortedJSONObject{
		"fee":  doc.feeJSON,
		"memo": doc.tx.Memo,
		"msg":  doc.msgsJSON,
		"signatures": []sortedJSONObject{{
			"account_number": strconv.FormatUint(doc.tx.AccountNumber, 10),
			"pub_key": sortedJSONObject{
				"type":  aminoPubKeyType,
				"value": base64.StdEncoding.EncodeToString(doc.pub.Bytes()),
			},
			"sequence":  strconv.FormatUint(doc.tx.Sequence, 10),
			"signature": base64.StdEncoding.EncodeToString(sig),
		}},
	}
	if doc.tx.TimeoutHeight != 0 {
		stdTx["timeout_height"] = strconv.FormatUint(doc.tx.TimeoutHeight, 10)
	}
	return json.Marshal(stdTx)
}

// legacyEnvelope wraps a StdTx in the legacy REST broadcast body.
func legacyEnvelope(txJSON json.RawMessage, broadcast BroadcastMode) ([]byte, error) {
	return json.Marshal(sortedJSONObject{
		"mode": string(broadcast),
		"tx":   txJSON,
	})
}

func legacyFee(fee types.Fee) sortedJSONObject {
	obj := sortedJSONObject{
		"amount": legacyCoins(fee.Amount),
		"gas":    strconv.FormatUint(fee.GasLimit, 10),
	}
	if fee.Payer != "" {
		obj["payer"] = fee.Payer
	}
	if fee.Granter != "" {
		obj["granter"] = fee.Granter
	}
	return obj
}

func legacyMsgs(msgs []types.Msg) []sortedJSONObject {
	out := make([]sortedJSONObject, len(msgs))
	for i, msg := range msgs {
		send := msg.(*types.MsgSend)
		out[i] = sortedJSONObject{
			"type": types.AminoTypeMsgSend,
			"value": sortedJSONObject{
				"amount":       legacyCoins(send.Amount),
				"from_address": send.FromAddress,
				"to_address":   send.ToAddress,
			},
		}
	}
	return out
}

// legacyCoins never returns nil so an empty fee renders as [].
func legacyCoins(coins types.Coins) []sortedJSONObject {
	out := make([]sortedJSONObject, len(coins))
	for i, c := range coins {
		out[i] = sortedJSONObject{
			"amount": c.AmountString(),
			"denom":  c.Denom,
		}
	}
	return out
}

// sortedJSONObject is a helper type for producing deterministic JSON with sorted keys.
type sortedJSONObject map[string]interface{}

// MarshalJSON implements json.Marshaler with sorted keys.
func (s sortedJSONObject) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(s[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
