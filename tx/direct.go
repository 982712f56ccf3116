package tx

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/types"
)

// Protobuf SIGN_MODE_DIRECT encoding.
//
// Messages are written field by field in ascending field-number order with
// proto3 semantics: scalar fields holding their default value are omitted,
// embedded messages that are set are always written. This is the encoding the
// node reproduces when it verifies the signature.

const (
	typeURLPubKey = "/cosmos.crypto.secp256k1.PubKey"

	// signModeDirect is cosmos.tx.signing.v1beta1.SignMode SIGN_MODE_DIRECT.
	signModeDirect = 1
)

// cosmos.tx.v1beta1 field numbers.
const (
	// TxBody
	fieldBodyMessages      protowire.Number = 1
	fieldBodyMemo          protowire.Number = 2
	fieldBodyTimeoutHeight protowire.Number = 3

	// google.protobuf.Any
	fieldAnyTypeURL protowire.Number = 1
	fieldAnyValue   protowire.Number = 2

	// cosmos.bank.v1beta1.MsgSend
	fieldSendFrom   protowire.Number = 1
	fieldSendTo     protowire.Number = 2
	fieldSendAmount protowire.Number = 3

	// cosmos.base.v1beta1.Coin
	fieldCoinDenom  protowire.Number = 1
	fieldCoinAmount protowire.Number = 2

	// cosmos.crypto.secp256k1.PubKey
	fieldPubKeyKey protowire.Number = 1

	// AuthInfo
	fieldAuthSignerInfos protowire.Number = 1
	fieldAuthFee         protowire.Number = 2

	// SignerInfo
	fieldSignerPublicKey protowire.Number = 1
	fieldSignerModeInfo  protowire.Number = 2
	fieldSignerSequence  protowire.Number = 3

	// ModeInfo, ModeInfo.Single
	fieldModeInfoSingle protowire.Number = 1
	fieldSingleMode     protowire.Number = 1

	// Fee
	fieldFeeAmount   protowire.Number = 1
	fieldFeeGasLimit protowire.Number = 2
	fieldFeePayer    protowire.Number = 3
	fieldFeeGranter  protowire.Number = 4

	// SignDoc
	fieldDocBodyBytes     protowire.Number = 1
	fieldDocAuthInfoBytes protowire.Number = 2
	fieldDocChainID       protowire.Number = 3
	fieldDocAccountNumber protowire.Number = 4

	// TxRaw
	fieldRawBodyBytes     protowire.Number = 1
	fieldRawAuthInfoBytes protowire.Number = 2
	fieldRawSignatures    protowire.Number = 3
)

func (directMode) buildSignDoc(utx *types.UnsignedTransaction, pub crypto.PublicKey) (*SignDoc, error) {
	c := cloneTx(utx)

	body := encodeTxBody(&c)
	authInfo := encodeAuthInfo(&c, pub)

	var doc []byte
	doc = appendBytes(doc, fieldDocBodyBytes, body)
	doc = appendBytes(doc, fieldDocAuthInfoBytes, authInfo)
	doc = appendString(doc, fieldDocChainID, c.ChainID)
	doc = appendVarint(doc, fieldDocAccountNumber, c.AccountNumber)

	return &SignDoc{
		mode:          Direct,
		bytes:         doc,
		pub:           pub,
		tx:            c,
		bodyBytes:     body,
		authInfoBytes: authInfo,
	}, nil
}

func (directMode) assemble(doc *SignDoc, sig []byte, broadcast BroadcastMode) (*SignedTx, error) {
	var raw []byte
	raw = appendBytes(raw, fieldRawBodyBytes, doc.bodyBytes)
	raw = appendBytes(raw, fieldRawAuthInfoBytes, doc.authInfoBytes)
	raw = appendBytes(raw, fieldRawSignatures, sig)

	return &SignedTx{
		mode:      Direct,
		bytes:     raw,
		signature: append([]byte(nil), sig...),
		broadcast: broadcast,
	}, nil
}

func encodeTxBody(utx *types.UnsignedTransaction) []byte {
	var b []byte
	for _, msg := range utx.Messages {
		send := msg.(*types.MsgSend)
		b = appendMessage(b, fieldBodyMessages, encodeAny(types.TypeURLMsgSend, encodeMsgSend(send)))
	}
	b = appendString(b, fieldBodyMemo, utx.Memo)
	b = appendVarint(b, fieldBodyTimeoutHeight, utx.TimeoutHeight)
	return b
}

func encodeMsgSend(m *types.MsgSend) []byte {
	var b []byte
	b = appendString(b, fieldSendFrom, m.FromAddress)
	b = appendString(b, fieldSendTo, m.ToAddress)
	for _, c := range m.Amount {
		b = appendMessage(b, fieldSendAmount, encodeCoin(c))
	}
	return b
}

func encodeCoin(c types.Coin) []byte {
	var b []byte
	b = appendString(b, fieldCoinDenom, c.Denom)
	b = appendString(b, fieldCoinAmount, c.AmountString())
	return b
}

func encodeAny(typeURL string, value []byte) []byte {
	var b []byte
	b = appendString(b, fieldAnyTypeURL, typeURL)
	b = appendBytes(b, fieldAnyValue, value)
	return b
}

func encodeAuthInfo(utx *types.UnsignedTransaction, pub crypto.PublicKey) []byte {
	var pubKey []byte
	pubKey = appendBytes(pubKey, fieldPubKeyKey, pub.Bytes())

	var single []byte
	single = appendVarint(single, fieldSingleMode, signModeDirect)
	var modeInfo []byte
	modeInfo = appendMessage(modeInfo, fieldModeInfoSingle, single)

	var signer []byte
	signer = appendMessage(signer, fieldSignerPublicKey, encodeAny(typeURLPubKey, pubKey))
	signer = appendMessage(signer, fieldSignerModeInfo, modeInfo)
	signer = appendVarint(signer, fieldSignerSequence, utx.Sequence)

	var fee []byte
	for _, c := range utx.Fee.Amount {
		fee = appendMessage(fee, fieldFeeAmount, encodeCoin(c))
	}
	fee = appendVarint(fee, fieldFeeGasLimit, utx.Fee.GasLimit)
	fee = appendString(fee, fieldFeePayer, utx.Fee.Payer)
	fee = appendString(fee, fieldFeeGranter, utx.Fee.Granter)

	var b []byte
	b = appendMessage(b, fieldAuthSignerInfos, signer)
	b = appendMessage(b, fieldAuthFee, fee)
	return b
}

// appendMessage writes an embedded message, even when it is empty.
func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// appendBytes writes a bytes field unless it is empty.
func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// appendString writes a string field unless it is empty.
func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// appendVarint writes a uint64 field unless it is zero.
func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}
