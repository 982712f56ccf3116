package tx

import (
	"bytes"
	"fmt"

	"github.com/blockberries/crosign/address"
	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/types"
)

// SignDoc is the canonical byte string a signer commits to, tagged with the
// mode that produced it.
//
// INVARIANT: a SignDoc is immutable. Accessors return copies.
type SignDoc struct {
	mode  SignMode
	bytes []byte
	pub   crypto.PublicKey
	tx    types.UnsignedTransaction

	// legacy mode: sorted-key JSON of the fee and msgs, reused in the envelope
	feeJSON  sortedJSONObject
	msgsJSON []sortedJSONObject

	// direct mode
	bodyBytes     []byte
	authInfoBytes []byte
}

// BuildSignDoc serializes utx under mode for the signer holding pub.
//
// Every message must be a *types.MsgSend whose sender is the address of pub.
// Addresses are checksum-verified and must all share one prefix.
func BuildSignDoc(mode SignMode, utx *types.UnsignedTransaction, pub crypto.PublicKey) (*SignDoc, error) {
	if mode == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnknownSignMode)
	}
	if pub == nil {
		return nil, fmt.Errorf("%w: nil", crypto.ErrInvalidPublicKey)
	}
	if err := utx.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := validateAddresses(utx, pub); err != nil {
		return nil, err
	}
	return mode.buildSignDoc(utx, pub)
}

func validateAddresses(utx *types.UnsignedTransaction, pub crypto.PublicKey) error {
	signer, err := address.FromPublicKey(pub.Bytes())
	if err != nil {
		return err
	}

	var prefix string
	check := func(field, s string) ([]byte, error) {
		hrp, digest, err := address.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		if prefix == "" {
			prefix = hrp
		} else if hrp != prefix {
			return nil, fmt.Errorf("%s: %w: got %q, want %q", field, address.ErrInvalidPrefix, hrp, prefix)
		}
		return digest, nil
	}

	for i, msg := range utx.Messages {
		send := msg.(*types.MsgSend)
		from, err := check(fmt.Sprintf("message %d from_address", i), send.FromAddress)
		if err != nil {
			return err
		}
		if !bytes.Equal(from, signer.Bytes()) {
			return fmt.Errorf("%w: message %d sender is not the signing key", types.ErrInvalidTransaction, i)
		}
		if _, err := check(fmt.Sprintf("message %d to_address", i), send.ToAddress); err != nil {
			return err
		}
	}

	if utx.Fee.Payer != "" {
		if _, err := check("fee payer", utx.Fee.Payer); err != nil {
			return err
		}
	}
	if utx.Fee.Granter != "" {
		if _, err := check("fee granter", utx.Fee.Granter); err != nil {
			return err
		}
	}
	return nil
}

// Mode returns the mode that produced the document.
func (d *SignDoc) Mode() SignMode { return d.mode }

// Bytes returns the exact bytes that are signed.
func (d *SignDoc) Bytes() []byte {
	return append([]byte(nil), d.bytes...)
}

// PublicKey returns the key the document was built for.
func (d *SignDoc) PublicKey() crypto.PublicKey { return d.pub }

// BodyBytes returns the encoded TxBody in direct mode, nil otherwise.
func (d *SignDoc) BodyBytes() []byte {
	if d.bodyBytes == nil {
		return nil
	}
	return append([]byte(nil), d.bodyBytes...)
}

// AuthInfoBytes returns the encoded AuthInfo in direct mode, nil otherwise.
func (d *SignDoc) AuthInfoBytes() []byte {
	if d.authInfoBytes == nil {
		return nil
	}
	return append([]byte(nil), d.authInfoBytes...)
}

// Transaction returns a copy of the transaction the document was built from.
func (d *SignDoc) Transaction() types.UnsignedTransaction {
	utx := d.tx
	utx.Messages = append([]types.Msg(nil), d.tx.Messages...)
	return utx
}

// cloneTx copies the slices a caller could mutate after BuildSignDoc returns.
func cloneTx(utx *types.UnsignedTransaction) types.UnsignedTransaction {
	c := *utx
	c.Messages = make([]types.Msg, len(utx.Messages))
	for i, msg := range utx.Messages {
		send := *msg.(*types.MsgSend)
		send.Amount = append(types.Coins(nil), send.Amount...)
		c.Messages[i] = &send
	}
	c.Fee.Amount = append(types.Coins(nil), utx.Fee.Amount...)
	return c
}
