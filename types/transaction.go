package types

import (
	"fmt"
)

const (
	// DefaultGasLimit is applied when a builder is not given a gas limit.
	DefaultGasLimit uint64 = 20000

	// MaxMemoCharacters mirrors the auth module's default memo limit, which
	// counts bytes rather than runes.
	MaxMemoCharacters = 256

	// MaxMessages bounds the number of messages in one transaction.
	MaxMessages = 256
)

// Fee represents the transaction fee with gas limit and coin amounts.
//
// INVARIANT: Amount contains valid coins (valid denoms, no duplicates).
type Fee struct {
	// Amount is the fee amount as a collection of coins.
	Amount Coins `json:"amount"`

	// GasLimit is the maximum gas allowed for this transaction.
	GasLimit uint64 `json:"gas,string"`

	// Payer optionally names a fee payer other than the signer.
	Payer string `json:"payer,omitempty"`

	// Granter optionally names a fee granter.
	Granter string `json:"granter,omitempty"`
}

// NewFee creates a fee paying amount with the given gas limit.
func NewFee(amount Coin, gasLimit uint64) Fee {
	return Fee{Amount: Coins{amount}, GasLimit: gasLimit}
}

// Validate performs stateless validation of the fee.
func (f Fee) Validate() error {
	if err := f.Amount.Validate(); err != nil {
		return fmt.Errorf("%w: fee: %v", ErrInvalidTransaction, err)
	}
	return nil
}

// UnsignedTransaction is everything a signer commits to, independent of the
// sign mode used to serialize it.
//
// INVARIANT: The same UnsignedTransaction always serializes to the same bytes
// under a given sign mode; nothing here depends on time or map order.
type UnsignedTransaction struct {
	// ChainID prevents cross-chain replay.
	ChainID string `json:"chain_id"`

	// AccountNumber is the on-chain account number of the signer.
	AccountNumber uint64 `json:"account_number,string"`

	// Sequence is the signer's replay-protection counter.
	Sequence uint64 `json:"sequence,string"`

	// Messages are the operations to execute.
	Messages []Msg `json:"msgs"`

	// Fee is the transaction fee and gas limit.
	Fee Fee `json:"fee"`

	// Memo is optional transaction metadata.
	Memo string `json:"memo"`

	// TimeoutHeight is the block height after which the tx is invalid; 0 disables it.
	TimeoutHeight uint64 `json:"timeout_height,omitempty,string"`
}

// ValidateBasic performs stateless validation
func (tx *UnsignedTransaction) ValidateBasic() error {
	if tx == nil {
		return fmt.Errorf("%w: transaction is nil", ErrInvalidTransaction)
	}

	if tx.ChainID == "" {
		return fmt.Errorf("%w: chain_id cannot be empty", ErrInvalidTransaction)
	}

	if len(tx.Messages) == 0 {
		return fmt.Errorf("%w: transaction must have at least one message", ErrInvalidTransaction)
	}

	if len(tx.Messages) > MaxMessages {
		return fmt.Errorf("%w: too many messages (%d > %d)", ErrInvalidTransaction, len(tx.Messages), MaxMessages)
	}

	for i, msg := range tx.Messages {
		if msg == nil {
			return fmt.Errorf("%w: message %d is nil", ErrInvalidTransaction, i)
		}
		if _, ok := msg.(*MsgSend); !ok {
			return fmt.Errorf("%w: message %d has type %s", ErrUnsupportedMessageType, i, msg.Type())
		}
		if err := msg.ValidateBasic(); err != nil {
			return fmt.Errorf("%w: message %d: %v", ErrInvalidTransaction, i, err)
		}
	}

	if err := tx.Fee.Validate(); err != nil {
		return err
	}

	if len(tx.Memo) > MaxMemoCharacters {
		return fmt.Errorf("%w: memo is %d bytes, limit %d", ErrInvalidTransaction, len(tx.Memo), MaxMemoCharacters)
	}

	return nil
}
