package tx

import (
	"fmt"

	"cosmossdk.io/log"

	"github.com/blockberries/crosign/address"
	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/types"
)

// Builder accumulates bank transfers from one signer and produces signed
// transactions. It is not safe for concurrent use.
type Builder struct {
	signer  crypto.Signer
	mode    SignMode
	chainID string
	from    string

	fee           types.Coins
	gasLimit      uint64
	memo          string
	timeoutHeight uint64
	prefix        string
	broadcast     BroadcastMode
	logger        log.Logger

	msgs []types.Msg
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithFee sets the fee paid by the signer. No fee is set by default.
func WithFee(fee types.Coin) BuilderOption {
	return func(b *Builder) { b.fee = types.Coins{fee} }
}

// WithGasLimit sets the gas limit. Default types.DefaultGasLimit.
func WithGasLimit(gas uint64) BuilderOption {
	return func(b *Builder) { b.gasLimit = gas }
}

// WithMemo sets the memo.
func WithMemo(memo string) BuilderOption {
	return func(b *Builder) { b.memo = memo }
}

// WithTimeoutHeight sets the block height after which the transaction is invalid.
func WithTimeoutHeight(height uint64) BuilderOption {
	return func(b *Builder) { b.timeoutHeight = height }
}

// WithPrefix sets the account prefix. Default address.DefaultPrefix.
func WithPrefix(prefix string) BuilderOption {
	return func(b *Builder) { b.prefix = prefix }
}

// WithBroadcastMode sets the broadcast mode written into envelopes. Default BroadcastSync.
func WithBroadcastMode(m BroadcastMode) BuilderOption {
	return func(b *Builder) { b.broadcast = m }
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(logger log.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a builder for transfers signed by signer on chainID.
func NewBuilder(signer crypto.Signer, mode SignMode, chainID string, opts ...BuilderOption) (*Builder, error) {
	if signer == nil {
		return nil, fmt.Errorf("%w: nil signer", ErrSignerMismatch)
	}
	if mode == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnknownSignMode)
	}
	if chainID == "" {
		return nil, fmt.Errorf("%w: chain_id cannot be empty", types.ErrInvalidTransaction)
	}

	b := &Builder{
		signer:    signer,
		mode:      mode,
		chainID:   chainID,
		gasLimit:  types.DefaultGasLimit,
		prefix:    address.DefaultPrefix,
		broadcast: BroadcastSync,
		logger:    log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if _, err := ParseBroadcastMode(string(b.broadcast)); err != nil {
		return nil, err
	}
	if err := b.fee.Validate(); err != nil {
		return nil, err
	}

	from, err := address.Encode(signer.PublicKey().Bytes(), b.prefix)
	if err != nil {
		return nil, err
	}
	b.from = from
	b.logger = b.logger.With("module", "tx", "chain_id", chainID, "sign_mode", mode.String())
	return b, nil
}

// From returns the signer's address.
func (b *Builder) From() string { return b.from }

// AddTransfer queues a send of amount to the bech32 address to.
func (b *Builder) AddTransfer(to string, amount types.Coin) error {
	if _, err := address.DecodeWithPrefix(to, b.prefix); err != nil {
		return err
	}
	msg := types.NewMsgSend(b.from, to, amount)
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	if len(b.msgs) == types.MaxMessages {
		return fmt.Errorf("%w: too many messages", types.ErrInvalidTransaction)
	}
	b.msgs = append(b.msgs, msg)
	return nil
}

// Unsigned returns the transaction Build would sign.
func (b *Builder) Unsigned(accountNumber, sequence uint64) *types.UnsignedTransaction {
	return &types.UnsignedTransaction{
		ChainID:       b.chainID,
		AccountNumber: accountNumber,
		Sequence:      sequence,
		Messages:      append([]types.Msg(nil), b.msgs...),
		Fee: types.Fee{
			Amount:   append(types.Coins{}, b.fee...),
			GasLimit: b.gasLimit,
		},
		Memo:          b.memo,
		TimeoutHeight: b.timeoutHeight,
	}
}

// Build signs the queued transfers with the given account number and sequence.
// The queue is kept, so a failed broadcast can be rebuilt with a new sequence.
func (b *Builder) Build(accountNumber, sequence uint64) (*SignedTx, error) {
	utx := b.Unsigned(accountNumber, sequence)

	doc, err := BuildSignDoc(b.mode, utx, b.signer.PublicKey())
	if err != nil {
		return nil, err
	}

	sig, err := Sign(b.signer, doc)
	if err != nil {
		b.logger.Error("signing failed", "err", err)
		return nil, err
	}

	signed, err := Assemble(doc, b.mode, sig, WithEnvelopeBroadcastMode(b.broadcast))
	if err != nil {
		return nil, err
	}

	b.logger.Debug("built transaction",
		"messages", len(utx.Messages),
		"account_number", accountNumber,
		"sequence", sequence,
		"bytes", len(signed.bytes),
	)
	return signed, nil
}

// Reset clears the queued transfers.
func (b *Builder) Reset() {
	b.msgs = nil
}
