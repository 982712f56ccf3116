package types

import "fmt"

// Message type identifiers for a bank transfer under each sign mode.
const (
	// TypeURLMsgSend is the protobuf Any type URL.
	TypeURLMsgSend = "/cosmos.bank.v1beta1.MsgSend"

	// AminoTypeMsgSend is the legacy amino JSON type name.
	AminoTypeMsgSend = "cosmos-sdk/MsgSend"
)

// Msg is the interface that all transaction messages implement.
// Only *MsgSend is accepted by the sign-doc builders; anything else is
// rejected with ErrUnsupportedMessageType.
type Msg interface {
	// Type returns the protobuf type URL (e.g., "/cosmos.bank.v1beta1.MsgSend")
	Type() string

	// ValidateBasic performs stateless validation
	ValidateBasic() error
}

// MsgSend transfers coins from one account to another
type MsgSend struct {
	// FromAddress is the bech32 sender address
	FromAddress string `json:"from_address"`

	// ToAddress is the bech32 recipient address
	ToAddress string `json:"to_address"`

	// Amount is the amount to send
	Amount Coins `json:"amount"`
}

// NewMsgSend creates a transfer of a single coin.
func NewMsgSend(from, to string, amount Coin) *MsgSend {
	return &MsgSend{
		FromAddress: from,
		ToAddress:   to,
		Amount:      Coins{amount},
	}
}

// Type returns the message type
func (m *MsgSend) Type() string {
	return TypeURLMsgSend
}

// ValidateBasic performs stateless validation. Address checksums are verified
// by the sign-doc builders, which know the expected prefix.
func (m *MsgSend) ValidateBasic() error {
	if m == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if m.FromAddress == "" {
		return fmt.Errorf("%w: empty sender address", ErrInvalidMessage)
	}

	if m.ToAddress == "" {
		return fmt.Errorf("%w: empty recipient address", ErrInvalidMessage)
	}

	if err := m.Amount.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	if !m.Amount.IsAllPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidMessage)
	}

	return nil
}
