package types

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	// BaseDenom is the on-chain base unit.
	BaseDenom = "basecro"

	// DisplayDenom is the human unit; 1 cro = 10^8 basecro.
	DisplayDenom = "cro"

	// BaseUnitsPerCRO is the number of basecro in one cro.
	BaseUnitsPerCRO uint64 = 100_000_000
)

// denomRegex matches the SDK's default coin denomination rule.
var denomRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{2,127}$`)

// coinRegex splits "<amount><denom>" strings such as "10000basecro".
var coinRegex = regexp.MustCompile(`^([0-9]+)\s*([a-zA-Z][a-zA-Z0-9/:._-]{2,127})$`)

// Coin represents a single token with denomination and amount
type Coin struct {
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount,string"`
}

// NewCoin creates a new coin
func NewCoin(denom string, amount uint64) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// NewCROCoin converts an amount expressed in cro or basecro into a basecro coin.
// Any other denomination is returned unchanged.
func NewCROCoin(amount uint64, denom string) (Coin, error) {
	switch denom {
	case DisplayDenom:
		if amount > math.MaxUint64/BaseUnitsPerCRO {
			return Coin{}, fmt.Errorf("%w: %d%s overflows basecro", ErrInvalidCoin, amount, denom)
		}
		return Coin{Denom: BaseDenom, Amount: amount * BaseUnitsPerCRO}, nil
	default:
		c := Coin{Denom: denom, Amount: amount}
		if err := c.Validate(); err != nil {
			return Coin{}, err
		}
		return c, nil
	}
}

// ParseCoin parses a coin string such as "10000basecro" or "1cro".
// A "cro" amount is converted into basecro.
func ParseCoin(s string) (Coin, error) {
	m := coinRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Coin{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidCoin, s)
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Coin{}, fmt.Errorf("%w: amount %q: %v", ErrInvalidCoin, m[1], err)
	}
	return NewCROCoin(amount, m[2])
}

// Decode implements envconfig.Decoder.
func (c *Coin) Decode(value string) error {
	parsed, err := ParseCoin(value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Validate checks the denomination.
func (c Coin) Validate() error {
	if !denomRegex.MatchString(c.Denom) {
		return fmt.Errorf("%w: invalid denom %q", ErrInvalidCoin, c.Denom)
	}
	return nil
}

// IsValid checks if the coin is valid
func (c Coin) IsValid() bool {
	return c.Validate() == nil
}

// IsZero returns true if the coin amount is zero
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the coin amount is positive
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// AmountString returns the decimal amount, the form both sign modes put on the wire.
func (c Coin) AmountString() string {
	return strconv.FormatUint(c.Amount, 10)
}

// String returns a string representation of the coin
func (c Coin) String() string {
	return fmt.Sprintf("%d%s", c.Amount, c.Denom)
}

// Coins represents a collection of coins
type Coins []Coin

// NewCoins creates a new Coins collection from a list of coins
func NewCoins(coins ...Coin) Coins {
	return Coins(coins)
}

// Validate checks every coin and that denoms are unique.
// Order is preserved on the wire, so it is not enforced here.
func (coins Coins) Validate() error {
	seen := make(map[string]struct{}, len(coins))
	for _, coin := range coins {
		if err := coin.Validate(); err != nil {
			return err
		}
		if _, dup := seen[coin.Denom]; dup {
			return fmt.Errorf("%w: duplicate denom %q", ErrInvalidCoin, coin.Denom)
		}
		seen[coin.Denom] = struct{}{}
	}
	return nil
}

// IsAllPositive returns true if all coins have positive amounts
func (coins Coins) IsAllPositive() bool {
	if len(coins) == 0 {
		return false
	}
	for _, coin := range coins {
		if !coin.IsPositive() {
			return false
		}
	}
	return true
}

// AmountOf returns the amount of a specific denomination
func (coins Coins) AmountOf(denom string) uint64 {
	for _, coin := range coins {
		if coin.Denom == denom {
			return coin.Amount
		}
	}
	return 0
}

// String returns a string representation of the coins
func (coins Coins) String() string {
	if len(coins) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, coin := range coins {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(coin.String())
	}
	return sb.String()
}

// Sort returns a copy of coins sorted by denomination
func (coins Coins) Sort() Coins {
	sorted := make(Coins, len(coins))
	copy(sorted, coins)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.Compare(sorted[i].Denom, sorted[j].Denom) < 0
	})
	return sorted
}
