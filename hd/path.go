package hd

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// HardenedOffset is added to an index to mark hardened derivation.
	HardenedOffset uint32 = 0x80000000

	// Purpose is the BIP44 purpose level.
	Purpose uint32 = 44

	// CoinType is the registered SLIP-44 coin type for CRO.
	CoinType uint32 = 394

	// MaxDepth is the deepest level a BIP32 key can sit at.
	MaxDepth = 255
)

// PathComponent is one level of a derivation path.
type PathComponent struct {
	// Index is the child index without the hardened bit, so always < 2^31.
	Index    uint32
	Hardened bool
}

// Value returns the BIP32 child number, with the hardened bit applied.
func (c PathComponent) Value() uint32 {
	if c.Hardened {
		return c.Index | HardenedOffset
	}
	return c.Index
}

func (c PathComponent) String() string {
	if c.Hardened {
		return strconv.FormatUint(uint64(c.Index), 10) + "'"
	}
	return strconv.FormatUint(uint64(c.Index), 10)
}

// DerivationPath is a sequence of child steps from the master key.
type DerivationPath []PathComponent

// DefaultPath returns m/44'/394'/0'/0/0.
func DefaultPath() DerivationPath {
	return BIP44Path(CoinType, 0, 0, 0)
}

// BIP44Path returns m/44'/coinType'/account'/change/index.
func BIP44Path(coinType, account, change, index uint32) DerivationPath {
	return DerivationPath{
		{Index: Purpose, Hardened: true},
		{Index: coinType, Hardened: true},
		{Index: account, Hardened: true},
		{Index: change},
		{Index: index},
	}
}

// ParsePath parses a path such as "m/44'/394'/0'/0/0". Hardened levels may be
// marked with ', h or H. "m" alone is the empty path.
func ParsePath(s string) (DerivationPath, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if parts[0] != "m" {
		return nil, fmt.Errorf("%w: must start with \"m\"", ErrInvalidPath)
	}
	parts = parts[1:]
	if len(parts) > MaxDepth {
		return nil, fmt.Errorf("%w: %d levels exceeds %d", ErrInvalidPath, len(parts), MaxDepth)
	}

	path := make(DerivationPath, 0, len(parts))
	for i, p := range parts {
		hardened := false
		if n := len(p); n > 0 && (p[n-1] == '\'' || p[n-1] == 'h' || p[n-1] == 'H') {
			hardened = true
			p = p[:n-1]
		}
		if p == "" || p[0] == '+' || p[0] == '-' {
			return nil, fmt.Errorf("%w: level %d is not a number", ErrInvalidPath, i+1)
		}
		idx, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: level %d: %v", ErrInvalidPath, i+1, err)
		}
		if uint32(idx) >= HardenedOffset {
			return nil, fmt.Errorf("%w: level %d index %d must be below 2^31", ErrInvalidPath, i+1, idx)
		}
		path = append(path, PathComponent{Index: uint32(idx), Hardened: hardened})
	}
	return path, nil
}

// String renders the path with ' as the hardened marker.
func (p DerivationPath) String() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, c := range p {
		sb.WriteByte('/')
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Validate checks every component index is below 2^31 and the depth fits.
func (p DerivationPath) Validate() error {
	if len(p) > MaxDepth {
		return fmt.Errorf("%w: %d levels exceeds %d", ErrInvalidPath, len(p), MaxDepth)
	}
	for i, c := range p {
		if c.Index >= HardenedOffset {
			return fmt.Errorf("%w: level %d index %d must be below 2^31", ErrInvalidPath, i+1, c.Index)
		}
	}
	return nil
}

// Decode implements envconfig.Decoder so paths can be read from the environment.
func (p *DerivationPath) Decode(value string) error {
	parsed, err := ParsePath(value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
