package hd

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/blockberries/crosign/crypto"
)

var (
	// masterHMACKey is the BIP32 master key HMAC key.
	masterHMACKey = []byte("Bitcoin seed")

	// xpubVersion is the mainnet BIP32 public key version (serializes as "xpub").
	xpubVersion = [4]byte{0x04, 0x88, 0xb2, 0x1e}
)

const (
	chainCodeSize     = 32
	serializedKeySize = 78
	checksumSize      = 4
)

// ExtendedKey is a BIP32 node: a private scalar or a public point plus the
// chain code and position metadata.
//
// An ExtendedKey is not safe for concurrent use with Zeroize. Derivation never
// mutates the receiver.
type ExtendedKey struct {
	key        *secp256k1.ModNScalar // nil for public-only keys
	pub        *secp256k1.PublicKey
	chainCode  [chainCodeSize]byte
	depth      uint8
	parentFP   [4]byte
	childIndex uint32
	zeroized   bool
}

// NewMaster derives the master key from a seed with HMAC-SHA512 keyed by
// "Bitcoin seed". The seed is not modified.
func NewMaster(seed *Seed) (*ExtendedKey, error) {
	if seed == nil || len(seed.b) < minSeedSize || len(seed.b) > maxSeedSize {
		return nil, ErrInvalidSeed
	}

	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(seed.b)
	sum := mac.Sum(nil)
	defer crypto.Zeroize(sum)

	var k secp256k1.ModNScalar
	if overflow := k.SetByteSlice(sum[:32]); overflow || k.IsZero() {
		k.Zero()
		return nil, fmt.Errorf("%w: master scalar out of range", ErrInvalidChildKey)
	}

	master := &ExtendedKey{
		key: &k,
		pub: pubKeyFromScalar(&k),
	}
	copy(master.chainCode[:], sum[32:])
	return master, nil
}

// Child derives the child at index. index must be below 2^31; hardened selects
// the hardened range. Public-only keys can only derive non-hardened children.
//
// If IL >= n or the derived key is zero, ErrInvalidChildKey is returned and
// no other index is tried.
func (k *ExtendedKey) Child(index uint32, hardened bool) (*ExtendedKey, error) {
	if index >= HardenedOffset {
		return nil, fmt.Errorf("%w: index %d must be below 2^31", ErrInvalidPath, index)
	}
	if k.zeroized {
		return nil, ErrKeyZeroized
	}
	if k.depth == MaxDepth {
		return nil, ErrDepthExceeded
	}
	if hardened && !k.IsPrivate() {
		return nil, ErrHardenedFromPublic
	}

	childNum := index
	if hardened {
		childNum |= HardenedOffset
	}

	// hardened: 0x00 || ser256(k) || ser32(i); normal: serP(K) || ser32(i)
	data := make([]byte, 37)
	defer crypto.Zeroize(data)
	if hardened {
		kb := k.key.Bytes()
		copy(data[1:33], kb[:])
		crypto.Zeroize(kb[:])
	} else {
		copy(data[:33], k.pub.SerializeCompressed())
	}
	binary.BigEndian.PutUint32(data[33:], childNum)

	mac := hmac.New(sha512.New, k.chainCode[:])
	mac.Write(data)
	sum := mac.Sum(nil)
	defer crypto.Zeroize(sum)

	var il secp256k1.ModNScalar
	defer il.Zero()
	if il.SetByteSlice(sum[:32]) {
		return nil, fmt.Errorf("%w: IL exceeds curve order at index %d", ErrInvalidChildKey, childNum)
	}

	child := &ExtendedKey{
		depth:      k.depth + 1,
		parentFP:   k.Fingerprint(),
		childIndex: childNum,
	}
	copy(child.chainCode[:], sum[32:])

	if k.IsPrivate() {
		var ck secp256k1.ModNScalar
		ck.Add2(&il, k.key)
		if ck.IsZero() {
			return nil, fmt.Errorf("%w: zero child key at index %d", ErrInvalidChildKey, childNum)
		}
		child.key = &ck
		child.pub = pubKeyFromScalar(&ck)
		return child, nil
	}

	// CKDpub: K_i = IL*G + K_par
	var ilG, parent, point secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&il, &ilG)
	k.pub.AsJacobian(&parent)
	secp256k1.AddNonConst(&ilG, &parent, &point)
	if point.Z.IsZero() || (point.X.IsZero() && point.Y.IsZero()) {
		return nil, fmt.Errorf("%w: point at infinity at index %d", ErrInvalidChildKey, childNum)
	}
	point.ToAffine()
	child.pub = secp256k1.NewPublicKey(&point.X, &point.Y)
	return child, nil
}

// DerivePath folds Child over path starting at master. Intermediate keys are
// zeroized; master is left untouched.
func DerivePath(master *ExtendedKey, path DerivationPath) (*ExtendedKey, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}

	current := master
	for i, c := range path {
		next, err := current.Child(c.Index, c.Hardened)
		if current != master {
			current.Zeroize()
		}
		if err != nil {
			return nil, fmt.Errorf("level %d (%s): %w", i+1, c, err)
		}
		current = next
	}
	if current == master {
		return master.clone(), nil
	}
	return current, nil
}

// Neuter returns the public-only form of k. Neutering a public key returns
// a copy.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	return &ExtendedKey{
		pub:        k.pub,
		chainCode:  k.chainCode,
		depth:      k.depth,
		parentFP:   k.parentFP,
		childIndex: k.childIndex,
		zeroized:   k.zeroized,
	}
}

func (k *ExtendedKey) clone() *ExtendedKey {
	c := k.Neuter()
	if k.key != nil {
		scalar := *k.key
		c.key = &scalar
	}
	return c
}

// IsPrivate reports whether k carries a private scalar.
func (k *ExtendedKey) IsPrivate() bool {
	return k.key != nil
}

// PrivateKey returns the signing key at this node. The returned key holds its
// own copy of the scalar.
func (k *ExtendedKey) PrivateKey() (crypto.PrivateKey, error) {
	if !k.IsPrivate() {
		return nil, ErrNotPrivate
	}
	if k.zeroized {
		return nil, ErrKeyZeroized
	}
	return crypto.PrivateKeyFromScalar(k.key)
}

// PublicKey returns the compressed public key at this node.
func (k *ExtendedKey) PublicKey() crypto.PublicKey {
	return crypto.PublicKeyFromPoint(k.pub)
}

// Fingerprint returns the first four bytes of hash160 of the public key.
func (k *ExtendedKey) Fingerprint() [4]byte {
	var fp [4]byte
	copy(fp[:], crypto.Hash160(k.pub.SerializeCompressed()))
	return fp
}

// ParentFingerprint returns the parent's fingerprint; zero for a master key.
func (k *ExtendedKey) ParentFingerprint() [4]byte { return k.parentFP }

// Depth returns the number of derivation steps from the master key.
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// ChildIndex returns the BIP32 child number, hardened bit included.
func (k *ExtendedKey) ChildIndex() uint32 { return k.childIndex }

// ChainCode returns a copy of the chain code.
func (k *ExtendedKey) ChainCode() []byte {
	return append([]byte(nil), k.chainCode[:]...)
}

// Zeroize wipes the private scalar and chain code. Further derivation fails
// with ErrKeyZeroized.
func (k *ExtendedKey) Zeroize() {
	if k.key != nil {
		k.key.Zero()
	}
	crypto.Zeroize(k.chainCode[:])
	k.zeroized = true
}

// String returns the base58check "xpub" serialization for public keys.
// Private keys are never serialized.
func (k *ExtendedKey) String() string {
	if k.IsPrivate() {
		return fmt.Sprintf("ExtendedKey{private, depth=%d, redacted}", k.depth)
	}

	buf := make([]byte, 0, serializedKeySize+checksumSize)
	buf = append(buf, xpubVersion[:]...)
	buf = append(buf, k.depth)
	buf = append(buf, k.parentFP[:]...)
	buf = binary.BigEndian.AppendUint32(buf, k.childIndex)
	buf = append(buf, k.chainCode[:]...)
	buf = append(buf, k.pub.SerializeCompressed()...)
	buf = append(buf, chainhash.DoubleHashB(buf)[:checksumSize]...)
	return base58.Encode(buf)
}

// GoString keeps %#v from dumping the scalar.
func (k *ExtendedKey) GoString() string {
	return k.String()
}

// ParseExtendedPublicKey parses an "xpub" string produced by String.
func ParseExtendedPublicKey(s string) (*ExtendedKey, error) {
	raw := base58.Decode(s)
	if len(raw) != serializedKeySize+checksumSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidExtendedKey, len(raw))
	}
	payload, checksum := raw[:serializedKeySize], raw[serializedKeySize:]
	if !bytes.Equal(chainhash.DoubleHashB(payload)[:checksumSize], checksum) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidExtendedKey)
	}
	if !bytes.Equal(payload[:4], xpubVersion[:]) {
		return nil, fmt.Errorf("%w: not an xpub", ErrInvalidExtendedKey)
	}

	pub, err := secp256k1.ParsePubKey(payload[45:78])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtendedKey, err)
	}

	k := &ExtendedKey{
		pub:        pub,
		depth:      payload[4],
		childIndex: binary.BigEndian.Uint32(payload[9:13]),
	}
	copy(k.parentFP[:], payload[5:9])
	copy(k.chainCode[:], payload[13:45])
	return k, nil
}

func pubKeyFromScalar(k *secp256k1.ModNScalar) *secp256k1.PublicKey {
	var p secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &p)
	p.ToAffine()
	return secp256k1.NewPublicKey(&p.X, &p.Y)
}
