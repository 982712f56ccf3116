package hd

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/types"
)

const testPubKeyB64 = "AntL+UxMyJ9NZ9DGLp2v7a3dlSxiNXMaItyOXSRw8iYi"

func testMaster(t *testing.T) *ExtendedKey {
	t.Helper()
	m, err := ParseMnemonic(testPhrase)
	require.NoError(t, err)
	seed := m.Seed("")
	defer seed.Zeroize()

	master, err := NewMaster(seed)
	require.NoError(t, err)
	return master
}

// ============================================================================
// Known Vectors
// ============================================================================

func TestDerivePath_CanonicalVector(t *testing.T) {
	master := testMaster(t)

	leaf, err := DerivePath(master, DefaultPath())
	require.NoError(t, err)

	assert.Equal(t, testPubKeyB64, leaf.PublicKey().String())
	assert.Equal(t, uint8(5), leaf.Depth())
	assert.Equal(t, uint32(0), leaf.ChildIndex())

	priv, err := leaf.PrivateKey()
	require.NoError(t, err)
	assert.Equal(t, testPubKeyB64, priv.PublicKey().String())
}

// BIP32 test vector 1, chain m/0H/1.
func TestDerivePath_BIP32Vector1(t *testing.T) {
	seed, err := SeedFromBytes(mustHexBytes(t, "000102030405060708090a0b0c0d0e0f"))
	require.NoError(t, err)
	master, err := NewMaster(seed)
	require.NoError(t, err)

	assert.Equal(t,
		"xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8",
		master.Neuter().String())

	path, err := ParsePath("m/0H/1")
	require.NoError(t, err)
	leaf, err := DerivePath(master, path)
	require.NoError(t, err)
	assert.Equal(t,
		"xpub6ASuArnXKPbfEwhqN6e3mwBcDTgzisQN1wXN9BJcM47sSikHjJf3UFHKkNAWbWMiGj7Wf5uMash7SyYq527Hqck2AxYysAA7xmALppuCkwQ",
		leaf.Neuter().String())
}

// ============================================================================
// Cross-implementation checks
// ============================================================================

func TestDerivePath_MatchesHDKeychain(t *testing.T) {
	rng := rand.New(rand.NewSource(394))

	for i := 0; i < 24; i++ {
		seedBytes := sha256.Sum256(binary.BigEndian.AppendUint32(nil, uint32(i)))
		path := randomPath(rng)

		t.Run(fmt.Sprintf("%d %s", i, path), func(t *testing.T) {
			seed, err := SeedFromBytes(seedBytes[:])
			require.NoError(t, err)
			master, err := NewMaster(seed)
			require.NoError(t, err)
			ours, err := DerivePath(master, path)
			require.NoError(t, err)

			theirs, err := hdkeychain.NewMaster(seedBytes[:], &chaincfg.MainNetParams)
			require.NoError(t, err)
			for _, c := range path {
				theirs, err = theirs.Derive(c.Value())
				require.NoError(t, err)
			}

			theirPub, err := theirs.Neuter()
			require.NoError(t, err)
			assert.Equal(t, theirPub.String(), ours.Neuter().String())

			theirPriv, err := theirs.ECPrivKey()
			require.NoError(t, err)
			ref, err := crypto.PrivateKeyFromBytes(theirPriv.Serialize())
			require.NoError(t, err)
			ourPriv, err := ours.PrivateKey()
			require.NoError(t, err)

			msg := []byte("cross check")
			a, err := ourPriv.Sign(msg)
			require.NoError(t, err)
			b, err := ref.Sign(msg)
			require.NoError(t, err)
			assert.Equal(t, b, a)
		})
	}
}

func randomPath(rng *rand.Rand) DerivationPath {
	depth := 1 + rng.Intn(6)
	path := make(DerivationPath, depth)
	for i := range path {
		path[i] = PathComponent{
			Index:    uint32(rng.Int63n(int64(HardenedOffset))),
			Hardened: rng.Intn(2) == 0,
		}
	}
	return path
}

// ============================================================================
// Public derivation
// ============================================================================

func TestChild_PublicMatchesPrivate(t *testing.T) {
	account, err := DerivePath(testMaster(t), BIP44Path(CoinType, 0, 0, 0)[:3])
	require.NoError(t, err)

	for _, idx := range []uint32{0, 1, 7, 1 << 20, HardenedOffset - 1} {
		viaPrivate, err := account.Child(idx, false)
		require.NoError(t, err)

		viaPublic, err := account.Neuter().Child(idx, false)
		require.NoError(t, err)

		assert.False(t, viaPublic.IsPrivate())
		assert.True(t, viaPrivate.PublicKey().Equals(viaPublic.PublicKey()))
		assert.Equal(t, viaPrivate.Neuter().String(), viaPublic.String())
	}
}

func TestChild_HardenedFromPublic(t *testing.T) {
	pub := testMaster(t).Neuter()

	_, err := pub.Child(0, true)
	require.ErrorIs(t, err, ErrHardenedFromPublic)
	assert.ErrorIs(t, err, types.ErrInputValidation)

	_, err = DerivePath(pub, DefaultPath())
	assert.ErrorIs(t, err, ErrHardenedFromPublic)

	_, err = pub.PrivateKey()
	assert.ErrorIs(t, err, ErrNotPrivate)
}

// ============================================================================
// Errors and metadata
// ============================================================================

func TestChild_IndexOutOfRange(t *testing.T) {
	_, err := testMaster(t).Child(HardenedOffset, false)
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = DerivePath(testMaster(t), DerivationPath{{Index: HardenedOffset}})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestChild_DepthExceeded(t *testing.T) {
	key := testMaster(t).Neuter()
	var err error
	for i := 0; i < MaxDepth; i++ {
		key, err = key.Child(0, false)
		require.NoError(t, err)
	}
	assert.Equal(t, uint8(MaxDepth), key.Depth())

	_, err = key.Child(0, false)
	require.ErrorIs(t, err, ErrDepthExceeded)
	assert.ErrorIs(t, err, types.ErrDerivationFailure)
}

func TestChild_Metadata(t *testing.T) {
	master := testMaster(t)
	child, err := master.Child(44, true)
	require.NoError(t, err)

	assert.Equal(t, uint8(1), child.Depth())
	assert.Equal(t, 44|HardenedOffset, child.ChildIndex())
	assert.Equal(t, master.Fingerprint(), child.ParentFingerprint())
	assert.Equal(t, [4]byte{}, master.ParentFingerprint())
	assert.Len(t, child.ChainCode(), 32)
	assert.NotEqual(t, master.ChainCode(), child.ChainCode())
}

func TestChild_HardenedDiffersFromNormal(t *testing.T) {
	master := testMaster(t)
	for _, index := range []uint32{0, 1, 44, 394} {
		hardened, err := master.Child(index, true)
		require.NoError(t, err)
		normal, err := master.Child(index, false)
		require.NoError(t, err)

		assert.False(t, hardened.PublicKey().Equals(normal.PublicKey()), "index %d", index)
		assert.NotEqual(t, hardened.ChainCode(), normal.ChainCode())
	}
}

func TestDerivePath_DoesNotMutateMaster(t *testing.T) {
	master := testMaster(t)
	before := master.Neuter().String()

	_, err := DerivePath(master, DefaultPath())
	require.NoError(t, err)
	assert.Equal(t, before, master.Neuter().String())

	same, err := DerivePath(master, DerivationPath{})
	require.NoError(t, err)
	assert.Equal(t, before, same.Neuter().String())
	same.Zeroize()
	_, err = master.Child(0, true)
	assert.NoError(t, err)
}

func TestExtendedKey_Zeroize(t *testing.T) {
	leaf, err := DerivePath(testMaster(t), DefaultPath())
	require.NoError(t, err)

	leaf.Zeroize()
	assert.Equal(t, make([]byte, 32), leaf.ChainCode())

	_, err = leaf.Child(0, false)
	assert.ErrorIs(t, err, ErrKeyZeroized)
	_, err = leaf.PrivateKey()
	assert.ErrorIs(t, err, ErrKeyZeroized)
}

func TestExtendedKey_StringRedactsPrivate(t *testing.T) {
	master := testMaster(t)
	s := fmt.Sprintf("%v %s %#v", master, master, master)
	assert.Contains(t, s, "redacted")
	assert.NotContains(t, s, "xprv")
	assert.True(t, strings.HasPrefix(master.Neuter().String(), "xpub"))
}

func TestParseExtendedPublicKey(t *testing.T) {
	account, err := DerivePath(testMaster(t), BIP44Path(CoinType, 0, 0, 0)[:3])
	require.NoError(t, err)
	xpub := account.Neuter().String()

	// The trailing four bytes are a standard base58check checksum.
	payload, version, err := base58.CheckDecode(xpub)
	require.NoError(t, err)
	assert.Equal(t, xpubVersion[0], version)
	assert.Len(t, payload, serializedKeySize-1)

	parsed, err := ParseExtendedPublicKey(xpub)
	require.NoError(t, err)
	assert.Equal(t, xpub, parsed.String())
	assert.Equal(t, account.Depth(), parsed.Depth())

	// A watch-only wallet reaches the canonical address key.
	leaf, err := DerivePath(parsed, DerivationPath{{Index: 0}, {Index: 0}})
	require.NoError(t, err)
	assert.Equal(t, testPubKeyB64, base64.StdEncoding.EncodeToString(leaf.PublicKey().Bytes()))

	corrupted := []byte(xpub)
	corrupted[len(corrupted)-1] ^= 0x01
	_, err = ParseExtendedPublicKey(string(corrupted))
	assert.ErrorIs(t, err, ErrInvalidExtendedKey)

	_, err = ParseExtendedPublicKey("xpub")
	assert.ErrorIs(t, err, ErrInvalidExtendedKey)
}

func TestNewMaster_InvalidSeed(t *testing.T) {
	_, err := NewMaster(nil)
	assert.ErrorIs(t, err, ErrInvalidSeed)
	_, err = NewMaster(&Seed{b: make([]byte, 8)})
	assert.ErrorIs(t, err, ErrInvalidSeed)
}
