package wallet

import (
	"encoding/base64"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/crosign/address"
	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/hd"
	"github.com/blockberries/crosign/types"
)

const (
	testPhrase    = "dune car envelope chuckle elbow slight proud fury remove candy uphold puzzle call select sibling sport gadget please want vault glance verb damage gown"
	testPubKeyB64 = "AntL+UxMyJ9NZ9DGLp2v7a3dlSxiNXMaItyOXSRw8iYi"
	testAddress   = "cro1u9q8mfpzhyv2s43js7l5qseapx5kt3g2rf7ppf"

	testSignDoc = `{"account_number":"0","chain_id":"test","fee":{"amount":[{"amount":"100000","denom":"basecro"}],"gas":"300000"},"memo":"","msgs":[{"type":"cosmos-sdk/MsgSend","value":{"amount":[{"amount":"100000000","denom":"basecro"}],"from_address":"cro1u9q8mfpzhyv2s43js7l5qseapx5kt3g2rf7ppf","to_address":"cro1wav0rvenku09q8rqx2nvu7wdl6jy5dx0009ulj"}}],"sequence":"0"}`
	testSignature = "bpPVZg1frGFAKM54i5Wr9PRcg31wk4vBNruYUuN9O9QvIJs+rFshRqZlhd++qBQYUvMdhHO4g/0UuB7JRaESvA=="
)

func testService(t *testing.T) *KeyService {
	t.Helper()
	m, err := hd.ParseMnemonic(testPhrase)
	require.NoError(t, err)
	svc, err := NewFromMnemonic(m, "", hd.DefaultPath())
	require.NoError(t, err)
	return svc
}

func TestNewFromMnemonic_CanonicalVector(t *testing.T) {
	svc := testService(t)

	assert.Equal(t, testPubKeyB64, svc.PublicKey().String())
	assert.Len(t, svc.PublicKey().Bytes(), crypto.PublicKeySize)

	addr, err := svc.Address(address.DefaultPrefix)
	require.NoError(t, err)
	assert.Equal(t, testAddress, addr.String())
}

func TestKeyService_SignVector(t *testing.T) {
	svc := testService(t)

	sig, err := svc.Sign([]byte(testSignDoc))
	require.NoError(t, err)
	assert.Equal(t, testSignature, base64.StdEncoding.EncodeToString(sig))
	assert.True(t, svc.PublicKey().Verify([]byte(testSignDoc), sig))
}

func TestNewFromMnemonic_PassphraseAndPath(t *testing.T) {
	m, err := hd.ParseMnemonic(testPhrase)
	require.NoError(t, err)

	base := testService(t)

	withPass, err := NewFromMnemonic(m, "extra", hd.DefaultPath())
	require.NoError(t, err)
	assert.False(t, base.PublicKey().Equals(withPass.PublicKey()))

	nextIndex, err := NewFromMnemonic(m, "", hd.BIP44Path(hd.CoinType, 0, 0, 1))
	require.NoError(t, err)
	assert.False(t, base.PublicKey().Equals(nextIndex.PublicKey()))

	_, err = NewFromMnemonic(m, "", hd.DerivationPath{{Index: hd.HardenedOffset}})
	assert.ErrorIs(t, err, hd.ErrInvalidPath)

	_, err = NewFromMnemonic(nil, "", hd.DefaultPath())
	assert.ErrorIs(t, err, types.ErrInputValidation)
}

func TestNewFromExtendedKey(t *testing.T) {
	m, err := hd.ParseMnemonic(testPhrase)
	require.NoError(t, err)
	seed := m.Seed("")
	master, err := hd.NewMaster(seed)
	require.NoError(t, err)
	leaf, err := hd.DerivePath(master, hd.DefaultPath())
	require.NoError(t, err)

	svc, err := NewFromExtendedKey(leaf)
	require.NoError(t, err)
	assert.Equal(t, testPubKeyB64, svc.PublicKey().String())

	// The service owns its own copy of the scalar.
	leaf.Zeroize()
	_, err = svc.Sign([]byte("still signs"))
	assert.NoError(t, err)

	_, err = NewFromExtendedKey(master.Neuter())
	assert.ErrorIs(t, err, hd.ErrNotPrivate)
	_, err = NewFromExtendedKey(nil)
	assert.ErrorIs(t, err, hd.ErrNotPrivate)
}

func TestKeyService_Close(t *testing.T) {
	svc := testService(t)
	require.NoError(t, svc.Close())
	require.NoError(t, svc.Close())

	_, err := svc.Sign([]byte(testSignDoc))
	require.ErrorIs(t, err, ErrKeyClosed)
	assert.ErrorIs(t, err, types.ErrSigningFailure)

	assert.Equal(t, testPubKeyB64, svc.PublicKey().String())
	addr, err := svc.Address(address.DefaultPrefix)
	require.NoError(t, err)
	assert.Equal(t, testAddress, addr.String())
}

func TestKeyService_AddressInvalidPrefix(t *testing.T) {
	_, err := testService(t).Address("")
	assert.ErrorIs(t, err, address.ErrInvalidPrefix)
}

func TestKeyService_ConcurrentSign(t *testing.T) {
	svc := testService(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sig, err := svc.Sign([]byte(testSignDoc))
			if assert.NoError(t, err) {
				assert.Equal(t, testSignature, base64.StdEncoding.EncodeToString(sig))
			}
		}()
	}
	wg.Wait()
}

func TestKeyService_StringHidesKey(t *testing.T) {
	s := testService(t).String()
	assert.True(t, strings.Contains(s, testPubKeyB64))
	assert.NotContains(t, s, "1Jp5fbY7YcFI0XZ+YW/xXD3ZyDtjy6YcIY6hcvI4Yio=")
}
