package tx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/hd"
	"github.com/blockberries/crosign/types"
	"github.com/blockberries/crosign/wallet"
)

const (
	testPhrase  = "dune car envelope chuckle elbow slight proud fury remove candy uphold puzzle call select sibling sport gadget please want vault glance verb damage gown"
	testAddress = "cro1u9q8mfpzhyv2s43js7l5qseapx5kt3g2rf7ppf"

	legacyTo        = "cro1s2gsnugjhpzac8m7necv3527jp28z9w002najd"
	legacySignBytes = `{"account_number":"0","chain_id":"test","fee":{"amount":[{"amount":"100000","denom":"basecro"}],"gas":"300000"},"memo":"","msgs":[{"type":"cosmos-sdk/MsgSend","value":{"amount":[{"amount":"100000000","denom":"basecro"}],"from_address":"cro1u9q8mfpzhyv2s43js7l5qseapx5kt3g2rf7ppf","to_address":"cro1s2gsnugjhpzac8m7necv3527jp28z9w002najd"}}],"sequence":"0"}`
	legacySignature = "xi3rvdsoZMXhWq7MlgAMXpoVIZ0kv7uB00OrSRS8wxwoZhojZ5uGZ4shobn3ztOev4M1k5WVcBvVd+zTvzRHCg=="

	directTo        = "cro1fj6jpmuykvra4kxrw0cp20e4vx4r8eda8q3yn9"
	directSignature = "jlqBo5nxRbq2RIYpjo4+gjevBEDALw+IjmqEPu4igfIgD8l4/CR3vmetHvhpyeQaYZ/bJJfehT6Z/RpxofJnxA=="
	directTxRaw     = "CpMBCo4BChwvY29zbW9zLmJhbmsudjFiZXRhMS5Nc2dTZW5kEm4KKmNybzF1OXE4bWZwemh5djJzNDNqczdsNXFzZWFweDVrdDNnMnJmN3BwZhIqY3JvMWZqNmpwbXV5a3ZyYTRreHJ3MGNwMjBlNHZ4NHI4ZWRhOHEzeW45GhQKB2Jhc2Vjcm8SCTEwMDAwMDAwMBgBEmoKUApGCh8vY29zbW9zLmNyeXB0by5zZWNwMjU2azEuUHViS2V5EiMKIQJ7S/lMTMifTWfQxi6dr+2t3ZUsYjVzGiLcjl0kcPImIhIECgIIARgEEhYKEAoHYmFzZWNybxIFMTAwMDAQ4KcSGkCOWoGjmfFFurZEhimOjj6CN68EQMAvD4iOaoQ+7iKB8iAPyXj8JHe+Z60e+GnJ5Bphn9skl96FPpn9GnGh8mfE"
)

func testSigner(t *testing.T) *wallet.KeyService {
	t.Helper()
	m, err := hd.ParseMnemonic(testPhrase)
	require.NoError(t, err)
	svc, err := wallet.NewFromMnemonic(m, "", hd.DefaultPath())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func otherSigner(t *testing.T) crypto.Signer {
	t.Helper()
	key, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	return crypto.NewSigner(key)
}

// legacyTx is the transfer behind the legacy regression vector.
func legacyTx() *types.UnsignedTransaction {
	return &types.UnsignedTransaction{
		ChainID:  "test",
		Messages: []types.Msg{types.NewMsgSend(testAddress, legacyTo, types.NewCoin(types.BaseDenom, 100000000))},
		Fee:      types.NewFee(types.NewCoin(types.BaseDenom, 100000), 300000),
	}
}

// directTx is the transfer behind the direct regression vector.
func directTx() *types.UnsignedTransaction {
	return &types.UnsignedTransaction{
		ChainID:       "test",
		AccountNumber: 9,
		Sequence:      4,
		Messages:      []types.Msg{types.NewMsgSend(testAddress, directTo, types.NewCoin(types.BaseDenom, 100000000))},
		Fee:           types.NewFee(types.NewCoin(types.BaseDenom, 10000), 300000),
		TimeoutHeight: 1,
	}
}
