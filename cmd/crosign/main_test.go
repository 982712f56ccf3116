package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/crosign/hd"
)

const (
	testPhrase  = "dune car envelope chuckle elbow slight proud fury remove candy uphold puzzle call select sibling sport gadget please want vault glance verb damage gown"
	testAddress = "cro1u9q8mfpzhyv2s43js7l5qseapx5kt3g2rf7ppf"
	testPubKey  = "AntL+UxMyJ9NZ9DGLp2v7a3dlSxiNXMaItyOXSRw8iYi"

	directTo    = "cro1fj6jpmuykvra4kxrw0cp20e4vx4r8eda8q3yn9"
	directTxRaw = "CpMBCo4BChwvY29zbW9zLmJhbmsudjFiZXRhMS5Nc2dTZW5kEm4KKmNybzF1OXE4bWZwemh5djJzNDNqczdsNXFzZWFweDVrdDNnMnJmN3BwZhIqY3JvMWZqNmpwbXV5a3ZyYTRreHJ3MGNwMjBlNHZ4NHI4ZWRhOHEzeW45GhQKB2Jhc2Vjcm8SCTEwMDAwMDAwMBgBEmoKUApGCh8vY29zbW9zLmNyeXB0by5zZWNwMjU2azEuUHViS2V5EiMKIQJ7S/lMTMifTWfQxi6dr+2t3ZUsYjVzGiLcjl0kcPImIhIECgIIARgEEhYKEAoHYmFzZWNybxIFMTAwMDAQ4KcSGkCOWoGjmfFFurZEhimOjj6CN68EQMAvD4iOaoQ+7iKB8iAPyXj8JHe+Z60e+GnJ5Bphn9skl96FPpn9GnGh8mfE"

	legacyTo        = "cro1s2gsnugjhpzac8m7necv3527jp28z9w002najd"
	legacySignature = "xi3rvdsoZMXhWq7MlgAMXpoVIZ0kv7uB00OrSRS8wxwoZhojZ5uGZ4shobn3ztOev4M1k5WVcBvVd+zTvzRHCg=="
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAddress_FromEnvironment(t *testing.T) {
	t.Setenv("CROSIGN_MNEMONIC", testPhrase)

	out, _, err := run(t, "", "address", "--pubkey")
	require.NoError(t, err)
	assert.Equal(t, testAddress+"\n"+testPubKey+"\n", out)
}

func TestAddress_FromInput(t *testing.T) {
	out, _, err := run(t, testPhrase+"\n", "address")
	require.NoError(t, err)
	assert.Equal(t, testAddress+"\n", out)
}

func TestAddress_Testnet(t *testing.T) {
	t.Setenv("CROSIGN_MNEMONIC", testPhrase)

	out, _, err := run(t, "", "address", "--prefix", "tcro")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tcro1"), out)
}

func TestAddress_Passphrase(t *testing.T) {
	t.Setenv("CROSIGN_MNEMONIC", testPhrase)

	out, _, err := run(t, "secret\n", "address", "--ask-passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, testAddress+"\n", out)
}

func TestAddress_PassphraseFromInput(t *testing.T) {
	out, _, err := run(t, testPhrase+"\nsecret\n", "address", "--ask-passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, testAddress+"\n", out)

	t.Setenv("CROSIGN_MNEMONIC", testPhrase)
	fromEnv, _, err := run(t, "secret\n", "address", "--ask-passphrase")
	require.NoError(t, err)
	assert.Equal(t, fromEnv, out)

	t.Setenv("CROSIGN_MNEMONIC", "")
	_, _, err = run(t, testPhrase+"\n", "address", "--ask-passphrase")
	assert.ErrorIs(t, err, errNoPassphrase)
}

func TestAddress_Errors(t *testing.T) {
	_, _, err := run(t, "", "address")
	assert.ErrorIs(t, err, errNoMnemonic)

	_, _, err = run(t, "dune car envelope\n", "address")
	assert.ErrorIs(t, err, hd.ErrInvalidWordCount)

	t.Setenv("CROSIGN_MNEMONIC", testPhrase)
	_, _, err = run(t, "", "address", "--hd-path", "m/44'/x")
	assert.ErrorIs(t, err, hd.ErrInvalidPath)
}

func TestMnemonicNew(t *testing.T) {
	out, _, err := run(t, "", "mnemonic", "new", "--words", "12")
	require.NoError(t, err)

	m, err := hd.ParseMnemonic(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, 12, m.WordCount())

	_, _, err = run(t, "", "mnemonic", "new", "--words", "13")
	assert.ErrorIs(t, err, hd.ErrInvalidWordCount)
}

func TestTransfer_Direct(t *testing.T) {
	t.Setenv("CROSIGN_MNEMONIC", testPhrase)

	out, _, err := run(t, "", "transfer",
		"--chain-id", "test",
		"--to", directTo,
		"--amount", "1",
		"--denom", "cro",
		"--account-number", "9",
		"--sequence", "4",
		"--timeout-height", "1",
		"--base64",
	)
	require.NoError(t, err)
	assert.Equal(t, directTxRaw+"\n", out)
}

func TestTransfer_DirectBroadcastBody(t *testing.T) {
	t.Setenv("CROSIGN_MNEMONIC", testPhrase)
	t.Setenv("CROSIGN_CHAIN_ID", "test")

	out, _, err := run(t, "", "transfer",
		"--to", directTo,
		"--amount", "100000000",
		"--account-number", "9",
		"--sequence", "4",
		"--timeout-height", "1",
		"--broadcast-mode", "async",
	)
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, directTxRaw, body["tx_bytes"])
	assert.Equal(t, "BROADCAST_MODE_ASYNC", body["mode"])
}

func TestTransfer_Legacy(t *testing.T) {
	t.Setenv("CROSIGN_MNEMONIC", testPhrase)

	out, stderr, err := run(t, "", "transfer",
		"--chain-id", "test",
		"--sign-mode", "amino-json",
		"--fee", "100000basecro",
		"--to", legacyTo,
		"--amount", "100000000",
	)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `{"mode":"sync","tx":{`), out)
	assert.Contains(t, out, legacySignature)
	assert.Contains(t, stderr, "signed transfer")
	assert.NotContains(t, stderr, "dune")
}

func TestTransfer_Errors(t *testing.T) {
	t.Setenv("CROSIGN_MNEMONIC", testPhrase)

	_, _, err := run(t, "", "transfer", "--to", directTo, "--amount", "1")
	assert.Error(t, err, "chain id is required")

	_, _, err = run(t, "", "transfer", "--chain-id", "test", "--amount", "1")
	assert.Error(t, err, "--to is required")

	_, _, err = run(t, "", "transfer", "--chain-id", "test", "--to", legacyTo[:len(legacyTo)-1]+"q", "--amount", "1")
	assert.Error(t, err)

	_, _, err = run(t, "", "transfer", "--chain-id", "test", "--to", directTo, "--amount", "1", "--sign-mode", "textual")
	assert.Error(t, err)
}
