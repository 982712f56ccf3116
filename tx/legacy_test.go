package tx

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/crosign/types"
)

func TestLegacyJSON_Vector(t *testing.T) {
	signer := testSigner(t)

	doc, err := BuildSignDoc(LegacyJSON, legacyTx(), signer.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, legacySignBytes, string(doc.Bytes()))
	assert.Nil(t, doc.BodyBytes())
	assert.Nil(t, doc.AuthInfoBytes())

	sig, err := Sign(signer, doc)
	require.NoError(t, err)
	assert.Equal(t, legacySignature, base64.StdEncoding.EncodeToString(sig))
}

func TestLegacyJSON_Envelope(t *testing.T) {
	signer := testSigner(t)
	doc, err := BuildSignDoc(LegacyJSON, legacyTx(), signer.PublicKey())
	require.NoError(t, err)
	sig, err := Sign(signer, doc)
	require.NoError(t, err)

	signed, err := Assemble(doc, LegacyJSON, sig)
	require.NoError(t, err)
	assert.Equal(t, LegacyJSON, signed.Mode())
	assert.Equal(t, BroadcastSync, signed.BroadcastMode())

	want := `{"mode":"sync","tx":{"fee":{"amount":[{"amount":"100000","denom":"basecro"}],"gas":"300000"},"memo":"",` +
		`"msg":[{"type":"cosmos-sdk/MsgSend","value":{"amount":[{"amount":"100000000","denom":"basecro"}],"from_address":"` + testAddress + `","to_address":"` + legacyTo + `"}}],` +
		`"signatures":[{"account_number":"0","pub_key":{"type":"tendermint/PubKeySecp256k1","value":"AntL+UxMyJ9NZ9DGLp2v7a3dlSxiNXMaItyOXSRw8iYi"},"sequence":"0","signature":"` + legacySignature + `"}]}}`
	assert.Equal(t, want, string(signed.Bytes()))
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(want)), signed.Base64())
}

func TestLegacyJSON_OptionalFields(t *testing.T) {
	signer := testSigner(t)

	utx := legacyTx()
	doc, err := BuildSignDoc(LegacyJSON, utx, signer.PublicKey())
	require.NoError(t, err)
	for _, key := range []string{"timeout_height", "payer", "granter"} {
		assert.NotContains(t, string(doc.Bytes()), key)
	}

	utx.TimeoutHeight = 12345
	utx.Fee.Payer = testAddress
	utx.Fee.Granter = legacyTo
	doc, err = BuildSignDoc(LegacyJSON, utx, signer.PublicKey())
	require.NoError(t, err)

	s := string(doc.Bytes())
	assert.Contains(t, s, `"fee":{"amount":[{"amount":"100000","denom":"basecro"}],"gas":"300000","granter":"`+legacyTo+`","payer":"`+testAddress+`"}`)
	assert.True(t, strings.HasSuffix(s, `"sequence":"0","timeout_height":"12345"}`))

	sig, err := Sign(signer, doc)
	require.NoError(t, err)
	signed, err := Assemble(doc, LegacyJSON, sig)
	require.NoError(t, err)
	assert.Contains(t, string(signed.Bytes()), `"timeout_height":"12345"`)
}

func TestLegacyJSON_HTMLEscaping(t *testing.T) {
	utx := legacyTx()
	utx.Memo = `<b>"fish" & chips</b>`

	doc, err := BuildSignDoc(LegacyJSON, utx, testSigner(t).PublicKey())
	require.NoError(t, err)
	assert.Contains(t, string(doc.Bytes()), `"memo":"\u003cb\u003e\"fish\" \u0026 chips\u003c/b\u003e"`)
}

func TestLegacyJSON_MemoWhitespacePreserved(t *testing.T) {
	utx := legacyTx()
	utx.Memo = "  padded memo "

	doc, err := BuildSignDoc(LegacyJSON, utx, testSigner(t).PublicKey())
	require.NoError(t, err)
	assert.Contains(t, string(doc.Bytes()), `"memo":"  padded memo "`)
}

func TestLegacyJSON_EmptyFee(t *testing.T) {
	utx := legacyTx()
	utx.Fee = types.Fee{GasLimit: types.DefaultGasLimit}

	doc, err := BuildSignDoc(LegacyJSON, utx, testSigner(t).PublicKey())
	require.NoError(t, err)
	assert.Contains(t, string(doc.Bytes()), `"fee":{"amount":[],"gas":"20000"}`)
}

func TestLegacyJSON_IsValidJSON(t *testing.T) {
	utx := legacyTx()
	utx.Messages = append(utx.Messages, types.NewMsgSend(testAddress, legacyTo, types.NewCoin("ibc/ABCDEF", 7)))

	doc, err := BuildSignDoc(LegacyJSON, utx, testSigner(t).PublicKey())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(doc.Bytes(), &decoded))
	assert.Len(t, decoded["msgs"], 2)
	assert.Equal(t, "test", decoded["chain_id"])
}

func TestSortedJSONObject(t *testing.T) {
	out, err := json.Marshal(sortedJSONObject{
		"b": 1,
		"a": sortedJSONObject{"z": "x", "y": []int{2, 1}},
		"c": "<&>",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"y":[2,1],"z":"x"},"b":1,"c":"\u003c\u0026\u003e"}`, string(out))
}
