// Package vectors holds regression vectors for crosign key derivation and
// transaction signing.
//
// Each vector pairs deterministic inputs with outputs recorded from an
// independent implementation. Any conforming implementation must reproduce
// them byte for byte.
//
// SECURITY: the mnemonics below are public. NEVER fund their accounts.
package vectors

import (
	"encoding/json"
	"fmt"
	"io"
)

// Version of the vector file format.
const Version = "1"

// File is the root structure of a serialized vector set.
type File struct {
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Keys        []KeyVector  `json:"keys"`
	Seeds       []SeedVector `json:"seeds"`
	XPubs       []XPubVector `json:"xpubs"`
	Txs         []TxVector   `json:"txs"`
}

// KeyVector derives an account from a mnemonic.
type KeyVector struct {
	Name       string `json:"name"`
	Mnemonic   string `json:"mnemonic"`
	Passphrase string `json:"passphrase"`
	Path       string `json:"path"`
	Prefix     string `json:"prefix"`

	PrivateKey string `json:"private_key"` // base64
	PublicKey  string `json:"public_key"`  // base64, compressed
	Address    string `json:"address"`
}

// SeedVector stretches a mnemonic into a BIP39 seed.
type SeedVector struct {
	Name       string `json:"name"`
	Mnemonic   string `json:"mnemonic"`
	Passphrase string `json:"passphrase"`
	SeedHex    string `json:"seed_hex"`
}

// XPubVector derives an extended public key from a raw seed.
type XPubVector struct {
	Name    string `json:"name"`
	SeedHex string `json:"seed_hex"`
	Path    string `json:"path"`
	XPub    string `json:"xpub"`
}

// TxVector signs a single bank transfer with the key of a KeyVector.
type TxVector struct {
	Name string `json:"name"`
	Key  string `json:"key"` // KeyVector.Name
	Mode string `json:"mode"`

	ChainID       string `json:"chain_id"`
	AccountNumber uint64 `json:"account_number,string"`
	Sequence      uint64 `json:"sequence,string"`
	To            string `json:"to"`
	Amount        string `json:"amount"`
	Fee           string `json:"fee"`
	GasLimit      uint64 `json:"gas,string"`
	Memo          string `json:"memo,omitempty"`
	TimeoutHeight uint64 `json:"timeout_height,omitempty,string"`

	Expected TxExpected `json:"expected"`
}

// TxExpected are the outputs of a TxVector. Empty fields are not checked.
type TxExpected struct {
	SignBytes string `json:"sign_bytes,omitempty"` // legacy mode only, verbatim
	Signature string `json:"signature"`            // base64 r||s
	Envelope  string `json:"envelope"`             // base64 of the assembled envelope
}

// Key returns the key vector called name.
func (f *File) Key(name string) (KeyVector, error) {
	for _, k := range f.Keys {
		if k.Name == name {
			return k, nil
		}
	}
	return KeyVector{}, fmt.Errorf("no key vector %q", name)
}

// WriteJSON writes f as indented JSON.
func (f *File) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// ReadJSON parses a vector file.
func ReadJSON(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode vectors: %w", err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("unsupported vector version %q", f.Version)
	}
	return &f, nil
}

const canonicalMnemonic = "dune car envelope chuckle elbow slight proud fury remove candy uphold puzzle call select sibling sport gadget please want vault glance verb damage gown"

// Canonical returns the recorded vector set.
func Canonical() *File {
	return &File{
		Version:     Version,
		Description: "crosign key derivation and transfer signing vectors",
		Keys: []KeyVector{{
			Name:       "canonical",
			Mnemonic:   canonicalMnemonic,
			Passphrase: "",
			Path:       "m/44'/394'/0'/0/0",
			Prefix:     "cro",
			PrivateKey: "1Jp5fbY7YcFI0XZ+YW/xXD3ZyDtjy6YcIY6hcvI4Yio=",
			PublicKey:  "AntL+UxMyJ9NZ9DGLp2v7a3dlSxiNXMaItyOXSRw8iYi",
			Address:    "cro1u9q8mfpzhyv2s43js7l5qseapx5kt3g2rf7ppf",
		}},
		Seeds: []SeedVector{{
			Name:       "bip39-trezor-abandon",
			Mnemonic:   "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
			Passphrase: "TREZOR",
			SeedHex:    "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04",
		}},
		XPubs: []XPubVector{
			{
				Name:    "bip32-1-master",
				SeedHex: "000102030405060708090a0b0c0d0e0f",
				Path:    "m",
				XPub:    "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8",
			},
			{
				Name:    "bip32-1-m/0H/1",
				SeedHex: "000102030405060708090a0b0c0d0e0f",
				Path:    "m/0H/1",
				XPub:    "xpub6ASuArnXKPbfEwhqN6e3mwBcDTgzisQN1wXN9BJcM47sSikHjJf3UFHKkNAWbWMiGj7Wf5uMash7SyYq527Hqck2AxYysAA7xmALppuCkwQ",
			},
		},
		Txs: []TxVector{
			{
				Name:     "legacy-transfer",
				Key:      "canonical",
				Mode:     "amino-json",
				ChainID:  "test",
				To:       "cro1s2gsnugjhpzac8m7necv3527jp28z9w002najd",
				Amount:   "100000000basecro",
				Fee:      "100000basecro",
				GasLimit: 300000,
				Expected: TxExpected{
					SignBytes: `{"account_number":"0","chain_id":"test","fee":{"amount":[{"amount":"100000","denom":"basecro"}],"gas":"300000"},"memo":"","msgs":[{"type":"cosmos-sdk/MsgSend","value":{"amount":[{"amount":"100000000","denom":"basecro"}],"from_address":"cro1u9q8mfpzhyv2s43js7l5qseapx5kt3g2rf7ppf","to_address":"cro1s2gsnugjhpzac8m7necv3527jp28z9w002najd"}}],"sequence":"0"}`,
					Signature: "xi3rvdsoZMXhWq7MlgAMXpoVIZ0kv7uB00OrSRS8wxwoZhojZ5uGZ4shobn3ztOev4M1k5WVcBvVd+zTvzRHCg==",
				},
			},
			{
				Name:          "direct-transfer",
				Key:           "canonical",
				Mode:          "direct",
				ChainID:       "test",
				AccountNumber: 9,
				Sequence:      4,
				To:            "cro1fj6jpmuykvra4kxrw0cp20e4vx4r8eda8q3yn9",
				Amount:        "100000000basecro",
				Fee:           "10000basecro",
				GasLimit:      300000,
				TimeoutHeight: 1,
				Expected: TxExpected{
					Signature: "jlqBo5nxRbq2RIYpjo4+gjevBEDALw+IjmqEPu4igfIgD8l4/CR3vmetHvhpyeQaYZ/bJJfehT6Z/RpxofJnxA==",
					Envelope:  "CpMBCo4BChwvY29zbW9zLmJhbmsudjFiZXRhMS5Nc2dTZW5kEm4KKmNybzF1OXE4bWZwemh5djJzNDNqczdsNXFzZWFweDVrdDNnMnJmN3BwZhIqY3JvMWZqNmpwbXV5a3ZyYTRreHJ3MGNwMjBlNHZ4NHI4ZWRhOHEzeW45GhQKB2Jhc2Vjcm8SCTEwMDAwMDAwMBgBEmoKUApGCh8vY29zbW9zLmNyeXB0by5zZWNwMjU2azEuUHViS2V5EiMKIQJ7S/lMTMifTWfQxi6dr+2t3ZUsYjVzGiLcjl0kcPImIhIECgIIARgEEhYKEAoHYmFzZWNybxIFMTAwMDAQ4KcSGkCOWoGjmfFFurZEhimOjj6CN68EQMAvD4iOaoQ+7iKB8iAPyXj8JHe+Z60e+GnJ5Bphn9skl96FPpn9GnGh8mfE",
				},
			},
		},
	}
}
