package vectors

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/blockberries/crosign/address"
	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/hd"
	"github.com/blockberries/crosign/tx"
	"github.com/blockberries/crosign/types"
	"github.com/blockberries/crosign/wallet"
)

// Generate recomputes every expected output of in from its inputs with this
// module's implementation. The result can be compared against in, or written
// out to seed a new vector file.
func Generate(in *File) (*File, error) {
	out := &File{Version: in.Version, Description: in.Description}

	for _, v := range in.Keys {
		got, err := GenerateKey(v)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", v.Name, err)
		}
		out.Keys = append(out.Keys, got)
	}
	for _, v := range in.Seeds {
		got, err := GenerateSeed(v)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", v.Name, err)
		}
		out.Seeds = append(out.Seeds, got)
	}
	for _, v := range in.XPubs {
		got, err := GenerateXPub(v)
		if err != nil {
			return nil, fmt.Errorf("xpub %s: %w", v.Name, err)
		}
		out.XPubs = append(out.XPubs, got)
	}
	for _, v := range in.Txs {
		key, err := in.Key(v.Key)
		if err != nil {
			return nil, fmt.Errorf("tx %s: %w", v.Name, err)
		}
		got, err := GenerateTx(key, v)
		if err != nil {
			return nil, fmt.Errorf("tx %s: %w", v.Name, err)
		}
		out.Txs = append(out.Txs, got)
	}
	return out, nil
}

// GenerateKey fills the derived fields of v. PrivateKey is kept from v and
// checked against the derived public key, since private scalars are never
// exported.
func GenerateKey(v KeyVector) (KeyVector, error) {
	svc, err := keyService(v)
	if err != nil {
		return KeyVector{}, err
	}
	defer svc.Close()

	addr, err := svc.Address(v.Prefix)
	if err != nil {
		return KeyVector{}, err
	}
	v.PublicKey = svc.PublicKey().String()
	v.Address = addr.String()

	if v.PrivateKey != "" {
		raw, err := base64.StdEncoding.DecodeString(v.PrivateKey)
		if err != nil {
			return KeyVector{}, err
		}
		priv, err := crypto.PrivateKeyFromBytes(raw)
		crypto.Zeroize(raw)
		if err != nil {
			return KeyVector{}, err
		}
		defer priv.Zeroize()
		if !priv.PublicKey().Equals(svc.PublicKey()) {
			return KeyVector{}, fmt.Errorf("private key does not match derived public key %s", v.PublicKey)
		}
	}
	return v, nil
}

// GenerateSeed fills SeedHex.
func GenerateSeed(v SeedVector) (SeedVector, error) {
	m, err := hd.ParseMnemonic(v.Mnemonic)
	if err != nil {
		return SeedVector{}, err
	}
	seed := m.Seed(v.Passphrase)
	defer seed.Zeroize()
	v.SeedHex = hex.EncodeToString(seed.Bytes())
	return v, nil
}

// GenerateXPub fills XPub.
func GenerateXPub(v XPubVector) (XPubVector, error) {
	raw, err := hex.DecodeString(v.SeedHex)
	if err != nil {
		return XPubVector{}, err
	}
	seed, err := hd.SeedFromBytes(raw)
	if err != nil {
		return XPubVector{}, err
	}
	defer seed.Zeroize()

	path, err := hd.ParsePath(v.Path)
	if err != nil {
		return XPubVector{}, err
	}
	master, err := hd.NewMaster(seed)
	if err != nil {
		return XPubVector{}, err
	}
	defer master.Zeroize()

	leaf, err := hd.DerivePath(master, path)
	if err != nil {
		return XPubVector{}, err
	}
	defer leaf.Zeroize()
	v.XPub = leaf.Neuter().String()
	return v, nil
}

// GenerateTx fills Expected for v, signing with the account of key.
func GenerateTx(key KeyVector, v TxVector) (TxVector, error) {
	mode, err := tx.ParseSignMode(v.Mode)
	if err != nil {
		return TxVector{}, err
	}
	amount, err := types.ParseCoin(v.Amount)
	if err != nil {
		return TxVector{}, err
	}
	fee, err := types.ParseCoin(v.Fee)
	if err != nil {
		return TxVector{}, err
	}

	svc, err := keyService(key)
	if err != nil {
		return TxVector{}, err
	}
	defer svc.Close()

	from, err := address.Encode(svc.PublicKey().Bytes(), key.Prefix)
	if err != nil {
		return TxVector{}, err
	}
	utx := &types.UnsignedTransaction{
		ChainID:       v.ChainID,
		AccountNumber: v.AccountNumber,
		Sequence:      v.Sequence,
		Messages:      []types.Msg{types.NewMsgSend(from, v.To, amount)},
		Fee:           types.NewFee(fee, v.GasLimit),
		Memo:          v.Memo,
		TimeoutHeight: v.TimeoutHeight,
	}

	doc, err := tx.BuildSignDoc(mode, utx, svc.PublicKey())
	if err != nil {
		return TxVector{}, err
	}
	sig, err := tx.Sign(svc, doc)
	if err != nil {
		return TxVector{}, err
	}
	signed, err := tx.Assemble(doc, mode, sig)
	if err != nil {
		return TxVector{}, err
	}

	v.Expected = TxExpected{
		Signature: base64.StdEncoding.EncodeToString(sig),
		Envelope:  signed.Base64(),
	}
	if mode == tx.LegacyJSON {
		v.Expected.SignBytes = string(doc.Bytes())
	}
	return v, nil
}

func keyService(v KeyVector) (*wallet.KeyService, error) {
	m, err := hd.ParseMnemonic(v.Mnemonic)
	if err != nil {
		return nil, err
	}
	path, err := hd.ParsePath(v.Path)
	if err != nil {
		return nil, err
	}
	return wallet.NewFromMnemonic(m, v.Passphrase, path)
}
