package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // hash160 is fixed by the address format
)

// Hash160Size is the length of a RIPEMD160(SHA256(x)) digest.
const Hash160Size = ripemd160.Size

// Hash160 returns RIPEMD160(SHA256(data)), the digest used for account
// addresses and BIP32 key fingerprints.
func Hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}
