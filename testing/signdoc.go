// Package testing provides test helpers for code that builds crosign sign
// documents.
package testing

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockberries/crosign/crypto"
	"github.com/blockberries/crosign/tx"
	"github.com/blockberries/crosign/types"
)

// AssertSignDocDeterminism builds the sign document for utx iterations times
// and fails unless every build yields identical bytes.
//
// SECURITY: a node re-derives the sign bytes from the broadcast transaction.
// Any variation between builds, e.g. from map iteration order, produces
// signatures the chain rejects.
//
// Usage:
//
//	func TestTransfer_Determinism(t *testing.T) {
//	    crosigntesting.AssertSignDocDeterminism(t, tx.LegacyJSON, utx, signer.PublicKey(), 100)
//	}
func AssertSignDocDeterminism(t *testing.T, mode tx.SignMode, utx *types.UnsignedTransaction, pub crypto.PublicKey, iterations int) {
	t.Helper()

	if iterations < 2 {
		t.Fatal("AssertSignDocDeterminism requires at least 2 iterations")
	}

	first, err := tx.BuildSignDoc(mode, utx, pub)
	require.NoError(t, err, "BuildSignDoc failed on first call")

	for i := 1; i < iterations; i++ {
		doc, err := tx.BuildSignDoc(mode, utx, pub)
		require.NoError(t, err, "BuildSignDoc failed on iteration %d", i)
		if !bytes.Equal(first.Bytes(), doc.Bytes()) {
			t.Fatalf("%s sign bytes differ on iteration %d.\nFirst: %x\nGot:   %x",
				mode, i, first.Bytes(), doc.Bytes())
		}
	}
}

// AssertSignDocDeterminismConcurrent is AssertSignDocDeterminism with builds
// spread over goroutines. Run it under -race to catch shared mutable state.
func AssertSignDocDeterminismConcurrent(t *testing.T, mode tx.SignMode, utx *types.UnsignedTransaction, pub crypto.PublicKey, goroutines, iterationsPerGoroutine int) {
	t.Helper()

	if goroutines < 1 || iterationsPerGoroutine < 1 {
		t.Fatal("AssertSignDocDeterminismConcurrent requires at least 1 goroutine and 1 iteration")
	}

	reference, err := tx.BuildSignDoc(mode, utx, pub)
	require.NoError(t, err, "BuildSignDoc failed on reference call")

	results := make(chan concurrentResult, goroutines*iterationsPerGoroutine)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for i := 0; i < iterationsPerGoroutine; i++ {
				doc, err := tx.BuildSignDoc(mode, utx, pub)
				r := concurrentResult{err: err, goroutineID: goroutineID, iteration: i}
				if doc != nil {
					r.data = doc.Bytes()
				}
				results <- r
			}
		}(g)
	}
	wg.Wait()
	close(results)

	for r := range results {
		if r.err != nil {
			t.Fatalf("BuildSignDoc failed in goroutine %d, iteration %d: %v", r.goroutineID, r.iteration, r.err)
		}
		if !bytes.Equal(reference.Bytes(), r.data) {
			t.Fatalf("%s sign bytes differ in goroutine %d, iteration %d", mode, r.goroutineID, r.iteration)
		}
	}
}

// AssertSignedTransfer signs utx with s under mode, assembles it and checks
// the signature against the document.
func AssertSignedTransfer(t *testing.T, s crypto.Signer, mode tx.SignMode, utx *types.UnsignedTransaction) *tx.SignedTx {
	t.Helper()

	doc, err := tx.BuildSignDoc(mode, utx, s.PublicKey())
	require.NoError(t, err, "BuildSignDoc")

	sig, err := tx.Sign(s, doc)
	require.NoError(t, err, "Sign")
	require.Len(t, sig, crypto.SignatureSize)
	require.True(t, crypto.IsLowS(sig), "signature is not low-S")
	require.True(t, s.PublicKey().Verify(doc.Bytes(), sig), "signature does not verify")

	signed, err := tx.Assemble(doc, mode, sig)
	require.NoError(t, err, "Assemble")
	require.Equal(t, mode, signed.Mode())
	return signed
}

type concurrentResult struct {
	data        []byte
	err         error
	goroutineID int
	iteration   int
}
