// Command crosign derives Crypto.org Chain accounts and signs bank transfers
// offline. Signed transactions are printed, never broadcast.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
