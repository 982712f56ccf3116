package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockberries/crosign/hd"
)

func newMnemonicCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mnemonic",
		Short: "Mnemonic utilities",
	}

	var words int
	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new BIP39 mnemonic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := hd.NewMnemonic(words)
			if err != nil {
				return err
			}
			a.logger.Debug("generated mnemonic", "words", m.WordCount())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), m.Phrase())
			return err
		},
	}
	newCmd.Flags().IntVar(&words, "words", 24, "number of words: 12, 15, 18, 21 or 24")

	cmd.AddCommand(newCmd)
	return cmd
}
