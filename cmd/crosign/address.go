package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddressCmd(a *app) *cobra.Command {
	var showPubKey bool

	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the account address for the configured path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.keyService(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			addr, err := svc.Address(a.cfg.Prefix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, addr.String())
			if showPubKey {
				fmt.Fprintln(out, svc.PublicKey().String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showPubKey, "pubkey", false, "also print the base64 compressed public key")
	return cmd
}
