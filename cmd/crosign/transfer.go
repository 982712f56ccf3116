package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blockberries/crosign/tx"
	"github.com/blockberries/crosign/types"
)

type transferFlags struct {
	to            string
	amount        uint64
	denom         string
	accountNumber uint64
	sequence      uint64
	memo          string
	fee           string
	gas           uint64
	timeoutHeight uint64
	broadcast     string
	base64        bool
}

func newTransferCmd(a *app) *cobra.Command {
	var f transferFlags

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Sign a bank transfer and print it",
		Long: `Sign a bank transfer from the configured account.

By default the broadcast request body is printed as JSON. With --base64 the
signed envelope itself is printed in base64.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.transfer(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.to, "to", "", "recipient address")
	flags.Uint64Var(&f.amount, "amount", 0, "amount to send")
	flags.StringVar(&f.denom, "denom", types.BaseDenom, "denomination: basecro, cro or another base denom")
	flags.Uint64Var(&f.accountNumber, "account-number", 0, "on-chain account number")
	flags.Uint64Var(&f.sequence, "sequence", 0, "account sequence")
	flags.StringVar(&f.memo, "memo", "", "memo")
	flags.StringVar(&f.fee, "fee", "", "fee, e.g. 10000basecro (env CROSIGN_FEE)")
	flags.Uint64Var(&f.gas, "gas", 0, "gas limit (env CROSIGN_GAS_LIMIT)")
	flags.Uint64Var(&f.timeoutHeight, "timeout-height", 0, "block height after which the transaction is invalid")
	flags.StringVar(&f.broadcast, "broadcast-mode", "", "sync, async or block (env CROSIGN_BROADCAST_MODE)")
	flags.BoolVar(&f.base64, "base64", false, "print the signed envelope in base64")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func (a *app) transfer(cmd *cobra.Command, f transferFlags) error {
	cfg := a.cfg
	flags := cmd.Flags()
	if flags.Changed("fee") {
		if err := cfg.Fee.Decode(f.fee); err != nil {
			return err
		}
	}
	if flags.Changed("gas") {
		cfg.GasLimit = f.gas
	}
	if flags.Changed("broadcast-mode") {
		if err := cfg.BroadcastMode.Decode(f.broadcast); err != nil {
			return err
		}
	}

	amount, err := types.NewCROCoin(f.amount, f.denom)
	if err != nil {
		return err
	}

	svc, err := a.keyService(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	opts := append(cfg.BuilderOptions(a.logger), tx.WithMemo(f.memo), tx.WithTimeoutHeight(f.timeoutHeight))
	b, err := tx.NewBuilder(svc, cfg.SignMode, cfg.ChainID, opts...)
	if err != nil {
		return err
	}
	if err := b.AddTransfer(f.to, amount); err != nil {
		return err
	}

	signed, err := b.Build(f.accountNumber, f.sequence)
	if err != nil {
		return err
	}
	a.logger.Info("signed transfer", "from", b.From(), "to", f.to, "amount", amount.String(), "sequence", f.sequence)

	out := cmd.OutOrStdout()
	if f.base64 {
		_, err = fmt.Fprintln(out, signed.Base64())
		return err
	}
	body, err := tx.BroadcastBody(signed, cfg.BroadcastMode)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}
