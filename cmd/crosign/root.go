package main

import (
	"bufio"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/blockberries/crosign/config"
	"github.com/blockberries/crosign/hd"
	"github.com/blockberries/crosign/wallet"
)

// app carries the configuration shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger log.Logger

	// in is created on the first prompt and shared by the rest.
	in *bufio.Reader

	// flag overrides
	chainID       string
	prefix        string
	hdPath        string
	signMode      string
	logLevel      string
	askPassphrase bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "crosign",
		Short: "Offline key derivation and transaction signing for Crypto.org Chain",
		Long: `crosign derives accounts from a BIP39 mnemonic and signs bank transfers.

Settings come from CROSIGN_* environment variables and can be overridden with
flags. The mnemonic is read from CROSIGN_MNEMONIC or prompted for.

Examples:
  crosign mnemonic new --words 24
  crosign address --prefix tcro
  crosign transfer --chain-id crypto-org-chain-mainnet-1 --to cro1... --amount 1 --denom cro \
      --account-number 12 --sequence 3`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.chainID, "chain-id", "", "chain ID (env CROSIGN_CHAIN_ID)")
	flags.StringVar(&a.prefix, "prefix", "", "bech32 account prefix (env CROSIGN_PREFIX, default cro)")
	flags.StringVar(&a.hdPath, "hd-path", "", "derivation path (env CROSIGN_HD_PATH, default m/44'/394'/0'/0/0)")
	flags.StringVar(&a.signMode, "sign-mode", "", "direct or amino-json (env CROSIGN_SIGN_MODE)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (env CROSIGN_LOG_LEVEL, default info)")
	flags.BoolVar(&a.askPassphrase, "ask-passphrase", false, "prompt for a BIP39 passphrase")

	root.AddCommand(newMnemonicCmd(a))
	root.AddCommand(newAddressCmd(a))
	root.AddCommand(newTransferCmd(a))
	return root
}

// load reads the environment and applies flag overrides.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("chain-id") {
		cfg.ChainID = a.chainID
	}
	if flags.Changed("prefix") {
		cfg.Prefix = a.prefix
	}
	if flags.Changed("hd-path") {
		if err := cfg.HDPath.Decode(a.hdPath); err != nil {
			return err
		}
	}
	if flags.Changed("sign-mode") {
		cfg.SignModeName = a.signMode
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger.With("module", "crosign")
	return nil
}

// keyService derives the configured account from the mnemonic.
// The caller must Close it.
func (a *app) keyService(cmd *cobra.Command) (*wallet.KeyService, error) {
	phrase := a.cfg.Mnemonic
	if phrase == "" {
		var err error
		if phrase, err = a.promptSecret(cmd, "Enter mnemonic: ", errNoMnemonic); err != nil {
			return nil, err
		}
	}
	m, err := hd.ParseMnemonic(phrase)
	if err != nil {
		return nil, err
	}

	var passphrase string
	if a.askPassphrase {
		if passphrase, err = a.promptSecret(cmd, "Enter passphrase: ", errNoPassphrase); err != nil {
			return nil, err
		}
	}

	svc, err := wallet.NewFromMnemonic(m, passphrase, a.cfg.HDPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("derived key", "hd_path", a.cfg.HDPath.String())
	return svc, nil
}
