// Package config loads crosign settings from CROSIGN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"

	"cosmossdk.io/log"
	"github.com/kelseyhightower/envconfig"

	"github.com/blockberries/crosign/address"
	"github.com/blockberries/crosign/hd"
	"github.com/blockberries/crosign/tx"
	"github.com/blockberries/crosign/types"
)

// EnvPrefix is prepended to every variable name, e.g. CROSIGN_CHAIN_ID.
const EnvPrefix = "CROSIGN"

// Config contains the signing defaults for one chain.
// Note: Mnemonic is a secret; String never prints it.
type Config struct {
	ChainID       string            `envconfig:"CHAIN_ID"`
	Prefix        string            `envconfig:"PREFIX" default:"cro"`
	HDPath        hd.DerivationPath `envconfig:"HD_PATH" default:"m/44'/394'/0'/0/0"`
	SignModeName  string            `envconfig:"SIGN_MODE" default:"direct"`
	BroadcastMode tx.BroadcastMode  `envconfig:"BROADCAST_MODE" default:"sync"`
	Fee           types.Coin        `envconfig:"FEE" default:"10000basecro"`
	GasLimit      uint64            `envconfig:"GAS_LIMIT" default:"300000"`
	LogLevel      string            `envconfig:"LOG_LEVEL" default:"info"`
	Mnemonic      string            `envconfig:"MNEMONIC"`

	// SignMode is parsed from SignModeName by Load.
	SignMode tx.SignMode `ignored:"true"`
}

// Load reads the environment and validates every value.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		var perr *envconfig.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("failed to process config: %s: %w", perr.KeyName, perr.Err)
		}
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values set after Load, e.g. by command-line flags, and
// refreshes SignMode from SignModeName.
func (c *Config) Validate() error {
	mode, err := tx.ParseSignMode(c.SignModeName)
	if err != nil {
		return err
	}
	c.SignMode = mode

	if _, err := (address.Address{}).Bech32(c.Prefix); err != nil {
		return err
	}
	if err := c.HDPath.Validate(); err != nil {
		return err
	}
	if _, err := tx.ParseBroadcastMode(string(c.BroadcastMode)); err != nil {
		return err
	}
	if err := c.Fee.Validate(); err != nil {
		return err
	}
	if _, err := log.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// BuilderOptions returns the tx.Builder options these settings imply.
func (c *Config) BuilderOptions(logger log.Logger) []tx.BuilderOption {
	opts := []tx.BuilderOption{
		tx.WithPrefix(c.Prefix),
		tx.WithGasLimit(c.GasLimit),
		tx.WithBroadcastMode(c.BroadcastMode),
		tx.WithLogger(logger),
	}
	if !c.Fee.IsZero() {
		opts = append(opts, tx.WithFee(c.Fee))
	}
	return opts
}

// Logger returns a logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (log.Logger, error) {
	filter, err := log.ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return log.NewLogger(w, log.FilterOption(filter), log.ColorOption(false)), nil
}

// String implements fmt.Stringer without the mnemonic.
func (c Config) String() string {
	mnemonic := "unset"
	if c.Mnemonic != "" {
		mnemonic = "[REDACTED]"
	}
	mode := c.SignModeName
	if c.SignMode != nil {
		mode = c.SignMode.String()
	}
	return fmt.Sprintf("chain_id=%s prefix=%s hd_path=%s sign_mode=%s broadcast=%s fee=%s gas=%d log=%s mnemonic=%s",
		c.ChainID, c.Prefix, c.HDPath, mode, c.BroadcastMode, c.Fee, c.GasLimit, c.LogLevel, mnemonic)
}
