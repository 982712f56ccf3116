package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// promptSecret reads one line without echo when stdin is a terminal, or the
// next line of the command's input otherwise. Piped input is read through a
// single reader so consecutive prompts consume consecutive lines. missing is
// returned when the input is exhausted.
func (a *app) promptSecret(cmd *cobra.Command, prompt string, missing error) (string, error) {
	if cmd.InOrStdin() == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		defer fmt.Fprintln(cmd.ErrOrStderr())

		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		defer clear(raw)
		return string(raw), nil
	}

	if a.in == nil {
		a.in = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", missing
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var (
	errNoMnemonic   = errors.New("no mnemonic on input: set CROSIGN_MNEMONIC or run interactively")
	errNoPassphrase = errors.New("no passphrase on input: pipe it on the line after the mnemonic or run interactively")
)
