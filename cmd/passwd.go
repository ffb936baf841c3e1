package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/warpdl/lightsout/common"
	"github.com/warpdl/lightsout/pkg/credman"
)

var (
	errNoTerminal         = errors.New("passwd needs an interactive terminal")
	errPassphraseMismatch = errors.New("passphrases do not match")
)

// overrideStore keeps the restart-evasion override passphrase.
type overrideStore interface {
	Set(passphrase string) (string, error)
	Clear() error
	Configured() bool
	Verify(passphrase string) bool
}

var (
	newOverrideStore = func(env *environment) overrideStore {
		return credman.NewOverrideStore(common.AppName, env.paths.Override)
	}

	// readPassphrase prompts and reads one line without echo.
	readPassphrase = func(prompt string) (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", errNoTerminal
		}
		fmt.Print(prompt)
		b, err := term.ReadPassword(fd)
		fmt.Println()
		return string(b), err
	}
)

func passwd(ctx *cli.Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}
	store := newOverrideStore(env)

	if ctx.Bool("clear") {
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear override passphrase: %w", err)
		}
		fmt.Println("Override passphrase removed. Restarting after the shutdown time can no longer be overridden.")
		return nil
	}

	if store.Configured() {
		fmt.Println("Replacing the existing override passphrase.")
	}
	first, err := readPassphrase("New override passphrase: ")
	if err != nil {
		return err
	}
	second, err := readPassphrase("Repeat passphrase: ")
	if err != nil {
		return err
	}
	if first != second {
		return errPassphraseMismatch
	}
	where, err := store.Set(first)
	if err != nil {
		return err
	}
	if where == "file" {
		where = env.paths.Override
	} else {
		where = "the system " + where
	}
	fmt.Printf("Override passphrase saved to %s\n", where)
	return nil
}
