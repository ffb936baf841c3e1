package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/warpdl/lightsout/common"
	daemonpkg "github.com/warpdl/lightsout/internal/daemon"
	"github.com/warpdl/lightsout/pkg/lightcli"
)

// startDaemon is replaced in tests.
var startDaemon = lightcli.StartDaemon

var errUnknownCommand = errors.New("unknown command")

// run starts the daemon detached, or inline with --foreground. It is also
// the action when no command is given.
func run(ctx *cli.Context) error {
	if ctx.Command.Name == "" && ctx.NArg() > 0 {
		return fmt.Errorf("%w %q, see \"lightsout help\"", errUnknownCommand, ctx.Args().First())
	}
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool("foreground") {
		return runDaemon(context.Background(), env, daemonOptions{
			console: true,
			dryRun:  ctx.GlobalBool(flagDryRun),
		})
	}

	started, err := startDaemon(env.paths.Socket, daemonArgs(ctx, env))
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	if !started {
		fmt.Println("lightsout is already running")
		checkDaemonVersion(env)
		return nil
	}
	if pid, err := daemonpkg.ReadPid(fsys, env.paths.Pid); err == nil {
		fmt.Printf("lightsout started (pid %d)\n", pid)
	} else {
		fmt.Println("lightsout started")
	}
	return nil
}

// checkDaemonVersion warns when the running daemon is a different build.
func checkDaemonVersion(env *environment) {
	client, err := newClient(env.paths.Socket)
	if err != nil {
		return
	}
	defer client.Close()
	c, cancel := context.WithTimeout(context.Background(), common.DefaultDialTimeout)
	defer cancel()
	client.CheckVersionMismatch(c, currentBuildArgs.Version, os.Stderr)
}
