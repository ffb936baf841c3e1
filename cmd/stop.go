package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	daemonpkg "github.com/warpdl/lightsout/internal/daemon"
)

const (
	// stopTimeout is how long stop waits before killing the daemon.
	stopTimeout      = 5 * time.Second
	stopPollInterval = 100 * time.Millisecond
)

// terminateProcess is replaced in tests.
var terminateProcess = terminate

func stop(ctx *cli.Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}
	pid, err := daemonpkg.ReadPid(fsys, env.paths.Pid)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("Daemon is not running (pid file not found)")
			return nil
		}
		return err
	}
	if !daemonpkg.ProcessAlive(pid) {
		fmt.Println("Daemon is not running (removing stale pid file)")
		_ = fsys.Remove(env.paths.Pid)
		return nil
	}

	fmt.Printf("Stopping daemon (pid %d)...\n", pid)
	forced, err := terminateProcess(pid, stopTimeout)
	if err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	if forced {
		fmt.Println("Daemon did not stop in time and was killed")
		_ = fsys.Remove(env.paths.Pid)
		return nil
	}
	fmt.Println("Daemon stopped")
	return nil
}
