package lightcli

import (
	"fmt"
	"os"
	"os/exec"
)

var (
	executable = os.Executable
	// startCommand starts cmd; tests replace it to observe the spawn.
	startCommand = func(cmd *exec.Cmd) error { return cmd.Start() }
)

// spawnDaemon starts the daemon as a background process.
func spawnDaemon(args []string) error {
	self, err := executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(self, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	cmd.SysProcAttr = detachedAttr()

	if err := startCommand(cmd); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	// Release process so it doesn't become a zombie when it exits
	if cmd.Process != nil {
		_ = cmd.Process.Release()
	}
	return nil
}
