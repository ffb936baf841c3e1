//go:build !windows

package cmd

import (
	"fmt"
	"os"
	"syscall"
	"time"

	daemonpkg "github.com/warpdl/lightsout/internal/daemon"
)

// terminate sends SIGTERM to pid and waits for it to exit. If it is still
// alive after timeout it gets SIGKILL and forced is true.
func terminate(pid int, timeout time.Duration) (forced bool, err error) {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false, fmt.Errorf("process not found: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return false, fmt.Errorf("failed to send SIGTERM: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !daemonpkg.ProcessAlive(pid) {
			return false, nil
		}
		time.Sleep(stopPollInterval)
	}

	if err := process.Signal(syscall.SIGKILL); err != nil {
		return false, fmt.Errorf("failed to send SIGKILL: %w", err)
	}
	return true, nil
}
