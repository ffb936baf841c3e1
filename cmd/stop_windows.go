//go:build windows

package cmd

import (
	"fmt"
	"os"
	"time"
)

// terminate stops pid. Console interrupts cannot be delivered to a
// detached process on Windows, so the daemon is always killed.
func terminate(pid int, _ time.Duration) (forced bool, err error) {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false, fmt.Errorf("process not found: %w", err)
	}
	if err := process.Kill(); err != nil {
		return false, fmt.Errorf("failed to kill daemon: %w", err)
	}
	return true, nil
}
