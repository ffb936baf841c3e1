//go:build !windows

package cmd

import (
	"os"
	"syscall"
)

// stopSignals end the daemon and the countdown gracefully.
var stopSignals = []os.Signal{syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP}
