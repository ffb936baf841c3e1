package lightcli

import (
	"fmt"
	"time"
)

const (
	// DaemonStartTimeout is how long StartDaemon waits for the socket.
	DaemonStartTimeout = 3 * time.Second
	socketPollInterval = 50 * time.Millisecond
)

// IsDaemonRunning reports whether a daemon answers on path.
func IsDaemonRunning(path string) bool {
	conn, err := dial(path)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// StartDaemon spawns `<self> args...` detached from the terminal and waits
// until it listens on path. It does nothing when a daemon already answers.
// The returned bool reports whether a new process was started.
func StartDaemon(path string, args []string) (bool, error) {
	if IsDaemonRunning(path) {
		return false, nil
	}
	if err := spawnDaemon(args); err != nil {
		return false, err
	}
	return true, WaitForDaemon(path, DaemonStartTimeout)
}

// WaitForDaemon polls until the socket/pipe becomes available or timeout
// expires.
func WaitForDaemon(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if IsDaemonRunning(path) {
			return nil
		}
		time.Sleep(socketPollInterval)
	}
	return fmt.Errorf("daemon failed to start within %v", timeout)
}
