//go:build !windows

package server

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// createListener creates the Unix socket, replacing a stale socket file.
func createListener(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating socket dir: %w", err)
	}
	_ = os.Remove(path)
	l, err := net.ListenUnix("unix", &net.UnixAddr{
		Name: path,
		Net:  "unix",
	})
	if err != nil {
		return nil, fmt.Errorf("error listening on %s: %w", path, err)
	}
	setSocketPermissions(path)
	return l, nil
}

func setSocketPermissions(path string) {
	_ = os.Chmod(path, 0700)
}

// cleanupSocket removes the Unix socket file.
// Returns an error if removal fails, unless the file doesn't exist.
func cleanupSocket(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
