//go:build !windows

package common

import (
	"os"
	"path/filepath"
)

// SocketPath returns the status socket path for the given config dir. The
// SocketPathEnv environment variable takes precedence.
func SocketPath(configDir string) string {
	if path := os.Getenv(SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(configDir, SocketFileName)
}
