//go:build windows

package server

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"
)

// pipeSecurityDescriptor restricts pipe access to:
// - SYSTEM: Full control
// - Built-in Administrators: Full control
// - Creator Owner: Full control (the user running the daemon)
const pipeSecurityDescriptor = "D:(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;CO)"

// createListener creates a Windows named pipe listener with restricted
// permissions.
func createListener(path string) (net.Listener, error) {
	cfg := &winio.PipeConfig{
		SecurityDescriptor: pipeSecurityDescriptor,
	}
	l, err := winio.ListenPipe(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("error listening on %s: %w", path, err)
	}
	return l, nil
}

// cleanupSocket is a no-op on Windows; named pipes vanish with the listener.
func cleanupSocket(string) error {
	return nil
}
