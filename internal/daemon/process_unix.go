//go:build !windows

package daemon

import (
	"errors"

	"golang.org/x/sys/unix"
)

var processAlive = func(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
