//go:build !windows

package lightcli

import "syscall"

// detachedAttr puts the daemon in its own process group so it survives the
// CLI exiting.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
