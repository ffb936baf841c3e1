//go:build windows

package lightcli

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// detachedAttr runs the daemon without a console window.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW | windows.CREATE_NEW_PROCESS_GROUP,
	}
}
