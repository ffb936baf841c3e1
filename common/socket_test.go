//go:build !windows

package common

import (
	"path/filepath"
	"testing"
)

func TestSocketPath(t *testing.T) {
	t.Setenv(SocketPathEnv, "")
	dir := t.TempDir()
	if got, want := SocketPath(dir), filepath.Join(dir, SocketFileName); got != want {
		t.Errorf("SocketPath() = %q; want %q", got, want)
	}

	t.Setenv(SocketPathEnv, "/tmp/custom.sock")
	if got := SocketPath(dir); got != "/tmp/custom.sock" {
		t.Errorf("SocketPath() = %q; want env override", got)
	}
}
