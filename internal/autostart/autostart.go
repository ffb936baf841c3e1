// Package autostart registers lightsout to start at login.
package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrUnsupported is returned on platforms without a known login mechanism.
var ErrUnsupported = errors.New("autostart is not supported on this platform")

// Entry describes what to start.
type Entry struct {
	// Name identifies the entry: the desktop file, agent label suffix or
	// registry value name.
	Name string
	// Command is the program and its arguments.
	Command []string
}

// Autostart manages one login entry.
type Autostart interface {
	Enable() error
	Disable() error
	Enabled() (bool, error)
	// Location names where the entry lives.
	Location() string
}

var userHomeDir = os.UserHomeDir

// fileAutostart is an entry stored as a single file.
type fileAutostart struct {
	fs      afero.Fs
	path    string
	content func() []byte
}

func (f *fileAutostart) Enable() error {
	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := afero.WriteFile(f.fs, f.path, f.content(), 0644); err != nil {
		return fmt.Errorf("write autostart entry: %w", err)
	}
	return nil
}

func (f *fileAutostart) Disable() error {
	if err := f.fs.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove autostart entry: %w", err)
	}
	return nil
}

func (f *fileAutostart) Enabled() (bool, error) {
	return afero.Exists(f.fs, f.path)
}

func (f *fileAutostart) Location() string { return f.path }
