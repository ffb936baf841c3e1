package autostart

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// runKey is the subset of registry.Key used here; tests replace openRunKey.
type runKey interface {
	GetStringValue(name string) (string, uint32, error)
	SetStringValue(name, value string) error
	DeleteValue(name string) error
	Close() error
}

var openRunKey = func(access uint32) (runKey, error) {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, access)
	if err != nil {
		return nil, err
	}
	return k, nil
}

type registryAutostart struct {
	name    string
	command string
}

// New returns an HKCU Run entry. fs is unused on Windows.
func New(_ afero.Fs, e Entry) (Autostart, error) {
	return &registryAutostart{name: e.Name, command: windows.ComposeCommandLine(e.Command)}, nil
}

func (r *registryAutostart) Enable() error {
	k, err := openRunKey(registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open run key: %w", err)
	}
	defer k.Close()
	return k.SetStringValue(r.name, r.command)
}

func (r *registryAutostart) Disable() error {
	k, err := openRunKey(registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open run key: %w", err)
	}
	defer k.Close()
	if err := k.DeleteValue(r.name); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return err
	}
	return nil
}

func (r *registryAutostart) Enabled() (bool, error) {
	k, err := openRunKey(registry.QUERY_VALUE)
	if err != nil {
		return false, fmt.Errorf("open run key: %w", err)
	}
	defer k.Close()
	v, _, err := k.GetStringValue(r.name)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == r.command, nil
}

func (r *registryAutostart) Location() string {
	return `HKCU\` + runKeyPath + `\` + r.name
}
