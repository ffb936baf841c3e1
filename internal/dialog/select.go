package dialog

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/warpdl/lightsout/pkg/logger"
)

// Backend names accepted by New.
const (
	BackendAuto       = "auto"
	BackendZenity     = "zenity"
	BackendKDialog    = "kdialog"
	BackendOSAScript  = "osascript"
	BackendPowerShell = "powershell"
	BackendConsole    = "console"
)

var lookPath = exec.LookPath

var goos = runtime.GOOS

func backendFor(name string) (backend, bool) {
	switch name {
	case BackendZenity:
		return zenity{}, true
	case BackendKDialog:
		return kdialog{}, true
	case BackendOSAScript:
		return osascript{}, true
	case BackendPowerShell:
		return powershell{}, true
	}
	return nil, false
}

// KnownBackend reports whether New accepts name.
func KnownBackend(name string) bool {
	if name == BackendAuto || name == BackendConsole {
		return true
	}
	_, ok := backendFor(name)
	return ok
}

// candidates lists the helpers tried by auto selection on the current OS.
func candidates() []string {
	switch goos {
	case "darwin":
		return []string{BackendOSAScript}
	case "windows":
		return []string{BackendPowerShell}
	default:
		return []string{BackendZenity, BackendKDialog}
	}
}

// Named presenters report their backend name for logging.
type Named interface {
	Presenter
	Name() string
}

// New returns the presenter for name. An empty name or "auto" picks the first
// helper found on PATH for this OS, falling back to the console.
func New(name string, log logger.Logger) (Named, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	switch name {
	case "", BackendAuto:
		for _, c := range candidates() {
			b, _ := backendFor(c)
			if _, err := lookPath(b.binary()); err == nil {
				log.Info("Dialog backend: %s", c)
				return &CommandPresenter{b: b}, nil
			}
		}
		log.Warning("No graphical dialog helper found, prompting on the console")
		return NewConsolePresenter(), nil
	case BackendConsole:
		return NewConsolePresenter(), nil
	}
	b, ok := backendFor(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	if _, err := lookPath(b.binary()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, name, err)
	}
	return &CommandPresenter{b: b}, nil
}
