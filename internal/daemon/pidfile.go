package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

var getpid = os.Getpid

// ReadPid returns the pid stored in path.
func ReadPid(fs afero.Fs, path string) (int, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid file %s", path)
	}
	return pid, nil
}

// writePidFile records this process in path. A pid file naming another
// live process means a daemon is already running; a stale one is replaced.
func writePidFile(fs afero.Fs, path string) error {
	if pid, err := ReadPid(fs, path); err == nil && pid != getpid() && processAlive(pid) {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, []byte(strconv.Itoa(getpid())+"\n"), 0644)
}

// removePidFile deletes path if it still names this process.
func removePidFile(fs afero.Fs, path string) error {
	pid, err := ReadPid(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err == nil && pid != getpid() {
		return nil
	}
	if err := fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ProcessAlive reports whether pid names a running process.
func ProcessAlive(pid int) bool {
	return processAlive(pid)
}
