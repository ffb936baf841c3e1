package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// TimestampLayout is the layout of the timestamp that starts every log line.
const TimestampLayout = "2006-01-02 15:04:05"

// FileLogger appends one "<timestamp>: <message>" line per event to a log file.
// When a write to the main log fails, a single line describing the failure is
// appended to the error log; if that fails too the event is dropped.
// The file is opened per write so the log survives rotation and deletion.
type FileLogger struct {
	fs       afero.Fs
	path     string
	errPath  string
	now      func() time.Time
	mu       sync.Mutex
}

// NewFileLogger creates a logger writing to path on fs, with errPath as the
// fallback error log. Parent directories are created lazily.
func NewFileLogger(fs afero.Fs, path, errPath string) *FileLogger {
	return &FileLogger{
		fs:      fs,
		path:    path,
		errPath: errPath,
		now:     time.Now,
	}
}

func (f *FileLogger) Info(format string, args ...interface{}) {
	f.write("[INFO] " + fmt.Sprintf(format, args...))
}

func (f *FileLogger) Warning(format string, args ...interface{}) {
	f.write("[WARNING] " + fmt.Sprintf(format, args...))
}

func (f *FileLogger) Error(format string, args ...interface{}) {
	f.write("[ERROR] " + fmt.Sprintf(format, args...))
}

// Close is a no-op; no handle is held between writes.
func (f *FileLogger) Close() error {
	return nil
}

func (f *FileLogger) write(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ts := f.now().Format(TimestampLayout)
	line := ts + ": " + strings.TrimRight(msg, "\n") + "\n"
	err := appendLine(f.fs, f.path, line)
	if err == nil {
		return
	}
	if f.errPath == "" {
		return
	}
	_ = appendLine(f.fs, f.errPath, fmt.Sprintf("%s: failed to write to main log: %v\n", ts, err))
}

func appendLine(fs afero.Fs, path, line string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	file, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(line); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

var _ Logger = (*FileLogger)(nil)
