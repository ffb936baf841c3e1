//go:build windows

package common

import (
	"os"
	"strings"
)

const pipePrefix = `\\.\pipe\`

// DefaultPipePath returns the daemon pipe for the current user. Pipe
// names are machine-wide, so each user's daemon gets its own.
func DefaultPipePath() string {
	user := pipeSafe(os.Getenv("USERNAME"))
	if user == "" {
		return pipePrefix + AppName
	}
	return pipePrefix + AppName + "-" + user
}

// PipePath returns LIGHTSOUT_PIPE_NAME when set, adding the pipe prefix
// to bare names, and DefaultPipePath otherwise.
func PipePath() string {
	name := os.Getenv(PipeNameEnv)
	switch {
	case name == "":
		return DefaultPipePath()
	case strings.HasPrefix(name, pipePrefix):
		return name
	}
	return pipePrefix + name
}

// SocketPath returns the pipe path; the config dir is not used on Windows.
func SocketPath(string) string {
	return PipePath()
}

// pipeSafe drops characters that are not allowed in a pipe name.
func pipeSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\\' || r == '/' || r == ':' || r < ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
