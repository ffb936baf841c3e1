package shutdown

import (
	"fmt"
	"strconv"
	"time"
)

// maxWindowsMessage is the longest comment shutdown.exe accepts.
const maxWindowsMessage = 512

// maxWindowsDelay is the longest /t value shutdown.exe accepts (ten years).
const maxWindowsDelay = 315360000

func minutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}

func secondsOf(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// unixTimeArg renders the time operand of shutdown(8): "now" or "+M".
// Sub-minute delays round up to one minute.
func unixTimeArg(d time.Duration) string {
	if m := minutes(d); m > 0 {
		return "+" + strconv.Itoa(m)
	}
	return "now"
}

// linuxShutdownArgs builds "shutdown -h +M|now [message]".
func linuxShutdownArgs(req Request) ([]string, error) {
	args := []string{"-h", unixTimeArg(req.Delay)}
	if req.Message != "" {
		args = append(args, req.Message)
	}
	return args, nil
}

// systemctlArgs builds "systemctl poweroff [-i]". -i ignores inhibitor locks
// held by applications, which is the force mode on systemd.
func systemctlArgs(req Request) ([]string, error) {
	if req.Delay > 0 {
		return nil, errDelayUnsupported
	}
	args := []string{"poweroff"}
	if req.Force {
		args = append(args, "-i")
	}
	return args, nil
}

// darwinShutdownArgs builds "shutdown -h +M|now". macOS shutdown takes no
// wall message argument.
func darwinShutdownArgs(req Request) ([]string, error) {
	return []string{"-h", unixTimeArg(req.Delay)}, nil
}

// appleScriptShutdownArgs asks System Events to shut down, after an optional
// in-script delay.
func appleScriptShutdownArgs(req Request) ([]string, error) {
	var args []string
	if s := secondsOf(req.Delay); s > 0 {
		args = append(args, "-e", fmt.Sprintf("delay %d", s))
	}
	return append(args, "-e", `tell application "System Events" to shut down`), nil
}

// windowsShutdownArgs builds "shutdown /s /t N [/f] [/c message]".
func windowsShutdownArgs(req Request) ([]string, error) {
	t := secondsOf(req.Delay)
	if t > maxWindowsDelay {
		t = maxWindowsDelay
	}
	args := []string{"/s", "/t", strconv.Itoa(t)}
	if req.Force {
		args = append(args, "/f")
	}
	if msg := truncate(req.Message, maxWindowsMessage); msg != "" {
		args = append(args, "/c", msg)
	}
	return args, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
