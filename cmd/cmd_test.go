package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/warpdl/lightsout/cmd/common"
	sharedcommon "github.com/warpdl/lightsout/common"
	"github.com/warpdl/lightsout/internal/autostart"
	"github.com/warpdl/lightsout/internal/config"
	"github.com/warpdl/lightsout/internal/curfew"
	"github.com/warpdl/lightsout/internal/journal"
	"github.com/warpdl/lightsout/pkg/lightcli"
	"github.com/warpdl/lightsout/pkg/logger"
)

func TestExecuteVersion(t *testing.T) {
	useConfigDir(t)
	stdout, _ := captureOutput(func() {
		if err := execute("version"); err != nil {
			t.Errorf("version: %v", err)
		}
	})
	assertContains(t, stdout, "lightsout 1.0.0-test")
	if !strings.Contains(common.VersionCmdStr, "1.0.0-test") {
		t.Errorf("VersionCmdStr = %q", common.VersionCmdStr)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	useConfigDir(t)
	orig := startDaemon
	defer func() { startDaemon = orig }()
	startDaemon = func(string, []string) (bool, error) {
		t.Fatal("an unknown command must not start the daemon")
		return false, nil
	}
	if err := execute("statsu"); !errors.Is(err, errUnknownCommand) {
		t.Fatalf("error = %v, want errUnknownCommand", err)
	}
}

func TestRunStartsDaemonWithGlobalFlags(t *testing.T) {
	dir := useConfigDir(t)
	orig := startDaemon
	defer func() { startDaemon = orig }()

	var gotPath string
	var gotArgs []string
	startDaemon = func(path string, args []string) (bool, error) {
		gotPath, gotArgs = path, args
		return true, nil
	}

	stdout, _ := captureOutput(func() {
		if err := execute("--dry-run", "--dialog", "console", "run"); err != nil {
			t.Errorf("run: %v", err)
		}
	})
	assertContains(t, stdout, "lightsout started")

	if want := sharedcommon.SocketPath(dir); gotPath != want {
		t.Errorf("socket path = %q, want %q", gotPath, want)
	}
	want := []string{"--config", dir, "--dry-run", "--dialog", "console", "daemon"}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Errorf("daemon args = %q, want %q", gotArgs, want)
	}
}

func TestRunIsDefaultAction(t *testing.T) {
	dir := useConfigDir(t)
	orig := startDaemon
	defer func() { startDaemon = orig }()
	startDaemon = func(string, []string) (bool, error) { return true, nil }

	// The pid file lets run report the daemon's pid.
	if err := os.WriteFile(filepath.Join(dir, sharedcommon.PidFileName), []byte("4242\n"), 0644); err != nil {
		t.Fatal(err)
	}
	stdout, _ := captureOutput(func() {
		if err := execute(); err != nil {
			t.Errorf("default action: %v", err)
		}
	})
	assertContains(t, stdout, "lightsout started (pid 4242)")
}

func TestRunAlreadyRunning(t *testing.T) {
	useConfigDir(t)
	withClient(t, nil)
	orig := startDaemon
	defer func() { startDaemon = orig }()
	startDaemon = func(string, []string) (bool, error) { return false, nil }

	stdout, _ := captureOutput(func() {
		if err := execute("run"); err != nil {
			t.Errorf("run: %v", err)
		}
	})
	assertContains(t, stdout, "already running")
}

func TestRunStartFailure(t *testing.T) {
	useConfigDir(t)
	orig := startDaemon
	defer func() { startDaemon = orig }()
	boom := errors.New("boom")
	startDaemon = func(string, []string) (bool, error) { return false, boom }

	if err := execute("run"); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
	}{
		{"bad yaml", "first_warning: [\n", []string{"check"}},
		{"bad schedule", "first_warning: \"23:30\"\n", []string{"check"}},
		{"bad dialog flag", "", []string{"--dialog", "telepathy", "check"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := useConfigDir(t)
			writeConfig(t, dir, tt.config)
			if err := execute(tt.args...); !errors.Is(err, config.ErrInvalidConfig) {
				t.Fatalf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigFlagOverridesEnv(t *testing.T) {
	useConfigDir(t)
	other := t.TempDir()
	writeConfig(t, other, "shutdown: \"23:45\"\n")
	withOverride(t, &memOverride{})

	stdout, _ := captureOutput(func() {
		if err := execute("--config", other, "check"); err != nil {
			t.Errorf("check: %v", err)
		}
	})
	assertContains(t, stdout, "11:45 PM")
	assertContains(t, stdout, filepath.Join(other, sharedcommon.ConfigFileName))
}

func TestCheck(t *testing.T) {
	dir := useConfigDir(t)
	writeConfig(t, dir, "exclude: [Saturday, Sunday]\njournal: false\n")
	withOverride(t, &memOverride{pass: "secret"})

	stdout, _ := captureOutput(func() {
		if err := execute("check"); err != nil {
			t.Errorf("check: %v", err)
		}
	})
	for _, want := range []string{
		"Configuration OK",
		"First warning:          9:30 PM",
		"Shutdown:               11:00 PM",
		"Excluded days:          Saturday, Sunday",
		"Override passphrase:    set",
		"Run journal:            off",
	} {
		assertContains(t, stdout, want)
	}
}

func TestStatusNotRunning(t *testing.T) {
	useConfigDir(t)
	withClient(t, nil)

	stdout, _ := captureOutput(func() {
		if err := execute("status"); err != nil {
			t.Errorf("status: %v", err)
		}
	})
	assertContains(t, stdout, "not running")
}

func TestStatusFromDaemon(t *testing.T) {
	useConfigDir(t)
	now := time.Now()
	c := &fakeClient{status: &curfew.Status{
		Day:          now.Format(time.DateOnly),
		FirstWarning: now.Add(-time.Hour),
		FinalWarning: now.Add(time.Hour),
		Shutdown:     now.Add(2 * time.Hour),
		State:        curfew.Snapshot{FirstWarningShown: true},
		Enforcing:    true,
		Result:       "running",
	}}
	withClient(t, c)

	stdout, _ := captureOutput(func() {
		if err := execute("status"); err != nil {
			t.Errorf("status: %v", err)
		}
	})
	assertContains(t, stdout, "Curfew day:     "+now.Format(time.DateOnly))
	assertContains(t, stdout, "[shown]")
	assertContains(t, stdout, "first warning shown")
	assertContains(t, stdout, "Enforcement:    armed")
	if !c.closed {
		t.Error("client not closed")
	}
}

func TestStatusBetweenRuns(t *testing.T) {
	useConfigDir(t)
	withClient(t, &fakeClient{err: lightcli.ErrNoRun})

	stdout, _ := captureOutput(func() {
		if err := execute("status"); err != nil {
			t.Errorf("status: %v", err)
		}
	})
	assertContains(t, stdout, "waiting for the next curfew day")
}

func TestDescribeState(t *testing.T) {
	tests := []struct {
		snap curfew.Snapshot
		want string
	}{
		{curfew.Snapshot{}, "waiting"},
		{curfew.Snapshot{SkipToday: true}, "excluded day, no shutdown tonight"},
		{curfew.Snapshot{FirstWarningShown: true, Canceled: true}, "canceled for tonight"},
		{curfew.Snapshot{FinalWarningShown: true, ShutdownIssued: true}, "shutdown issued"},
		{curfew.Snapshot{FirstWarningShown: true, FinalWarningShown: true}, "final warning shown, shutdown pending"},
	}
	for _, tt := range tests {
		if got := describeState(&curfew.Status{State: tt.snap}); got != tt.want {
			t.Errorf("describeState(%+v) = %q, want %q", tt.snap, got, tt.want)
		}
	}
}

func TestCountdownTarget(t *testing.T) {
	dir := t.TempDir()
	env := &environment{cfg: config.Default(), paths: config.PathsFor(dir, nil)}
	evening := time.Date(2026, 10, 19, 20, 0, 0, 0, time.Local)

	withClient(t, nil)
	end, err := countdownTarget(env, evening)
	if err != nil {
		t.Fatalf("countdownTarget: %v", err)
	}
	if want := time.Date(2026, 10, 19, 23, 0, 0, 0, time.Local); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}

	for _, late := range []time.Time{
		time.Date(2026, 10, 19, 23, 30, 0, 0, time.Local),
		time.Date(2026, 10, 20, 2, 0, 0, 0, time.Local),
	} {
		if _, err := countdownTarget(env, late); !errors.Is(err, errNoCountdown) {
			t.Errorf("countdownTarget(%v) error = %v, want errNoCountdown", late, err)
		}
	}

	daemonEnd := evening.Add(90 * time.Minute)
	withClient(t, &fakeClient{status: &curfew.Status{Shutdown: daemonEnd}})
	if end, err := countdownTarget(env, evening); err != nil || !end.Equal(daemonEnd) {
		t.Errorf("countdownTarget from daemon = %v, %v", end, err)
	}

	withClient(t, &fakeClient{status: &curfew.Status{Shutdown: daemonEnd, State: curfew.Snapshot{Canceled: true}}})
	if _, err := countdownTarget(env, evening); !errors.Is(err, errNoCountdown) {
		t.Errorf("canceled run: error = %v, want errNoCountdown", err)
	}
}

// recordingBar records what the countdown does to the bar.
type recordingBar struct {
	current []int64
	aborted bool
}

func (b *recordingBar) SetCurrent(n int64) { b.current = append(b.current, n) }
func (b *recordingBar) Abort(bool)         { b.aborted = true }

func TestCountdownLoopReachesDeadline(t *testing.T) {
	start := time.Date(2026, 10, 19, 22, 59, 58, 0, time.UTC)
	end := start.Add(2 * time.Second)
	clock := []time.Time{start, start.Add(time.Second), end}
	now := func() time.Time {
		c := clock[0]
		if len(clock) > 1 {
			clock = clock[1:]
		}
		return c
	}
	tick := make(chan time.Time, 2)
	tick <- time.Time{}
	tick <- time.Time{}

	bar := &recordingBar{}
	if !countdownLoop(context.Background(), bar, start, end, now, tick) {
		t.Fatal("countdownLoop should reach the deadline")
	}
	if want := []int64{0, 1, 3}; !reflect.DeepEqual(bar.current, want) {
		t.Errorf("SetCurrent calls = %v, want %v", bar.current, want)
	}
	if bar.aborted {
		t.Error("bar aborted")
	}
}

func TestCountdownLoopCanceled(t *testing.T) {
	start := time.Date(2026, 10, 19, 22, 0, 0, 0, time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bar := &recordingBar{}
	if countdownLoop(ctx, bar, start, start.Add(time.Hour), func() time.Time { return start }, nil) {
		t.Fatal("countdownLoop should stop on cancel")
	}
	if !bar.aborted {
		t.Error("bar not aborted")
	}
}

func TestStop(t *testing.T) {
	dir := useConfigDir(t)
	pidFile := filepath.Join(dir, sharedcommon.PidFileName)
	orig := terminateProcess
	defer func() { terminateProcess = orig }()
	var terminated []int
	terminateProcess = func(pid int, _ time.Duration) (bool, error) {
		terminated = append(terminated, pid)
		return false, nil
	}

	stdout, _ := captureOutput(func() { _ = execute("stop") })
	assertContains(t, stdout, "pid file not found")

	// Beyond any pid_max, so never alive.
	if err := os.WriteFile(pidFile, []byte("99999999\n"), 0644); err != nil {
		t.Fatal(err)
	}
	stdout, _ = captureOutput(func() { _ = execute("stop") })
	assertContains(t, stdout, "stale pid file")
	if _, err := os.Stat(pidFile); !os.IsNotExist(err) {
		t.Errorf("stale pid file not removed: %v", err)
	}

	self := os.Getpid()
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(self)), 0644); err != nil {
		t.Fatal(err)
	}
	stdout, _ = captureOutput(func() {
		if err := execute("stop"); err != nil {
			t.Errorf("stop: %v", err)
		}
	})
	assertContains(t, stdout, "Daemon stopped")
	if !reflect.DeepEqual(terminated, []int{self}) {
		t.Errorf("terminated = %v, want [%d]", terminated, self)
	}
}

func TestPasswd(t *testing.T) {
	useConfigDir(t)
	store := &memOverride{}
	withOverride(t, store)
	orig := readPassphrase
	defer func() { readPassphrase = orig }()

	answers := []string{"letmein", "letmein"}
	readPassphrase = func(string) (string, error) {
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	stdout, _ := captureOutput(func() {
		if err := execute("passwd"); err != nil {
			t.Errorf("passwd: %v", err)
		}
	})
	assertContains(t, stdout, "Override passphrase saved to ")
	if store.pass != "letmein" {
		t.Errorf("stored %q", store.pass)
	}

	answers = []string{"one", "two"}
	if err := execute("passwd"); !errors.Is(err, errPassphraseMismatch) {
		t.Errorf("mismatch error = %v", err)
	}
	if store.pass != "letmein" {
		t.Error("mismatched passphrase replaced the stored one")
	}

	captureOutput(func() {
		if err := execute("passwd", "--clear"); err != nil {
			t.Errorf("passwd --clear: %v", err)
		}
	})
	if !store.cleared || store.Configured() {
		t.Error("passphrase not cleared")
	}
}

func TestHistory(t *testing.T) {
	dir := useConfigDir(t)
	j, err := journal.Open(filepath.Join(dir, sharedcommon.JournalFileName), logger.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	run := j.Begin(time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local))
	run.Record(curfew.EventFirstWarning, "")
	run.Record(curfew.EventShutdown, "scheduled")
	run.Finish(curfew.ResultShutdown.String())
	j.Close()

	stdout, _ := captureOutput(func() {
		if err := execute("history"); err != nil {
			t.Errorf("history: %v", err)
		}
	})
	assertContains(t, stdout, "2026-10-19")
	assertContains(t, stdout, "shutdown")
	assertContains(t, stdout, run.ID())

	stdout, _ = captureOutput(func() { _ = execute("history", run.ID()) })
	assertContains(t, stdout, curfew.EventFirstWarning)
	assertContains(t, stdout, "scheduled")

	stdout, _ = captureOutput(func() { _ = execute("history", "nope") })
	assertContains(t, stdout, "no run with id nope")
}

// memAutostart is an in-memory login entry.
type memAutostart struct {
	entry   autostart.Entry
	enabled bool
}

func (m *memAutostart) Enable() error {
	m.enabled = true
	return nil
}

func (m *memAutostart) Disable() error {
	m.enabled = false
	return nil
}

func (m *memAutostart) Enabled() (bool, error) { return m.enabled, nil }
func (m *memAutostart) Location() string       { return "memory" }

func TestAutostart(t *testing.T) {
	dir := useConfigDir(t)
	entry := &memAutostart{}
	origNew, origExe := newAutostart, executable
	defer func() { newAutostart, executable = origNew, origExe }()
	newAutostart = func(_ afero.Fs, e autostart.Entry) (autostart.Autostart, error) {
		entry.entry = e
		return entry, nil
	}
	executable = func() (string, error) { return "/opt/lightsout/lightsout", nil }

	stdout, _ := captureOutput(func() {
		if err := execute("autostart", "enable"); err != nil {
			t.Errorf("enable: %v", err)
		}
	})
	assertContains(t, stdout, "will start at login (memory)")
	want := []string{"/opt/lightsout/lightsout", "--config", dir, "run"}
	if !reflect.DeepEqual(entry.entry.Command, want) || entry.entry.Name != sharedcommon.AppName {
		t.Errorf("entry = %+v, want command %q", entry.entry, want)
	}

	stdout, _ = captureOutput(func() { _ = execute("autostart", "status") })
	assertContains(t, stdout, "Autostart is enabled")

	captureOutput(func() { _ = execute("autostart", "disable") })
	stdout, _ = captureOutput(func() { _ = execute("autostart", "status") })
	assertContains(t, stdout, "Autostart is disabled")
}

func TestSetupShutdownHandler(t *testing.T) {
	ctx, cancel := setupShutdownHandler()
	if ctx.Err() != nil {
		t.Fatalf("context canceled early: %v", ctx.Err())
	}
	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled after calling cancel()")
	}
}
