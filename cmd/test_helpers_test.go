package cmd

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/urfave/cli"

	"github.com/warpdl/lightsout/common"
	"github.com/warpdl/lightsout/internal/curfew"
	"github.com/warpdl/lightsout/internal/dialog"
	"github.com/warpdl/lightsout/internal/shutdown"
)

// captureOutput captures stdout and stderr during function execution.
// It redirects os.Stdout and os.Stderr to pipes, runs the provided function,
// and returns the captured output as strings.
func captureOutput(f func()) (stdout, stderr string) {
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	var bufOut, bufErr bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); io.Copy(&bufOut, rOut) }()
	go func() { defer wg.Done(); io.Copy(&bufErr, rErr) }()

	f()

	wOut.Close()
	wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr
	wg.Wait()
	rOut.Close()
	rErr.Close()

	return bufOut.String(), bufErr.String()
}

// assertContains checks if output contains the expected substring.
func assertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// useConfigDir points the commands at a fresh config dir.
func useConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(common.ConfigDirEnv, dir)
	t.Setenv(common.SocketPathEnv, "")
	return dir
}

// writeConfig writes config.yml into dir.
func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(dir+string(os.PathSeparator)+common.ConfigFileName, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// newAppContext parses args as global flags.
func newAppContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("lightsout", flag.ContinueOnError)
	for _, f := range globalFlags {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func execute(args ...string) error {
	return Execute(append([]string{"lightsout"}, args...), BuildArgs{Version: "1.0.0", BuildType: "test"})
}

// fakeClient answers status queries without a daemon.
type fakeClient struct {
	status *curfew.Status
	err    error
	closed bool
}

func (f *fakeClient) Status(context.Context) (*curfew.Status, error) {
	return f.status, f.err
}

func (f *fakeClient) CheckVersionMismatch(context.Context, string, io.Writer) {}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

// withClient makes newClient return c, or fail when c is nil.
func withClient(t *testing.T, c *fakeClient) {
	t.Helper()
	orig := newClient
	t.Cleanup(func() { newClient = orig })
	newClient = func(string) (statusClient, error) {
		if c == nil {
			return nil, os.ErrNotExist
		}
		return c, nil
	}
}

// memOverride is an in-memory override store.
type memOverride struct {
	pass    string
	cleared bool
}

func (m *memOverride) Set(p string) (string, error) {
	m.pass = p
	return "file", nil
}
func (m *memOverride) Clear() error {
	m.pass, m.cleared = "", true
	return nil
}
func (m *memOverride) Configured() bool     { return m.pass != "" }
func (m *memOverride) Verify(p string) bool { return m.pass != "" && p == m.pass }

func withOverride(t *testing.T, m *memOverride) {
	t.Helper()
	orig := newOverrideStore
	t.Cleanup(func() { newOverrideStore = orig })
	newOverrideStore = func(*environment) overrideStore { return m }
}

// silentPresenter lets every dialog time out.
type silentPresenter struct{}

func (silentPresenter) Ask(context.Context, dialog.Request) (dialog.Response, error) {
	return dialog.TimedOut, nil
}
func (silentPresenter) Notify(context.Context, dialog.Request) error { return nil }
func (silentPresenter) Secret(context.Context, dialog.Request) (string, dialog.Response, error) {
	return "", dialog.TimedOut, nil
}

// countingExecutor counts shutdown requests.
type countingExecutor struct {
	mu    sync.Mutex
	calls int
}

func (c *countingExecutor) Shutdown(context.Context, shutdown.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}
