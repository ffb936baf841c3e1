// Package lightcli is the client side of the lightsout status protocol. It
// also starts the daemon in the background.
package lightcli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"

	"github.com/warpdl/lightsout/common"
	"github.com/warpdl/lightsout/internal/curfew"
)

// VersionCheckEnv suppresses version mismatch warnings when set.
const VersionCheckEnv = "LIGHTSOUT_SUPPRESS_VERSION_CHECK"

// codeNoRun mirrors the daemon's error code for "no active run".
const codeNoRun = jrpc2.Code(-32001)

// ErrNoRun is returned by Status while the daemon is between runs.
var ErrNoRun = errors.New("daemon has no active curfew run")

// Client is a connection to the daemon.
type Client struct {
	cli *jrpc2.Client
}

// NewClient connects to the daemon listening on path.
func NewClient(path string) (*Client, error) {
	debugLog("Connecting to daemon at %s", path)
	conn, err := dial(path)
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %w", err)
	}
	return &Client{cli: jrpc2.NewClient(channel.Line(conn, conn), nil)}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.cli.Close()
}

// Status returns the daemon's current run.
func (c *Client) Status(ctx context.Context) (*curfew.Status, error) {
	var st curfew.Status
	if err := c.cli.CallResult(ctx, common.MethodStatus, nil, &st); err != nil {
		var rpcErr *jrpc2.Error
		if errors.As(err, &rpcErr) && rpcErr.Code == codeNoRun {
			return nil, ErrNoRun
		}
		return nil, fmt.Errorf("failed to invoke %s: %w", common.MethodStatus, err)
	}
	return &st, nil
}

// GetDaemonVersion returns the daemon's build information.
func (c *Client) GetDaemonVersion(ctx context.Context) (*common.VersionResult, error) {
	var v common.VersionResult
	if err := c.cli.CallResult(ctx, common.MethodVersion, nil, &v); err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", common.MethodVersion, err)
	}
	return &v, nil
}

// CheckVersionMismatch warns on w when the daemon runs a different
// version. Errors are reported but never fatal.
func (c *Client) CheckVersionMismatch(ctx context.Context, expectedVersion string, w io.Writer) {
	if expectedVersion == "" || os.Getenv(VersionCheckEnv) != "" {
		return
	}
	v, err := c.GetDaemonVersion(ctx)
	if err != nil {
		fmt.Fprintf(w, "Warning: could not verify daemon version: %v\n", err)
		return
	}
	if v.Version != expectedVersion {
		fmt.Fprintf(w, "Warning: CLI version (%s) differs from daemon version (%s)\n", expectedVersion, v.Version)
		fmt.Fprintf(w, "Stop the daemon (pid %d) and run 'lightsout run' to restart it.\n", v.Pid)
	}
}

// debugMode returns true if LIGHTSOUT_DEBUG=1
func debugMode() bool {
	return os.Getenv(common.DebugEnv) == "1"
}

// debugLog logs only if debugMode() is true
func debugLog(format string, args ...any) {
	if debugMode() {
		log.Printf(format, args...)
	}
}
