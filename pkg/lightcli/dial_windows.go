//go:build windows

package lightcli

import (
	"context"
	"net"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/warpdl/lightsout/common"
)

// dialPipeFunc allows tests to mock the pipe dialing behavior.
var dialPipeFunc = dialPipeImpl

func dialPipeImpl(path string, timeout time.Duration) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return winio.DialPipeContext(ctx, path)
}

func dial(path string) (net.Conn, error) {
	return dialPipeFunc(path, common.DefaultDialTimeout)
}
