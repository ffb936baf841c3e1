//go:build !windows

package lightcli

import (
	"net"

	"github.com/warpdl/lightsout/common"
)

// dialFunc allows tests to replace the socket dialer.
var dialFunc = net.DialTimeout

func dial(path string) (net.Conn, error) {
	return dialFunc("unix", path, common.DefaultDialTimeout)
}
