//go:build windows

package cmd

import "os"

// stopSignals end the daemon and the countdown gracefully. SIGTERM does
// not exist on Windows.
var stopSignals = []os.Signal{os.Interrupt}
