//go:build windows

package cmd

import (
	"github.com/warpdl/lightsout/common"
	"github.com/warpdl/lightsout/pkg/logger"
)

// platformLoggers adds the Windows Event Log when its source is
// registered. An unregistered source is silently skipped.
func platformLoggers() []logger.Logger {
	el, err := logger.NewEventLogger(common.AppName)
	if err != nil {
		return nil
	}
	return []logger.Logger{el}
}

// registerEventSource registers the event-log source used by
// platformLoggers. It needs administrator rights.
func registerEventSource() error {
	return logger.InstallEventSource(common.AppName)
}
