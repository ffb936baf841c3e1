//go:build darwin

package shutdown

import "github.com/warpdl/lightsout/pkg/logger"

func platformMethods(log logger.Logger) []Method {
	return []Method{
		commandMethod(log, "shutdown", "shutdown", darwinShutdownArgs),
		commandMethod(log, "osascript", "osascript", appleScriptShutdownArgs),
	}
}
