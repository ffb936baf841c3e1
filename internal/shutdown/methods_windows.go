//go:build windows

package shutdown

import "github.com/warpdl/lightsout/pkg/logger"

func platformMethods(log logger.Logger) []Method {
	return []Method{
		commandMethod(log, "shutdown.exe", "shutdown", windowsShutdownArgs),
		initiateMethod(),
	}
}
