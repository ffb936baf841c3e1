//go:build linux

package shutdown

import "github.com/warpdl/lightsout/pkg/logger"

func platformMethods(log logger.Logger) []Method {
	return []Method{
		commandMethod(log, "shutdown", "shutdown", linuxShutdownArgs),
		commandMethod(log, "systemctl", "systemctl", systemctlArgs),
		logindMethod(log),
	}
}
