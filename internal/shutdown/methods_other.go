//go:build !linux && !darwin && !windows

package shutdown

import "github.com/warpdl/lightsout/pkg/logger"

// BSDs share the -h +M form of shutdown(8) and have no logind.
func platformMethods(log logger.Logger) []Method {
	return []Method{
		commandMethod(log, "shutdown", "shutdown", linuxShutdownArgs),
		commandMethod(log, "poweroff", "poweroff", func(req Request) ([]string, error) {
			if req.Delay > 0 {
				return nil, errDelayUnsupported
			}
			return nil, nil
		}),
	}
}
