//go:build !windows

package cmd

import "github.com/warpdl/lightsout/pkg/logger"

func platformLoggers() []logger.Logger { return nil }

func registerEventSource() error { return nil }
