//go:build linux

package shutdown

import (
	"context"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/warpdl/lightsout/pkg/logger"
)

const (
	logindDest    = "org.freedesktop.login1"
	logindPath    = dbus.ObjectPath("/org/freedesktop/login1")
	logindManager = "org.freedesktop.login1.Manager"
)

// openLogind connects to the system bus and returns the logind manager
// object with a closer for the connection.
var openLogind = func() (dbus.BusObject, func() error, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, nil, err
	}
	return conn.Object(logindDest, logindPath), conn.Close, nil
}

func logindMethod(log logger.Logger) Method {
	return Method{
		Name: "logind",
		Run: func(ctx context.Context, req Request) error {
			obj, closeConn, err := openLogind()
			if err != nil {
				return err
			}
			defer closeConn()
			return logindCall(ctx, log, obj, req, time.Now())
		},
	}
}

// logindCall powers off now, or schedules a poweroff when a delay is set.
// PowerOff is called non-interactively so polkit never prompts.
func logindCall(ctx context.Context, log logger.Logger, obj dbus.BusObject, req Request, now time.Time) error {
	if req.Delay > 0 {
		at := now.Add(req.Delay)
		log.Info("Calling %s.ScheduleShutdown(poweroff, %s)", logindManager, at.Format(time.RFC3339))
		return obj.CallWithContext(ctx, logindManager+".ScheduleShutdown", 0, "poweroff", uint64(at.UnixMicro())).Err
	}
	log.Info("Calling %s.PowerOff", logindManager)
	return obj.CallWithContext(ctx, logindManager+".PowerOff", 0, false).Err
}
