//go:build windows

package logger

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Event IDs for Windows Event Log entries.
const (
	EventIDInfo    uint32 = 1
	EventIDWarning uint32 = 2
	EventIDError   uint32 = 3
)

// eventLogWriter is the subset of *eventlog.Log used by EventLogger.
type eventLogWriter interface {
	Info(eid uint32, msg string) error
	Warning(eid uint32, msg string) error
	Error(eid uint32, msg string) error
	Close() error
}

var openEventLog = func(source string) (eventLogWriter, error) {
	return eventlog.Open(source)
}

// EventLogger mirrors curfew events into the Windows Event Log, so that a
// shutdown issued while nobody watched the log file is still visible in
// Event Viewer. The source is registered by "lightsout autostart enable".
type EventLogger struct {
	log eventLogWriter
}

// NewEventLogger opens the event log source. Returns an error if the source
// is not registered.
func NewEventLogger(sourceName string) (*EventLogger, error) {
	elog, err := openEventLog(sourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	return &EventLogger{log: elog}, nil
}

// InstallEventSource registers sourceName as an event-log source.
// Requires administrator privileges.
func InstallEventSource(sourceName string) error {
	return eventlog.InstallAsEventCreate(sourceName, eventlog.Error|eventlog.Warning|eventlog.Info)
}

// Write errors are ignored; the log file stays authoritative.
func (e *EventLogger) Info(format string, args ...interface{}) {
	_ = e.log.Info(EventIDInfo, fmt.Sprintf(format, args...))
}

func (e *EventLogger) Warning(format string, args ...interface{}) {
	_ = e.log.Warning(EventIDWarning, fmt.Sprintf(format, args...))
}

func (e *EventLogger) Error(format string, args ...interface{}) {
	_ = e.log.Error(EventIDError, fmt.Sprintf(format, args...))
}

func (e *EventLogger) Close() error {
	if e.log == nil {
		return nil
	}
	err := e.log.Close()
	e.log = nil
	return err
}

var _ Logger = (*EventLogger)(nil)
