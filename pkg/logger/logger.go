// Package logger provides the logging interface used by every lightsout component.
// Backends include console output, an append-only log file and the Windows Event Log.
package logger

import (
	"fmt"
	"log"
	"sync"
)

// Logger defines the interface for leveled logging across lightsout.
type Logger interface {
	// Info logs an informational message (e.g., "First warning shown").
	Info(format string, args ...interface{})

	// Warning logs a warning message (e.g., "Dialog backend unavailable").
	Warning(format string, args ...interface{})

	// Error logs an error message (e.g., "All shutdown methods failed").
	Error(format string, args ...interface{})

	// Close releases resources held by the logger (file handles, event log handle).
	// Safe to call multiple times.
	Close() error
}

// StandardLogger wraps the stdlib *log.Logger for console output.
// Used when the daemon runs in the foreground.
type StandardLogger struct {
	logger *log.Logger
}

// NewStandardLogger creates a logger that wraps the given *log.Logger.
func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{logger: l}
}

func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

// Close is a no-op for StandardLogger.
func (s *StandardLogger) Close() error {
	return nil
}

// NopLogger discards all messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

// MultiLogger broadcasts log messages to several backends in order.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a logger that writes to all provided backends.
// Nil backends are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) Info(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Info(format, args...)
	}
}

func (m *MultiLogger) Warning(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Warning(format, args...)
	}
}

func (m *MultiLogger) Error(format string, args ...interface{}) {
	for _, l := range m.loggers {
		l.Error(format, args...)
	}
}

// Close closes every backend and returns the first error encountered.
func (m *MultiLogger) Close() error {
	var firstErr error
	for _, l := range m.loggers {
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// MockLogger records log calls for verification in tests.
// It is safe for concurrent use since the monitor logs from dialog goroutines.
type MockLogger struct {
	mu           sync.Mutex
	infoCalls    []string
	warningCalls []string
	errorCalls   []string
	closed       bool
}

// NewMockLogger creates a new MockLogger for testing.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.mu.Lock()
	m.infoCalls = append(m.infoCalls, fmt.Sprintf(format, args...))
	m.mu.Unlock()
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.mu.Lock()
	m.warningCalls = append(m.warningCalls, fmt.Sprintf(format, args...))
	m.mu.Unlock()
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.mu.Lock()
	m.errorCalls = append(m.errorCalls, fmt.Sprintf(format, args...))
	m.mu.Unlock()
}

func (m *MockLogger) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// InfoCalls returns a copy of the recorded informational messages.
func (m *MockLogger) InfoCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.infoCalls...)
}

// WarningCalls returns a copy of the recorded warnings.
func (m *MockLogger) WarningCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.warningCalls...)
}

// ErrorCalls returns a copy of the recorded errors.
func (m *MockLogger) ErrorCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.errorCalls...)
}

// Closed reports whether Close was called.
func (m *MockLogger) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*MultiLogger)(nil)
	_ Logger = (*MockLogger)(nil)
)
