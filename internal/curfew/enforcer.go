package curfew

import (
	"context"

	"github.com/warpdl/lightsout/internal/scheduler"
)

// arm starts the enforcement timer for the shutdown instant. It fires even
// when the poll loop is stuck behind an unresponsive dialog.
func (m *Monitor) arm(ctx context.Context) {
	s := scheduler.New(ctx, m.onEnforce,
		scheduler.WithMaxSleep(m.cfg.EnforceCheckInterval),
		scheduler.WithNow(m.clock.Now),
	)
	s.Add(scheduler.ScheduleEvent{Name: enforceEvent, TriggerAt: m.cp.Shutdown})

	m.mu.Lock()
	m.enforcer = s
	m.mu.Unlock()
	m.log.Info("Enforcement timer armed for %s", m.cp.Shutdown.Format("2006-01-02 15:04"))
}

// disarm removes the pending enforcement deadline.
func (m *Monitor) disarm() {
	m.mu.Lock()
	s := m.enforcer
	m.mu.Unlock()
	if s != nil {
		s.Remove(enforceEvent)
	}
}

// Armed reports whether the enforcement timer has a pending deadline.
func (m *Monitor) Armed() bool {
	m.mu.Lock()
	s := m.enforcer
	m.mu.Unlock()
	if s == nil {
		return false
	}
	_, ok := s.Next()
	return ok
}

func (m *Monitor) onEnforce(name string) {
	if name != enforceEvent || m.state.Canceled() {
		return
	}
	if m.state.ShutdownIssued() {
		return
	}
	m.log.Info("Enforcement timer reached shutdown time")
	m.rec.Record(EventEnforcer, "")
	m.issueShutdown("enforcement timer", m.shutdownRequest(m.cfg.ShutdownDelay))
}
