package curfew

import (
	"context"
	"fmt"
	"time"

	"github.com/warpdl/lightsout/internal/dialog"
)

func (m *Monitor) showFirstWarning(ctx context.Context, now time.Time) {
	req := dialog.Request{
		Title: "Shutdown Confirmation",
		Message: fmt.Sprintf("Your PC is scheduled to shut down at %s.\n\nDo you want to cancel the shutdown?",
			m.cfg.Schedule.Shutdown.Clock12()),
		AcceptLabel:  "Yes (Cancel Shutdown)",
		DeclineLabel: "No (Proceed)",
		// Replaced by the final warning at the latest.
		Timeout: m.cp.FinalWarning.Sub(now),
	}
	m.log.Info("Displaying first shutdown warning dialog")
	m.rec.Record(EventFirstWarning, "")

	m.present(ctx, "first warning", req, func(resp dialog.Response) {
		if resp == dialog.Accepted {
			m.acceptCancel("first warning")
			return
		}
		m.state.firstShown.Store(true)
		switch resp {
		case dialog.Declined:
			m.log.Info("User confirmed shutdown will proceed (final warning at %s)", m.cfg.Schedule.FinalWarning.Clock12())
		default:
			m.log.Info("First dialog %s without interaction (proceeding with shutdown)", resp)
		}
	})
}

func (m *Monitor) showFinalWarning(ctx context.Context, now time.Time) {
	left := m.cp.Shutdown.Sub(now)
	timeout := left
	if t := m.cfg.FinalWarningTimeout; t > 0 && t < timeout {
		timeout = t
	}
	req := dialog.Request{
		Title:        "Final Shutdown Warning",
		Message:      fmt.Sprintf("Your PC will shut down in %s.\nClick YES to cancel the shutdown or NO to proceed.", minutesText(left)),
		AcceptLabel:  "Yes (Cancel Shutdown)",
		DeclineLabel: "No (Proceed)",
		Timeout:      timeout,
	}
	m.log.Info("Displaying final shutdown warning dialog")
	m.rec.Record(EventFinalWarning, minutesText(left))

	m.present(ctx, "final warning", req, func(resp dialog.Response) {
		if resp == dialog.Accepted {
			m.acceptCancel("final warning")
			return
		}
		m.state.finalShown.Store(true)
		if resp == dialog.TimedOut {
			m.log.Info("Dialog timeout - no user response. Proceeding with shutdown.")
			return
		}
		m.log.Info("User confirmed shutdown will proceed (or didn't respond)")
	})
}

// present shows req on a new goroutine and hands the answer to conclude. The
// dialog becomes the one closeDialog closes.
func (m *Monitor) present(parent context.Context, label string, req dialog.Request, conclude func(dialog.Response)) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	m.mu.Lock()
	m.dialogCancel, m.dialogDone = cancel, done
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(done)
		defer cancel()
		resp := m.ask(ctx, label, req)
		m.rec.Record(EventResponse, label+": "+resp.String())
		conclude(resp)
	}()
}

// ask shows req and folds every failure into Closed, which callers treat
// as proceed.
func (m *Monitor) ask(ctx context.Context, label string, req dialog.Request) (resp dialog.Response) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("%s dialog panicked: %v", label, r)
			m.rec.Record(EventDialogError, fmt.Sprint(r))
			resp = dialog.Closed
		}
	}()
	resp, err := m.presenter.Ask(ctx, req)
	if err != nil {
		m.log.Error("Could not show %s dialog: %v", label, err)
		m.rec.Record(EventDialogError, err.Error())
		return dialog.Closed
	}
	return resp
}

// closeDialog closes the open dialog, if any, and waits briefly for its
// goroutine to conclude.
func (m *Monitor) closeDialog() {
	m.mu.Lock()
	cancel, done := m.dialogCancel, m.dialogDone
	m.dialogCancel, m.dialogDone = nil, nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	select {
	case <-done:
	case <-time.After(dialogCloseGrace):
		m.log.Warning("Dialog did not close within %s", dialogCloseGrace)
	}
}

// delayText renders a shutdown delay as "now" or "in 2 minutes".
func delayText(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	return "in " + minutesText(d)
}

// minutesText renders d rounded up to whole minutes, e.g. "10 minutes".
func minutesText(d time.Duration) string {
	n := int((d + time.Minute - 1) / time.Minute)
	if n <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", n)
}
