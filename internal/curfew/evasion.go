package curfew

import (
	"context"
	"fmt"
	"time"

	"github.com/warpdl/lightsout/internal/dialog"
)

// handleEvasion runs when the process starts after the shutdown time of its
// curfew day. It always shows one abbreviated warning, then shuts down with
// the evasion delay unless the override passphrase is given.
func (m *Monitor) handleEvasion(ctx context.Context, start time.Time) {
	m.log.Warning("Detected start after shutdown time - possible restart evasion")
	m.rec.Record(EventEvasion, start.Format(time.DateTime))

	req := dialog.Request{
		Title: "Emergency Shutdown Warning",
		Message: fmt.Sprintf("Your PC should have been shut down at %s.\nThe system will shut down %s unless canceled.",
			m.cfg.Schedule.Shutdown.Clock12(), delayText(m.cfg.EvasionDelay)),
		Timeout: m.cfg.EvasionTimeout,
	}

	if m.override != nil && m.override.Configured() {
		req.AcceptLabel = "Override"
		req.DeclineLabel = "Shut Down Now"
		askCtx, cancel := context.WithTimeout(ctx, m.cfg.EvasionTimeout+dialogCloseGrace)
		resp := m.ask(askCtx, "restart evasion", req)
		cancel()
		m.rec.Record(EventResponse, "restart evasion: "+resp.String())
		if resp == dialog.Accepted && m.verifyOverride(ctx) {
			m.acceptCancel("restart evasion override")
			return
		}
	} else {
		req.Message += "\n\nNo override passphrase is configured."
		noticeCtx, cancel := context.WithTimeout(ctx, m.cfg.EvasionTimeout+dialogCloseGrace)
		if err := m.presenter.Notify(noticeCtx, req); err != nil {
			m.log.Error("Could not show restart evasion warning: %v", err)
			m.rec.Record(EventDialogError, err.Error())
		}
		cancel()
	}

	if ctx.Err() != nil {
		m.log.Info("Scheduler stopped during restart evasion warning")
		m.finish(ResultInterrupted)
		return
	}
	m.log.Info("Immediate shutdown will proceed after restart evasion")
	m.issueShutdown("restart evasion", m.shutdownRequest(m.cfg.EvasionDelay))
}

// verifyOverride asks for the passphrase and checks it.
func (m *Monitor) verifyOverride(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.EvasionTimeout+dialogCloseGrace)
	defer cancel()
	pass, resp, err := m.presenter.Secret(ctx, dialog.Request{
		Title:        "Override Verification",
		Message:      "Enter the override passphrase to cancel the shutdown:",
		AcceptLabel:  "OK",
		DeclineLabel: "Cancel",
		Timeout:      m.cfg.EvasionTimeout,
	})
	if err != nil {
		m.log.Error("Could not ask for override passphrase: %v", err)
		m.rec.Record(EventDialogError, err.Error())
		return false
	}
	if resp != dialog.Accepted {
		m.log.Info("Override passphrase prompt %s", resp)
		return false
	}
	if !m.override.Verify(pass) {
		m.log.Warning("Invalid override attempt")
		m.rec.Record(EventOverrideFailed, "")
		m.notify("Access Denied", "Invalid passphrase. Shutdown will proceed.")
		return false
	}
	m.log.Info("Override accepted")
	return true
}
