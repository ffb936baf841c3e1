package curfew

// Event kinds passed to Recorder.Record.
const (
	EventStarted        = "started"
	EventSkipped        = "skipped"
	EventFirstWarning   = "first_warning"
	EventFinalWarning   = "final_warning"
	EventResponse       = "response"
	EventDialogError    = "dialog_error"
	EventCanceled       = "canceled"
	EventEvasion        = "evasion"
	EventOverrideFailed = "override_failed"
	EventEnforcer       = "enforcer"
	EventShutdown       = "shutdown"
	EventShutdownFailed = "shutdown_failed"
)

// Recorder keeps a history of one run. Implementations must be safe for
// concurrent use and must not block for long.
type Recorder interface {
	Record(kind, detail string)
	// Finish stores the run outcome, one of the Result strings.
	Finish(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) Record(string, string) {}
func (nopRecorder) Finish(string)         {}

// OverrideVerifier checks the restart-evasion override passphrase.
type OverrideVerifier interface {
	Configured() bool
	Verify(passphrase string) bool
}
