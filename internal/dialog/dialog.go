// Package dialog shows the curfew warning prompts. Every backend except the
// console one drives an external helper process (zenity, kdialog, osascript or
// powershell), so the daemon itself never links a GUI toolkit.
package dialog

import (
	"context"
	"errors"
	"time"
)

// Response is the outcome of a prompt.
type Response int

const (
	// Closed means the dialog went away without an answer: window closed,
	// helper killed, or the caller closed it.
	Closed Response = iota
	// Accepted means the user chose the accept (cancel-shutdown) option.
	Accepted
	// Declined means the user chose the decline (proceed) option.
	Declined
	// TimedOut means nobody answered before the request timeout.
	TimedOut
)

func (r Response) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Declined:
		return "declined"
	case TimedOut:
		return "timed out"
	default:
		return "closed"
	}
}

// Request describes one prompt.
type Request struct {
	Title   string
	Message string
	// AcceptLabel names the option that halts the schedule.
	AcceptLabel string
	// DeclineLabel names the option that lets the schedule proceed.
	DeclineLabel string
	// Timeout closes the prompt with TimedOut. Zero waits indefinitely.
	Timeout time.Duration
}

// Presenter shows prompts to the user. Implementations must return promptly
// once ctx is done, reporting Closed.
type Presenter interface {
	// Ask shows a two-option question.
	Ask(ctx context.Context, req Request) (Response, error)

	// Notify shows an informational message with a single OK button.
	// It returns when the message is dismissed or req.Timeout elapses.
	Notify(ctx context.Context, req Request) error

	// Secret asks for hidden text input such as a passphrase. The text is
	// only meaningful when the response is Accepted.
	Secret(ctx context.Context, req Request) (string, Response, error)
}

var (
	// ErrUnknownBackend is returned by New for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown dialog backend")

	// ErrBackendUnavailable is returned when the helper binary is missing.
	ErrBackendUnavailable = errors.New("dialog backend unavailable")
)

// notifyTimeout bounds informational messages that carry no timeout.
const notifyTimeout = 15 * time.Second

func withNotifyDefault(req Request) Request {
	if req.Timeout <= 0 {
		req.Timeout = notifyTimeout
	}
	return req
}
