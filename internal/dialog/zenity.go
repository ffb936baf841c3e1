package dialog

import "strconv"

// zenity exit statuses.
const (
	zenityOK      = 0
	zenityCancel  = 1
	zenityTimeout = 5
)

type zenity struct{}

func (zenity) name() string      { return "zenity" }
func (zenity) binary() string    { return "zenity" }
func (zenity) selfTimeout() bool { return true }

func (zenity) common(kind string, req Request) []string {
	args := []string{kind, "--title=" + req.Title, "--text=" + req.Message}
	if req.Timeout > 0 {
		args = append(args, "--timeout="+strconv.Itoa(seconds(req.Timeout)))
	}
	return args
}

func (z zenity) askArgs(req Request) []string {
	args := z.common("--question", req)
	args = append(args, "--icon-name=dialog-warning")
	if req.AcceptLabel != "" {
		args = append(args, "--ok-label="+req.AcceptLabel)
	}
	if req.DeclineLabel != "" {
		args = append(args, "--cancel-label="+req.DeclineLabel)
	}
	return args
}

func (z zenity) parseAsk(_ Request, _ string, code int) (Response, error) {
	switch code {
	case zenityOK:
		return Accepted, nil
	case zenityCancel:
		return Declined, nil
	case zenityTimeout:
		return TimedOut, nil
	}
	return Closed, unexpectedExit(z, code)
}

func (z zenity) notifyArgs(req Request) []string {
	return z.common("--warning", req)
}

func (z zenity) secretArgs(req Request) []string {
	args := z.common("--entry", req)
	args = append(args, "--hide-text")
	if req.AcceptLabel != "" {
		args = append(args, "--ok-label="+req.AcceptLabel)
	}
	if req.DeclineLabel != "" {
		args = append(args, "--cancel-label="+req.DeclineLabel)
	}
	return args
}

func (z zenity) parseSecret(req Request, out string, code int) (string, Response, error) {
	resp, err := z.parseAsk(req, out, code)
	if resp != Accepted {
		return "", resp, err
	}
	return out, Accepted, nil
}
