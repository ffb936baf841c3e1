package dialog

// kdialog has no timeout flag; the presenter kills it when the request
// timeout elapses.
type kdialog struct{}

func (kdialog) name() string      { return "kdialog" }
func (kdialog) binary() string    { return "kdialog" }
func (kdialog) selfTimeout() bool { return false }

func (kdialog) askArgs(req Request) []string {
	args := []string{"--title", req.Title}
	if req.AcceptLabel != "" {
		args = append(args, "--yes-label", req.AcceptLabel)
	}
	if req.DeclineLabel != "" {
		args = append(args, "--no-label", req.DeclineLabel)
	}
	return append(args, "--warningyesno", req.Message)
}

func (k kdialog) parseAsk(_ Request, _ string, code int) (Response, error) {
	switch code {
	case 0:
		return Accepted, nil
	case 1:
		return Declined, nil
	case 2:
		return Closed, nil
	}
	return Closed, unexpectedExit(k, code)
}

func (kdialog) notifyArgs(req Request) []string {
	return []string{"--title", req.Title, "--sorry", req.Message}
}

func (kdialog) secretArgs(req Request) []string {
	return []string{"--title", req.Title, "--password", req.Message}
}

func (k kdialog) parseSecret(req Request, out string, code int) (string, Response, error) {
	resp, err := k.parseAsk(req, out, code)
	if resp != Accepted {
		return "", resp, err
	}
	return out, Accepted, nil
}
