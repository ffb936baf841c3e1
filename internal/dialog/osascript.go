package dialog

import (
	"fmt"
	"strings"
)

type osascript struct{}

func (osascript) name() string      { return "osascript" }
func (osascript) binary() string    { return "osascript" }
func (osascript) selfTimeout() bool { return true }

// appleQuote renders s as an AppleScript string literal.
func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func labels(req Request) (accept, decline string) {
	accept, decline = req.AcceptLabel, req.DeclineLabel
	if accept == "" {
		accept = "Yes"
	}
	if decline == "" {
		decline = "No"
	}
	return accept, decline
}

func givingUp(req Request) string {
	if req.Timeout <= 0 {
		return ""
	}
	return fmt.Sprintf(" giving up after %d", seconds(req.Timeout))
}

func (osascript) askArgs(req Request) []string {
	accept, decline := labels(req)
	script := fmt.Sprintf("display dialog %s with title %s buttons {%s, %s} default button %s with icon caution%s",
		appleQuote(req.Message), appleQuote(req.Title),
		appleQuote(decline), appleQuote(accept), appleQuote(decline), givingUp(req))
	return []string{"-e", script}
}

func (o osascript) parseAsk(req Request, out string, code int) (Response, error) {
	if code != 0 {
		// -128 "User canceled" surfaces as status 1.
		if code == 1 {
			return Closed, nil
		}
		return Closed, unexpectedExit(o, code)
	}
	fields := parseRecord(out)
	if fields["gave up"] == "true" {
		return TimedOut, nil
	}
	button, ok := fields["button returned"]
	if !ok {
		return Closed, fmt.Errorf("osascript: unexpected output %q", out)
	}
	accept, _ := labels(req)
	if button == accept {
		return Accepted, nil
	}
	return Declined, nil
}

func (osascript) notifyArgs(req Request) []string {
	script := fmt.Sprintf("display dialog %s with title %s buttons {\"OK\"} default button \"OK\" with icon caution%s",
		appleQuote(req.Message), appleQuote(req.Title), givingUp(req))
	return []string{"-e", script}
}

func (osascript) secretArgs(req Request) []string {
	accept, decline := labels(req)
	script := fmt.Sprintf("display dialog %s with title %s default answer \"\" with hidden answer buttons {%s, %s} default button %s%s",
		appleQuote(req.Message), appleQuote(req.Title),
		appleQuote(decline), appleQuote(accept), appleQuote(accept), givingUp(req))
	return []string{"-e", script}
}

func (o osascript) parseSecret(req Request, out string, code int) (string, Response, error) {
	resp, err := o.parseAsk(req, out, code)
	if resp != Accepted {
		return "", resp, err
	}
	return parseRecord(out)["text returned"], Accepted, nil
}

// parseRecord splits "button returned:X, text returned:Y, gave up:false".
// The text field may itself contain ", " so it is cut between its label
// and the trailing gave-up field.
func parseRecord(out string) map[string]string {
	fields := make(map[string]string)
	rest := out
	if i := strings.LastIndex(rest, ", gave up:"); i >= 0 {
		fields["gave up"] = rest[i+len(", gave up:"):]
		rest = rest[:i]
	}
	if i := strings.Index(rest, ", text returned:"); i >= 0 {
		fields["text returned"] = rest[i+len(", text returned:"):]
		rest = rest[:i]
	}
	if v, ok := strings.CutPrefix(rest, "button returned:"); ok {
		fields["button returned"] = v
	}
	return fields
}
