package dialog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// helperGrace is added to the request timeout for helpers that close
// themselves, so their own timeout wins over the kill.
const helperGrace = 3 * time.Second

var execCommandContext = exec.CommandContext

// backend adapts one dialog helper binary.
type backend interface {
	name() string
	binary() string
	// selfTimeout reports whether the helper closes itself after req.Timeout.
	selfTimeout() bool
	askArgs(req Request) []string
	parseAsk(req Request, out string, code int) (Response, error)
	notifyArgs(req Request) []string
	secretArgs(req Request) []string
	parseSecret(req Request, out string, code int) (string, Response, error)
}

// CommandPresenter shows prompts through an external helper process.
type CommandPresenter struct {
	b backend
}

type runResult struct {
	out      string
	code     int
	closed   bool
	timedOut bool
}

func (p *CommandPresenter) run(ctx context.Context, timeout time.Duration, args []string) (runResult, error) {
	runCtx := ctx
	if timeout > 0 {
		limit := timeout
		if p.b.selfTimeout() {
			limit += helperGrace
		}
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	cmd := execCommandContext(runCtx, p.b.binary(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	res := runResult{out: strings.TrimRight(stdout.String(), "\r\n")}
	if ctx.Err() != nil {
		res.closed = true
		return res, nil
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.timedOut = true
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.code = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", p.b.name(), err)
	}
	return res, nil
}

func (p *CommandPresenter) Ask(ctx context.Context, req Request) (Response, error) {
	res, err := p.run(ctx, req.Timeout, p.b.askArgs(req))
	switch {
	case err != nil:
		return Closed, err
	case res.closed:
		return Closed, nil
	case res.timedOut:
		return TimedOut, nil
	}
	return p.b.parseAsk(req, res.out, res.code)
}

func (p *CommandPresenter) Notify(ctx context.Context, req Request) error {
	req = withNotifyDefault(req)
	_, err := p.run(ctx, req.Timeout, p.b.notifyArgs(req))
	return err
}

func (p *CommandPresenter) Secret(ctx context.Context, req Request) (string, Response, error) {
	res, err := p.run(ctx, req.Timeout, p.b.secretArgs(req))
	switch {
	case err != nil:
		return "", Closed, err
	case res.closed:
		return "", Closed, nil
	case res.timedOut:
		return "", TimedOut, nil
	}
	return p.b.parseSecret(req, res.out, res.code)
}

// Name returns the backend name, e.g. "zenity".
func (p *CommandPresenter) Name() string {
	return p.b.name()
}

func seconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		s = 1
	}
	return s
}

func unexpectedExit(b backend, code int) error {
	return fmt.Errorf("%s exited with status %d", b.name(), code)
}
