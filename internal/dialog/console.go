package dialog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ConsolePresenter prompts on a terminal. It is used in foreground mode and
// when no graphical helper exists.
type ConsolePresenter struct {
	in  *bufio.Reader
	out io.Writer
	// readPassword reads a line without echo.
	readPassword func() ([]byte, error)
	// interactive is false when stdin is not a terminal; prompts then
	// report Closed without reading.
	interactive bool

	mu sync.Mutex
	// reads feeds the single input goroutine; results carries its answers.
	// pending is set while a read is outstanding, including one left behind
	// by an abandoned prompt.
	start   sync.Once
	reads   chan func() (string, error)
	results chan lineResult
	pending bool
}

// NewConsolePresenter prompts on the process's standard streams.
func NewConsolePresenter() *ConsolePresenter {
	c := newConsolePresenter(os.Stdin, os.Stdout, func() ([]byte, error) {
		return term.ReadPassword(int(os.Stdin.Fd()))
	})
	c.interactive = ConsoleAvailable()
	return c
}

func newConsolePresenter(in io.Reader, out io.Writer, readPassword func() ([]byte, error)) *ConsolePresenter {
	return &ConsolePresenter{
		in:           bufio.NewReader(in),
		out:          out,
		readPassword: readPassword,
		interactive:  true,
		reads:        make(chan func() (string, error)),
		results:      make(chan lineResult),
	}
}

// ConsoleAvailable reports whether stdin is an interactive terminal.
func ConsoleAvailable() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type lineResult struct {
	line string
	err  error
	at   time.Time
}

// serve performs reads one at a time, so the input never has two readers.
func (c *ConsolePresenter) serve() {
	for read := range c.reads {
		line, err := read()
		c.results <- lineResult{line: line, err: err, at: time.Now()}
	}
}

// await waits for a line, ctx or the timeout. A read abandoned by an
// earlier prompt stays outstanding and answers this one, unless it
// completed before this prompt opened; such a line was typed while no
// prompt was shown and is discarded. Callers hold c.mu.
func (c *ConsolePresenter) await(ctx context.Context, timeout time.Duration, read func() (string, error)) (string, Response, error) {
	c.start.Do(func() { go c.serve() })
	opened := time.Now()
	if !c.pending {
		c.reads <- read
		c.pending = true
	}
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	for {
		select {
		case r := <-c.results:
			c.pending = false
			if r.at.Before(opened) && r.err == nil {
				c.reads <- read
				c.pending = true
				continue
			}
			if r.err != nil {
				if r.err == io.EOF {
					return "", Closed, nil
				}
				return "", Closed, r.err
			}
			return r.line, Accepted, nil
		case <-expired:
			return "", TimedOut, nil
		case <-ctx.Done():
			return "", Closed, nil
		}
	}
}

func (c *ConsolePresenter) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *ConsolePresenter) header(req Request) {
	fmt.Fprintf(c.out, "\n*** %s ***\n%s\n", req.Title, req.Message)
}

func (c *ConsolePresenter) Ask(ctx context.Context, req Request) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	accept, decline := labels(req)
	c.header(req)
	if !c.interactive {
		return Closed, nil
	}
	fmt.Fprintf(c.out, "[y] %s  [n] %s: ", accept, decline)
	line, resp, err := c.await(ctx, req.Timeout, c.readLine)
	if resp != Accepted {
		fmt.Fprintln(c.out)
		return resp, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return Accepted, nil
	default:
		return Declined, nil
	}
}

func (c *ConsolePresenter) Notify(ctx context.Context, req Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.header(req)
	return nil
}

func (c *ConsolePresenter) Secret(ctx context.Context, req Request) (string, Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.header(req)
	if !c.interactive {
		return "", Closed, nil
	}
	fmt.Fprint(c.out, "Passphrase (empty to skip): ")
	text, resp, err := c.await(ctx, req.Timeout, func() (string, error) {
		b, err := c.readPassword()
		return string(b), err
	})
	fmt.Fprintln(c.out)
	if resp == Accepted && text == "" {
		return "", Declined, nil
	}
	return text, resp, err
}

// Name returns "console".
func (c *ConsolePresenter) Name() string { return "console" }
