package dialog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/warpdl/lightsout/pkg/logger"
)

// TestHelperProcess isn't a real test. It stands in for a dialog helper when
// execCommandContext is faked.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if d, err := time.ParseDuration(os.Getenv("HELPER_SLEEP")); err == nil {
		time.Sleep(d)
	}
	fmt.Fprint(os.Stdout, os.Getenv("HELPER_OUT"))
	code, _ := strconv.Atoi(os.Getenv("HELPER_CODE"))
	os.Exit(code)
}

type helperScript struct {
	out   string
	code  int
	sleep time.Duration
	// gotArgs receives the helper's arguments.
	gotArgs []string
}

func fakeHelper(t *testing.T, s *helperScript) {
	t.Helper()
	orig := execCommandContext
	execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		s.gotArgs = append([]string{name}, args...)
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"HELPER_OUT="+s.out,
			"HELPER_CODE="+strconv.Itoa(s.code),
			"HELPER_SLEEP="+s.sleep.String(),
		)
		return cmd
	}
	t.Cleanup(func() { execCommandContext = orig })
}

func TestCommandPresenter_AskExitCodes(t *testing.T) {
	tests := []struct {
		name    string
		b       backend
		out     string
		code    int
		want    Response
		wantErr bool
	}{
		{"zenity ok", zenity{}, "", 0, Accepted, false},
		{"zenity cancel", zenity{}, "", 1, Declined, false},
		{"zenity timeout", zenity{}, "", 5, TimedOut, false},
		{"zenity odd status", zenity{}, "", 9, Closed, true},
		{"kdialog yes", kdialog{}, "", 0, Accepted, false},
		{"kdialog no", kdialog{}, "", 1, Declined, false},
		{"kdialog closed", kdialog{}, "", 2, Closed, false},
		{"osascript accept", osascript{}, "button returned:Yes, gave up:false", 0, Accepted, false},
		{"osascript decline", osascript{}, "button returned:No, gave up:false", 0, Declined, false},
		{"osascript gave up", osascript{}, "button returned:, gave up:true", 0, TimedOut, false},
		{"osascript user canceled", osascript{}, "", 1, Closed, false},
		{"powershell yes", powershell{}, "6", 0, Accepted, false},
		{"powershell no", powershell{}, "7", 0, Declined, false},
		{"powershell timeout", powershell{}, "-1", 0, TimedOut, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeHelper(t, &helperScript{out: tt.out, code: tt.code})
			p := &CommandPresenter{b: tt.b}
			got, err := p.Ask(context.Background(), Request{Title: "t", Message: "m", Timeout: time.Minute})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Ask() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Ask() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommandPresenter_KillsHelperOnTimeout(t *testing.T) {
	fakeHelper(t, &helperScript{sleep: 10 * time.Second})
	p := &CommandPresenter{b: kdialog{}}
	start := time.Now()
	got, err := p.Ask(context.Background(), Request{Timeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got != TimedOut {
		t.Errorf("Ask() = %v, want %v", got, TimedOut)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("helper was not killed at the timeout")
	}
}

func TestCommandPresenter_ClosedByContext(t *testing.T) {
	fakeHelper(t, &helperScript{sleep: 10 * time.Second})
	p := &CommandPresenter{b: zenity{}}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)
	got, err := p.Ask(ctx, Request{})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got != Closed {
		t.Errorf("Ask() = %v, want %v", got, Closed)
	}
}

func TestCommandPresenter_Secret(t *testing.T) {
	tests := []struct {
		name     string
		b        backend
		out      string
		code     int
		wantText string
		want     Response
	}{
		{"zenity entry", zenity{}, "hunter2", 0, "hunter2", Accepted},
		{"zenity cancel", zenity{}, "", 1, "", Declined},
		{"kdialog password", kdialog{}, "s3cret", 0, "s3cret", Accepted},
		{"osascript text with comma", osascript{}, "button returned:OK, text returned:a, b, gave up:false", 0, "a, b", Accepted},
		{"powershell ok", powershell{}, "ok:pass word", 0, "pass word", Accepted},
		{"powershell cancel", powershell{}, "cancel", 0, "", Declined},
		{"powershell timeout", powershell{}, "timeout", 0, "", TimedOut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeHelper(t, &helperScript{out: tt.out, code: tt.code})
			p := &CommandPresenter{b: tt.b}
			text, got, err := p.Secret(context.Background(), Request{AcceptLabel: "OK", DeclineLabel: "Cancel"})
			if err != nil {
				t.Fatalf("Secret() error = %v", err)
			}
			if got != tt.want || text != tt.wantText {
				t.Errorf("Secret() = %q, %v; want %q, %v", text, got, tt.wantText, tt.want)
			}
		})
	}
}

func TestZenityArgs(t *testing.T) {
	args := zenity{}.askArgs(Request{
		Title: "Shutdown Warning", Message: "Going down", AcceptLabel: "Cancel shutdown",
		Timeout: 1500 * time.Millisecond,
	})
	joined := strings.Join(args, " ")
	for _, want := range []string{"--question", "--title=Shutdown Warning", "--timeout=2", "--ok-label=Cancel shutdown"} {
		if !strings.Contains(joined, want) {
			t.Errorf("askArgs missing %q in %q", want, joined)
		}
	}
	if strings.Contains(joined, "--cancel-label") {
		t.Errorf("askArgs has unexpected --cancel-label: %q", joined)
	}
}

func TestQuoting(t *testing.T) {
	if got := appleQuote(`say "hi" \o/`); got != `"say \"hi\" \\o/"` {
		t.Errorf("appleQuote() = %s", got)
	}
	if got := psQuote("it's\r\nlate"); got != "'it''s\nlate'" {
		t.Errorf("psQuote() = %s", got)
	}
}

func TestNotifyGetsDefaultTimeout(t *testing.T) {
	s := &helperScript{}
	fakeHelper(t, s)
	p := &CommandPresenter{b: zenity{}}
	if err := p.Notify(context.Background(), Request{Title: "Shutdown Canceled"}); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	want := "--timeout=" + strconv.Itoa(seconds(notifyTimeout))
	if !strings.Contains(strings.Join(s.gotArgs, " "), want) {
		t.Errorf("Notify args %v missing %s", s.gotArgs, want)
	}
}

func TestNew(t *testing.T) {
	origLook, origOS := lookPath, goos
	t.Cleanup(func() { lookPath, goos = origLook, origOS })

	goos = "linux"
	lookPath = func(file string) (string, error) {
		if file == "kdialog" {
			return "/usr/bin/kdialog", nil
		}
		return "", exec.ErrNotFound
	}

	p, err := New("", logger.NewNopLogger())
	if err != nil {
		t.Fatalf("New(auto) error = %v", err)
	}
	if p.Name() != "kdialog" {
		t.Errorf("auto picked %s, want kdialog", p.Name())
	}

	if _, err := New("zenity", nil); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("New(zenity) error = %v, want ErrBackendUnavailable", err)
	}
	if _, err := New("gtk", nil); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("New(gtk) error = %v, want ErrUnknownBackend", err)
	}

	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	log := logger.NewMockLogger()
	p, err = New("auto", log)
	if err != nil {
		t.Fatalf("New(auto) error = %v", err)
	}
	if p.Name() != "console" {
		t.Errorf("fallback = %s, want console", p.Name())
	}
	if len(log.WarningCalls()) != 1 {
		t.Errorf("expected one warning, got %v", log.WarningCalls())
	}
}

func TestConsolePresenter(t *testing.T) {
	var out strings.Builder
	c := newConsolePresenter(strings.NewReader("y\n"), &out, nil)
	got, err := c.Ask(context.Background(), Request{Title: "Shutdown Warning", Message: "soon"})
	if err != nil || got != Accepted {
		t.Fatalf("Ask() = %v, %v; want Accepted", got, err)
	}
	if !strings.Contains(out.String(), "Shutdown Warning") {
		t.Errorf("prompt missing title: %q", out.String())
	}

	c = newConsolePresenter(strings.NewReader("nope\n"), io.Discard, nil)
	if got, _ := c.Ask(context.Background(), Request{}); got != Declined {
		t.Errorf("Ask(nope) = %v, want Declined", got)
	}

	pr, pw := io.Pipe()
	defer pw.Close()
	c = newConsolePresenter(pr, io.Discard, nil)
	if got, _ := c.Ask(context.Background(), Request{Timeout: 50 * time.Millisecond}); got != TimedOut {
		t.Errorf("Ask(silent) = %v, want TimedOut", got)
	}

	c = newConsolePresenter(strings.NewReader(""), io.Discard, func() ([]byte, error) {
		return []byte("letmein"), nil
	})
	text, got, err := c.Secret(context.Background(), Request{})
	if err != nil || got != Accepted || text != "letmein" {
		t.Errorf("Secret() = %q, %v, %v", text, got, err)
	}
}

func TestConsolePresenter_AnswerAfterClosedPrompt(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := newConsolePresenter(pr, io.Discard, nil)

	// The first warning is closed unanswered before the final warning opens.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got, _ := c.Ask(ctx, Request{Title: "First warning"}); got != Closed {
		t.Fatalf("Ask(canceled) = %v, want Closed", got)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = io.WriteString(pw, "y\n")
	}()
	got, err := c.Ask(context.Background(), Request{Title: "Final warning", Timeout: 2 * time.Second})
	if err != nil || got != Accepted {
		t.Fatalf("Ask() after a closed prompt = %v, %v; want Accepted", got, err)
	}
}

func TestConsolePresenter_DiscardsLineTypedBetweenPrompts(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := newConsolePresenter(pr, io.Discard, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got, _ := c.Ask(ctx, Request{}); got != Closed {
		t.Fatalf("Ask(canceled) = %v, want Closed", got)
	}
	if _, err := io.WriteString(pw, "y\n"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	if got, _ := c.Ask(context.Background(), Request{Timeout: 100 * time.Millisecond}); got != TimedOut {
		t.Fatalf("Ask() = %v, want TimedOut for a line typed while no prompt was open", got)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = io.WriteString(pw, "n\n")
	}()
	if got, _ := c.Ask(context.Background(), Request{Timeout: 2 * time.Second}); got != Declined {
		t.Errorf("Ask(n) = %v, want Declined", got)
	}
}

func TestKnownBackend(t *testing.T) {
	for _, name := range []string{"auto", "zenity", "kdialog", "osascript", "powershell", "console"} {
		if !KnownBackend(name) {
			t.Errorf("KnownBackend(%q) = false", name)
		}
	}
	if KnownBackend("yad") {
		t.Error("KnownBackend(yad) = true")
	}
}
