package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"

	"github.com/warpdl/lightsout/cmd/common"
	sharedcommon "github.com/warpdl/lightsout/common"
)

var errNoCountdown = errors.New("no shutdown pending tonight")

// countdownTarget returns tonight's shutdown instant, asking the daemon
// first and falling back to the configured schedule.
func countdownTarget(env *environment, now time.Time) (time.Time, error) {
	if client, err := newClient(env.paths.Socket); err == nil {
		defer client.Close()
		c, cancel := context.WithTimeout(context.Background(), sharedcommon.DefaultDialTimeout)
		defer cancel()
		if st, err := client.Status(c); err == nil {
			switch {
			case st.State.SkipToday:
				return time.Time{}, fmt.Errorf("%w: excluded day", errNoCountdown)
			case st.State.Canceled:
				return time.Time{}, fmt.Errorf("%w: canceled", errNoCountdown)
			case st.State.ShutdownIssued:
				return time.Time{}, fmt.Errorf("%w: shutdown already issued", errNoCountdown)
			}
			return st.Shutdown, nil
		}
	}

	sched := env.cfg.Schedule()
	if sched.Excluded(now) {
		return time.Time{}, fmt.Errorf("%w: excluded day", errNoCountdown)
	}
	cp := sched.Checkpoints(now)
	if !now.Before(cp.Shutdown) {
		return time.Time{}, fmt.Errorf("%w: shutdown time %s has passed", errNoCountdown, cp.Shutdown.Format("15:04"))
	}
	return cp.Shutdown, nil
}

func countdown(ctx *cli.Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}
	start := time.Now()
	end, err := countdownTarget(env, start)
	if errors.Is(err, errNoCountdown) {
		fmt.Println("Nothing to count down:", err)
		return nil
	}
	if err != nil {
		return err
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		printCountdownLine(os.Stdout, end, start)
		return nil
	}

	sigCtx, cancel := setupShutdownHandler()
	defer cancel()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	p := mpb.New(mpb.WithWidth(64))
	bar := common.InitCountdownBar(p, "Lights out", start, end)
	reached := countdownLoop(sigCtx, bar, start, end, time.Now, ticker.C)
	p.Wait()
	if !reached {
		fmt.Printf("Countdown stopped, the shutdown at %s still stands.\n", end.Format("15:04"))
	}
	return nil
}

// progressBar is the part of *mpb.Bar the countdown drives.
type progressBar interface {
	SetCurrent(int64)
	Abort(drop bool)
}

// countdownLoop advances bar on every tick until end or ctx is done. It
// reports whether end was reached.
func countdownLoop(ctx context.Context, bar progressBar, start, end time.Time, now func() time.Time, tick <-chan time.Time) bool {
	for {
		t := now()
		if !t.Before(end) {
			// One past the bar total completes it.
			bar.SetCurrent(int64(end.Sub(start)/time.Second) + 1)
			return true
		}
		bar.SetCurrent(int64(t.Sub(start) / time.Second))
		select {
		case <-ctx.Done():
			bar.Abort(false)
			return false
		case <-tick:
		}
	}
}

// printCountdownLine replaces the bar when stdout is not a terminal.
func printCountdownLine(w io.Writer, end, now time.Time) {
	fmt.Fprintf(w, "Shutdown at %s, %s left\n", end.Format("15:04"), common.Remaining(end.Sub(now)))
}
