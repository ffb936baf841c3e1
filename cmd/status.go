package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/warpdl/lightsout/cmd/common"
	sharedcommon "github.com/warpdl/lightsout/common"
	"github.com/warpdl/lightsout/internal/curfew"
	daemonpkg "github.com/warpdl/lightsout/internal/daemon"
	"github.com/warpdl/lightsout/pkg/lightcli"
)

// statusClient is the part of lightcli.Client the commands use.
type statusClient interface {
	Status(ctx context.Context) (*curfew.Status, error)
	CheckVersionMismatch(ctx context.Context, expectedVersion string, w io.Writer)
	Close() error
}

var newClient = func(path string) (statusClient, error) {
	return lightcli.NewClient(path)
}

func status(ctx *cli.Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}
	now := time.Now()

	client, err := newClient(env.paths.Socket)
	if err != nil {
		printNotRunning(os.Stdout, env, now)
		return nil
	}
	defer client.Close()

	c, cancel := context.WithTimeout(context.Background(), sharedcommon.DefaultDialTimeout)
	defer cancel()
	client.CheckVersionMismatch(c, currentBuildArgs.Version, os.Stderr)

	st, err := client.Status(c)
	if errors.Is(err, lightcli.ErrNoRun) {
		fmt.Println("lightsout is running and waiting for the next curfew day.")
		return nil
	}
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", sharedcommon.MethodStatus, err)
		return nil
	}
	printStatus(os.Stdout, st, now)
	return nil
}

// describeState summarizes a run in a few words.
func describeState(st *curfew.Status) string {
	switch {
	case st.State.SkipToday:
		return "excluded day, no shutdown tonight"
	case st.State.Canceled:
		return "canceled for tonight"
	case st.State.ShutdownIssued:
		return "shutdown issued"
	case st.State.FinalWarningShown:
		return "final warning shown, shutdown pending"
	case st.State.FirstWarningShown:
		return "first warning shown"
	default:
		return "waiting"
	}
}

func shownMark(shown bool) string {
	if shown {
		return "  [shown]"
	}
	return ""
}

func printStatus(w io.Writer, st *curfew.Status, now time.Time) {
	fmt.Fprintf(w, "Curfew day:     %s\n", st.Day)
	fmt.Fprintf(w, "First warning:  %s%s\n", common.When(st.FirstWarning, now), shownMark(st.State.FirstWarningShown))
	fmt.Fprintf(w, "Final warning:  %s%s\n", common.When(st.FinalWarning, now), shownMark(st.State.FinalWarningShown))
	fmt.Fprintf(w, "Shutdown:       %s\n", common.When(st.Shutdown, now))
	fmt.Fprintf(w, "State:          %s\n", describeState(st))
	enforcing := "off"
	if st.Enforcing {
		enforcing = "armed"
	}
	fmt.Fprintf(w, "Enforcement:    %s\n", enforcing)
}

// printNotRunning explains why no daemon answered and shows the schedule
// the daemon would follow.
func printNotRunning(w io.Writer, env *environment, now time.Time) {
	pid, err := daemonpkg.ReadPid(fsys, env.paths.Pid)
	if err == nil && daemonpkg.ProcessAlive(pid) {
		fmt.Fprintf(w, "lightsout (pid %d) is running but does not answer on %s\n", pid, env.paths.Socket)
	} else {
		fmt.Fprintln(w, "lightsout is not running. Start it with \"lightsout run\".")
	}
	sched := env.cfg.Schedule()
	if sched.Excluded(now) {
		fmt.Fprintln(w, "Tonight is an excluded day.")
		return
	}
	cp := sched.Checkpoints(now)
	fmt.Fprintf(w, "Scheduled shutdown: %s\n", common.When(cp.Shutdown, now))
}
