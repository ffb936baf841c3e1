package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/warpdl/lightsout/cmd/common"
)

func check(ctx *cli.Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}
	printCheck(os.Stdout, env, newOverrideStore(env).Configured(), time.Now())
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printCheck(w io.Writer, env *environment, overrideSet bool, now time.Time) {
	cfg := env.cfg
	fmt.Fprintf(w, "Configuration OK (%s)\n\n", env.paths.Config)

	fmt.Fprintf(w, "First warning:          %s\n", cfg.FirstWarning.Clock12())
	fmt.Fprintf(w, "Final warning:          %s\n", cfg.FinalWarning.Clock12())
	fmt.Fprintf(w, "Shutdown:               %s\n", cfg.Shutdown.Clock12())
	if cfg.CurfewUntil.IsZero() {
		fmt.Fprintln(w, "Curfew until:           midnight")
	} else {
		fmt.Fprintf(w, "Curfew until:           %s\n", cfg.CurfewUntil.Clock12())
	}
	excluded := "none"
	if !cfg.Exclude.Empty() {
		excluded = strings.Join(cfg.Exclude.Entries(), ", ")
	}
	fmt.Fprintf(w, "Excluded days:          %s\n", excluded)
	fmt.Fprintf(w, "Poll interval:          %s\n", cfg.PollInterval)
	fmt.Fprintf(w, "Final warning timeout:  %s\n", cfg.FinalWarningTimeout)
	fmt.Fprintf(w, "Restart warning:        %s, then shutdown after %s\n", cfg.EvasionTimeout, cfg.EvasionDelay)
	fmt.Fprintf(w, "Shutdown delay:         %s\n", cfg.ShutdownDelay)
	fmt.Fprintf(w, "Force / enforce:        %s / %s\n", onOff(cfg.Force), onOff(cfg.Enforce))
	fmt.Fprintf(w, "Dialog backend:         %s\n", cfg.Dialog)
	if overrideSet {
		fmt.Fprintln(w, "Override passphrase:    set")
	} else {
		fmt.Fprintln(w, "Override passphrase:    not set (no override after restart)")
	}

	sched := cfg.Schedule()
	fmt.Fprintln(w)
	if sched.Excluded(now) {
		fmt.Fprintln(w, "Tonight:                excluded day")
	} else {
		cp := sched.Checkpoints(now)
		fmt.Fprintf(w, "Tonight:                shutdown %s\n", common.When(cp.Shutdown, now))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Log file:               %s\n", env.paths.Log)
	fmt.Fprintf(w, "Error log:              %s\n", env.paths.ErrorLog)
	if cfg.Journal {
		fmt.Fprintf(w, "Run journal:            %s\n", env.paths.Journal)
	} else {
		fmt.Fprintln(w, "Run journal:            off")
	}
	fmt.Fprintf(w, "Status socket:          %s\n", env.paths.Socket)
}
