package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli"

	"github.com/warpdl/lightsout/common"
	"github.com/warpdl/lightsout/internal/config"
	"github.com/warpdl/lightsout/internal/curfew"
	daemonpkg "github.com/warpdl/lightsout/internal/daemon"
	"github.com/warpdl/lightsout/internal/dialog"
	"github.com/warpdl/lightsout/internal/journal"
	"github.com/warpdl/lightsout/internal/server"
	"github.com/warpdl/lightsout/internal/shutdown"
	"github.com/warpdl/lightsout/pkg/logger"
)

const (
	// journalRetention is how long runs stay in the journal.
	journalRetention = 90 * 24 * time.Hour
	// daemonStopTimeout bounds the wait for the runner after a signal.
	daemonStopTimeout = 10 * time.Second
)

// daemonOptions tune one daemon process.
type daemonOptions struct {
	once bool
	// console mirrors the log to stderr.
	console bool
	// dryRun logs the shutdown instead of performing it.
	dryRun bool
}

// newPresenter and newExecutor are replaced in tests.
var (
	newPresenter = func(name string, l logger.Logger) (dialog.Presenter, error) {
		return dialog.New(name, l)
	}
	newExecutor = func(l logger.Logger, dryRun bool) shutdown.Executor {
		if dryRun {
			return shutdown.DryRun{Log: l}
		}
		return shutdown.New(l)
	}
)

func daemon(ctx *cli.Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}
	return runDaemon(context.Background(), env, daemonOptions{
		once:    ctx.Bool("once"),
		console: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
		dryRun:  ctx.GlobalBool(flagDryRun),
	})
}

// newDaemonLogger logs to the run log, plus stderr for console runs and
// the platform's system log where one is available.
func newDaemonLogger(env *environment, console bool) logger.Logger {
	loggers := []logger.Logger{logger.NewFileLogger(fsys, env.paths.Log, env.paths.ErrorLog)}
	if console {
		loggers = append(loggers, logger.NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags)))
	}
	loggers = append(loggers, platformLoggers()...)
	if len(loggers) == 1 {
		return loggers[0]
	}
	return logger.NewMultiLogger(loggers...)
}

// runDaemon runs the curfew until a shutdown is issued or parent is
// canceled or a stop signal arrives.
func runDaemon(parent context.Context, env *environment, opts daemonOptions) error {
	l := newDaemonLogger(env, opts.console)
	defer l.Close()

	presenter, err := newPresenter(env.cfg.Dialog, l)
	if err != nil {
		l.Error("Failed to set up dialogs: %v", err)
		return err
	}
	if opts.dryRun {
		l.Info("Dry run: shutdowns are logged, not performed")
	}

	var recorder func(day time.Time) curfew.Recorder
	if env.cfg.Journal {
		j, err := journal.Open(env.paths.Journal, l)
		if err != nil {
			l.Warning("Run journal unavailable: %v", err)
		} else {
			defer j.Close()
			if n, err := j.Prune(parent, time.Now().Add(-journalRetention)); err != nil {
				l.Warning("Failed to prune run journal: %v", err)
			} else if n > 0 {
				l.Info("Pruned %d old runs from the journal", n)
			}
			recorder = func(day time.Time) curfew.Recorder { return j.Begin(day) }
		}
	}

	var runner *daemonpkg.Runner
	srv := server.NewServer(l, env.paths.Socket, func() (curfew.Status, error) {
		return runner.Status()
	}, versionResult())
	runner = daemonpkg.New(&daemonpkg.Config{
		Monitor:         env.cfg.Monitor(),
		PidFile:         env.paths.Pid,
		Once:            opts.once,
		ShutdownTimeout: daemonStopTimeout,
	}, &daemonpkg.Dependencies{
		Presenter: presenter,
		Executor:  newExecutor(l, opts.dryRun),
		Logger:    l,
		Override:  newOverrideStore(env),
		Recorder:  recorder,
		Server:    srv,
		Fs:        fsys,
	})

	if w, err := config.Watch(fsys, env.paths.Config, l, func(c *config.Config) {
		runner.Reload(c.Monitor())
	}); err != nil {
		l.Warning("Config changes need a restart: %v", err)
	} else {
		defer w.Close()
	}

	sigCtx, cancel := setupShutdownHandler()
	defer cancel()
	ctx, stop := context.WithCancel(sigCtx)
	defer stop()
	go func() {
		select {
		case <-parent.Done():
			stop()
		case <-ctx.Done():
		}
	}()

	result, err := runner.Start(ctx)
	if err != nil {
		if errors.Is(err, daemonpkg.ErrAlreadyRunning) {
			return fmt.Errorf("%w (pid file %s)", err, env.paths.Pid)
		}
		l.Error("Daemon failed: %v", err)
		return err
	}
	l.Info("Daemon exiting: %s", result)
	return nil
}

func versionResult() common.VersionResult {
	return common.VersionResult{
		Version:   currentBuildArgs.Version,
		Commit:    currentBuildArgs.Commit,
		BuildType: currentBuildArgs.BuildType,
		Pid:       os.Getpid(),
	}
}
