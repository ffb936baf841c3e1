// Package daemon runs the curfew day after day. It owns the pid file, the
// status server and one curfew.Monitor per curfew day.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/warpdl/lightsout/internal/curfew"
	"github.com/warpdl/lightsout/internal/dialog"
	"github.com/warpdl/lightsout/internal/server"
	"github.com/warpdl/lightsout/internal/shutdown"
	"github.com/warpdl/lightsout/pkg/logger"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running
	// daemon, or when the pid file names a live process.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown() is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// maxRolloverSleep caps each wait for the next curfew day so clock jumps
// and suspend are noticed.
const maxRolloverSleep = time.Minute

// Config holds the configuration for the daemon runner.
type Config struct {
	// Monitor configures every run. If nil, curfew.DefaultConfig is used.
	Monitor *curfew.Config

	// PidFile records the daemon's pid while it runs. Empty disables it.
	PidFile string

	// Once stops after the first run instead of waiting for the next day.
	Once bool

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// A zero value means no timeout.
	ShutdownTimeout time.Duration
}

// StatusServer is the IPC endpoint started alongside the runs.
type StatusServer interface {
	Listen() error
	Start(ctx context.Context) error
	Shutdown() error
}

// Dependencies holds the external dependencies for the daemon runner.
type Dependencies struct {
	Presenter dialog.Presenter
	Executor  shutdown.Executor
	Logger    logger.Logger
	Clock     curfew.Clock
	Override  curfew.OverrideVerifier

	// Recorder returns the history recorder for the run of day. If nil,
	// runs are not recorded.
	Recorder func(day time.Time) curfew.Recorder

	// Server answers status queries. If nil, no IPC endpoint is offered.
	Server StatusServer

	// Fs holds the pid file. If nil, the OS filesystem is used.
	Fs afero.Fs
}

// Runner manages the daemon lifecycle.
type Runner struct {
	config *Config
	deps   *Dependencies

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	stopped chan struct{}
	monitor *curfew.Config
	current *curfew.Monitor
	last    curfew.Result
	runs    int
}

// New creates a new daemon runner with the given configuration and dependencies.
func New(config *Config, deps *Dependencies) *Runner {
	r := &Runner{
		config: applyConfigDefaults(config),
		deps:   applyDependencyDefaults(deps),
	}
	r.monitor = r.config.Monitor
	return r
}

// applyConfigDefaults returns a Config with default values applied for nil fields.
func applyConfigDefaults(config *Config) *Config {
	if config == nil {
		config = &Config{}
	}
	cfg := *config
	if cfg.Monitor == nil {
		cfg.Monitor = curfew.DefaultConfig()
	}
	return &cfg
}

// applyDependencyDefaults returns Dependencies with default values applied.
func applyDependencyDefaults(deps *Dependencies) *Dependencies {
	if deps == nil {
		deps = &Dependencies{}
	}
	d := *deps
	if d.Logger == nil {
		d.Logger = logger.NewNopLogger()
	}
	if d.Clock == nil {
		d.Clock = curfew.RealClock()
	}
	if d.Fs == nil {
		d.Fs = afero.NewOsFs()
	}
	return &d
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.config
}

// Start runs the curfew until a shutdown is issued, ctx is canceled or,
// with Once, the first run ends. It returns the result of the last run.
func (r *Runner) Start(ctx context.Context) (curfew.Result, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return curfew.ResultNone, ErrAlreadyRunning
	}
	if r.config.PidFile != "" {
		if err := writePidFile(r.deps.Fs, r.config.PidFile); err != nil {
			r.mu.Unlock()
			return curfew.ResultNone, err
		}
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.stopped = make(chan struct{})
	r.running = true
	r.mu.Unlock()

	log := r.deps.Logger
	var serverDone chan struct{}
	if srv := r.deps.Server; srv != nil {
		if err := srv.Listen(); err != nil {
			log.Warning("Status server unavailable: %v", err)
		} else {
			serverDone = make(chan struct{})
			go func() {
				defer close(serverDone)
				if err := srv.Start(ctx); err != nil {
					log.Warning("Status server stopped: %v", err)
				}
			}()
		}
	}

	result, err := r.loop(ctx)

	r.mu.Lock()
	r.cancel()
	r.mu.Unlock()
	if serverDone != nil {
		_ = r.deps.Server.Shutdown()
		<-serverDone
	}
	r.cleanupOnStop()
	return result, err
}

func (r *Runner) loop(ctx context.Context) (curfew.Result, error) {
	log := r.deps.Logger
	for {
		m, err := r.newMonitor()
		if err != nil {
			return curfew.ResultNone, fmt.Errorf("failed to create monitor: %w", err)
		}
		res := m.Run(ctx)

		r.mu.Lock()
		r.last = res
		r.runs++
		r.mu.Unlock()

		switch res {
		case curfew.ResultShutdown, curfew.ResultInterrupted:
			return res, nil
		}
		if r.config.Once {
			return res, nil
		}
		next := m.Checkpoints().End
		log.Info("Next curfew day starts at %s", next.Format(time.DateTime))
		if !r.waitUntil(ctx, next) {
			return curfew.ResultInterrupted, nil
		}
	}
}

// Reload replaces the monitor settings. The run in progress keeps its
// schedule; the change applies from the next curfew day.
func (r *Runner) Reload(mc *curfew.Config) {
	if mc == nil {
		return
	}
	r.mu.Lock()
	r.monitor = mc
	r.mu.Unlock()
	r.deps.Logger.Info("Schedule reloaded: %s / %s / %s, applies from the next curfew day",
		mc.Schedule.FirstWarning, mc.Schedule.FinalWarning, mc.Schedule.Shutdown)
}

func (r *Runner) newMonitor() (*curfew.Monitor, error) {
	r.mu.Lock()
	mc := r.monitor
	r.mu.Unlock()

	d := r.deps
	deps := &curfew.Dependencies{
		Presenter: d.Presenter,
		Executor:  d.Executor,
		Logger:    d.Logger,
		Clock:     d.Clock,
		Override:  d.Override,
	}
	if d.Recorder != nil {
		day := mc.Schedule.CurfewDay(d.Clock.Now())
		deps.Recorder = d.Recorder(day)
	}
	m, err := curfew.New(mc, deps)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.current = m
	r.mu.Unlock()
	return m, nil
}

// waitUntil sleeps until the clock reaches t. It returns false when ctx
// ends first.
func (r *Runner) waitUntil(ctx context.Context, t time.Time) bool {
	clock := r.deps.Clock
	for {
		left := t.Sub(clock.Now())
		if left <= 0 {
			return true
		}
		if left > maxRolloverSleep {
			left = maxRolloverSleep
		}
		select {
		case <-ctx.Done():
			return false
		case <-clock.After(left):
		}
	}
}

// Status reports the current or most recent run.
func (r *Runner) Status() (curfew.Status, error) {
	r.mu.Lock()
	m := r.current
	r.mu.Unlock()
	if m == nil {
		return curfew.Status{}, server.ErrNoRun
	}
	return m.Status(), nil
}

// Runs returns how many runs have ended and the last result.
func (r *Runner) Runs() (int, curfew.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs, r.last
}

// cleanupOnStop performs cleanup when the daemon stops.
func (r *Runner) cleanupOnStop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config.PidFile != "" {
		if err := removePidFile(r.deps.Fs, r.config.PidFile); err != nil {
			r.deps.Logger.Warning("Failed to remove pid file: %v", err)
		}
	}
	r.running = false
	close(r.stopped)
}

// Shutdown stops the daemon and waits for Start to return.
// Returns ErrNotRunning if the daemon is not running.
// Returns ErrShutdownTimeout if Start does not return within the configured timeout.
func (r *Runner) Shutdown() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return ErrNotRunning
	}
	r.cancel()
	stopped := r.stopped
	r.mu.Unlock()

	if r.config.ShutdownTimeout <= 0 {
		<-stopped
		return nil
	}
	select {
	case <-stopped:
		return nil
	case <-time.After(r.config.ShutdownTimeout):
		return ErrShutdownTimeout
	}
}

// IsRunning returns true if the daemon is currently running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
