// Package curfew runs the nightly schedule: a first warning, a final warning
// and a forced shutdown, each checkpoint acted on at most once per run.
//
// A Monitor is built for one curfew day. Run polls the clock and calls Tick,
// which opens warning dialogs on their own goroutine so an unanswered dialog
// never holds up the shutdown. An independent enforcement timer backs the
// poll loop at the shutdown instant.
package curfew

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/warpdl/lightsout/internal/dialog"
	"github.com/warpdl/lightsout/internal/scheduler"
	"github.com/warpdl/lightsout/internal/shutdown"
	"github.com/warpdl/lightsout/pkg/logger"
)

// Defaults applied by New to zero Config durations.
const (
	DefaultPollInterval         = 30 * time.Second
	DefaultFinalWarningTimeout  = 60 * time.Second
	DefaultEvasionTimeout       = 30 * time.Second
	DefaultEvasionDelay         = 2 * time.Minute
	DefaultEnforceCheckInterval = scheduler.DefaultMaxSleep
)

const (
	// dialogCloseGrace bounds the wait for a closed dialog to return.
	dialogCloseGrace = 5 * time.Second
	// shutdownCallTimeout bounds the executor call beyond the request delay.
	shutdownCallTimeout = 30 * time.Second
	// noticeTimeout closes informational notices.
	noticeTimeout = 10 * time.Second

	enforceEvent = "shutdown"
)

// ErrMissingDependency is returned by New when a required collaborator is nil.
var ErrMissingDependency = errors.New("missing dependency")

// Result is how a run ended.
type Result int

const (
	// ResultNone means the run is still going.
	ResultNone Result = iota
	// ResultInterrupted means the run context was canceled.
	ResultInterrupted
	// ResultCanceled means the user canceled the shutdown.
	ResultCanceled
	// ResultShutdown means the shutdown was issued.
	ResultShutdown
	// ResultSkipped means the day is excluded.
	ResultSkipped
	// ResultExpired means the curfew day ended without a shutdown, for
	// example after the machine slept through it.
	ResultExpired
)

func (r Result) String() string {
	switch r {
	case ResultInterrupted:
		return "interrupted"
	case ResultCanceled:
		return "canceled"
	case ResultShutdown:
		return "shutdown"
	case ResultSkipped:
		return "skipped"
	case ResultExpired:
		return "expired"
	default:
		return "running"
	}
}

// Config holds the monitor settings.
type Config struct {
	Schedule Schedule

	// PollInterval is the time between ticks.
	PollInterval time.Duration

	// FinalWarningTimeout closes the final warning early. The final warning
	// never stays open past the shutdown time.
	FinalWarningTimeout time.Duration

	// EvasionTimeout closes the restart-evasion warning.
	EvasionTimeout time.Duration

	// EvasionDelay postpones the shutdown issued after restart evasion.
	EvasionDelay time.Duration

	// ShutdownDelay postpones the scheduled shutdown.
	ShutdownDelay time.Duration

	// Force closes applications without waiting.
	Force bool

	// Enforce arms the enforcement timer at the shutdown time.
	Enforce bool

	// EnforceCheckInterval caps how long the enforcement timer sleeps
	// between wall-clock checks.
	EnforceCheckInterval time.Duration
}

// DefaultConfig returns the stock schedule with forced, enforced shutdown.
func DefaultConfig() *Config {
	return &Config{
		Schedule:             DefaultSchedule(),
		PollInterval:         DefaultPollInterval,
		FinalWarningTimeout:  DefaultFinalWarningTimeout,
		EvasionTimeout:       DefaultEvasionTimeout,
		EvasionDelay:         DefaultEvasionDelay,
		Force:                true,
		Enforce:              true,
		EnforceCheckInterval: DefaultEnforceCheckInterval,
	}
}

// Dependencies holds the monitor's collaborators.
type Dependencies struct {
	// Presenter shows the dialogs. Required.
	Presenter dialog.Presenter

	// Executor issues the shutdown. Required.
	Executor shutdown.Executor

	// Logger receives the run log. If nil, logs are discarded.
	Logger logger.Logger

	// Clock is the time source. If nil, the system clock is used.
	Clock Clock

	// Recorder keeps the run history. If nil, nothing is recorded.
	Recorder Recorder

	// Override verifies the restart-evasion passphrase. If nil, the
	// override option is never offered.
	Override OverrideVerifier
}

// Monitor drives one curfew day.
type Monitor struct {
	cfg       Config
	presenter dialog.Presenter
	executor  shutdown.Executor
	log       logger.Logger
	clock     Clock
	rec       Recorder
	override  OverrideVerifier

	state *State
	cp    Checkpoints

	mu           sync.Mutex
	dialogCancel context.CancelFunc
	dialogDone   chan struct{}
	enforcer     *scheduler.Scheduler
	wg           sync.WaitGroup

	once   sync.Once
	done   chan struct{}
	result Result
}

// New creates a monitor for the curfew day containing the clock's current
// time. If config is nil, DefaultConfig is used.
func New(config *Config, deps *Dependencies) (*Monitor, error) {
	cfg := applyConfigDefaults(config)
	if err := cfg.Schedule.Validate(); err != nil {
		return nil, err
	}
	if deps == nil || deps.Presenter == nil {
		return nil, fmt.Errorf("%w: presenter", ErrMissingDependency)
	}
	if deps.Executor == nil {
		return nil, fmt.Errorf("%w: executor", ErrMissingDependency)
	}
	d := applyDependencyDefaults(deps)

	return &Monitor{
		cfg:       cfg,
		presenter: d.Presenter,
		executor:  d.Executor,
		log:       d.Logger,
		clock:     d.Clock,
		rec:       d.Recorder,
		override:  d.Override,
		state:     NewState(),
		cp:        cfg.Schedule.Checkpoints(d.Clock.Now()),
		done:      make(chan struct{}),
	}, nil
}

// applyConfigDefaults copies config and fills zero durations.
func applyConfigDefaults(config *Config) Config {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.FinalWarningTimeout < 0 {
		cfg.FinalWarningTimeout = 0
	}
	if cfg.EvasionTimeout <= 0 {
		cfg.EvasionTimeout = DefaultEvasionTimeout
	}
	if cfg.EvasionDelay < 0 {
		cfg.EvasionDelay = 0
	}
	if cfg.ShutdownDelay < 0 {
		cfg.ShutdownDelay = 0
	}
	if cfg.EnforceCheckInterval <= 0 {
		cfg.EnforceCheckInterval = DefaultEnforceCheckInterval
	}
	return cfg
}

// applyDependencyDefaults returns a copy of deps with defaults for the
// optional collaborators.
func applyDependencyDefaults(deps *Dependencies) Dependencies {
	d := *deps
	if d.Logger == nil {
		d.Logger = logger.NewNopLogger()
	}
	if d.Clock == nil {
		d.Clock = RealClock()
	}
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	return d
}

// State returns the run state.
func (m *Monitor) State() *State { return m.state }

// Checkpoints returns the instants of the monitored curfew day.
func (m *Monitor) Checkpoints() Checkpoints { return m.cp }

// Done is closed when the run has reached a result.
func (m *Monitor) Done() <-chan struct{} { return m.done }

// Result returns the run result, or ResultNone while running.
func (m *Monitor) Result() Result {
	select {
	case <-m.done:
		return m.result
	default:
		return ResultNone
	}
}

func (m *Monitor) finish(r Result) {
	m.once.Do(func() {
		m.result = r
		close(m.done)
	})
}

// Tick evaluates the schedule at now. Dialogs opened by this tick run on
// their own goroutine and are closed when ctx is done. Ticks with the same
// now, or any now inside an already handled window, do nothing.
func (m *Monitor) Tick(ctx context.Context, now time.Time) {
	st := m.state
	if st.SkipToday() || st.done() {
		return
	}
	if !now.Before(m.cp.End) {
		m.log.Warning("Curfew day %s ended at %s without a shutdown", m.cp.Day.Format(time.DateOnly), now.Format(time.DateTime))
		m.finish(ResultExpired)
		return
	}

	switch {
	case now.Before(m.cp.FirstWarning):
		return

	case now.Before(m.cp.FinalWarning):
		if st.claimFirst() {
			m.showFirstWarning(ctx, now)
		}

	case now.Before(m.cp.Shutdown):
		if st.claimFinal() {
			m.closeDialog()
			m.showFinalWarning(ctx, now)
		}

	default:
		if !st.FinalWarningShown() && !st.finalPending.Load() {
			m.log.Warning("Shutdown time reached without showing the final warning")
		}
		m.log.Info("Shutdown time reached")
		m.issueShutdown("scheduled", m.shutdownRequest(m.cfg.ShutdownDelay))
	}
}

// Run polls the schedule until the run ends and returns how it ended. It
// must be called at most once.
func (m *Monitor) Run(ctx context.Context) Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := m.cfg.Schedule
	start := m.clock.Now()
	m.log.Info("Shutdown scheduler started for %s", m.cp.Day.Format(time.DateOnly))
	m.log.Info("Schedule: First warning at %s, Final warning at %s, Shutdown at %s",
		s.FirstWarning.Clock12(), s.FinalWarning.Clock12(), s.Shutdown.Clock12())
	m.rec.Record(EventStarted, fmt.Sprintf("first %s, final %s, shutdown %s", s.FirstWarning, s.FinalWarning, s.Shutdown))

	defer func() {
		m.closeDialog()
		m.wg.Wait()
		m.log.Info("Run ended: %s", m.result)
		m.rec.Finish(m.result.String())
	}()

	if s.Exclude.Excludes(m.cp.Day) {
		m.state.skipToday.Store(true)
		m.log.Info("Today (%s) is excluded, schedule inactive", m.cp.Day.Weekday())
		m.rec.Record(EventSkipped, m.cp.Day.Weekday().String())
		m.finish(ResultSkipped)
		return m.result
	}

	if s.PastCurfew(start) && s.CurfewDay(start).Equal(m.cp.Day) {
		m.handleEvasion(ctx, start)
		return m.result
	}

	if m.cfg.Enforce {
		m.arm(ctx)
	}

	for {
		m.Tick(ctx, m.clock.Now())
		select {
		case <-m.done:
			return m.result
		case <-ctx.Done():
			m.log.Info("Scheduler stopped")
			m.finish(ResultInterrupted)
			return m.result
		case <-m.clock.After(m.cfg.PollInterval):
		}
	}
}

func (m *Monitor) shutdownRequest(delay time.Duration) shutdown.Request {
	return shutdown.Request{
		Delay:   delay,
		Force:   m.cfg.Force,
		Message: fmt.Sprintf("Scheduled shutdown at %s", m.cfg.Schedule.Shutdown.Clock12()),
	}
}

// issueShutdown invokes the executor once per run. It is a no-op after a
// cancel or an earlier shutdown.
func (m *Monitor) issueShutdown(reason string, req shutdown.Request) {
	if !m.state.claimShutdown() {
		if m.state.Canceled() {
			m.log.Warning("Shutdown already canceled, not executing shutdown command")
		}
		return
	}
	m.disarm()
	m.closeDialog()

	m.log.Info("PC shutdown initiated (%s, delay %s, force %t)", reason, req.Delay, req.Force)
	m.rec.Record(EventShutdown, reason)

	ctx, cancel := context.WithTimeout(context.Background(), req.Delay+shutdownCallTimeout)
	defer cancel()
	if err := m.executor.Shutdown(ctx, req); err != nil {
		m.log.Error("Error during shutdown: %v", err)
		m.rec.Record(EventShutdownFailed, err.Error())
	}
	m.finish(ResultShutdown)
}

// acceptCancel ends the run without a shutdown unless one was already
// issued.
func (m *Monitor) acceptCancel(where string) {
	if !m.state.claimCancel() {
		m.log.Warning("Cancel at %s ignored, shutdown already issued", where)
		return
	}
	m.disarm()
	m.log.Info("Shutdown canceled by user at %s", where)
	m.rec.Record(EventCanceled, where)
	m.notify("Shutdown Canceled", "The scheduled shutdown has been canceled.")
	m.finish(ResultCanceled)
}

// notify shows a best-effort informational message.
func (m *Monitor) notify(title, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), noticeTimeout+dialogCloseGrace)
	defer cancel()
	err := m.presenter.Notify(ctx, dialog.Request{Title: title, Message: message, Timeout: noticeTimeout})
	if err != nil {
		m.log.Warning("Could not show %q notice: %v", title, err)
	}
}
