package curfew

import "sync/atomic"

const (
	terminalNone int32 = iota
	terminalCanceled
	terminalShutdown
)

// State is the per-run schedule state. Every flag only ever moves from
// false to true, and cancellation and shutdown exclude each other.
type State struct {
	skipToday    atomic.Bool
	firstPending atomic.Bool
	finalPending atomic.Bool
	firstShown   atomic.Bool
	finalShown   atomic.Bool
	terminal     atomic.Int32
}

// NewState returns a fresh state for one run.
func NewState() *State {
	return &State{}
}

func (s *State) SkipToday() bool         { return s.skipToday.Load() }
func (s *State) FirstWarningShown() bool { return s.firstShown.Load() }
func (s *State) FinalWarningShown() bool { return s.finalShown.Load() }
func (s *State) Canceled() bool          { return s.terminal.Load() == terminalCanceled }
func (s *State) ShutdownIssued() bool    { return s.terminal.Load() == terminalShutdown }

func (s *State) done() bool {
	return s.terminal.Load() != terminalNone
}

// claimFirst reserves the first warning; only one caller ever wins.
func (s *State) claimFirst() bool {
	return s.firstPending.CompareAndSwap(false, true)
}

func (s *State) claimFinal() bool {
	return s.finalPending.CompareAndSwap(false, true)
}

func (s *State) claimCancel() bool {
	return s.terminal.CompareAndSwap(terminalNone, terminalCanceled)
}

func (s *State) claimShutdown() bool {
	return s.terminal.CompareAndSwap(terminalNone, terminalShutdown)
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	SkipToday         bool `json:"skip_today"`
	FirstWarningShown bool `json:"first_warning_shown"`
	FinalWarningShown bool `json:"final_warning_shown"`
	Canceled          bool `json:"canceled"`
	ShutdownIssued    bool `json:"shutdown_issued"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		SkipToday:         s.SkipToday(),
		FirstWarningShown: s.FirstWarningShown(),
		FinalWarningShown: s.FinalWarningShown(),
		Canceled:          s.Canceled(),
		ShutdownIssued:    s.ShutdownIssued(),
	}
}
