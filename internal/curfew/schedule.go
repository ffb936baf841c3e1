package curfew

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSchedule wraps schedule ordering violations.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Schedule is the nightly curfew.
type Schedule struct {
	FirstWarning TimeOfDay
	FinalWarning TimeOfDay
	Shutdown     TimeOfDay
	// CurfewUntil extends the curfew past midnight: times of day before it
	// belong to the previous evening. Zero disables the extension.
	CurfewUntil TimeOfDay
	Exclude     Exclusions
}

// DefaultSchedule is 9:30 PM first warning, 10:50 PM final warning and
// 11:00 PM shutdown, with the curfew lasting until 4:00 AM.
func DefaultSchedule() Schedule {
	return Schedule{
		FirstWarning: TimeOfDay{Hour: 21, Minute: 30},
		FinalWarning: TimeOfDay{Hour: 22, Minute: 50},
		Shutdown:     TimeOfDay{Hour: 23},
		CurfewUntil:  TimeOfDay{Hour: 4},
	}
}

// Validate checks first < final < shutdown and that the morning extension
// ends before the first warning.
func (s Schedule) Validate() error {
	if !s.FirstWarning.Before(s.FinalWarning) {
		return fmt.Errorf("%w: first warning %s must be before final warning %s", ErrInvalidSchedule, s.FirstWarning, s.FinalWarning)
	}
	if !s.FinalWarning.Before(s.Shutdown) {
		return fmt.Errorf("%w: final warning %s must be before shutdown %s", ErrInvalidSchedule, s.FinalWarning, s.Shutdown)
	}
	if !s.CurfewUntil.Before(s.FirstWarning) {
		return fmt.Errorf("%w: curfew_until %s must be before first warning %s", ErrInvalidSchedule, s.CurfewUntil, s.FirstWarning)
	}
	return nil
}

// CurfewDay returns midnight of the evening now belongs to.
func (s Schedule) CurfewDay(now time.Time) time.Time {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if Of(now).Before(s.CurfewUntil) {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// Checkpoints are the absolute instants of one curfew day.
type Checkpoints struct {
	Day          time.Time
	FirstWarning time.Time
	FinalWarning time.Time
	Shutdown     time.Time
	// End is when the next curfew day begins.
	End time.Time
}

// Checkpoints returns the instants for the curfew day containing now.
func (s Schedule) Checkpoints(now time.Time) Checkpoints {
	day := s.CurfewDay(now)
	return Checkpoints{
		Day:          day,
		FirstWarning: s.FirstWarning.On(day),
		FinalWarning: s.FinalWarning.On(day),
		Shutdown:     s.Shutdown.On(day),
		End:          s.CurfewUntil.On(day.AddDate(0, 0, 1)),
	}
}

// PastCurfew reports whether now is at or after the shutdown time of its
// curfew day.
func (s Schedule) PastCurfew(now time.Time) bool {
	return !now.Before(s.Checkpoints(now).Shutdown)
}

// Excluded reports whether the curfew day containing now is excluded.
func (s Schedule) Excluded(now time.Time) bool {
	return s.Exclude.Excludes(s.CurfewDay(now))
}
