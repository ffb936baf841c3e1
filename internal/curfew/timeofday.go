package curfew

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTimeOfDay is returned for strings that are not "HH:MM".
var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a 24-hour "HH:MM" string. A single-digit hour is
// accepted.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(m) != 2 || len(h) == 0 || len(h) > 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// MustTimeOfDay is ParseTimeOfDay for constants; it panics on bad input.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Clock12 renders t like "11:00 PM".
func (t TimeOfDay) Clock12() string {
	return time.Date(2000, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("3:04 PM")
}

// IsZero reports whether t is midnight, which also means "unset".
func (t TimeOfDay) IsZero() bool {
	return t.Hour == 0 && t.Minute == 0
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is earlier in the day than u.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.minutes() < u.minutes()
}

// On returns the instant t on the calendar day of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

// Of returns the time of day of ts, truncated to the minute.
func Of(ts time.Time) TimeOfDay {
	return TimeOfDay{Hour: ts.Hour(), Minute: ts.Minute()}
}

func (t TimeOfDay) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *TimeOfDay) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
