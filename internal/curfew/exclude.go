package curfew

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"gopkg.in/yaml.v3"
)

// Exclusions lists days on which the curfew is inactive. Each entry is a
// weekday name ("Saturday", "sat") or a five-field cron expression; a day is
// excluded when any cron entry fires at some minute of it.
type Exclusions struct {
	raw      []string
	weekdays [7]bool
	crons    []string
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseExclusions validates entries.
func ParseExclusions(entries []string) (Exclusions, error) {
	var e Exclusions
	gx := gronx.New()
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if wd, ok := weekdayNames[strings.ToLower(entry)]; ok {
			e.weekdays[wd] = true
			e.raw = append(e.raw, entry)
			continue
		}
		if len(strings.Fields(entry)) != 5 || !gx.IsValid(entry) {
			return Exclusions{}, fmt.Errorf("exclude %q: not a weekday or a 5-field cron expression", entry)
		}
		e.crons = append(e.crons, entry)
		e.raw = append(e.raw, entry)
	}
	return e, nil
}

// Excludes reports whether the calendar day containing day is excluded.
func (e Exclusions) Excludes(day time.Time) bool {
	if e.weekdays[day.Weekday()] {
		return true
	}
	if len(e.crons) == 0 {
		return false
	}
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	for _, expr := range e.crons {
		next, err := gronx.NextTickAfter(expr, start, true)
		if err == nil && next.Before(end) {
			return true
		}
	}
	return false
}

// Entries returns the entries as written.
func (e Exclusions) Entries() []string {
	return append([]string(nil), e.raw...)
}

// Empty reports whether no day is excluded.
func (e Exclusions) Empty() bool {
	return len(e.raw) == 0
}

// IsZero lets yaml omitempty drop an empty list.
func (e Exclusions) IsZero() bool { return e.Empty() }

func (e Exclusions) MarshalYAML() (interface{}, error) {
	return e.Entries(), nil
}

func (e *Exclusions) UnmarshalYAML(value *yaml.Node) error {
	var entries []string
	if err := value.Decode(&entries); err != nil {
		return err
	}
	parsed, err := ParseExclusions(entries)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
