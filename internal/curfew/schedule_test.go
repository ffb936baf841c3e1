package curfew

import (
	"errors"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"21:30", TimeOfDay{21, 30}, false},
		{"9:05", TimeOfDay{9, 5}, false},
		{" 23:00 ", TimeOfDay{23, 0}, false},
		{"00:00", TimeOfDay{}, false},
		{"24:00", TimeOfDay{}, true},
		{"12:60", TimeOfDay{}, true},
		{"1230", TimeOfDay{}, true},
		{"12:5", TimeOfDay{}, true},
		{"ab:cd", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTimeOfDay) {
				t.Errorf("error %v should wrap ErrInvalidTimeOfDay", err)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayFormatting(t *testing.T) {
	tod := TimeOfDay{Hour: 23}
	if tod.String() != "23:00" {
		t.Errorf("String() = %s", tod)
	}
	if tod.Clock12() != "11:00 PM" {
		t.Errorf("Clock12() = %s", tod.Clock12())
	}
	if got := (TimeOfDay{Hour: 9, Minute: 30}).Clock12(); got != "9:30 AM" {
		t.Errorf("Clock12() = %s", got)
	}
}

func TestTimeOfDayOnKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	day := time.Date(2026, 10, 18, 15, 4, 5, 0, loc)
	got := TimeOfDay{Hour: 23}.On(day)
	want := time.Date(2026, 10, 18, 23, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Errorf("On() = %v, want %v", got, want)
	}
}

func TestScheduleValidate(t *testing.T) {
	if err := DefaultSchedule().Validate(); err != nil {
		t.Fatalf("default schedule invalid: %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*Schedule)
	}{
		{"first after final", func(s *Schedule) { s.FirstWarning = MustTimeOfDay("22:55") }},
		{"final equals shutdown", func(s *Schedule) { s.FinalWarning = s.Shutdown }},
		{"curfew_until after first", func(s *Schedule) { s.CurfewUntil = MustTimeOfDay("22:00") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSchedule()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSchedule) {
				t.Errorf("Validate() error = %v, want ErrInvalidSchedule", err)
			}
		})
	}
}

func TestScheduleCheckpoints(t *testing.T) {
	s := DefaultSchedule()

	cp := s.Checkpoints(at("21:45"))
	if !cp.FirstWarning.Equal(at("21:30")) || !cp.FinalWarning.Equal(at("22:50")) || !cp.Shutdown.Equal(at("23:00")) {
		t.Errorf("Checkpoints = %+v", cp)
	}
	if want := at("04:00").AddDate(0, 0, 1); !cp.End.Equal(want) {
		t.Errorf("End = %v, want %v", cp.End, want)
	}

	// 01:30 the next morning still belongs to the previous evening.
	late := at("01:30").AddDate(0, 0, 1)
	if got := s.CurfewDay(late); !got.Equal(at("00:00")) {
		t.Errorf("CurfewDay(01:30) = %v, want the previous day", got)
	}
	if !s.PastCurfew(late) {
		t.Error("01:30 should be past curfew")
	}
	if s.PastCurfew(at("05:00")) {
		t.Error("05:00 should start a new curfew day")
	}

	s.CurfewUntil = TimeOfDay{}
	if s.PastCurfew(late) {
		t.Error("without curfew_until 01:30 belongs to a fresh day")
	}
}

func TestExclusions(t *testing.T) {
	ex, err := ParseExclusions([]string{"Saturday", "sun", "0 12 24 12 *"})
	if err != nil {
		t.Fatalf("ParseExclusions() error = %v", err)
	}
	tests := []struct {
		day  time.Time
		want bool
	}{
		{time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), true},  // Saturday
		{time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), true},  // Sunday
		{time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), false}, // Monday
		{time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC), true},  // Thursday, cron
		{time.Date(2026, 12, 23, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		if got := ex.Excludes(tt.day); got != tt.want {
			t.Errorf("Excludes(%s %s) = %t, want %t", tt.day.Format(time.DateOnly), tt.day.Weekday(), got, tt.want)
		}
	}
	if got := ex.Entries(); len(got) != 3 {
		t.Errorf("Entries() = %v", got)
	}

	if _, err := ParseExclusions([]string{"Caturday"}); err == nil {
		t.Error("expected error for unknown weekday")
	}
	if _, err := ParseExclusions([]string{"99 * * * *"}); err == nil {
		t.Error("expected error for invalid cron")
	}
	empty, _ := ParseExclusions(nil)
	if !empty.Empty() || empty.Excludes(time.Now()) {
		t.Error("empty exclusions must not exclude anything")
	}
}

func TestScheduleYAML(t *testing.T) {
	var doc struct {
		Shutdown TimeOfDay  `yaml:"shutdown"`
		Exclude  Exclusions `yaml:"exclude"`
	}
	in := "shutdown: \"22:15\"\nexclude: [Friday, \"30 21 1 1 *\"]\n"
	if err := yaml.Unmarshal([]byte(in), &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if doc.Shutdown != (TimeOfDay{22, 15}) {
		t.Errorf("Shutdown = %v", doc.Shutdown)
	}
	if !doc.Exclude.Excludes(time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC)) {
		t.Error("Friday not excluded")
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back struct {
		Shutdown TimeOfDay  `yaml:"shutdown"`
		Exclude  Exclusions `yaml:"exclude"`
	}
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-Unmarshal(%s) error = %v", out, err)
	}
	if back.Shutdown != doc.Shutdown || len(back.Exclude.Entries()) != 2 {
		t.Errorf("round trip lost data: %s", out)
	}

	bad := "shutdown: \"25:00\"\n"
	if err := yaml.Unmarshal([]byte(bad), &doc); err == nil {
		t.Error("expected error for bad time")
	}
}
