package scheduler

import "time"

// ScheduleEvent is one pending deadline in the scheduler heap.
type ScheduleEvent struct {
	// Name identifies the event. Adding an event with a name already in the
	// heap replaces the old one.
	Name string
	// TriggerAt is the wall-clock time the event fires.
	TriggerAt time.Time
}
