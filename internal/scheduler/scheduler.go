package scheduler

import (
	"container/heap"
	"context"
	"time"
)

// DefaultMaxSleep bounds how long the goroutine sleeps without re-reading
// the wall clock.
const DefaultMaxSleep = 60 * time.Second

// Scheduler manages named deadlines using a min-heap.
// It runs a background goroutine that sleeps until the next event's
// trigger time, then calls the onTrigger callback with the event name.
type Scheduler struct {
	addChan    chan ScheduleEvent
	removeChan chan string
	nextChan   chan chan nextReply
	ctx        context.Context
	maxSleep   time.Duration
	now        func() time.Time
}

type nextReply struct {
	event ScheduleEvent
	ok    bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMaxSleep overrides DefaultMaxSleep. Non-positive values are ignored.
func WithMaxSleep(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.maxSleep = d
		}
	}
}

// WithNow sets the wall-clock source used to decide which events are due.
func WithNow(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates and starts a new Scheduler.
// The onTrigger callback is invoked on the scheduler goroutine when an event
// fires, so it must not call back into Add or Remove synchronously.
// The scheduler goroutine exits when ctx is cancelled.
func New(ctx context.Context, onTrigger func(string), opts ...Option) *Scheduler {
	s := &Scheduler{
		addChan:    make(chan ScheduleEvent, 64),
		removeChan: make(chan string, 64),
		nextChan:   make(chan chan nextReply),
		ctx:        ctx,
		maxSleep:   DefaultMaxSleep,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run(onTrigger)
	return s
}

// Add enqueues an event, replacing a pending event of the same name.
func (s *Scheduler) Add(event ScheduleEvent) {
	select {
	case s.addChan <- event:
	case <-s.ctx.Done():
	}
}

// Remove cancels a pending event by name.
func (s *Scheduler) Remove(name string) {
	select {
	case s.removeChan <- name:
	case <-s.ctx.Done():
	}
}

// Next returns the earliest pending event. ok is false when the heap is
// empty or the scheduler has stopped.
func (s *Scheduler) Next() (event ScheduleEvent, ok bool) {
	reply := make(chan nextReply, 1)
	select {
	case s.nextChan <- reply:
	case <-s.ctx.Done():
		return ScheduleEvent{}, false
	}
	select {
	case r := <-reply:
		return r.event, r.ok
	case <-s.ctx.Done():
		return ScheduleEvent{}, false
	}
}

// run is the core scheduler goroutine implementing the active-object pattern.
// It maintains a min-heap of events and sleeps at most maxSleep at a time.
func (s *Scheduler) run(onTrigger func(string)) {
	h := &deadlineHeap{}
	heap.Init(h)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			// No events, block on the channels.
			return nil
		}
		dur := (*h)[0].TriggerAt.Sub(s.now())
		if dur > s.maxSleep {
			dur = s.maxSleep
		}
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-s.ctx.Done():
			return

		case event := <-s.addChan:
			h.arm(event)
			timerCh = resetTimer()

		case name := <-s.removeChan:
			h.disarm(name)
			timerCh = resetTimer()

		case reply := <-s.nextChan:
			if h.Len() == 0 {
				reply <- nextReply{}
			} else {
				reply <- nextReply{event: (*h)[0], ok: true}
			}

		case <-timerCh:
			// Fire every event whose time has arrived.
			now := s.now()
			for h.Len() > 0 && !(*h)[0].TriggerAt.After(now) {
				event := h.popEarliest()
				onTrigger(event.Name)
			}
			timerCh = resetTimer()
		}
	}
}
