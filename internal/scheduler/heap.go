package scheduler

import "container/heap"

// deadlineHeap orders pending deadlines so the earliest TriggerAt is at
// index 0. Names are unique: arming a name that is already pending moves
// its deadline.
type deadlineHeap []ScheduleEvent

func (h deadlineHeap) Len() int           { return len(h) }
func (h deadlineHeap) Less(i, j int) bool { return h[i].TriggerAt.Before(h[j].TriggerAt) }
func (h deadlineHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *deadlineHeap) Push(x any) { *h = append(*h, x.(ScheduleEvent)) }

func (h *deadlineHeap) Pop() any {
	last := (*h)[len(*h)-1]
	*h = (*h)[:len(*h)-1]
	return last
}

// arm adds or moves the deadline named e.Name.
func (h *deadlineHeap) arm(e ScheduleEvent) {
	h.disarm(e.Name)
	heap.Push(h, e)
}

// popEarliest removes the next deadline to fire. The heap must not be
// empty.
func (h *deadlineHeap) popEarliest() ScheduleEvent {
	return heap.Pop(h).(ScheduleEvent)
}

// disarm drops the deadline called name and reports whether it was pending.
func (h *deadlineHeap) disarm(name string) bool {
	for i := range *h {
		if (*h)[i].Name == name {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}
