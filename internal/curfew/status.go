package curfew

import "time"

// Status is what the daemon reports over IPC.
type Status struct {
	Day          string    `json:"day"`
	FirstWarning time.Time `json:"first_warning"`
	FinalWarning time.Time `json:"final_warning"`
	Shutdown     time.Time `json:"shutdown"`
	State        Snapshot  `json:"state"`
	Enforcing    bool      `json:"enforcing"`
	Result       string    `json:"result"`
}

// Status returns a snapshot of the run.
func (m *Monitor) Status() Status {
	return Status{
		Day:          m.cp.Day.Format(time.DateOnly),
		FirstWarning: m.cp.FirstWarning,
		FinalWarning: m.cp.FinalWarning,
		Shutdown:     m.cp.Shutdown,
		State:        m.state.Snapshot(),
		Enforcing:    m.Armed(),
		Result:       m.Result().String(),
	}
}
