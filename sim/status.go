package sim

import (
	"fmt"

	"github.com/sprint-sim/sprint-sim/sim/tracker"
)

// Status is the workflow state of an issue.
// TODO → PROGRESS → TESTING → DONE; DONE is terminal.
type Status int

const (
	StatusTodo Status = iota
	StatusProgress
	StatusTesting
	StatusDone
)

var statusNames = map[Status]string{
	StatusTodo:     "TODO",
	StatusProgress: "PROGRESS",
	StatusTesting:  "TESTING",
	StatusDone:     "DONE",
}

// statusCodes maps each status to the tracker's transition code.
// The codes are only ever passed to the gateway; ordering uses Status itself.
var statusCodes = map[Status]tracker.StatusCode{
	StatusTodo:     tracker.CodeTodo,
	StatusProgress: tracker.CodeProgress,
	StatusTesting:  tracker.CodeTesting,
	StatusDone:     tracker.CodeDone,
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Code returns the tracker transition code for s.
func (s Status) Code() tracker.StatusCode {
	return statusCodes[s]
}

// Terminal reports whether no further work or transitions may follow.
func (s Status) Terminal() bool {
	return s == StatusDone
}

// StatusFromCode maps a tracker code back to a Status.
func StatusFromCode(code tracker.StatusCode) (Status, error) {
	for s, c := range statusCodes {
		if c == code {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown status code %d", int(code))
}
