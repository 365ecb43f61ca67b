// Package trace provides labeled event recording for simulation runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Kind labels what happened in a Record.
type Kind string

const (
	KindBoardCreated    Kind = "board_created"
	KindSprintCreated   Kind = "sprint_created"
	KindSprintClosed    Kind = "sprint_closed"
	KindIssueCreated    Kind = "issue_created"
	KindIssueAssigned   Kind = "issue_assigned"
	KindCarryOver       Kind = "carry_over"
	KindCarryOverLimit  Kind = "carry_over_limit"
	KindWorkLogged      Kind = "work_logged"
	KindStatusChanged   Kind = "status_changed"
	KindProcessSpawned  Kind = "process_spawned"
	KindProcessExited   Kind = "process_exited"
	KindProcessFailed   Kind = "process_failed"
	KindSimulationEnded Kind = "simulation_ended"
)

// Record is one labeled simulation event. Payload is a deterministic,
// human-readable rendering of the event's details.
type Record struct {
	Time    int64  `yaml:"time"`
	Kind    Kind   `yaml:"kind"`
	Entity  string `yaml:"entity"`
	Payload string `yaml:"payload,omitempty"`
}
