package sim

import "time"

// Board is the top-level container. One per simulation; immutable once recorded.
type Board struct {
	ID   string
	Name string
}

// Sprint is a fixed-duration time-box. Tasks is append-only.
type Sprint struct {
	ID        string
	Name      string
	Duration  int64 // ticks
	StartTime int64 // tick the sprint was created
	EndTime   int64 // tick the sprint closed; meaningful only when Closed
	Closed    bool
	Tasks     []string // issue keys in assignment order
}

// Issue is a unit of trackable work.
//
// WorkLogged never decreases, and ActualEstimate is fixed at creation:
// BaseEstimate × Complexity × jitter, rounded to whole seconds.
type Issue struct {
	Key            string
	Project        string
	Summary        string
	Description    string
	IssueType      string
	BaseEstimate   time.Duration
	Complexity     float64
	ActualEstimate time.Duration
	WorkLogged     time.Duration
	Status         Status
	SprintHistory  []string // sprint IDs in assignment order
	CreatedAt      int64
	DoneAt         int64 // tick the issue reached DONE; meaningful only when Status is DONE
}

// Remaining returns the work still to be logged, never negative.
func (i Issue) Remaining() time.Duration {
	if i.WorkLogged >= i.ActualEstimate {
		return 0
	}
	return i.ActualEstimate - i.WorkLogged
}

// CurrentSprint returns the most recently assigned sprint ID, or "".
func (i Issue) CurrentSprint() string {
	if len(i.SprintHistory) == 0 {
		return ""
	}
	return i.SprintHistory[len(i.SprintHistory)-1]
}

func (i Issue) clone() Issue {
	i.SprintHistory = append([]string(nil), i.SprintHistory...)
	return i
}

func (s Sprint) clone() Sprint {
	s.Tasks = append([]string(nil), s.Tasks...)
	return s
}
