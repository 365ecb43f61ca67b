package sim

import (
	"fmt"
	"time"
)

// Store is the in-memory record of one run's board, sprints and issues.
// Getters return copies; all mutation goes through Store methods.
//
// Thread-safety: NOT thread-safe. Only the active process step may call it.
type Store struct {
	board       *Board
	sprints     map[string]*Sprint
	sprintOrder []string
	issues      map[string]*Issue
	issueOrder  []string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		sprints: make(map[string]*Sprint),
		issues:  make(map[string]*Issue),
	}
}

// RecordBoard stores the run's board. A second board is a duplicate.
func (s *Store) RecordBoard(b Board) error {
	if s.board != nil {
		return fmt.Errorf("board %q: %w", b.ID, ErrDuplicateKey)
	}
	s.board = &b
	return nil
}

// Board returns the run's board, if one was recorded.
func (s *Store) Board() (Board, bool) {
	if s.board == nil {
		return Board{}, false
	}
	return *s.board, true
}

// RecordSprint stores a new sprint.
func (s *Store) RecordSprint(sp Sprint) error {
	if _, ok := s.sprints[sp.ID]; ok {
		return fmt.Errorf("sprint %q: %w", sp.ID, ErrDuplicateKey)
	}
	sp = sp.clone()
	s.sprints[sp.ID] = &sp
	s.sprintOrder = append(s.sprintOrder, sp.ID)
	return nil
}

// Sprint returns a copy of the sprint.
func (s *Store) Sprint(id string) (Sprint, error) {
	sp, ok := s.sprints[id]
	if !ok {
		return Sprint{}, fmt.Errorf("sprint %q: %w", id, ErrUnknownSprint)
	}
	return sp.clone(), nil
}

// CloseSprint marks the sprint window closed at now.
func (s *Store) CloseSprint(id string, now int64) error {
	sp, ok := s.sprints[id]
	if !ok {
		return fmt.Errorf("sprint %q: %w", id, ErrUnknownSprint)
	}
	sp.Closed = true
	sp.EndTime = now
	return nil
}

// Sprints returns copies of all sprints in creation order.
func (s *Store) Sprints() []Sprint {
	out := make([]Sprint, 0, len(s.sprintOrder))
	for _, id := range s.sprintOrder {
		out = append(out, s.sprints[id].clone())
	}
	return out
}

// SprintCount returns the number of sprints recorded so far.
func (s *Store) SprintCount() int {
	return len(s.sprintOrder)
}

// RecordIssue stores a new issue under key.
func (s *Store) RecordIssue(key string, initial Issue) error {
	if _, ok := s.issues[key]; ok {
		return fmt.Errorf("issue %q: %w", key, ErrDuplicateKey)
	}
	if initial.WorkLogged < 0 {
		return fmt.Errorf("issue %q: %w: %v", key, ErrNegativeWork, initial.WorkLogged)
	}
	initial = initial.clone()
	initial.Key = key
	s.issues[key] = &initial
	s.issueOrder = append(s.issueOrder, key)
	return nil
}

// Issue returns a copy of the issue.
func (s *Store) Issue(key string) (Issue, error) {
	iss, ok := s.issues[key]
	if !ok {
		return Issue{}, fmt.Errorf("issue %q: %w", key, ErrUnknownIssue)
	}
	return iss.clone(), nil
}

// Issues returns copies of all issues in creation order.
func (s *Store) Issues() []Issue {
	out := make([]Issue, 0, len(s.issueOrder))
	for _, key := range s.issueOrder {
		out = append(out, s.issues[key].clone())
	}
	return out
}

// UpdateStatus sets the issue's status. DoneAt is stamped with now when the
// issue becomes DONE.
func (s *Store) UpdateStatus(key string, status Status, now int64) error {
	iss, ok := s.issues[key]
	if !ok {
		return fmt.Errorf("issue %q: %w", key, ErrUnknownIssue)
	}
	iss.Status = status
	if status == StatusDone {
		iss.DoneAt = now
	}
	return nil
}

// AppendWork adds work to the issue's cumulative total and returns the new total.
func (s *Store) AppendWork(key string, work time.Duration) (time.Duration, error) {
	if work < 0 {
		return 0, fmt.Errorf("issue %q: %w: %v", key, ErrNegativeWork, work)
	}
	iss, ok := s.issues[key]
	if !ok {
		return 0, fmt.Errorf("issue %q: %w", key, ErrUnknownIssue)
	}
	iss.WorkLogged += work
	return iss.WorkLogged, nil
}

// AssignToSprint appends the issues to the sprint's task list and the sprint
// to each issue's history. Every key is checked before anything is mutated.
// Keys the sprint already holds, or that repeat, are skipped.
func (s *Store) AssignToSprint(sprintID string, keys ...string) error {
	sp, ok := s.sprints[sprintID]
	if !ok {
		return fmt.Errorf("sprint %q: %w", sprintID, ErrUnknownSprint)
	}
	for _, key := range keys {
		if _, ok := s.issues[key]; !ok {
			return fmt.Errorf("issue %q: %w", key, ErrUnknownIssue)
		}
	}
	held := make(map[string]bool, len(sp.Tasks)+len(keys))
	for _, key := range sp.Tasks {
		held[key] = true
	}
	for _, key := range keys {
		if held[key] {
			continue
		}
		held[key] = true
		iss := s.issues[key]
		iss.SprintHistory = append(iss.SprintHistory, sprintID)
		sp.Tasks = append(sp.Tasks, key)
	}
	return nil
}

// IncompleteIssues returns the keys of the sprint's tasks that are not DONE and
// whose current sprint is still sprintID, in assignment order.
func (s *Store) IncompleteIssues(sprintID string) ([]string, error) {
	sp, ok := s.sprints[sprintID]
	if !ok {
		return nil, fmt.Errorf("sprint %q: %w", sprintID, ErrUnknownSprint)
	}
	var keys []string
	for _, key := range sp.Tasks {
		iss := s.issues[key]
		if iss.Status.Terminal() || iss.CurrentSprint() != sprintID {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}
