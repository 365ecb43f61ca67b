// Package memtracker is an in-process issue tracker implementing
// tracker.Gateway. It is the default gateway for dry runs and tests.
package memtracker

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sprint-sim/sprint-sim/sim/tracker"
)

// namespace scopes the name-based board and sprint IDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("sprint-sim/memtracker"))

// Worklog is one accepted worklog submission.
type Worklog struct {
	IssueKey     string
	SecondsSpent int64
	User         string
}

// Transition is one accepted status transition.
type Transition struct {
	IssueKey string
	Code     tracker.StatusCode
}

type board struct {
	id   string
	name string
}

type sprint struct {
	id      string
	name    string
	boardID string
	issues  []string
}

type issue struct {
	key       string
	req       tracker.IssueRequest
	status    tracker.StatusCode
	sprints   []string
	timeSpent int64
}

// Tracker holds boards, sprints and issues in memory.
// IDs are derived from creation order, so two trackers fed the same command
// sequence hand out the same IDs.
type Tracker struct {
	mu          sync.Mutex
	boards      map[string]*board
	sprints     map[string]*sprint
	issues      map[string]*issue
	issueOrder  []string
	projectSeq  map[string]int
	created     int
	worklogs    []Worklog
	transitions []Transition
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		boards:     make(map[string]*board),
		sprints:    make(map[string]*sprint),
		issues:     make(map[string]*issue),
		projectSeq: make(map[string]int),
	}
}

var _ tracker.Gateway = (*Tracker)(nil)

func (t *Tracker) nextID(kind, name string) string {
	t.created++
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s|%d|%s", kind, t.created, name))).String()
}

// CreateBoard implements tracker.Gateway.
func (t *Tracker) CreateBoard(ctx context.Context, name string) (tracker.BoardRef, error) {
	if err := ctx.Err(); err != nil {
		return tracker.BoardRef{}, tracker.Wrap(tracker.OpCreateBoard, err)
	}
	if strings.TrimSpace(name) == "" {
		return tracker.BoardRef{}, tracker.Wrap(tracker.OpCreateBoard, fmt.Errorf("board name must not be empty"))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	b := &board{id: t.nextID("board", name), name: name}
	t.boards[b.id] = b
	return tracker.BoardRef{ID: b.id}, nil
}

// CreateSprint implements tracker.Gateway.
func (t *Tracker) CreateSprint(ctx context.Context, name string, boardID string) (tracker.SprintRef, error) {
	if err := ctx.Err(); err != nil {
		return tracker.SprintRef{}, tracker.Wrap(tracker.OpCreateSprint, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.boards[boardID]; !ok {
		return tracker.SprintRef{}, tracker.Wrap(tracker.OpCreateSprint, fmt.Errorf("board %q: %w", boardID, tracker.ErrNotFound))
	}
	s := &sprint{id: t.nextID("sprint", name), name: name, boardID: boardID}
	t.sprints[s.id] = s
	return tracker.SprintRef{ID: s.id}, nil
}

// CreateIssue assigns the next PROJECT-n key.
func (t *Tracker) CreateIssue(ctx context.Context, req tracker.IssueRequest) (tracker.IssueRef, error) {
	if err := ctx.Err(); err != nil {
		return tracker.IssueRef{}, tracker.Wrap(tracker.OpCreateIssue, err)
	}
	if req.Project == "" {
		return tracker.IssueRef{}, tracker.Wrap(tracker.OpCreateIssue, fmt.Errorf("project must not be empty"))
	}
	for _, est := range []string{req.OriginalEstimate, req.RemainingEstimate} {
		if est == "" {
			continue
		}
		if _, err := tracker.ParseEstimate(est); err != nil {
			return tracker.IssueRef{}, tracker.Wrap(tracker.OpCreateIssue, err)
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.projectSeq[req.Project]++
	key := fmt.Sprintf("%s-%d", req.Project, t.projectSeq[req.Project])
	t.issues[key] = &issue{key: key, req: req, status: tracker.CodeTodo}
	t.issueOrder = append(t.issueOrder, key)
	return tracker.IssueRef{Key: key}, nil
}

// AssignIssuesToSprint adds issues to a sprint. Issues the sprint already holds
// are skipped, so repeated assignment is idempotent.
func (t *Tracker) AssignIssuesToSprint(ctx context.Context, sprintID string, issueKeys []string) error {
	if err := ctx.Err(); err != nil {
		return tracker.Wrap(tracker.OpAssignToSprint, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sprints[sprintID]
	if !ok {
		return tracker.Wrap(tracker.OpAssignToSprint, fmt.Errorf("sprint %q: %w", sprintID, tracker.ErrNotFound))
	}
	for _, key := range issueKeys {
		if _, ok := t.issues[key]; !ok {
			return tracker.Wrap(tracker.OpAssignToSprint, fmt.Errorf("issue %q: %w", key, tracker.ErrNotFound))
		}
	}
	for _, key := range issueKeys {
		if slices.Contains(s.issues, key) {
			continue
		}
		iss := t.issues[key]
		iss.sprints = append(iss.sprints, sprintID)
		s.issues = append(s.issues, key)
	}
	return nil
}

// AddWorklog implements tracker.Gateway.
func (t *Tracker) AddWorklog(ctx context.Context, issueKey string, secondsSpent int64, user string) error {
	if err := ctx.Err(); err != nil {
		return tracker.Wrap(tracker.OpAddWorklog, err)
	}
	if secondsSpent <= 0 {
		return tracker.Wrap(tracker.OpAddWorklog, fmt.Errorf("seconds spent must be positive, got %d", secondsSpent))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	iss, ok := t.issues[issueKey]
	if !ok {
		return tracker.Wrap(tracker.OpAddWorklog, fmt.Errorf("issue %q: %w", issueKey, tracker.ErrNotFound))
	}
	iss.timeSpent += secondsSpent
	t.worklogs = append(t.worklogs, Worklog{IssueKey: issueKey, SecondsSpent: secondsSpent, User: user})
	return nil
}

// TransitionIssue implements tracker.Gateway.
func (t *Tracker) TransitionIssue(ctx context.Context, issueKey string, code tracker.StatusCode) error {
	if err := ctx.Err(); err != nil {
		return tracker.Wrap(tracker.OpTransitionIssue, err)
	}
	if !code.Valid() {
		return tracker.Wrap(tracker.OpTransitionIssue, fmt.Errorf("unknown transition %s", code))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	iss, ok := t.issues[issueKey]
	if !ok {
		return tracker.Wrap(tracker.OpTransitionIssue, fmt.Errorf("issue %q: %w", issueKey, tracker.ErrNotFound))
	}
	iss.status = code
	t.transitions = append(t.transitions, Transition{IssueKey: issueKey, Code: code})
	return nil
}

// SearchIssues returns matching issues in creation order.
func (t *Tracker) SearchIssues(ctx context.Context, query string) ([]tracker.IssueRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, tracker.Wrap(tracker.OpSearchIssues, err)
	}
	q, err := tracker.ParseQuery(query)
	if err != nil {
		return nil, tracker.Wrap(tracker.OpSearchIssues, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	refs := make([]tracker.IssueRef, 0)
	for _, key := range t.issueOrder {
		iss := t.issues[key]
		view := tracker.IssueView{
			Key:     iss.key,
			Project: iss.req.Project,
			Status:  iss.status,
			Sprints: iss.sprints,
		}
		if q.Matches(view) {
			refs = append(refs, tracker.IssueRef{Key: key})
		}
	}
	return refs, nil
}

// Worklogs returns a copy of every accepted worklog in submission order.
func (t *Tracker) Worklogs() []Worklog {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Worklog(nil), t.worklogs...)
}

// Transitions returns a copy of every accepted transition in order.
func (t *Tracker) Transitions() []Transition {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Transition(nil), t.transitions...)
}

// TimeSpent returns the total seconds logged against an issue.
func (t *Tracker) TimeSpent(issueKey string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if iss, ok := t.issues[issueKey]; ok {
		return iss.timeSpent
	}
	return 0
}

// SprintIssues returns the keys assigned to a sprint, sorted.
func (t *Tracker) SprintIssues(sprintID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sprints[sprintID]
	if !ok {
		return nil
	}
	keys := append([]string(nil), s.issues...)
	sort.Strings(keys)
	return keys
}
