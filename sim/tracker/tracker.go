// Package tracker defines the narrow command interface the simulation uses to
// talk to an external issue tracker, plus the wire conventions shared by every
// gateway implementation (status codes, estimate strings, search queries).
// This package has no dependencies on sim/; it stores pure data types.
package tracker

import (
	"context"
	"errors"
	"fmt"
)

// BoardRef identifies a board created in the tracker.
type BoardRef struct {
	ID string
}

// SprintRef identifies a sprint created in the tracker.
type SprintRef struct {
	ID string
}

// IssueRef identifies an issue created in the tracker.
type IssueRef struct {
	Key string
}

// IssueRequest carries the fields sent on issue creation.
// OriginalEstimate and RemainingEstimate are optional "<n>h" strings;
// empty means the field is not sent.
type IssueRequest struct {
	Project           string
	Summary           string
	Description       string
	IssueType         string
	OriginalEstimate  string
	RemainingEstimate string
}

// Gateway is the capability set consumed from the issue tracker.
// Every method returns a *GatewayError on failure.
// Implementations own their retry policy; callers never retry.
type Gateway interface {
	CreateBoard(ctx context.Context, name string) (BoardRef, error)
	CreateSprint(ctx context.Context, name string, boardID string) (SprintRef, error)
	CreateIssue(ctx context.Context, req IssueRequest) (IssueRef, error)
	AssignIssuesToSprint(ctx context.Context, sprintID string, issueKeys []string) error
	AddWorklog(ctx context.Context, issueKey string, secondsSpent int64, user string) error
	TransitionIssue(ctx context.Context, issueKey string, code StatusCode) error
	SearchIssues(ctx context.Context, query string) ([]IssueRef, error)
}

// ErrNotFound is the cause reported when a referenced board, sprint or issue
// does not exist in the tracker.
var ErrNotFound = errors.New("not found")

// GatewayError reports a failed tracker operation.
type GatewayError struct {
	Op    string // gateway method, e.g. "add_worklog"
	Cause error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("tracker %s: %v", e.Op, e.Cause)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// Wrap returns err as a *GatewayError for op. Nil stays nil and an error that
// already is a *GatewayError is returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ge *GatewayError
	if errors.As(err, &ge) {
		return err
	}
	return &GatewayError{Op: op, Cause: err}
}

// Gateway operation names, used as GatewayError.Op.
const (
	OpCreateBoard     = "create_board"
	OpCreateSprint    = "create_sprint"
	OpCreateIssue     = "create_issue"
	OpAssignToSprint  = "assign_issues_to_sprint"
	OpAddWorklog      = "add_worklog"
	OpTransitionIssue = "transition_issue"
	OpSearchIssues    = "search_issues"
)
