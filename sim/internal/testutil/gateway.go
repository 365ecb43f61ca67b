// Package testutil provides shared test infrastructure for the sprint-sim
// packages: gateway fault injection and float assertions.
package testutil

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/sprint-sim/sprint-sim/sim/tracker"
)

// ErrInjected is the cause carried by every injected gateway failure.
var ErrInjected = errors.New("injected failure")

// FaultyGateway wraps a Gateway and fails selected calls.
// A rule matches on operation name and, when set, on the issue key.
type FaultyGateway struct {
	tracker.Gateway

	mu    sync.Mutex
	rules []faultRule
	calls map[string]int
}

type faultRule struct {
	op       string
	issueKey string // "" matches any issue
	after    int    // number of matching calls allowed through first
	seen     int
}

// NewFaultyGateway wraps gw with no faults configured.
func NewFaultyGateway(gw tracker.Gateway) *FaultyGateway {
	return &FaultyGateway{Gateway: gw, calls: make(map[string]int)}
}

// FailOn makes op fail for issueKey ("" for any) once `after` matching calls
// have succeeded.
func (g *FaultyGateway) FailOn(op, issueKey string, after int) *FaultyGateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rules = append(g.rules, faultRule{op: op, issueKey: issueKey, after: after})
	return g
}

// Calls returns how many times op was invoked, failed calls included.
func (g *FaultyGateway) Calls(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *FaultyGateway) check(op, issueKey string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[op]++
	for i := range g.rules {
		r := &g.rules[i]
		if r.op != op || (r.issueKey != "" && r.issueKey != issueKey) {
			continue
		}
		r.seen++
		if r.seen > r.after {
			return &tracker.GatewayError{Op: op, Cause: ErrInjected}
		}
	}
	return nil
}

func (g *FaultyGateway) CreateBoard(ctx context.Context, name string) (tracker.BoardRef, error) {
	if err := g.check(tracker.OpCreateBoard, ""); err != nil {
		return tracker.BoardRef{}, err
	}
	return g.Gateway.CreateBoard(ctx, name)
}

func (g *FaultyGateway) CreateSprint(ctx context.Context, name string, boardID string) (tracker.SprintRef, error) {
	if err := g.check(tracker.OpCreateSprint, ""); err != nil {
		return tracker.SprintRef{}, err
	}
	return g.Gateway.CreateSprint(ctx, name, boardID)
}

func (g *FaultyGateway) CreateIssue(ctx context.Context, req tracker.IssueRequest) (tracker.IssueRef, error) {
	if err := g.check(tracker.OpCreateIssue, ""); err != nil {
		return tracker.IssueRef{}, err
	}
	return g.Gateway.CreateIssue(ctx, req)
}

func (g *FaultyGateway) AssignIssuesToSprint(ctx context.Context, sprintID string, issueKeys []string) error {
	key := ""
	if len(issueKeys) == 1 {
		key = issueKeys[0]
	}
	if err := g.check(tracker.OpAssignToSprint, key); err != nil {
		return err
	}
	return g.Gateway.AssignIssuesToSprint(ctx, sprintID, issueKeys)
}

func (g *FaultyGateway) AddWorklog(ctx context.Context, issueKey string, secondsSpent int64, user string) error {
	if err := g.check(tracker.OpAddWorklog, issueKey); err != nil {
		return err
	}
	return g.Gateway.AddWorklog(ctx, issueKey, secondsSpent, user)
}

func (g *FaultyGateway) TransitionIssue(ctx context.Context, issueKey string, code tracker.StatusCode) error {
	if err := g.check(tracker.OpTransitionIssue, issueKey); err != nil {
		return err
	}
	return g.Gateway.TransitionIssue(ctx, issueKey, code)
}

func (g *FaultyGateway) SearchIssues(ctx context.Context, query string) ([]tracker.IssueRef, error) {
	if err := g.check(tracker.OpSearchIssues, ""); err != nil {
		return nil, err
	}
	return g.Gateway.SearchIssues(ctx, query)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
