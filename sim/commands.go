package sim

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sprint-sim/sprint-sim/sim/trace"
	"github.com/sprint-sim/sprint-sim/sim/tracker"
)

// Commands in this file pair one gateway call with the matching Store mutation
// and trace record. The gateway is always called first, so a gateway failure
// leaves the Store untouched. Gateway calls take no simulated time.

const (
	estimateJitterLow  = 0.8
	estimateJitterHigh = 1.2
)

// IssueSpec describes an issue to create.
type IssueSpec struct {
	Project     string
	Summary     string
	Description string
	IssueType   string
	Estimate    time.Duration // base estimate, whole hours
	Complexity  float64       // multiplier applied to Estimate
}

// CreateBoard creates the run's board in the tracker and records it.
func (sim *Simulator) CreateBoard(ctx context.Context, name string) (string, error) {
	if _, ok := sim.Store.Board(); ok {
		return "", fmt.Errorf("board %q: %w", name, ErrDuplicateKey)
	}
	ref, err := sim.Gateway.CreateBoard(ctx, name)
	if err != nil {
		return "", err
	}
	if err := sim.Store.RecordBoard(Board{ID: ref.ID, Name: name}); err != nil {
		return "", err
	}
	sim.Trace.Record(sim.Clock, trace.KindBoardCreated, ref.ID, name)
	logrus.Infof("[tick %07d] Board %q created with ID %s", sim.Clock, name, ref.ID)
	return ref.ID, nil
}

// CreateSprint creates a sprint on the run's board, starting now.
func (sim *Simulator) CreateSprint(ctx context.Context, name string, duration int64) (string, error) {
	board, ok := sim.Store.Board()
	if !ok {
		return "", fmt.Errorf("creating sprint %q: %w: board must be created first", name, ErrPrecedenceViolation)
	}
	if duration < 0 {
		return "", fmt.Errorf("sprint %q: %w: duration %d", name, ErrInvalidDelay, duration)
	}
	ref, err := sim.Gateway.CreateSprint(ctx, name, board.ID)
	if err != nil {
		return "", err
	}
	sp := Sprint{ID: ref.ID, Name: name, Duration: duration, StartTime: sim.Clock}
	if err := sim.Store.RecordSprint(sp); err != nil {
		return "", err
	}
	sim.Trace.Recordf(sim.Clock, trace.KindSprintCreated, ref.ID, "name=%q duration=%d", name, duration)
	logrus.Infof("[tick %07d] Sprint %q created with ID %s", sim.Clock, name, ref.ID)
	return ref.ID, nil
}

// ValidateEstimate checks that a base estimate and complexity yield an actual
// estimate representable as a time.Duration for every jitter draw.
func ValidateEstimate(estimate time.Duration, complexity float64) error {
	if complexity < 0 || math.IsNaN(complexity) || math.IsInf(complexity, 0) {
		return fmt.Errorf("complexity must be a finite value >= 0, got %v", complexity)
	}
	if float64(estimate)*complexity*estimateJitterHigh >= math.MaxInt64 {
		return fmt.Errorf("estimate %v with complexity %v overflows the actual estimate", estimate, complexity)
	}
	return nil
}

// CreateIssue creates an issue in the tracker and records it with its jittered
// actual estimate. Each call that passes validation draws exactly one value
// from the estimate stream.
func (sim *Simulator) CreateIssue(ctx context.Context, spec IssueSpec) (string, error) {
	if _, ok := sim.Store.Board(); !ok {
		return "", fmt.Errorf("creating issue %q: %w: board must be created first", spec.Summary, ErrPrecedenceViolation)
	}
	if err := ValidateEstimate(spec.Estimate, spec.Complexity); err != nil {
		return "", fmt.Errorf("issue %q: %w", spec.Summary, err)
	}
	estimate, err := tracker.FormatEstimate(spec.Estimate)
	if err != nil {
		return "", fmt.Errorf("issue %q: %w", spec.Summary, err)
	}
	issueType := spec.IssueType
	if issueType == "" {
		issueType = "Task"
	}
	jitter := sim.RNG.ForSubsystem(SubsystemEstimate).Uniform(estimateJitterLow, estimateJitterHigh)
	actual := time.Duration(float64(spec.Estimate) * spec.Complexity * jitter).Round(time.Second)

	ref, err := sim.Gateway.CreateIssue(ctx, tracker.IssueRequest{
		Project:           spec.Project,
		Summary:           spec.Summary,
		Description:       spec.Description,
		IssueType:         issueType,
		OriginalEstimate:  estimate,
		RemainingEstimate: estimate,
	})
	if err != nil {
		return "", err
	}
	iss := Issue{
		Project:        spec.Project,
		Summary:        spec.Summary,
		Description:    spec.Description,
		IssueType:      issueType,
		BaseEstimate:   spec.Estimate,
		Complexity:     spec.Complexity,
		ActualEstimate: actual,
		Status:         StatusTodo,
		CreatedAt:      sim.Clock,
	}
	if err := sim.Store.RecordIssue(ref.Key, iss); err != nil {
		return "", err
	}
	sim.Trace.Recordf(sim.Clock, trace.KindIssueCreated, ref.Key, "summary=%q estimate=%s actual=%v", spec.Summary, estimate, actual)
	logrus.Infof("[tick %07d] Issue %q created with key %s (actual estimate %v)", sim.Clock, spec.Summary, ref.Key, actual)
	return ref.Key, nil
}

// AssignToSprint assigns issues to a sprint in the tracker and the Store.
// The keys form a set: repeats are dropped before the tracker is called.
func (sim *Simulator) AssignToSprint(ctx context.Context, sprintID string, keys ...string) error {
	keys = uniqueKeys(keys)
	if len(keys) == 0 {
		return nil
	}
	if _, err := sim.Store.Sprint(sprintID); err != nil {
		return fmt.Errorf("assigning to sprint: %w: %w", ErrPrecedenceViolation, err)
	}
	for _, key := range keys {
		if _, err := sim.Store.Issue(key); err != nil {
			return fmt.Errorf("assigning to sprint: %w: %w", ErrPrecedenceViolation, err)
		}
	}
	if err := sim.Gateway.AssignIssuesToSprint(ctx, sprintID, keys); err != nil {
		return err
	}
	if err := sim.Store.AssignToSprint(sprintID, keys...); err != nil {
		return err
	}
	for _, key := range keys {
		sim.Trace.Record(sim.Clock, trace.KindIssueAssigned, key, "sprint="+sprintID)
	}
	logrus.Infof("[tick %07d] Issues %s assigned to sprint %s", sim.Clock, strings.Join(keys, ","), sprintID)
	return nil
}

// uniqueKeys returns keys without repeats, keeping first occurrences in order.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// LogWork submits a worklog and adds it to the issue's cumulative work.
// It returns the new cumulative total.
func (sim *Simulator) LogWork(ctx context.Context, key string, work time.Duration, user string) (time.Duration, error) {
	if work < 0 {
		return 0, fmt.Errorf("issue %q: %w: %v", key, ErrNegativeWork, work)
	}
	iss, err := sim.Store.Issue(key)
	if err != nil {
		return 0, err
	}
	if iss.Status.Terminal() {
		return 0, fmt.Errorf("logging work on %s: %w: issue is %s", key, ErrPrecedenceViolation, iss.Status)
	}
	if err := sim.Gateway.AddWorklog(ctx, key, int64(work/time.Second), user); err != nil {
		return 0, err
	}
	total, err := sim.Store.AppendWork(key, work)
	if err != nil {
		return 0, err
	}
	sim.Trace.Recordf(sim.Clock, trace.KindWorkLogged, key, "spent=%v total=%v estimate=%v", work, total, iss.ActualEstimate)
	logrus.Infof("[tick %07d] Logged %.2f hours of work for issue %s", sim.Clock, work.Hours(), key)
	return total, nil
}

// Transition moves an issue to status in the tracker and the Store.
// DONE is terminal: leaving it is a precedence violation.
func (sim *Simulator) Transition(ctx context.Context, key string, status Status) error {
	iss, err := sim.Store.Issue(key)
	if err != nil {
		return err
	}
	if iss.Status.Terminal() && status != iss.Status {
		return fmt.Errorf("transitioning %s to %s: %w: issue is %s", key, status, ErrPrecedenceViolation, iss.Status)
	}
	if err := sim.Gateway.TransitionIssue(ctx, key, status.Code()); err != nil {
		return err
	}
	if err := sim.Store.UpdateStatus(key, status, sim.Clock); err != nil {
		return err
	}
	sim.Trace.Recordf(sim.Clock, trace.KindStatusChanged, key, "%s->%s code=%d", iss.Status, status, int(status.Code()))
	logrus.Infof("[tick %07d] Issue %s status updated to %s", sim.Clock, key, status)
	return nil
}
