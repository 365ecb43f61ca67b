package sim

import (
	"context"
	"fmt"
	"time"
)

// Plan is the initial shape of a simulation: the board, the planned sprints
// and the issues with their work parameters.
type Plan struct {
	Board   string
	Sprints []SprintPlan
	Issues  []IssuePlan
}

// SprintPlan describes a sprint created at the start of the run.
type SprintPlan struct {
	Name     string
	Duration int64
}

// IssuePlan describes an issue, the sprint it starts in ("" for backlog) and
// how work is logged against it.
type IssuePlan struct {
	IssueSpec
	Sprint       string
	Interval     int64
	MaxPerPeriod time.Duration
	TestingDelay int64
	User         string
}

// SetupProcess builds the initial state in a single step at tick 0: it
// creates the board, spawns one SprintProcess per planned sprint, creates and
// assigns each issue, then spawns one WorkLogProcess per issue.
type SetupProcess struct {
	Plan Plan

	// Sprints maps planned sprint names to their processes once spawned.
	Sprints map[string]*SprintProcess
	// Keys holds the tracker key of each created issue, in plan order.
	Keys []string
}

// NewSetupProcess creates the setup process for plan.
func NewSetupProcess(plan Plan) *SetupProcess {
	return &SetupProcess{Plan: plan, Sprints: make(map[string]*SprintProcess)}
}

// Name implements Process.
func (p *SetupProcess) Name() string {
	return "setup"
}

// Resume implements Process.
func (p *SetupProcess) Resume(ctx context.Context, sim *Simulator) Yield {
	if _, err := sim.CreateBoard(ctx, p.Plan.Board); err != nil {
		return Fail(err)
	}
	for _, sp := range p.Plan.Sprints {
		proc := NewSprintProcess(sp.Name, sp.Duration)
		p.Sprints[sp.Name] = proc
		sim.Spawn(ctx, proc)
	}
	workers := make([]*WorkLogProcess, 0, len(p.Plan.Issues))
	for _, ip := range p.Plan.Issues {
		w, err := NewWorkLogProcess("", ip.Interval, ip.MaxPerPeriod)
		if err != nil {
			return Fail(fmt.Errorf("issue %q: %w", ip.Summary, err))
		}
		key, err := sim.CreateIssue(ctx, ip.IssueSpec)
		if err != nil {
			return Fail(err)
		}
		p.Keys = append(p.Keys, key)
		if ip.Sprint != "" {
			proc, ok := p.Sprints[ip.Sprint]
			if !ok || proc.SprintID() == "" {
				return Fail(fmt.Errorf("issue %s: sprint %q: %w: sprint was not created", key, ip.Sprint, ErrPrecedenceViolation))
			}
			if err := sim.AssignToSprint(ctx, proc.SprintID(), key); err != nil {
				return Fail(err)
			}
		}
		w.IssueKey = key
		w.TestingDelay = ip.TestingDelay
		w.User = ip.User
		workers = append(workers, w)
	}
	for _, w := range workers {
		sim.Spawn(ctx, w)
	}
	return Exit()
}

// Load spawns the setup process for plan at the current tick.
func (sim *Simulator) Load(ctx context.Context, plan Plan) *SetupProcess {
	p := NewSetupProcess(plan)
	sim.Spawn(ctx, p)
	return p
}
