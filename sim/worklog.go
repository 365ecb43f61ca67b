package sim

import (
	"context"
	"fmt"
	"time"
)

const (
	productivityLow  = 0.7
	productivityHigh = 1.3
)

type worklogPhase int

const (
	worklogStart   worklogPhase = iota // first step, nothing logged yet
	worklogWaiting                     // woke at the end of a logging interval
	worklogTesting                     // woke at the end of the testing delay
)

// WorkLogProcess drives one issue from TODO to DONE. Every Interval ticks it
// logs min(MaxPerPeriod, remaining) scaled by a productivity draw, clamped so
// the cumulative total never passes the actual estimate. The first worklog
// moves the issue to PROGRESS. Once the estimate is exhausted the issue goes
// to DONE, through TESTING for TestingDelay ticks when TestingDelay > 0.
type WorkLogProcess struct {
	IssueKey     string
	Interval     int64
	MaxPerPeriod time.Duration
	TestingDelay int64
	User         string

	phase worklogPhase
}

// NewWorkLogProcess validates the parameters and creates the process.
func NewWorkLogProcess(key string, interval int64, maxPerPeriod time.Duration) (*WorkLogProcess, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("worklog %s: interval must be > 0, got %d", key, interval)
	}
	if maxPerPeriod < time.Second {
		return nil, fmt.Errorf("worklog %s: max per period must be >= 1s, got %v", key, maxPerPeriod)
	}
	return &WorkLogProcess{IssueKey: key, Interval: interval, MaxPerPeriod: maxPerPeriod}, nil
}

// Name implements Process.
func (p *WorkLogProcess) Name() string {
	return "worklog:" + p.IssueKey
}

// Resume implements Process.
func (p *WorkLogProcess) Resume(ctx context.Context, sim *Simulator) Yield {
	iss, err := sim.Store.Issue(p.IssueKey)
	if err != nil {
		return Fail(err)
	}
	switch p.phase {
	case worklogTesting:
		if err := sim.Transition(ctx, p.IssueKey, StatusDone); err != nil {
			return Fail(err)
		}
		return Exit()
	case worklogWaiting:
		if iss.Status.Terminal() {
			return Exit()
		}
		if iss, err = p.logPeriod(ctx, sim, iss); err != nil {
			return Fail(err)
		}
	}
	if iss.Status.Terminal() {
		return Exit()
	}
	if iss.WorkLogged >= iss.ActualEstimate {
		return p.finish(ctx, sim)
	}
	p.phase = worklogWaiting
	return Wait(p.Interval)
}

// logPeriod logs one interval's work and returns the refreshed issue.
func (p *WorkLogProcess) logPeriod(ctx context.Context, sim *Simulator, iss Issue) (Issue, error) {
	remaining := iss.Remaining()
	planned := min(p.MaxPerPeriod, remaining)
	factor := sim.RNG.ForSubsystem(SubsystemProductivity).Uniform(productivityLow, productivityHigh)
	effective := time.Duration(float64(planned) * factor).Round(time.Second)
	// the tracker counts whole seconds; always make progress, never overshoot
	effective = min(max(effective, time.Second), remaining)

	if iss.Status == StatusTodo {
		if err := sim.Transition(ctx, p.IssueKey, StatusProgress); err != nil {
			return iss, err
		}
	}
	if _, err := sim.LogWork(ctx, p.IssueKey, effective, p.User); err != nil {
		return iss, err
	}
	return sim.Store.Issue(p.IssueKey)
}

func (p *WorkLogProcess) finish(ctx context.Context, sim *Simulator) Yield {
	if p.TestingDelay > 0 {
		if err := sim.Transition(ctx, p.IssueKey, StatusTesting); err != nil {
			return Fail(err)
		}
		p.phase = worklogTesting
		return Wait(p.TestingDelay)
	}
	if err := sim.Transition(ctx, p.IssueKey, StatusDone); err != nil {
		return Fail(err)
	}
	return Exit()
}
