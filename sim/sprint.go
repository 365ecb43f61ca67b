package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sprint-sim/sprint-sim/sim/trace"
)

type sprintPhase int

const (
	sprintPending sprintPhase = iota // sprint not yet created
	sprintOpen                       // waiting out the duration
)

// SprintProcess models one sprint's scheduled existence: it creates the sprint,
// assigns any carried-over issues, waits out the duration, closes the sprint
// and, when carry-over is enabled, hands incomplete issues to a successor.
type SprintProcess struct {
	BaseName   string   // name of the first sprint in the carry-over chain
	Duration   int64    // ticks
	Carried    []string // issues to assign on creation
	Generation int      // 0 for a planned sprint, n for the n-th carry-over successor

	phase    sprintPhase
	sprintID string
}

// NewSprintProcess creates the process for a planned sprint.
func NewSprintProcess(name string, duration int64) *SprintProcess {
	return &SprintProcess{BaseName: name, Duration: duration}
}

// SprintName returns the sprint's display name.
func (p *SprintProcess) SprintName() string {
	if p.Generation == 0 {
		return p.BaseName
	}
	return fmt.Sprintf("%s (carry-over %d)", p.BaseName, p.Generation)
}

// Name implements Process.
func (p *SprintProcess) Name() string {
	return "sprint:" + p.SprintName()
}

// SprintID returns the tracker ID once the sprint exists, or "".
func (p *SprintProcess) SprintID() string {
	return p.sprintID
}

// Resume implements Process.
func (p *SprintProcess) Resume(ctx context.Context, sim *Simulator) Yield {
	switch p.phase {
	case sprintPending:
		id, err := sim.CreateSprint(ctx, p.SprintName(), p.Duration)
		if err != nil {
			return Fail(err)
		}
		p.sprintID = id
		if err := sim.AssignToSprint(ctx, id, p.Carried...); err != nil {
			return Fail(err)
		}
		p.phase = sprintOpen
		return Wait(p.Duration)
	default:
		return p.close(ctx, sim)
	}
}

func (p *SprintProcess) close(ctx context.Context, sim *Simulator) Yield {
	if err := sim.Store.CloseSprint(p.sprintID, sim.Clock); err != nil {
		return Fail(err)
	}
	incomplete, err := sim.Store.IncompleteIssues(p.sprintID)
	if err != nil {
		return Fail(err)
	}
	sim.Trace.Recordf(sim.Clock, trace.KindSprintClosed, p.sprintID, "name=%q incomplete=%d", p.SprintName(), len(incomplete))
	logrus.Infof("[tick %07d] Sprint %q completed with %d incomplete issues", sim.Clock, p.SprintName(), len(incomplete))

	if !sim.Config.CarryOver || len(incomplete) == 0 {
		return Exit()
	}
	// a zero-length successor would close in the same tick, before any work
	if p.Duration == 0 {
		sim.Trace.Recordf(sim.Clock, trace.KindCarryOverLimit, p.sprintID, "duration=0 stranded=%d", len(incomplete))
		logrus.Warnf("[tick %07d] Zero-length sprint %q cannot carry over %d issues", sim.Clock, p.SprintName(), len(incomplete))
		return Exit()
	}
	if !sim.Config.canCreateSprint(sim.Store.SprintCount()) {
		sim.Trace.Recordf(sim.Clock, trace.KindCarryOverLimit, p.sprintID, "max_sprints=%d stranded=%d", sim.Config.MaxSprints, len(incomplete))
		logrus.Warnf("[tick %07d] Sprint budget of %d exhausted; %d issues left in %q", sim.Clock, sim.Config.MaxSprints, len(incomplete), p.SprintName())
		return Exit()
	}
	for _, key := range incomplete {
		sim.Trace.Record(sim.Clock, trace.KindCarryOver, key, "from="+p.sprintID)
	}
	sim.Spawn(ctx, &SprintProcess{
		BaseName:   p.BaseName,
		Duration:   p.Duration,
		Carried:    incomplete,
		Generation: p.Generation + 1,
	})
	return Exit()
}
