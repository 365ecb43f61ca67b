package sim

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sprint-sim/sprint-sim/sim/trace"
	"github.com/sprint-sim/sprint-sim/sim/tracker"
	"github.com/sprint-sim/sprint-sim/sim/tracker/memtracker"
)

// newTestSimulator creates a simulator backed by a fresh in-memory tracker.
func newTestSimulator(t *testing.T, cfg Config) (*Simulator, *memtracker.Tracker) {
	t.Helper()
	mt := memtracker.New()
	s, err := NewSimulator(cfg, mt)
	require.NoError(t, err)
	return s, mt
}

// newSimulatorWithGateway creates a simulator backed by gw.
func newSimulatorWithGateway(t *testing.T, cfg Config, gw tracker.Gateway) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg, gw)
	require.NoError(t, err)
	return s
}

// runPlan loads plan into s and runs to completion.
func runPlan(t *testing.T, s *Simulator, plan Plan) *SetupProcess {
	t.Helper()
	setup := s.Load(context.Background(), plan)
	require.NoError(t, s.Run(context.Background()))
	return setup
}

// issuePlan returns an issue plan in project MS with the given work parameters.
func issuePlan(summary string, estimateHours int, maxPerPeriodHours int, interval int64, sprint string) IssuePlan {
	return IssuePlan{
		IssueSpec: IssueSpec{
			Project:    "MS",
			Summary:    summary,
			IssueType:  "Task",
			Estimate:   time.Duration(estimateHours) * time.Hour,
			Complexity: 1.0,
		},
		Sprint:       sprint,
		Interval:     interval,
		MaxPerPeriod: time.Duration(maxPerPeriodHours) * time.Hour,
	}
}

// doneIndex returns the position of the issue's transition to DONE in the
// trace, or -1.
func doneIndex(st *trace.SimulationTrace, key string) int {
	for i, r := range st.Records {
		if r.Kind == trace.KindStatusChanged && r.Entity == key && strings.Contains(r.Payload, "->DONE") {
			return i
		}
	}
	return -1
}

// recordingProcess waits for each delay in turn and records every resume.
type recordingProcess struct {
	name   string
	delays []int64
	log    *[]string
	times  []int64
}

func (p *recordingProcess) Name() string { return p.name }

func (p *recordingProcess) Resume(_ context.Context, sim *Simulator) Yield {
	*p.log = append(*p.log, p.name)
	p.times = append(p.times, sim.Clock)
	if len(p.delays) == 0 {
		return Exit()
	}
	d := p.delays[0]
	p.delays = p.delays[1:]
	return Wait(d)
}
