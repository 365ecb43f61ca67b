package scenario

import (
	"context"
	"fmt"

	"github.com/sprint-sim/sprint-sim/sim"
	"github.com/sprint-sim/sprint-sim/sim/tracker"
)

// Run builds a simulator for spec against gw, loads the plan and runs it to
// completion. The simulator is returned even when Run fails, so callers can
// inspect partial state.
func Run(ctx context.Context, spec *Spec, gw tracker.Gateway) (*sim.Simulator, error) {
	plan, err := spec.Plan()
	if err != nil {
		return nil, err
	}
	s, err := sim.NewSimulator(spec.Config(), gw)
	if err != nil {
		return nil, fmt.Errorf("creating simulator: %w", err)
	}
	s.Load(ctx, plan)
	if err := s.Run(ctx); err != nil {
		return s, fmt.Errorf("running scenario: %w", err)
	}
	return s, nil
}
