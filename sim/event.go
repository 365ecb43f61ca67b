package sim

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in ticks) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(ctx context.Context, sim *Simulator)
}

// ResumeEvent wakes a suspended process at the end of its timed wait.
type ResumeEvent struct {
	time int64     // tick the process asked to be resumed at
	PID  ProcessID // process to resume
}

// Timestamp returns the scheduled time of the ResumeEvent.
func (e *ResumeEvent) Timestamp() int64 {
	return e.time
}

// Execute runs the process's next step.
func (e *ResumeEvent) Execute(ctx context.Context, sim *Simulator) {
	logrus.Debugf("<< Resume: process %d at %d ticks", e.PID, e.time)
	sim.step(ctx, e.PID)
}
