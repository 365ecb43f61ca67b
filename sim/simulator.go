package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/sprint-sim/sprint-sim/sim/trace"
	"github.com/sprint-sim/sprint-sim/sim/tracker"
)

// Simulator is the context object for one simulation run: it holds the virtual
// clock, the event queue, the process table, the domain store, the random
// source, the tracker gateway and the trace. Nothing is shared between runs.
//
// Scheduling is single-threaded and cooperative. Exactly one process step runs
// at a time and no step may be interleaved with another, so neither the Store
// nor the RNG needs locking. A Simulator must not be driven from more than one
// goroutine.
type Simulator struct {
	// Clock is the current tick; only the event loop advances it.
	Clock      int64
	Config     Config
	EventQueue *EventQueue
	Store      *Store
	RNG        *PartitionedRNG
	Gateway    tracker.Gateway
	Trace      *trace.SimulationTrace

	processes map[ProcessID]Process
	nextPID   ProcessID
	failures  []ProcessFailure
	steps     int
}

// NewSimulator creates a simulator at tick 0 that talks to gw.
func NewSimulator(cfg Config, gw tracker.Gateway) (*Simulator, error) {
	if gw == nil {
		return nil, errors.New("tracker gateway must not be nil")
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = math.MaxInt64
	}
	if cfg.MaxSprints < 0 {
		return nil, fmt.Errorf("max sprints must be >= 0, got %d", cfg.MaxSprints)
	}
	return &Simulator{
		Clock:      0,
		Config:     cfg,
		EventQueue: NewEventQueue(),
		Store:      NewStore(),
		RNG:        NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		Gateway:    gw,
		Trace:      trace.NewSimulationTrace(),
		processes:  make(map[ProcessID]Process),
	}, nil
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	sim.EventQueue.Schedule(ev)
}

// ScheduleAfter registers a wake-up for pid at Clock+delay. A negative delay is
// rejected with ErrInvalidDelay and leaves the queue untouched.
func (sim *Simulator) ScheduleAfter(delay int64, pid ProcessID) error {
	if delay < 0 {
		return fmt.Errorf("%w: %d ticks", ErrInvalidDelay, delay)
	}
	if delay > math.MaxInt64-sim.Clock {
		return fmt.Errorf("%w: %d ticks overflows the clock", ErrInvalidDelay, delay)
	}
	sim.Schedule(&ResumeEvent{time: sim.Clock + delay, PID: pid})
	return nil
}

// Spawn registers p and runs it up to its first suspension point before
// returning, without going through the event queue.
func (sim *Simulator) Spawn(ctx context.Context, p Process) ProcessID {
	sim.nextPID++
	pid := sim.nextPID
	sim.processes[pid] = p
	sim.Trace.Recordf(sim.Clock, trace.KindProcessSpawned, p.Name(), "pid=%d", pid)
	sim.step(ctx, pid)
	return pid
}

// step resumes one process and applies its Yield.
func (sim *Simulator) step(ctx context.Context, pid ProcessID) {
	p, ok := sim.processes[pid]
	if !ok {
		logrus.Warnf("[tick %07d] resume for unknown process %d ignored", sim.Clock, pid)
		return
	}
	sim.steps++
	y := p.Resume(ctx, sim)
	switch y.kind {
	case yieldWait:
		if err := sim.ScheduleAfter(y.delay, pid); err != nil {
			sim.fail(pid, p, err)
		}
	case yieldExit:
		delete(sim.processes, pid)
		sim.Trace.Recordf(sim.Clock, trace.KindProcessExited, p.Name(), "pid=%d", pid)
	case yieldFail:
		sim.fail(pid, p, y.err)
	}
}

func (sim *Simulator) fail(pid ProcessID, p Process, err error) {
	delete(sim.processes, pid)
	f := ProcessFailure{PID: pid, Name: p.Name(), Time: sim.Clock, Err: err}
	sim.failures = append(sim.failures, f)
	sim.Trace.Record(sim.Clock, trace.KindProcessFailed, p.Name(), err.Error())
	logrus.Warnf("[tick %07d] %v", sim.Clock, f)
}

// Run executes events until the queue is empty or the horizon is crossed.
// Process failures do not stop the run; they are available from Failures.
// Run returns ctx.Err() if the context is cancelled between events.
func (sim *Simulator) Run(ctx context.Context) error {
	for sim.EventQueue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sim.EventQueue.Peek().Timestamp() > sim.Config.Horizon {
			logrus.Infof("[tick %07d] horizon %d reached with %d pending events", sim.Clock, sim.Config.Horizon, sim.EventQueue.Len())
			break
		}
		// get the next event to be simulated
		ev := sim.EventQueue.PopNext()
		// advance the clock
		sim.Clock = ev.Timestamp()
		logrus.Debugf("[tick %07d] Executing %T", sim.Clock, ev)
		// process the event
		ev.Execute(ctx, sim)
	}
	sim.Trace.Recordf(sim.Clock, trace.KindSimulationEnded, "", "steps=%d failures=%d suspended=%d",
		sim.steps, len(sim.failures), len(sim.processes))
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
	return nil
}

// Failures returns every process failure in the order they happened.
func (sim *Simulator) Failures() []ProcessFailure {
	return append([]ProcessFailure(nil), sim.failures...)
}

// Live returns the number of processes that have neither exited nor failed.
func (sim *Simulator) Live() int {
	return len(sim.processes)
}
