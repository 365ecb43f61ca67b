package sim

import (
	"context"
	"fmt"
)

// ProcessID identifies a spawned process within one simulation.
type ProcessID int64

// Process is a resumable unit of simulated work. Resume runs one step, up to
// the next suspension point, and reports how the process wants to continue.
// Processes hold entity keys, not entity snapshots, and must re-read state
// from the Store on every Resume.
type Process interface {
	Name() string
	Resume(ctx context.Context, sim *Simulator) Yield
}

type yieldKind int

const (
	yieldWait yieldKind = iota
	yieldExit
	yieldFail
)

// Yield is the outcome of one process step.
type Yield struct {
	kind  yieldKind
	delay int64
	err   error
}

// Wait suspends the process for delay ticks.
func Wait(delay int64) Yield {
	return Yield{kind: yieldWait, delay: delay}
}

// Exit terminates the process normally.
func Exit() Yield {
	return Yield{kind: yieldExit}
}

// Fail terminates the process with err. Other processes keep running.
func Fail(err error) Yield {
	if err == nil {
		err = fmt.Errorf("process failed without an error")
	}
	return Yield{kind: yieldFail, err: err}
}

func (y Yield) String() string {
	switch y.kind {
	case yieldWait:
		return fmt.Sprintf("wait(%d)", y.delay)
	case yieldExit:
		return "exit"
	default:
		return fmt.Sprintf("fail(%v)", y.err)
	}
}

// ProcessFailure records a process that terminated with an error.
type ProcessFailure struct {
	PID  ProcessID
	Name string
	Time int64
	Err  error
}

func (f ProcessFailure) Error() string {
	return fmt.Sprintf("process %d (%s) failed at tick %d: %v", f.PID, f.Name, f.Time, f.Err)
}

func (f ProcessFailure) Unwrap() error {
	return f.Err
}
