package sim

import "errors"

// Scheduler errors.
var (
	// ErrInvalidDelay is returned when a wait with a negative delay is requested.
	ErrInvalidDelay = errors.New("invalid delay")
)

// Store invariant violations. Any of these indicates a bug in a process,
// not bad user input.
var (
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrUnknownIssue  = errors.New("unknown issue")
	ErrUnknownSprint = errors.New("unknown sprint")
	ErrNegativeWork  = errors.New("negative work")
)

// ErrPrecedenceViolation is returned when an operation runs before the entity
// it depends on exists, e.g. creating a sprint before the board.
var ErrPrecedenceViolation = errors.New("precedence violation")
