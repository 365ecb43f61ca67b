package tracker

import (
	"fmt"
	"strings"
)

// StatusCode is the tracker-defined transition code for a workflow status.
// The values are opaque to the simulation and passed through unchanged.
type StatusCode int

const (
	CodeTodo     StatusCode = 11
	CodeProgress StatusCode = 21
	CodeDone     StatusCode = 31
	CodeTesting  StatusCode = 41
)

var codeNames = map[StatusCode]string{
	CodeTodo:     "TODO",
	CodeProgress: "PROGRESS",
	CodeTesting:  "TESTING",
	CodeDone:     "DONE",
}

// String returns the status name for a known code, or "code(<n>)".
func (c StatusCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Valid reports whether c is one of the four known codes.
func (c StatusCode) Valid() bool {
	_, ok := codeNames[c]
	return ok
}

// ParseStatusName maps a status name (case-insensitive) to its code.
func ParseStatusName(name string) (StatusCode, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for code, n := range codeNames {
		if n == upper {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q; valid: TODO, PROGRESS, TESTING, DONE", name)
}
