package tracker

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var estimatePattern = regexp.MustCompile(`^([0-9]+)h$`)

// ParseEstimate parses the "<integer>h" estimate convention, e.g. "4h".
func ParseEstimate(s string) (time.Duration, error) {
	m := estimatePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid estimate %q: want <integer>h", s)
	}
	hours, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid estimate %q: %w", s, err)
	}
	if hours > int64(time.Duration(1<<63-1)/time.Hour) {
		return 0, fmt.Errorf("invalid estimate %q: out of range", s)
	}
	return time.Duration(hours) * time.Hour, nil
}

// FormatEstimate renders d in the "<integer>h" convention.
// d must be a non-negative whole number of hours.
func FormatEstimate(d time.Duration) (string, error) {
	if d < 0 || d%time.Hour != 0 {
		return "", fmt.Errorf("estimate %v is not a whole number of hours", d)
	}
	return fmt.Sprintf("%dh", int64(d/time.Hour)), nil
}
