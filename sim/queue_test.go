package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEventQueue_TimestampOrdering tests that events are popped in timestamp order
func TestEventQueue_TimestampOrdering(t *testing.T) {
	q := NewEventQueue()
	q.Schedule(&ResumeEvent{time: 100, PID: 1})
	q.Schedule(&ResumeEvent{time: 50, PID: 2})
	q.Schedule(&ResumeEvent{time: 150, PID: 3})

	var got []int64
	for q.Len() > 0 {
		got = append(got, q.PopNext().Timestamp())
	}
	assert.Equal(t, []int64{50, 100, 150}, got)
}

// TestEventQueue_FIFOTieBreak tests that same-timestamp events fire in scheduling order
func TestEventQueue_FIFOTieBreak(t *testing.T) {
	q := NewEventQueue()
	for _, pid := range []ProcessID{7, 3, 9, 1, 5} {
		q.Schedule(&ResumeEvent{time: 10, PID: pid})
	}

	var got []ProcessID
	for q.Len() > 0 {
		got = append(got, q.PopNext().(*ResumeEvent).PID)
	}
	assert.Equal(t, []ProcessID{7, 3, 9, 1, 5}, got)
}

func TestEventQueue_SequenceIDsIncrease(t *testing.T) {
	q := NewEventQueue()
	first := q.Schedule(&ResumeEvent{time: 1})
	second := q.Schedule(&ResumeEvent{time: 0})
	assert.Less(t, first, second)
}

func TestEventQueue_EmptyPopAndPeek(t *testing.T) {
	q := NewEventQueue()
	assert.Nil(t, q.PopNext())
	assert.Nil(t, q.Peek())

	q.Schedule(&ResumeEvent{time: 4, PID: 2})
	assert.Equal(t, int64(4), q.Peek().Timestamp())
	assert.Equal(t, 1, q.Len(), "Peek must not remove the event")
}
