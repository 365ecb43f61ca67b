package sim

import "container/heap"

// eventEntry wraps an Event with a sequence ID for deterministic FIFO
// tie-breaking when timestamps are equal.
type eventEntry struct {
	event Event
	seqID int64
}

// EventQueue is a min-heap ordered by (Timestamp, seqID).
// Events scheduled for the same tick fire in the order they were scheduled.
type EventQueue struct {
	entries []eventEntry
	nextSeq int64
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{entries: make([]eventEntry, 0)}
	heap.Init(q)
	return q
}

// Len implements heap.Interface
func (q *EventQueue) Len() int { return len(q.entries) }

// Less implements heap.Interface: timestamp first, then scheduling order.
func (q *EventQueue) Less(i, j int) bool {
	ei, ej := q.entries[i], q.entries[j]
	if ei.event.Timestamp() != ej.event.Timestamp() {
		return ei.event.Timestamp() < ej.event.Timestamp()
	}
	return ei.seqID < ej.seqID
}

// Swap implements heap.Interface
func (q *EventQueue) Swap(i, j int) { q.entries[i], q.entries[j] = q.entries[j], q.entries[i] }

// Push implements heap.Interface
func (q *EventQueue) Push(x any) {
	q.entries = append(q.entries, x.(eventEntry))
}

// Pop implements heap.Interface
func (q *EventQueue) Pop() any {
	old := q.entries
	n := len(old)
	item := old[n-1]
	q.entries = old[:n-1]
	return item
}

// Schedule adds an event and returns its sequence ID.
func (q *EventQueue) Schedule(e Event) int64 {
	q.nextSeq++
	heap.Push(q, eventEntry{event: e, seqID: q.nextSeq})
	return q.nextSeq
}

// PopNext removes and returns the next event, or nil when empty.
func (q *EventQueue) PopNext() Event {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(eventEntry).event
}

// Peek returns the next event without removing it, or nil when empty.
func (q *EventQueue) Peek() Event {
	if q.Len() == 0 {
		return nil
	}
	return q.entries[0].event
}
