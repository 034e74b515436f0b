package planner

import "container/heap"

// EventType represents the type of simulation event
type EventType int

const (
	EventTick   EventType = iota // Accrue idle production
	EventClick                   // Gather by hand
	EventDecide                  // Sell surplus and buy buildings
)

// String returns a string representation of the event type
func (et EventType) String() string {
	switch et {
	case EventTick:
		return "Tick"
	case EventClick:
		return "Click"
	case EventDecide:
		return "Decide"
	default:
		return "Unknown"
	}
}

// Priority returns the processing priority for this event type.
// Lower priority is processed first when events share a time.
func (et EventType) Priority() int {
	switch et {
	case EventTick:
		return 0
	case EventClick:
		return 1
	case EventDecide:
		return 10
	default:
		return 99
	}
}

// Event is a point on the simulated timeline
type Event struct {
	Time     int // Seconds from simulation start
	Type     EventType
	Sequence int64 // Insertion order for stable sorting
}

type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	if h[i].Type.Priority() != h[j].Type.Priority() {
		return h[i].Type.Priority() < h[j].Type.Priority()
	}
	return h[i].Sequence < h[j].Sequence
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// EventQueue is a min-heap of events ordered by (Time, Priority, Sequence)
type EventQueue struct {
	h   eventHeap
	seq int64
}

// NewEventQueue creates a new empty event queue
func NewEventQueue() *EventQueue {
	q := &EventQueue{h: make(eventHeap, 0)}
	heap.Init(&q.h)
	return q
}

// Push adds an event, stamping it with the next sequence number
func (q *EventQueue) Push(e Event) {
	q.seq++
	e.Sequence = q.seq
	heap.Push(&q.h, e)
}

// Pop removes and returns the earliest event; Time is -1 when empty
func (q *EventQueue) Pop() Event {
	if len(q.h) == 0 {
		return Event{Time: -1}
	}
	return heap.Pop(&q.h).(Event)
}

// Peek returns the earliest event without removing it
func (q *EventQueue) Peek() Event {
	if len(q.h) == 0 {
		return Event{Time: -1}
	}
	return q.h[0]
}

// Empty returns true if the queue has no events
func (q *EventQueue) Empty() bool { return len(q.h) == 0 }

// Len returns the number of events in the queue
func (q *EventQueue) Len() int { return len(q.h) }
