package input

import (
	"sync"
	"sync/atomic"
)

// DefaultQueueCapacity is the burst size absorbed between two drains.
const DefaultQueueCapacity = 1024

// Queue is a bounded multi-producer, single-consumer event queue. Add never
// blocks beyond the O(1) critical section: once the queue holds Cap events
// further events are dropped until the next drain.
type Queue struct {
	mu      sync.Mutex
	events  []Event
	cursor  int
	dropped atomic.Uint64
}

func NewQueue(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Queue{events: make([]Event, capacity)}, nil
}

// Add appends e and reports whether it was accepted. A rejected event is
// counted in Dropped and otherwise ignored.
func (q *Queue) Add(e Event) bool {
	if e == nil {
		return false
	}
	q.mu.Lock()
	if q.cursor >= len(q.events) {
		q.mu.Unlock()
		q.dropped.Add(1)
		return false
	}
	q.events[q.cursor] = e
	q.cursor++
	q.mu.Unlock()
	return true
}

// Drain moves every queued event into buf in arrival order, empties the
// queue and returns the number of events written. buf should have length
// Cap; events that do not fit in a shorter buf stay queued.
func (q *Queue) Drain(buf []Event) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := copy(buf, q.events[:q.cursor])
	if n < q.cursor {
		rest := copy(q.events, q.events[n:q.cursor])
		clear(q.events[rest:q.cursor])
		q.cursor = rest
		return n
	}
	clear(q.events[:q.cursor])
	q.cursor = 0
	return n
}

// DrainAll is Drain into a freshly allocated slice.
func (q *Queue) DrainAll() []Event {
	buf := make([]Event, len(q.events))
	n := q.Drain(buf)
	return buf[:n]
}

// NewBuffer allocates a slice sized for Drain.
func (q *Queue) NewBuffer() []Event {
	return make([]Event, len(q.events))
}

// Len is the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cursor
}

func (q *Queue) Cap() int {
	return len(q.events)
}

// Dropped is the total number of events rejected because the queue was full.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
