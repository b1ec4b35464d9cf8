package input

import "sync"

// Injector accepts events from outside the game loop.
type Injector interface {
	Inject(event Event) error
}

// Queue buffers injected events until the game loop drains them. It is safe
// for concurrent use.
type Queue struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// DefaultQueueLimit bounds a queue when the game loop stalls.
const DefaultQueueLimit = 256

// NewQueue creates a queue holding at most limit events; older events are
// dropped first. A non-positive limit uses DefaultQueueLimit.
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	return &Queue{limit: limit}
}

func (q *Queue) Inject(event Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) >= q.limit {
		q.events = q.events[1:]
	}
	q.events = append(q.events, event)
	return nil
}

// Drain returns the buffered events in arrival order and empties the queue.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	events := q.events
	q.events = nil
	return events
}
