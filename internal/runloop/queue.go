// Package runloop provides the after-render queue used to defer work until a
// page has been written.
package runloop

import "sync"

// Queue holds callbacks deferred to the end of one render pass. Each key has
// a single slot: scheduling a key that is already pending replaces its
// callback but keeps its original position.
type Queue struct {
	mu      sync.Mutex
	order   []string
	pending map[string]func()
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{pending: make(map[string]func())}
}

// ScheduleOnce defers fn under key until the next Flush.
func (q *Queue) ScheduleOnce(key string, fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.pending[key]; !ok {
		q.order = append(q.order, key)
	}
	q.pending[key] = fn
}

// Flush runs every pending callback in scheduling order and empties the
// queue. Callbacks scheduled while flushing run on the next Flush.
func (q *Queue) Flush() int {
	q.mu.Lock()
	order, pending := q.order, q.pending
	q.order = nil
	q.pending = make(map[string]func())
	q.mu.Unlock()

	for _, key := range order {
		pending[key]()
	}
	return len(order)
}
