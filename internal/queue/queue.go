// Package queue is a small mutex-guarded FIFO. The monitor buffers status
// samples in one between drains; anything needing drop-in ordering without
// channel semantics can use it.
package queue

import "sync"

// Queue holds items in arrival order. The zero value is usable; New exists
// for symmetry with the other internal constructors.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends items in argument order.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
}

// Pop removes and returns the oldest item, or the zero value when empty.
// Callers that must distinguish emptiness check Len first; the monitor only
// pops to trim history, so the zero value is never observed.
func (q *Queue[T]) Pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item
}

// Empty reports whether the queue holds no items.
func (q *Queue[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear drops all items.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// GetAndEmpty hands the caller everything queued so far and resets the
// queue. Status history drains go through this so a drain is one lock
// acquisition, not Len pops.
func (q *Queue[T]) GetAndEmpty() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	result := q.items
	q.items = nil
	return result
}
