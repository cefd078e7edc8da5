package queue

import (
	"sync"
	"sync/atomic"
)

// queueIDCounter orders lock acquisition when two queues are locked together
var queueIDCounter uint64

// Queue is an unbounded FIFO queue safe for concurrent producers and consumers
type Queue[T any] struct {
	id      uint64
	items   []T
	stopped bool

	mu   sync.RWMutex
	cond *sync.Cond
}

// New creates an empty queue
func New[T any]() *Queue[T] {
	q := &Queue[T]{
		id: atomic.AddUint64(&queueIDCounter, 1),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends v to the tail, waiting for the lock. It returns false, dropping
// v, if the queue is stopped.
func (q *Queue[T]) Push(v T) bool {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.cond.Signal()
	return true
}

// TryPush appends v without waiting for the lock. It returns false if the
// lock is busy or the queue is stopped.
func (q *Queue[T]) TryPush(v T) bool {
	if !q.mu.TryLock() {
		return false
	}
	if q.stopped {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.cond.Signal()
	return true
}

// Pop removes the head, waiting until a value is available or the queue is
// stopped. ok is false only when the queue is stopped and empty.
func (q *Queue[T]) Pop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.stopped && len(q.items) == 0 {
		q.cond.Wait()
	}

	if len(q.items) == 0 {
		return v, false
	}
	return q.popFront(), true
}

// TryPop removes the head without waiting. ok is false if the lock is busy or
// the queue is empty.
func (q *Queue[T]) TryPop() (v T, ok bool) {
	if !q.mu.TryLock() {
		return v, false
	}
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return v, false
	}
	return q.popFront(), true
}

// popFront must be called with the exclusive lock held and a non-empty queue
func (q *Queue[T]) popFront() T {
	var zero T
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return v
}

// Front returns a copy of the head without removing it
func (q *Queue[T]) Front() (v T, ok bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if len(q.items) == 0 {
		return v, false
	}
	return q.items[0], true
}

// Back returns a copy of the tail without removing it
func (q *Queue[T]) Back() (v T, ok bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if len(q.items) == 0 {
		return v, false
	}
	return q.items[len(q.items)-1], true
}

// Empty reports whether the queue holds no values
func (q *Queue[T]) Empty() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items) == 0
}

// Size returns the number of queued values
func (q *Queue[T]) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}

// Stopped reports whether Stop has been called
func (q *Queue[T]) Stopped() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.stopped
}

// Stop rejects further pushes and wakes every blocked Pop. Queued values are kept.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()

	q.cond.Broadcast()
}

// Clear discards every queued value. The stopped state is unchanged.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// TransferFrom appends the contents of src to q and leaves src empty. Both
// locks are held for the whole move. It returns false, leaving both queues
// untouched, when q is stopped or src is q.
func (q *Queue[T]) TransferFrom(src *Queue[T]) bool {
	if src == q {
		return false
	}

	first, second := q, src
	if second.id < first.id {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()

	if q.stopped {
		second.mu.Unlock()
		first.mu.Unlock()
		return false
	}

	moved := len(src.items) > 0
	q.items = append(q.items, src.items...)
	src.items = nil

	second.mu.Unlock()
	first.mu.Unlock()

	if moved {
		q.cond.Broadcast()
	}
	return true
}
