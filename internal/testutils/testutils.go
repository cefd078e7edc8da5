// Package testutils provides simplified testing utilities and helper functions
package testutils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Recorder is a thread-safe log of processed values
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

// NewRecorder creates an empty recorder
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

// Record appends v; its signature matches a processing function
func (r *Recorder[T]) Record(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

// Values returns a copy of the recorded values in arrival order
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]T, len(r.values))
	copy(values, r.values)
	return values
}

// Len returns the number of recorded values
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Gate blocks callers of Wait until Open is called
type Gate struct {
	ch   chan struct{}
	once sync.Once
}

// NewGate creates a closed gate
func NewGate() *Gate {
	return &Gate{ch: make(chan struct{})}
}

// Wait blocks until the gate is opened
func (g *Gate) Wait() {
	<-g.ch
}

// Open releases every current and future waiter
func (g *Gate) Open() {
	g.once.Do(func() { close(g.ch) })
}

// AssertDoneWithin fails the test if fn does not return within timeout
func AssertDoneWithin(t testing.TB, timeout time.Duration, fn func(), msgAndArgs ...interface{}) bool {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return assert.Fail(t, "operation did not complete in time", msgAndArgs...)
	}
}
