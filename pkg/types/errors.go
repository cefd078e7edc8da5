// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrStopped indicates the pool has been stopped
	ErrStopped = errors.New("tasker is stopped")

	// ErrInvalidWorkerCount indicates a negative worker count in the configuration
	ErrInvalidWorkerCount = errors.New("invalid worker count")

	// ErrNilProcessor indicates a nil processing function
	ErrNilProcessor = errors.New("processor cannot be nil")

	// ErrSamePool indicates an attempt to move a pool into itself
	ErrSamePool = errors.New("cannot move a pool into itself")
)

// TaskPanicError is raised when the processing function panics on a task
type TaskPanicError[T any] struct {
	// Pool is the name of the pool that ran the task
	Pool string

	// Task is the payload being processed when the panic occurred
	Task T

	// Cause is the recovered panic converted to an error
	Cause error

	// Context contains error context information
	Context map[string]interface{}
}

// Error implements the error interface
func (e *TaskPanicError[T]) Error() string {
	return fmt.Sprintf("task panic in pool %s: %v", e.Pool, e.Cause)
}

// Unwrap returns the underlying error
func (e *TaskPanicError[T]) Unwrap() error {
	return e.Cause
}

// Is checks if the error is a specific error
func (e *TaskPanicError[T]) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewTaskPanicError creates a new task panic error
func NewTaskPanicError[T any](pool string, task T, cause error) *TaskPanicError[T] {
	return &TaskPanicError[T]{
		Pool:    pool,
		Task:    task,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds error context
func (e *TaskPanicError[T]) WithContext(key string, value interface{}) *TaskPanicError[T] {
	e.Context[key] = value
	return e
}

// PanicCause converts a recovered panic value to an error
func PanicCause(r interface{}) error {
	switch v := r.(type) {
	case error:
		return v
	case string:
		return fmt.Errorf("panic: %s", v)
	default:
		return fmt.Errorf("panic: %v", v)
	}
}

// RetryableError marks an error returned by a processing function as retryable or not
type RetryableError struct {
	// Err is the underlying error
	Err error

	// Retryable indicates whether the error is retryable
	Retryable bool
}

// Error implements the error interface
func (e *RetryableError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so that retry policies give up on it immediately
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err, Retryable: false}
}

// IsPermanent checks if an error was marked as not retryable
func IsPermanent(err error) bool {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return !retryableErr.Retryable
	}
	return false
}
