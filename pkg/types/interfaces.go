// Package types defines core interfaces and types shared by the tasker packages
package types

import (
	"time"
)

// Scheduler is the programmatic contract every pool flavor satisfies
type Scheduler[T any] interface {
	// Post enqueues a task; it is dropped silently once the pool is stopped
	Post(v T)

	// Stop drains every queued task and joins all workers
	Stop()

	// Clear discards queued tasks without affecting running workers
	Clear()

	// Empty reports whether no task is queued
	Empty() bool

	// Size returns the number of queued tasks
	Size() int

	// Stats returns pool statistics
	Stats() PoolStats
}

// ErrorHandler receives errors recovered from the processing function
type ErrorHandler func(error)

// WorkerState defines the state of a worker
type WorkerState int32

const (
	// WorkerStateIdle represents idle worker state
	WorkerStateIdle WorkerState = iota
	// WorkerStateWorking represents working worker state
	WorkerStateWorking
	// WorkerStateStopped represents stopped worker state
	WorkerStateStopped
)

// String returns the string representation of WorkerState
func (ws WorkerState) String() string {
	switch ws {
	case WorkerStateIdle:
		return "idle"
	case WorkerStateWorking:
		return "working"
	case WorkerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// PoolStats defines statistics for a pool
type PoolStats struct {
	// Workers is the number of worker goroutines
	Workers int

	// Queued is the number of tasks waiting across all queues
	Queued int

	// Posted is the number of tasks accepted by Post
	Posted int64

	// Dropped is the number of tasks rejected because the pool was stopped
	Dropped int64

	// Processed is the number of tasks handed to the processing function
	Processed int64

	// Stolen is the number of tasks taken from a queue other than the worker's home queue
	Stolen int64

	// Panics is the number of recovered panics
	Panics int64

	// Running reports whether workers are alive
	Running bool
}

// WorkerStats defines statistics for one worker
type WorkerStats struct {
	ID           int
	State        WorkerState
	Processed    int64
	Stolen       int64
	Panics       int64
	LastTaskTime time.Time
}

// IsActive checks if the worker is processing a task
func (ws WorkerStats) IsActive() bool {
	return ws.State == WorkerStateWorking
}

// IsIdle checks if the worker is idle
func (ws WorkerStats) IsIdle() bool {
	return ws.State == WorkerStateIdle
}

// StealRate returns the fraction of processed tasks that were stolen
func (ws WorkerStats) StealRate() float64 {
	if ws.Processed == 0 {
		return 0
	}
	return float64(ws.Stolen) / float64(ws.Processed)
}
