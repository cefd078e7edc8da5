package tasker

import (
	"github.com/jzx17/gotasker/pkg/types"
)

// Tasker is a work-stealing pool whose processing function is a closure
type Tasker[T any] struct {
	*Pool[T, ProcessorFunc[T]]
}

// New creates a Tasker that calls fn for every posted task and starts its workers
func New[T any](fn func(T), config *Config) (*Tasker[T], error) {
	if fn == nil {
		return nil, types.ErrNilProcessor
	}

	pool, err := NewPool[T](ProcessorFunc[T](fn), config)
	if err != nil {
		return nil, err
	}
	return &Tasker[T]{Pool: pool}, nil
}

var _ types.Scheduler[int] = (*Tasker[int])(nil)
