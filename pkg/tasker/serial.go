package tasker

import (
	"github.com/jzx17/gotasker/pkg/types"
	"go.uber.org/zap"
)

// SerialPool runs a single worker over a single queue, so tasks are processed
// strictly in the order they were posted. It has no distribution counter and
// no stealing.
type SerialPool[T any, P Processor[T]] struct {
	*base[T]
	proc P
}

// NewSerialPool creates a serial pool bound to proc and starts its worker.
// config.Workers is ignored.
func NewSerialPool[T any, P Processor[T]](proc P, config *Config) (*SerialPool[T, P], error) {
	if isNil(proc) {
		return nil, types.ErrNilProcessor
	}

	cfg, err := normalize(config)
	if err != nil {
		return nil, err
	}
	cfg.Workers = 1

	p := newSerialPool[T](proc, cfg)
	p.start()
	return p, nil
}

func newSerialPool[T any, P Processor[T]](proc P, cfg *Config) *SerialPool[T, P] {
	return &SerialPool[T, P]{
		base: newBase[T](cfg, 1),
		proc: proc,
	}
}

func (p *SerialPool[T, P]) start() {
	p.base.start(func(w *worker) {
		serialLoop(p.base, w, p.proc)
	})
}

// Post enqueues v, blocking only for the queue lock. A task posted after Stop
// is counted as dropped.
func (p *SerialPool[T, P]) Post(v T) {
	if !p.accepting() {
		return
	}

	if p.queues[0].Push(v) {
		p.recordPosted()
	} else {
		p.recordDropped()
	}
}

// Front returns a copy of the next task to be processed
func (p *SerialPool[T, P]) Front() (T, bool) {
	return p.queues[0].Front()
}

// Back returns a copy of the most recently queued task
func (p *SerialPool[T, P]) Back() (T, bool) {
	return p.queues[0].Back()
}

// Relocate transfers the queued tasks to a new serial pool bound to proc,
// stops the worker of p and starts the worker of the new pool.
func (p *SerialPool[T, P]) Relocate(proc P) (*SerialPool[T, P], error) {
	if isNil(proc) {
		return nil, types.ErrNilProcessor
	}

	dst := newSerialPool[T](proc, p.config)

	p.mu.Lock()
	dst.queues[0].TransferFrom(p.queues[0])
	p.stopLocked()
	p.mu.Unlock()

	dst.start()

	dst.logger.Debug("pool relocated", zap.Int("queued", dst.Size()))
	return dst, nil
}

// MoveFrom appends the queued tasks of src to p and stops src
func (p *SerialPool[T, P]) MoveFrom(src *SerialPool[T, P]) error {
	if src == p {
		return types.ErrSamePool
	}
	if !p.IsRunning() {
		return types.ErrStopped
	}

	src.mu.Lock()
	defer src.mu.Unlock()

	p.queues[0].TransferFrom(src.queues[0])
	src.stopLocked()

	p.logger.Debug("tasks moved into pool", zap.String("from", src.name))
	return nil
}

// Processor returns the processor the worker calls
func (p *SerialPool[T, P]) Processor() P {
	return p.proc
}

// Looper is a serial pool whose processing function is a closure
type Looper[T any] struct {
	*SerialPool[T, ProcessorFunc[T]]
}

// NewLooper creates a Looper that calls fn for every posted task, in order
func NewLooper[T any](fn func(T), config *Config) (*Looper[T], error) {
	if fn == nil {
		return nil, types.ErrNilProcessor
	}

	pool, err := NewSerialPool[T](ProcessorFunc[T](fn), config)
	if err != nil {
		return nil, err
	}
	return &Looper[T]{SerialPool: pool}, nil
}

var _ types.Scheduler[int] = (*Looper[int])(nil)
