package tasker

import (
	"sync/atomic"

	"github.com/jzx17/gotasker/pkg/types"
	"go.uber.org/zap"
)

// Pool is a work-stealing pool of N workers, each bound to its own queue,
// that hands every task to proc.Process. P is usually the type that owns the
// pool, which lets the worker loop call its method on a type parameter.
type Pool[T any, P Processor[T]] struct {
	*base[T]
	proc  P
	index uint64 // atomic distribution counter
}

// NewPool creates a pool bound to proc and starts its workers
func NewPool[T any, P Processor[T]](proc P, config *Config) (*Pool[T, P], error) {
	if isNil(proc) {
		return nil, types.ErrNilProcessor
	}

	cfg, err := normalize(config)
	if err != nil {
		return nil, err
	}

	p := newPool[T](proc, cfg)
	p.start()
	return p, nil
}

// newPool creates the pool without starting any worker
func newPool[T any, P Processor[T]](proc P, cfg *Config) *Pool[T, P] {
	return &Pool[T, P]{
		base: newBase[T](cfg, cfg.Workers),
		proc: proc,
	}
}

func (p *Pool[T, P]) start() {
	p.base.start(func(w *worker) {
		stealingLoop(p.base, w, p.proc)
	})
}

// Post enqueues v. Starting from a round-robin offset it offers v to each
// queue without waiting, and only if every queue is busy does it block on the
// starting queue. A task posted after Stop, or racing with it, is counted as
// dropped.
func (p *Pool[T, P]) Post(v T) {
	if !p.accepting() {
		return
	}

	n := uint64(len(p.queues))
	index := atomic.AddUint64(&p.index, 1) - 1

	for i := uint64(0); i < n; i++ {
		if p.queues[(index+i)%n].TryPush(v) {
			p.recordPosted()
			return
		}
	}

	if p.queues[index%n].Push(v) {
		p.recordPosted()
	} else {
		p.recordDropped()
	}
}

// Relocate moves the pool to a new processor. The queued tasks are
// transferred to a new pool bound to proc, the workers of p are stopped, and
// fresh workers are started for the new pool. Tasks posted to p while the
// move is in progress are drained by p's workers before Relocate returns; p
// is stopped afterwards.
func (p *Pool[T, P]) Relocate(proc P) (*Pool[T, P], error) {
	if isNil(proc) {
		return nil, types.ErrNilProcessor
	}

	dst := newPool[T](proc, p.config)

	p.mu.Lock()
	for i, q := range p.queues {
		dst.queues[i].TransferFrom(q)
	}
	p.stopLocked()
	p.mu.Unlock()

	dst.start()

	dst.logger.Debug("pool relocated", zap.Int("queued", dst.Size()))
	return dst, nil
}

// MoveFrom transfers the queued tasks of src into p and stops src. Queue i of
// src is appended to queue i mod N of p. Tasks that cannot be transferred
// because p was stopped concurrently are drained by src before it stops.
func (p *Pool[T, P]) MoveFrom(src *Pool[T, P]) error {
	if src == p {
		return types.ErrSamePool
	}
	if !p.IsRunning() {
		return types.ErrStopped
	}

	src.mu.Lock()
	defer src.mu.Unlock()

	n := len(p.queues)
	for i, q := range src.queues {
		p.queues[i%n].TransferFrom(q)
	}
	src.stopLocked()

	p.logger.Debug("tasks moved into pool", zap.String("from", src.name))
	return nil
}

// Processor returns the processor the workers call
func (p *Pool[T, P]) Processor() P {
	return p.proc
}
