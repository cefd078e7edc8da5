package tasker

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/jzx17/gotasker/pkg/types"
	"go.uber.org/zap"
)

// worker is the bookkeeping for one worker goroutine bound to a home queue
type worker struct {
	id       int
	rotation []int // queue indices in steal order, starting at the home queue
	state    int32 // atomic types.WorkerState

	// statistics
	processed    int64
	stolen       int64
	panics       int64
	lastTaskTime int64 // Unix nanosecond timestamp
}

// newWorker creates a worker whose home queue is id, out of n queues
func newWorker(id, n int) *worker {
	rotation := make([]int, n)
	for i := range rotation {
		rotation[i] = (id + i) % n
	}

	return &worker{
		id:       id,
		rotation: rotation,
		state:    int32(types.WorkerStateIdle),
	}
}

func (w *worker) setState(state types.WorkerState) {
	atomic.StoreInt32(&w.state, int32(state))
}

// stats gets worker statistics
func (w *worker) stats() types.WorkerStats {
	var last time.Time
	if ns := atomic.LoadInt64(&w.lastTaskTime); ns != 0 {
		last = time.Unix(0, ns)
	}

	return types.WorkerStats{
		ID:           w.id,
		State:        types.WorkerState(atomic.LoadInt32(&w.state)),
		Processed:    atomic.LoadInt64(&w.processed),
		Stolen:       atomic.LoadInt64(&w.stolen),
		Panics:       atomic.LoadInt64(&w.panics),
		LastTaskTime: last,
	}
}

// stealingLoop drains the pool's queues on behalf of w. Every cycle tries a
// non-blocking pop on each queue in rotation order, and only when all of them
// come up empty does it block on the home queue. It returns once the home
// queue is stopped and empty.
func stealingLoop[T any, P Processor[T]](b *base[T], w *worker, proc P) {
	home := b.queues[w.rotation[0]]

	for {
		var (
			v      T
			ok     bool
			stolen bool
		)

		for _, idx := range w.rotation {
			if v, ok = b.queues[idx].TryPop(); ok {
				stolen = idx != w.rotation[0]
				break
			}
		}

		if !ok {
			if v, ok = home.Pop(); !ok {
				return
			}
		}

		execute(b, w, proc, v, stolen)
	}
}

// serialLoop drains a single queue in FIFO order
func serialLoop[T any, P Processor[T]](b *base[T], w *worker, proc P) {
	q := b.queues[0]
	for v, ok := q.Pop(); ok; v, ok = q.Pop() {
		execute(b, w, proc, v, false)
	}
}

// execute runs one task on the worker goroutine with panic recovery support
func execute[T any, P Processor[T]](b *base[T], w *worker, proc P, v T, stolen bool) {
	w.setState(types.WorkerStateWorking)
	defer w.setState(types.WorkerStateIdle)

	startTime := b.clock.Now()
	atomic.StoreInt64(&w.lastTaskTime, startTime.UnixNano())

	atomic.AddInt64(&w.processed, 1)
	atomic.AddInt64(&b.processed, 1)
	if stolen {
		atomic.AddInt64(&w.stolen, 1)
		atomic.AddInt64(&b.stolen, 1)
	}

	defer func() {
		if r := recover(); r != nil {
			b.handlePanic(w, v, r)
		}
		if b.metrics != nil {
			b.metrics.RecordProcessed(b.name, w.id, stolen, b.clock.Since(startTime))
		}
	}()

	proc.Process(v)
}

// handlePanic records a recovered panic and hands it to the error handler
func (b *base[T]) handlePanic(w *worker, v T, r interface{}) {
	var buf [4096]byte
	n := runtime.Stack(buf[:], false)

	err := types.NewTaskPanicError(b.name, v, types.PanicCause(r)).
		WithContext("stack_trace", string(buf[:n])).
		WithContext("worker_id", w.id)

	atomic.AddInt64(&w.panics, 1)
	atomic.AddInt64(&b.panics, 1)

	b.logger.Error("recovered panic in processing function",
		zap.Int("worker", w.id),
		zap.Error(err),
	)

	if b.metrics != nil {
		b.metrics.RecordPanic(b.name)
	}
	if b.errorHandler != nil {
		b.callErrorHandler(w, err)
	}
}

// callErrorHandler keeps a panicking error handler from killing the worker
func (b *base[T]) callErrorHandler(w *worker, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("recovered panic in error handler",
				zap.Int("worker", w.id),
				zap.Any("panic", r),
			)
		}
	}()

	b.errorHandler(err)
}
