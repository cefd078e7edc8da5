package tasker

import (
	"sync"
	"sync/atomic"

	"github.com/jzx17/gotasker/pkg/queue"
	"github.com/jzx17/gotasker/pkg/types"
	"go.uber.org/zap"
)

// pool lifecycle states
const (
	stateRunning int32 = iota
	stateStopping
	stateStopped
)

// base holds the queues, workers and lifecycle shared by every pool flavor
type base[T any] struct {
	config       *Config
	name         string
	logger       *zap.Logger
	metrics      Metrics
	errorHandler types.ErrorHandler
	clock        types.Clock

	queues  []*queue.Queue[T]
	workers []*worker
	wg      sync.WaitGroup

	// state management
	state int32
	mu    sync.Mutex // serializes Stop and relocation

	// statistics
	posted    int64
	dropped   int64
	processed int64
	stolen    int64
	panics    int64
}

// newBase creates n queues and n idle workers. No goroutine is started.
func newBase[T any](config *Config, n int) *base[T] {
	b := &base[T]{
		config:       config,
		name:         config.Name,
		logger:       config.Logger.Named("tasker").With(zap.String("pool", config.Name)),
		metrics:      config.Metrics,
		errorHandler: config.ErrorHandler,
		clock:        config.Clock,
		queues:       make([]*queue.Queue[T], n),
		workers:      make([]*worker, n),
	}

	for i := 0; i < n; i++ {
		b.queues[i] = queue.New[T]()
		b.workers[i] = newWorker(i, n)
	}
	return b
}

// start launches one goroutine per worker running loop
func (b *base[T]) start(loop func(w *worker)) {
	atomic.StoreInt32(&b.state, stateRunning)

	for _, w := range b.workers {
		b.wg.Add(1)
		go func(w *worker) {
			defer b.wg.Done()
			defer w.setState(types.WorkerStateStopped)
			loop(w)
		}(w)
	}

	b.logger.Debug("pool started", zap.Int("workers", len(b.workers)))
}

// accepting reports whether Post may still enqueue; otherwise the task is counted as dropped
func (b *base[T]) accepting() bool {
	if atomic.LoadInt32(&b.state) != stateRunning {
		b.recordDropped()
		return false
	}
	return true
}

func (b *base[T]) recordDropped() {
	atomic.AddInt64(&b.dropped, 1)
	if b.metrics != nil {
		b.metrics.RecordDropped(b.name)
	}
}

func (b *base[T]) recordPosted() {
	atomic.AddInt64(&b.posted, 1)
	if b.metrics != nil {
		b.metrics.RecordPosted(b.name)
	}
}

// Stop marks every queue stopped and waits for the workers to drain them.
// Tasks already queued are still processed. Stop is idempotent; a concurrent
// caller returns once the first caller has joined every worker. Stop must not
// be called from inside the processing function.
func (b *base[T]) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

// stopLocked must be called with b.mu held
func (b *base[T]) stopLocked() {
	if !atomic.CompareAndSwapInt32(&b.state, stateRunning, stateStopping) {
		return
	}

	for _, q := range b.queues {
		q.Stop()
	}
	b.wg.Wait()

	atomic.StoreInt32(&b.state, stateStopped)
	b.logger.Debug("pool stopped",
		zap.Int64("processed", atomic.LoadInt64(&b.processed)),
		zap.Int64("dropped", atomic.LoadInt64(&b.dropped)),
	)
}

// Clear discards every queued task. Tasks already taken by a worker are unaffected.
func (b *base[T]) Clear() {
	for _, q := range b.queues {
		q.Clear()
	}
}

// Empty reports whether every queue is empty
func (b *base[T]) Empty() bool {
	for _, q := range b.queues {
		if !q.Empty() {
			return false
		}
	}
	return true
}

// Size returns the number of queued tasks across all queues
func (b *base[T]) Size() int {
	var size int
	for _, q := range b.queues {
		size += q.Size()
	}
	return size
}

// QueueSizes returns the length of each queue, indexed by home worker
func (b *base[T]) QueueSizes() []int {
	sizes := make([]int, len(b.queues))
	for i, q := range b.queues {
		sizes[i] = q.Size()
	}
	return sizes
}

// Workers returns the number of workers
func (b *base[T]) Workers() int {
	return len(b.workers)
}

// Name returns the pool name
func (b *base[T]) Name() string {
	return b.name
}

// IsRunning checks if the workers are alive
func (b *base[T]) IsRunning() bool {
	return atomic.LoadInt32(&b.state) == stateRunning
}

// Stats gets pool statistics
func (b *base[T]) Stats() types.PoolStats {
	return types.PoolStats{
		Workers:   len(b.workers),
		Queued:    b.Size(),
		Posted:    atomic.LoadInt64(&b.posted),
		Dropped:   atomic.LoadInt64(&b.dropped),
		Processed: atomic.LoadInt64(&b.processed),
		Stolen:    atomic.LoadInt64(&b.stolen),
		Panics:    atomic.LoadInt64(&b.panics),
		Running:   b.IsRunning(),
	}
}

// WorkerStats gets statistics of all workers
func (b *base[T]) WorkerStats() []types.WorkerStats {
	stats := make([]types.WorkerStats, len(b.workers))
	for i, w := range b.workers {
		stats[i] = w.stats()
	}
	return stats
}
