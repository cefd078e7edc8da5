package tasker

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jzx17/gotasker/internal/testutils"
	"github.com/jzx17/gotasker/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventSink owns a pool and receives its tasks through its Process method
type eventSink struct {
	mu       sync.Mutex
	received []int
	inFlight int64
	gate     *testutils.Gate
}

func (s *eventSink) Process(v int) {
	atomic.AddInt64(&s.inFlight, 1)
	if s.gate != nil {
		s.gate.Wait()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, v)
}

func (s *eventSink) values() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.received...)
}

func TestNewPool(t *testing.T) {
	sink := &eventSink{}

	pool, err := NewPool[int](sink, &Config{Workers: 3, Name: "sink"})
	require.NoError(t, err)
	defer pool.Stop()

	assert.Equal(t, 3, pool.Workers())
	assert.Equal(t, "sink", pool.Name())
	assert.Same(t, sink, pool.Processor())

	_, err = NewPool[int, *eventSink](nil, nil)
	assert.ErrorIs(t, err, types.ErrNilProcessor)

	_, err = NewPool[int](sink, &Config{Workers: -2})
	assert.ErrorIs(t, err, types.ErrInvalidWorkerCount)
}

func TestPool_StaticDispatch(t *testing.T) {
	sink := &eventSink{}

	pool, err := NewPool[int](sink, &Config{Workers: 4})
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		pool.Post(i)
	}
	pool.Stop()

	values := sink.values()
	require.Len(t, values, 500)
	sort.Ints(values)
	for i, v := range values {
		assert.Equal(t, i, v)
	}
}

func TestPool_Relocate(t *testing.T) {
	old := &eventSink{gate: testutils.NewGate()}

	src, err := NewPool[int](old, &Config{Workers: 2})
	require.NoError(t, err)

	const total = 50
	for i := 0; i < total; i++ {
		src.Post(i)
	}

	// Each old worker holds exactly one task; the rest stay queued
	require.Eventually(t, func() bool { return atomic.LoadInt64(&old.inFlight) == 2 }, time.Second, time.Millisecond)

	moved := &eventSink{}
	result := make(chan *Pool[int, *eventSink], 1)
	go func() {
		dst, err := src.Relocate(moved)
		assert.NoError(t, err)
		result <- dst
	}()

	// The queues are handed over before the old workers are joined
	require.Eventually(t, src.Empty, time.Second, time.Millisecond)
	old.gate.Open()

	var dst *Pool[int, *eventSink]
	require.True(t, testutils.AssertDoneWithin(t, 2*time.Second, func() {
		dst = <-result
	}, "Relocate did not return"))

	assert.False(t, src.IsRunning())
	assert.True(t, dst.IsRunning())
	assert.Same(t, moved, dst.Processor())

	// The old pool is inert
	src.Post(1000)
	assert.Equal(t, int64(1), src.Stats().Dropped)

	dst.Stop()

	oldValues := old.values()
	newValues := moved.values()
	assert.Len(t, oldValues, 2)
	assert.Len(t, newValues, total-2)

	all := append(oldValues, newValues...)
	sort.Ints(all)
	require.Len(t, all, total)
	for i, v := range all {
		assert.Equal(t, i, v)
	}
}

func TestPool_RelocateStoppedPool(t *testing.T) {
	src, err := NewPool[int](&eventSink{}, &Config{Workers: 2})
	require.NoError(t, err)
	src.Stop()

	moved := &eventSink{}
	dst, err := src.Relocate(moved)
	require.NoError(t, err)

	dst.Post(7)
	dst.Stop()
	assert.Equal(t, []int{7}, moved.values())
}

func TestPool_MoveFrom(t *testing.T) {
	busy := &eventSink{gate: testutils.NewGate()}
	src, err := NewPool[int](busy, &Config{Workers: 1})
	require.NoError(t, err)

	target := &eventSink{}
	dst, err := NewPool[int](target, &Config{Workers: 1})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		src.Post(i)
	}
	require.Eventually(t, func() bool { return atomic.LoadInt64(&busy.inFlight) == 1 }, time.Second, time.Millisecond)

	result := make(chan error, 1)
	go func() {
		result <- dst.MoveFrom(src)
	}()

	require.Eventually(t, src.Empty, time.Second, time.Millisecond)
	busy.gate.Open()

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("MoveFrom did not return")
	}

	assert.False(t, src.IsRunning())
	dst.Stop()

	assert.Equal(t, []int{0}, busy.values())
	assert.Equal(t, []int{1, 2, 3, 4}, target.values())
}

func TestPool_MoveFromErrors(t *testing.T) {
	a, err := NewPool[int](&eventSink{}, &Config{Workers: 2})
	require.NoError(t, err)
	b, err := NewPool[int](&eventSink{}, &Config{Workers: 2})
	require.NoError(t, err)
	defer a.Stop()

	assert.ErrorIs(t, a.MoveFrom(a), types.ErrSamePool)

	b.Stop()
	assert.ErrorIs(t, b.MoveFrom(a), types.ErrStopped)
	assert.True(t, a.IsRunning(), "failed move leaves the source running")
}

func TestPool_MoveFromDifferentSizes(t *testing.T) {
	gate := testutils.NewGate()
	busy := &eventSink{gate: gate}
	src, err := NewPool[int](busy, &Config{Workers: 4})
	require.NoError(t, err)

	target := &eventSink{}
	dst, err := NewPool[int](target, &Config{Workers: 2})
	require.NoError(t, err)

	for i := 0; i < 40; i++ {
		src.Post(i)
	}
	require.Eventually(t, func() bool { return atomic.LoadInt64(&busy.inFlight) == 4 }, time.Second, time.Millisecond)

	gate.Open()
	require.NoError(t, dst.MoveFrom(src))
	dst.Stop()

	all := append(busy.values(), target.values()...)
	sort.Ints(all)
	require.Len(t, all, 40)
	for i, v := range all {
		assert.Equal(t, i, v)
	}
}

func TestPool_PostFallsBackToBlockingPush(t *testing.T) {
	cfg, err := normalize(&Config{Workers: 3})
	require.NoError(t, err)

	sink := &eventSink{}
	pool := newPool[int](sink, cfg)
	atomic.StoreUint64(&pool.index, 4)

	// A held read lock makes every TryPush fail
	for _, q := range pool.queues {
		q.mu.RLock()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		pool.Post(7)
	}()

	select {
	case <-done:
		t.Fatal("Post returned while every queue was locked")
	case <-time.After(20 * time.Millisecond):
	}

	for _, q := range pool.queues {
		q.mu.RUnlock()
	}
	require.True(t, testutils.AssertDoneWithin(t, time.Second, func() { <-done }))

	// Index 4 of 3 queues lands on queue 1
	assert.Equal(t, []int{0, 1, 0}, pool.QueueSizes())
	assert.Equal(t, int64(1), pool.Stats().Posted)

	pool.start()
	pool.Stop()

	assert.Equal(t, []int{7}, sink.values())
	assert.Equal(t, int64(1), pool.Stats().Processed)
}

func TestPool_PostRacingStopIsDropped(t *testing.T) {
	metrics := &recordingMetrics{}
	sink := &eventSink{}

	pool, err := NewPool[int](sink, &Config{Workers: 2, Metrics: metrics})
	require.NoError(t, err)

	// Queues stopped but the pool not yet marked stopped, as inside Stop
	for _, q := range pool.queues {
		q.Stop()
	}
	pool.Post(1)

	stats := pool.Stats()
	assert.Equal(t, int64(0), stats.Posted)
	assert.Equal(t, int64(1), stats.Dropped)
	assert.Equal(t, int64(1), atomic.LoadInt64(&metrics.dropped))
	assert.Zero(t, atomic.LoadInt64(&metrics.posted))

	pool.Stop()
	assert.Empty(t, sink.values())
}
