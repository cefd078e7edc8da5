package retry

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jzx17/gotasker/pkg/types"
	"go.uber.org/zap"
)

// Executor runs functions under a retry policy
type Executor struct {
	policy Policy
	clock  types.Clock
	logger *zap.Logger

	// statistics
	attempts  int64
	successes int64
	failures  int64
}

// Stats contains retry statistics
type Stats struct {
	TotalAttempts  int64
	TotalSuccesses int64
	TotalFailures  int64
}

// ExecutorOption is a configuration option for Executor
type ExecutorOption func(*Executor)

// WithClock sets the clock used to wait between attempts
func WithClock(clock types.Clock) ExecutorOption {
	return func(e *Executor) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates a retry executor
func NewExecutor(policy Policy, opts ...ExecutorOption) *Executor {
	e := &Executor{
		policy: policy,
		clock:  types.NewRealClock(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do calls fn until it succeeds, the policy gives up, or ctx is done
func (e *Executor) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			atomic.AddInt64(&e.failures, 1)
			return err
		}

		atomic.AddInt64(&e.attempts, 1)
		err := fn(ctx)
		if err == nil {
			atomic.AddInt64(&e.successes, 1)
			return nil
		}

		if !e.policy.ShouldRetry(err, attempt) {
			atomic.AddInt64(&e.failures, 1)
			return fmt.Errorf("giving up after %d attempt(s): %w", attempt, err)
		}

		delay := e.policy.NextDelay(attempt)
		e.logger.Debug("retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if delay <= 0 {
			continue
		}

		timer := e.clock.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			atomic.AddInt64(&e.failures, 1)
			return ctx.Err()
		case <-timer.C():
		}
	}
}

// Stats gets retry statistics
func (e *Executor) Stats() Stats {
	return Stats{
		TotalAttempts:  atomic.LoadInt64(&e.attempts),
		TotalSuccesses: atomic.LoadInt64(&e.successes),
		TotalFailures:  atomic.LoadInt64(&e.failures),
	}
}

// Wrap adapts a fallible processing function to the func(T) form a pool
// expects. Each task is retried under the executor's policy on the worker
// goroutine; if it still fails, onFailure (if not nil) receives the task and
// the final error.
func Wrap[T any](ctx context.Context, e *Executor, fn func(ctx context.Context, v T) error, onFailure func(v T, err error)) func(T) {
	return func(v T) {
		err := e.Do(ctx, func(ctx context.Context) error {
			return fn(ctx, v)
		})
		if err != nil {
			e.logger.Warn("task failed", zap.Error(err))
			if onFailure != nil {
				onFailure(v, err)
			}
		}
	}
}
