/*
Package retry provides retry policies for processing functions that can fail.

Pool processing functions have the form func(T) and return nothing. Wrap
turns a func(context.Context, T) error into that form, retrying each task on
the worker goroutine before reporting it as failed.

# Policies

  - FixedDelay waits the same delay between attempts
  - ExponentialBackoff multiplies the delay after every failure, up to a cap

Both accept WithCondition to decide which errors are retried and WithJitter
to spread delays. DefaultCondition retries everything except errors wrapped
with types.Permanent and context cancellation.

# Usage

	executor := retry.NewExecutor(retry.NewExponentialBackoff(5, 10*time.Millisecond))

	process := retry.Wrap(ctx, executor, func(ctx context.Context, e Event) error {
		return sink.Write(ctx, e)
	}, func(e Event, err error) {
		log.Printf("dropping event %v: %v", e.ID, err)
	})

	pool, err := tasker.New(process, nil)

Note that a retrying task occupies its worker for the whole backoff, so
long delays reduce the pool's throughput.
*/
package retry
