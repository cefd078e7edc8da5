/*
Package tasker provides in-process task pools that run a single processing
function over values posted from any goroutine.

# Overview

A pool owns one queue per worker goroutine. Posted values are spread across
the queues round-robin, and an idle worker steals from its peers before it
blocks on its own queue. Each value is handed to the processing function
exactly once, unless it is cleared first.

# Core Components

## Tasker

Dynamic-dispatch pool built from a plain func(T):

	pool, err := tasker.New(func(order Order) {
		ship(order)
	}, &tasker.Config{Workers: 4, Name: "orders"})
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Stop()

	pool.Post(order)

## Pool

Static-dispatch pool. The processor is a type parameter, so Process is called
without an indirect func value, and the pool can be relocated:

	pool, err := tasker.NewPool[Event](sink, nil)
	...
	next, err := pool.Relocate(sink)

Relocate moves every queued value into a fresh pool running the same number of
workers and stops the source. MoveFrom drains a source pool into an existing
one instead.

## Looper

Single-worker pool. Values are processed strictly in the order they were
posted, and the queue exposes Front and Back:

	looper, err := tasker.NewLooper(func(msg string) {
		fmt.Println(msg)
	}, nil)

SerialPool is the static-dispatch form of Looper.

# Stopping

Stop stops every queue, lets the workers drain what is left and joins them.
It is idempotent and safe to call concurrently. After Stop a pool is inert:
Post counts the value as dropped, and the read-only accessors keep working.
Stop must not be called from inside the processing function.

# Error Handling

A panic in the processing function is recovered on the worker goroutine,
wrapped in a types.TaskPanicError carrying the value, the worker id and the
stack trace, logged through the configured zap logger and passed to
Config.ErrorHandler. The worker keeps running.

# Observability

Pool.Stats and WorkerStats return counters for posted, dropped, processed,
stolen and panicking tasks. A Metrics implementation, such as the Prometheus
exporter in observability/prometheus, receives the same events as they happen.
*/
package tasker
