/*
Package queue provides an unbounded, thread-safe FIFO queue with a drain-and-stop protocol.

# Overview

Queue is the building block of the tasker pools. Every pool owns one or more
queues; producers push into them and worker goroutines pop from them.

  - Push appends a value and wakes one blocked consumer
  - TryPush gives up immediately when the lock is busy
  - Pop blocks until a value is available or the queue is stopped
  - TryPop gives up immediately when the lock is busy or the queue is empty
  - Front, Back, Empty and Size are read-only and take the shared lock

# Stop and drain

Stop marks the queue stopped and wakes every blocked consumer. Values pushed
after Stop are dropped and Push reports false. Values queued before Stop are
still returned by Pop; Pop reports the end of the stream (ok == false) only
once the queue is both stopped and empty.

	q := queue.New[int]()
	q.Push(1)
	q.Stop()

	v, ok := q.Pop() // 1, true
	_, ok = q.Pop()  // 0, false

# Relocation

TransferFrom moves the contents of one queue into another while holding both
locks, so no value is ever observable in both queues or in neither.
*/
package queue
