package tasker

import "time"

// Metrics receives measurements from a running pool. Implementations must be
// safe for concurrent use by every worker and must not panic.
type Metrics interface {
	// RecordPosted is called for every task accepted by Post
	RecordPosted(pool string)

	// RecordDropped is called for every task posted after Stop
	RecordDropped(pool string)

	// RecordProcessed is called after the processing function returns
	RecordProcessed(pool string, worker int, stolen bool, duration time.Duration)

	// RecordPanic is called when the processing function panics
	RecordPanic(pool string)
}
