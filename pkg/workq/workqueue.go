package workq

import (
	"context"
)

// WorkQueue coordinates producers with a lazily grown pool of workers over a
// bounded FIFO task queue. Submissions block when the queue is full
// (backpressure), workers are spawned on demand up to the configured ceiling
// and reused for subsequent tasks, and Kill resets the whole structure to an
// empty but reusable state.
type WorkQueue interface {
	// Submit queues a task for asynchronous execution and triggers pool
	// growth. It returns once the task is queued, not once it has run,
	// blocking only while the queue is at capacity. Task failures are not
	// reported back; install an Observer to see them.
	Submit(task Task) error

	// SubmitFunc is Submit for a bare function
	SubmitFunc(fn func(ctx context.Context) error) error

	// Join blocks until no submitted work is pending (queued or running).
	// Returns immediately if the queue is already idle. Submissions made by
	// other goroutines after Join begins may extend the wait.
	Join()

	// Kill cancels every live worker, discards queued tasks and pending
	// accounting, and wakes blocked producers and joiners. Tasks already
	// running are interrupted cooperatively through their context; their
	// in-flight side effects are neither rolled back nor completed. The
	// queue is immediately reusable. Kill on an idle queue is a no-op.
	Kill()

	// CurThreads returns the number of live workers (a snapshot)
	CurThreads() int

	// CurTasks returns the number of queued tasks (a snapshot)
	CurTasks() int

	// MaxThreads returns the worker ceiling, or Unlimited
	MaxThreads() int

	// MaxTasks returns the queue capacity, or Unlimited
	MaxTasks() int

	// Stats returns a consolidated snapshot of queue and pool state
	Stats() Stats
}

// Stats is a point-in-time snapshot of a WorkQueue
type Stats struct {
	QueuedTasks    int   // Tasks waiting in the queue
	PendingTasks   int   // Queued plus currently executing tasks
	LiveWorkers    int   // Workers in the registry
	WaitingWorkers int   // Workers blocked waiting for a task
	CompletedTasks int64 // Total tasks that finished without error
	FailedTasks    int64 // Total tasks that returned an error or panicked
	MaxThreads     int   // Worker ceiling, or Unlimited
	MaxTasks       int   // Queue capacity, or Unlimited
}
