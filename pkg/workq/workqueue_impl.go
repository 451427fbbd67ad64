package workq

import (
	"context"
	"sync"
	"sync/atomic"
)

// defaultWorkQueue implements WorkQueue. Two synchronization domains: the
// task queue owns its own mutex and conditions, regMu guards the worker
// registry and waiting counter. Anything needing both (the growth decision)
// takes regMu first, then the queue lock; never the other way around.
type defaultWorkQueue struct {
	maxThreads int // Unlimited when unbounded
	maxTasks   int

	tasks *taskQueue

	regMu sync.Mutex
	reg   *registry

	logger   Logger
	observer Observer

	completedTasks atomic.Int64
	failedTasks    atomic.Int64
}

// New creates an idle WorkQueue. Without options both the pool size and the
// queue length are unlimited; WithMaxThreads/WithMaxTasks bound them.
// A limit that is zero or negative fails with *ConfigError.
func New(opts ...Option) (WorkQueue, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = NewDefaultLogger()
	}

	return &defaultWorkQueue{
		maxThreads: cfg.maxThreads,
		maxTasks:   cfg.maxTasks,
		tasks:      newTaskQueue(cfg.maxTasks),
		reg:        newRegistry(),
		logger:     cfg.logger,
		observer:   cfg.observer,
	}, nil
}

// Submit implements WorkQueue interface
func (q *defaultWorkQueue) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	q.tasks.enqueue(task) // blocks while the queue is full
	q.maybeSpawn()
	return nil
}

// SubmitFunc implements WorkQueue interface
func (q *defaultWorkQueue) SubmitFunc(fn func(ctx context.Context) error) error {
	if fn == nil {
		return ErrNilTask
	}
	return q.Submit(TaskFunc(fn))
}

// Join implements WorkQueue interface
func (q *defaultWorkQueue) Join() {
	q.tasks.waitIdle()
}

// Kill implements WorkQueue interface
func (q *defaultWorkQueue) Kill() {
	q.regMu.Lock()
	for _, w := range q.reg.workers {
		w.cancel()
	}
	gen := q.reg.gen + 1 // strand stale workers on the old generation
	q.reg = newRegistry()
	q.reg.gen = gen
	q.regMu.Unlock()

	// Wakes cancelled workers out of dequeue, frees blocked producers and
	// releases joiners. Must happen after the cancellations above so woken
	// workers observe their stopped context.
	q.tasks.clear()
}

// CurThreads implements WorkQueue interface
func (q *defaultWorkQueue) CurThreads() int {
	q.regMu.Lock()
	defer q.regMu.Unlock()
	return len(q.reg.workers)
}

// CurTasks implements WorkQueue interface
func (q *defaultWorkQueue) CurTasks() int {
	return q.tasks.length()
}

// MaxThreads implements WorkQueue interface
func (q *defaultWorkQueue) MaxThreads() int {
	return q.maxThreads
}

// MaxTasks implements WorkQueue interface
func (q *defaultWorkQueue) MaxTasks() int {
	return q.maxTasks
}

// Stats implements WorkQueue interface
func (q *defaultWorkQueue) Stats() Stats {
	q.regMu.Lock()
	live := len(q.reg.workers)
	waiting := q.reg.waiting
	q.regMu.Unlock()

	return Stats{
		QueuedTasks:    q.tasks.length(),
		PendingTasks:   q.tasks.pendingCount(),
		LiveWorkers:    live,
		WaitingWorkers: waiting,
		CompletedTasks: q.completedTasks.Load(),
		FailedTasks:    q.failedTasks.Load(),
		MaxThreads:     q.maxThreads,
		MaxTasks:       q.maxTasks,
	}
}
