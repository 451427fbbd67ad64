package workq

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of a single task execution. It is handed to the
// configured Observer; the default observer logs failures and discards them,
// so task errors never surface to Submit or Join.
type Result struct {
	Worker   uuid.UUID
	Task     string
	Err      error
	Duration time.Duration
}

// Observer receives per-task outcomes. It is called from the worker
// goroutine after completion accounting, with no queue locks held.
type Observer func(Result)

// worker is one pool thread. gen ties it to the registry generation it was
// spawned under; a kill bumps the generation so stragglers finishing a task
// cannot mutate the fresh registry state.
type worker struct {
	id     uuid.UUID
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func (w *worker) stopped() bool {
	return w.ctx.Err() != nil
}

// registry tracks live workers and how many of them are blocked waiting for
// a task. It is the second synchronization domain next to the queue; the
// fixed acquisition order is registry lock before queue lock, and queue code
// never takes the registry lock.
type registry struct {
	workers map[uuid.UUID]*worker
	waiting int
	gen     uint64
}

func newRegistry() *registry {
	return &registry{
		workers: make(map[uuid.UUID]*worker),
	}
}

// maybeSpawn starts one worker if the backlog needs it: capacity remains,
// no idle worker is about to pick the task up, and the queue is non-empty.
// The whole check-and-act runs under the registry lock so two producers can
// never both conclude "someone else will spawn one".
func (q *defaultWorkQueue) maybeSpawn() {
	q.regMu.Lock()
	defer q.regMu.Unlock()

	if len(q.reg.workers) >= q.maxThreads {
		return
	}
	if q.reg.waiting > 0 {
		return
	}
	if q.tasks.length() == 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{
		id:     uuid.New(),
		gen:    q.reg.gen,
		ctx:    ctx,
		cancel: cancel,
	}
	q.reg.workers[w.id] = w
	go q.runWorker(w)
}

// runWorker is the worker loop: wait for a task, run it, report completion,
// repeat. There is no voluntary exit; the loop ends only when the worker's
// context is cancelled by Kill. Task failures and panics are folded into a
// Result and the worker keeps serving.
func (q *defaultWorkQueue) runWorker(w *worker) {
	defer q.retire(w)

	for {
		q.setWaiting(w, +1)
		task, epoch, ok := q.tasks.dequeue(w.stopped)
		q.setWaiting(w, -1)
		if !ok {
			return
		}

		res := q.execute(w, task)
		q.tasks.complete(epoch)
		q.observe(res)

		if w.stopped() {
			return
		}
	}
}

// execute runs the task body with no queue locks held, so arbitrarily long
// or re-entrant tasks never block unrelated producers or workers.
func (q *defaultWorkQueue) execute(w *worker, task Task) Result {
	start := time.Now()
	res := Result{Worker: w.id, Task: task.Name()}

	func() {
		defer func() {
			if r := recover(); r != nil {
				res.Err = fmt.Errorf("task %s panicked: %v", task.Name(), r)
			}
		}()
		res.Err = task.Execute(w.ctx)
	}()

	res.Duration = time.Since(start)
	return res
}

func (q *defaultWorkQueue) observe(res Result) {
	if res.Err != nil {
		q.failedTasks.Add(1)
	} else {
		q.completedTasks.Add(1)
	}

	if q.observer != nil {
		q.observer(res)
		return
	}
	if res.Err != nil {
		q.logger.Errorf("worker %s: task %s failed: %v", res.Worker, res.Task, res.Err)
	}
}

// setWaiting adjusts the waiting counter, ignoring workers from a previous
// generation whose accounting was already reset by Kill.
func (q *defaultWorkQueue) setWaiting(w *worker, delta int) {
	q.regMu.Lock()
	defer q.regMu.Unlock()

	if w.gen != q.reg.gen {
		return
	}
	q.reg.waiting += delta
}

// retire removes the worker from the registry on loop exit. After a kill the
// registry was already replaced, so a stale generation has nothing to do.
func (q *defaultWorkQueue) retire(w *worker) {
	w.cancel()

	q.regMu.Lock()
	defer q.regMu.Unlock()

	if w.gen != q.reg.gen {
		return
	}
	delete(q.reg.workers, w.id)
}
