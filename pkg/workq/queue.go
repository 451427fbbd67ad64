package workq

import (
	"sync"
)

// taskQueue is the bounded FIFO buffer shared by producers and workers.
// One mutex guards the buffer, the pending counter and the epoch; three
// conditions hang off it: space freed, item queued, all work complete.
//
// pending counts tasks enqueued but not yet completed, so it stays ahead of
// the buffer length while workers are executing. clear advances the epoch so
// completions reported by workers that dequeued before a kill cannot touch
// the fresh pending count.
type taskQueue struct {
	mu         sync.Mutex
	spaceAvail *sync.Cond
	itemAvail  *sync.Cond
	allDone    *sync.Cond

	tasks    []Task
	capacity int // Unlimited when unbounded
	pending  int
	epoch    uint64
}

func newTaskQueue(capacity int) *taskQueue {
	q := &taskQueue{
		capacity: capacity,
	}
	q.spaceAvail = sync.NewCond(&q.mu)
	q.itemAvail = sync.NewCond(&q.mu)
	q.allDone = sync.NewCond(&q.mu)
	return q
}

// enqueue appends t, blocking while the buffer is at capacity.
// Tasks are never dropped; there is no bound on blocked producers.
func (q *taskQueue) enqueue(t Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.tasks) >= q.capacity {
		q.spaceAvail.Wait()
	}

	q.tasks = append(q.tasks, t)
	q.pending++
	q.itemAvail.Signal()
}

// dequeue removes and returns the head task, blocking while the buffer is
// empty. cancelled is re-checked on every wakeup; once it reports true the
// call returns ok=false without consuming anything, which is how killed
// workers drain out of the wait. The returned epoch must be passed to
// complete after the task has run.
func (q *taskQueue) dequeue(cancelled func() bool) (t Task, epoch uint64, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.tasks) == 0 {
		if cancelled() {
			return nil, 0, false
		}
		q.itemAvail.Wait()
	}
	if cancelled() {
		return nil, 0, false
	}

	t = q.tasks[0]
	q.tasks[0] = nil // release the reference
	q.tasks = q.tasks[1:]
	q.spaceAvail.Signal()
	return t, q.epoch, true
}

// complete records that a task dequeued under the given epoch has finished
// (successfully or not). Stale epochs are ignored: the queue was cleared
// while the task was running and its accounting went with it.
func (q *taskQueue) complete(epoch uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if epoch != q.epoch {
		return
	}
	if q.pending > 0 {
		q.pending--
	}
	if q.pending == 0 {
		q.allDone.Broadcast()
	}
}

// waitIdle blocks until the pending count reaches zero
func (q *taskQueue) waitIdle() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.pending > 0 {
		q.allDone.Wait()
	}
}

// clear empties the buffer, resets pending and advances the epoch.
// Every waiter is woken: blocked producers find space, blocked workers
// re-check their cancellation, joiners see pending == 0.
func (q *taskQueue) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.tasks = nil
	q.pending = 0
	q.epoch++
	q.spaceAvail.Broadcast()
	q.itemAvail.Broadcast()
	q.allDone.Broadcast()
}

// length returns the current number of queued tasks (a snapshot)
func (q *taskQueue) length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// pendingCount returns queued plus currently executing tasks (a snapshot)
func (q *taskQueue) pendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}
