package prometheus

import (
	"context"
	"sync"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fluxorio/workq/pkg/workq"
)

type fakeProvider struct {
	mu    sync.Mutex
	stats workq.Stats
}

func (f *fakeProvider) Stats() workq.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

func (f *fakeProvider) set(stats workq.Stats) {
	f.mu.Lock()
	f.stats = stats
	f.mu.Unlock()
}

func TestSnapshotPoller_Collects(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	provider := &fakeProvider{}
	provider.set(workq.Stats{QueuedTasks: 9, LiveWorkers: 3})
	poller.AddQueue("jobs", provider)

	poller.Start(context.Background())
	defer poller.Stop()

	time.Sleep(50 * time.Millisecond)

	if got := testutil.ToFloat64(poller.exporter.queuedTasks.WithLabelValues("jobs")); got != 9 {
		t.Errorf("queued_tasks = %v, want 9", got)
	}

	provider.set(workq.Stats{QueuedTasks: 0, LiveWorkers: 3, CompletedTasks: 9})
	time.Sleep(50 * time.Millisecond)

	if got := testutil.ToFloat64(poller.exporter.completedTasks.WithLabelValues("jobs")); got != 9 {
		t.Errorf("completed_tasks_total = %v, want 9", got)
	}
}

func TestSnapshotPoller_PollsRealQueue(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	q, err := workq.New(workq.WithMaxThreads(2))
	if err != nil {
		t.Fatalf("workq.New failed: %v", err)
	}
	defer q.Kill()
	poller.AddQueue("real", q)

	for i := 0; i < 5; i++ {
		q.SubmitFunc(func(ctx context.Context) error { return nil })
	}
	q.Join()

	poller.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	poller.Stop()

	if got := testutil.ToFloat64(poller.exporter.completedTasks.WithLabelValues("real")); got != 5 {
		t.Errorf("completed_tasks_total = %v, want 5", got)
	}
	if got := testutil.ToFloat64(poller.exporter.liveWorkers.WithLabelValues("real")); got > 2 {
		t.Errorf("live_workers = %v, want at most 2", got)
	}
}

func TestSnapshotPoller_StartStopIdempotent(t *testing.T) {
	poller, err := NewSnapshotPoller(prom.NewRegistry(), time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	poller.Start(context.Background())
	poller.Start(context.Background())
	poller.Stop()
	poller.Stop()
}
