package prometheus

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fluxorio/workq/pkg/workq"
)

func TestExporter_Record(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewExporter("workq", reg)
	if err != nil {
		t.Fatalf("NewExporter failed: %v", err)
	}

	exporter.Record("jobs", workq.Stats{
		QueuedTasks:    3,
		PendingTasks:   5,
		LiveWorkers:    2,
		WaitingWorkers: 1,
		CompletedTasks: 42,
		FailedTasks:    7,
	})

	if got := testutil.ToFloat64(exporter.queuedTasks.WithLabelValues("jobs")); got != 3 {
		t.Errorf("queued_tasks = %v, want 3", got)
	}
	if got := testutil.ToFloat64(exporter.pendingTasks.WithLabelValues("jobs")); got != 5 {
		t.Errorf("pending_tasks = %v, want 5", got)
	}
	if got := testutil.ToFloat64(exporter.liveWorkers.WithLabelValues("jobs")); got != 2 {
		t.Errorf("live_workers = %v, want 2", got)
	}
	if got := testutil.ToFloat64(exporter.completedTasks.WithLabelValues("jobs")); got != 42 {
		t.Errorf("completed_tasks_total = %v, want 42", got)
	}
	if got := testutil.ToFloat64(exporter.failedTasks.WithLabelValues("jobs")); got != 7 {
		t.Errorf("failed_tasks_total = %v, want 7", got)
	}
}

func TestExporter_EmptyNameFallsBack(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewExporter("", reg)
	if err != nil {
		t.Fatalf("NewExporter failed: %v", err)
	}

	exporter.Record("", workq.Stats{QueuedTasks: 1})

	if got := testutil.ToFloat64(exporter.queuedTasks.WithLabelValues("workqueue")); got != 1 {
		t.Errorf("queued_tasks{queue=workqueue} = %v, want 1", got)
	}
}

func TestNewExporter_AlreadyRegisteredReuse(t *testing.T) {
	reg := prom.NewRegistry()
	first, err := NewExporter("workq", reg)
	if err != nil {
		t.Fatalf("first NewExporter failed: %v", err)
	}
	second, err := NewExporter("workq", reg)
	if err != nil {
		t.Fatalf("second NewExporter failed: %v", err)
	}

	first.Record("jobs", workq.Stats{LiveWorkers: 4})

	// Both exporters share the registered collectors.
	if got := testutil.ToFloat64(second.liveWorkers.WithLabelValues("jobs")); got != 4 {
		t.Errorf("live_workers via second exporter = %v, want 4", got)
	}
}
