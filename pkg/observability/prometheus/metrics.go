package prometheus

import (
	"errors"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/fluxorio/workq/pkg/workq"
)

// Exporter maps workq.Stats snapshots onto Prometheus collectors.
// All collectors carry a "queue" label so several WorkQueue instances can
// share one registry.
type Exporter struct {
	queuedTasks    *prom.GaugeVec
	pendingTasks   *prom.GaugeVec
	liveWorkers    *prom.GaugeVec
	waitingWorkers *prom.GaugeVec
	completedTasks *prom.GaugeVec
	failedTasks    *prom.GaugeVec
}

// NewExporter creates and registers the workq collectors.
func NewExporter(namespace string, reg prom.Registerer) (*Exporter, error) {
	if namespace == "" {
		namespace = "workq"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	queuedTasks := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queued_tasks",
		Help:      "Tasks waiting in the queue.",
	}, []string{"queue"})
	pendingTasks := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "pending_tasks",
		Help:      "Tasks queued or currently executing.",
	}, []string{"queue"})
	liveWorkers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "live_workers",
		Help:      "Workers currently in the pool.",
	}, []string{"queue"})
	waitingWorkers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "waiting_workers",
		Help:      "Workers blocked waiting for a task.",
	}, []string{"queue"})
	completedTasks := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "completed_tasks_total",
		Help:      "Completed task count snapshot.",
	}, []string{"queue"})
	failedTasks := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "failed_tasks_total",
		Help:      "Failed task count snapshot (errors and panics).",
	}, []string{"queue"})

	var err error
	if queuedTasks, err = registerCollector(reg, queuedTasks); err != nil {
		return nil, err
	}
	if pendingTasks, err = registerCollector(reg, pendingTasks); err != nil {
		return nil, err
	}
	if liveWorkers, err = registerCollector(reg, liveWorkers); err != nil {
		return nil, err
	}
	if waitingWorkers, err = registerCollector(reg, waitingWorkers); err != nil {
		return nil, err
	}
	if completedTasks, err = registerCollector(reg, completedTasks); err != nil {
		return nil, err
	}
	if failedTasks, err = registerCollector(reg, failedTasks); err != nil {
		return nil, err
	}

	return &Exporter{
		queuedTasks:    queuedTasks,
		pendingTasks:   pendingTasks,
		liveWorkers:    liveWorkers,
		waitingWorkers: waitingWorkers,
		completedTasks: completedTasks,
		failedTasks:    failedTasks,
	}, nil
}

// Record writes one stats snapshot for the named queue.
func (e *Exporter) Record(name string, stats workq.Stats) {
	if e == nil {
		return
	}
	name = normalizeLabel(name, "workqueue")

	e.queuedTasks.WithLabelValues(name).Set(float64(stats.QueuedTasks))
	e.pendingTasks.WithLabelValues(name).Set(float64(stats.PendingTasks))
	e.liveWorkers.WithLabelValues(name).Set(float64(stats.LiveWorkers))
	e.waitingWorkers.WithLabelValues(name).Set(float64(stats.WaitingWorkers))
	e.completedTasks.WithLabelValues(name).Set(float64(stats.CompletedTasks))
	e.failedTasks.WithLabelValues(name).Set(float64(stats.FailedTasks))
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
