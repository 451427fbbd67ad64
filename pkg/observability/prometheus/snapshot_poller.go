package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/fluxorio/workq/pkg/workq"
)

// SnapshotProvider yields the current stats snapshot of a WorkQueue.
// Every workq.WorkQueue satisfies this through its Stats method; the
// indirection keeps the poller testable with fakes.
type SnapshotProvider interface {
	Stats() workq.Stats
}

// SnapshotPoller periodically exports WorkQueue Stats() snapshots into the
// Exporter's gauges.
type SnapshotPoller struct {
	interval time.Duration
	exporter *Exporter

	queuesMu sync.RWMutex
	queues   map[string]SnapshotProvider

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a poller backed by a freshly registered Exporter.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if interval <= 0 {
		interval = time.Second
	}

	exporter, err := NewExporter("workq", reg)
	if err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval: interval,
		exporter: exporter,
		queues:   make(map[string]SnapshotProvider),
	}, nil
}

// AddQueue adds or replaces a queue snapshot provider by name.
func (p *SnapshotPoller) AddQueue(name string, provider SnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "workqueue")
	p.queuesMu.Lock()
	p.queues[name] = provider
	p.queuesMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.queuesMu.RLock()
	defer p.queuesMu.RUnlock()

	for name, provider := range p.queues {
		p.exporter.Record(name, provider.Stats())
	}
}
