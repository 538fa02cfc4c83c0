// internal/app/system/workers/auditretention.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
)

// AuditRetention is a background worker that prunes old audit events.
// The audit trail is operational evidence, not an archive; anything past
// the retention window is deleted.
type AuditRetention struct {
	events    *audit.Store
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewAuditRetention creates a retention worker.
//
// Parameters:
//   - events: the audit event store
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 1 hour)
//   - retention: how long events are kept (e.g., 90 days)
func NewAuditRetention(events *audit.Store, logger *zap.Logger, interval, retention time.Duration) *AuditRetention {
	return &AuditRetention{
		events:    events,
		log:       logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *AuditRetention) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("audit retention worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *AuditRetention) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("audit retention worker stopped")
}

func (w *AuditRetention) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *AuditRetention) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.events.DeleteOlderThan(ctx, time.Now().UTC().Add(-w.retention))
	if err != nil {
		w.log.Error("failed to prune audit events", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("pruned audit events", zap.Int64("count", count))
	}
}
