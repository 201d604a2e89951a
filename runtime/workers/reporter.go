package workers

import (
	"consultoria-tcp/contract"
	"consultoria-tcp/observability"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*ReporterWorker)(nil)

// ReporterWorker logs the server counters and the process footprint at a fixed interval.
type ReporterWorker struct {
	stats    *observability.Stats
	interval time.Duration
	log      *slog.Logger
	proc     *process.Process
}

func NewReporterWorker(stats *observability.Stats, interval time.Duration, log *slog.Logger) *ReporterWorker {
	return &ReporterWorker{stats: stats, interval: interval, log: log}
}

// Run starts the reporting loop until context cancellation.
func (w *ReporterWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report()
			return ctx.Err()
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *ReporterWorker) report() {
	snapshot := w.stats.Snapshot()
	attrs := []any{
		"uptime", snapshot.Uptime.String(),
		"active_connections", snapshot.ActiveConnections,
		"queued_connections", snapshot.QueuedConnections,
		"accepted_total", snapshot.AcceptedTotal,
		"requests_total", snapshot.RequestsTotal,
		"error_responses", snapshot.ErrorResponses,
		"alloc_mb", snapshot.AllocMemMb,
		"num_gc", snapshot.NumGC,
		"goroutines", snapshot.Goroutines,
	}
	attrs = append(attrs, w.processAttrs()...)
	w.log.Info("Server stats", attrs...)
}

// processAttrs reads CPU and resident memory of the current process.
// Failures are logged and leave the attributes out.
func (w *ReporterWorker) processAttrs() []any {
	if w.proc == nil {
		p, err := process.NewProcess(int32(os.Getpid()))
		if err != nil {
			w.log.Debug("Error while retrieving process", "err", err)
			return nil
		}
		w.proc = p
	}
	cpu, err := w.proc.CPUPercent()
	if err != nil {
		w.log.Debug("Error while finding process cpu usage", "err", err)
		return nil
	}
	mem, err := w.proc.MemoryInfo()
	if err != nil {
		w.log.Debug("Error while finding process ram usage", "err", err)
		return nil
	}
	return []any{"cpu_percent", cpu, "rss_mb", mem.RSS / 1024 / 1024}
}
