package workers

import (
	"consultoria-tcp/contract"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*SessionJanitorWorker)(nil)

type Sweeper interface {
	Sweep() int
}

// SessionJanitorWorker periodically drops expired sessions so that tokens
// nobody presents again do not stay in memory.
type SessionJanitorWorker struct {
	sessions Sweeper
	interval time.Duration
	log      *slog.Logger
}

func NewSessionJanitorWorker(sessions Sweeper, interval time.Duration, log *slog.Logger) *SessionJanitorWorker {
	return &SessionJanitorWorker{sessions: sessions, interval: interval, log: log}
}

func (w *SessionJanitorWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := w.sessions.Sweep(); removed > 0 {
				w.log.Debug("Expired sessions removed", "count", removed)
			}
		}
	}
}
