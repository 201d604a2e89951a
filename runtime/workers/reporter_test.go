package workers

import (
	"bytes"
	"consultoria-tcp/observability"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReporterWorker_Logs_Stats(t *testing.T) {
	req := require.New(t)
	out := &syncBuffer{}
	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	stats := observability.NewStats()
	stats.ConnectionOpened()
	stats.RequestServed(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- NewReporterWorker(stats, 10*time.Millisecond, log).Run(ctx) }()

	req.Eventually(func() bool {
		return bytes.Contains([]byte(out.String()), []byte("requests_total=1"))
	}, 2*time.Second, 10*time.Millisecond)
	req.Contains(out.String(), "active_connections=1")

	cancel()
	req.ErrorIs(<-done, context.Canceled)
}
