package observability

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Snapshot is a point-in-time copy of the server counters.
type Snapshot struct {
	Uptime            time.Duration
	ActiveConnections int64
	AcceptedTotal     uint64
	RequestsTotal     uint64
	ErrorResponses    uint64
	QueuedConnections int
	AllocMemMb        uint64
	NumGC             uint32
	Goroutines        int
}

// Stats aggregates the server's counters. All methods are safe for concurrent use.
type Stats struct {
	startedAt time.Time
	queueLen  func() int

	activeConnections atomic.Int64
	acceptedTotal     atomic.Uint64
	requestsTotal     atomic.Uint64
	errorResponses    atomic.Uint64
}

func NewStats() *Stats {
	return &Stats{startedAt: time.Now(), queueLen: func() int { return 0 }}
}

// TrackQueue registers how to read the number of connections waiting for a worker.
func (s *Stats) TrackQueue(queueLen func() int) {
	s.queueLen = queueLen
}

func (s *Stats) ConnectionOpened() {
	s.acceptedTotal.Add(1)
	s.activeConnections.Add(1)
}

func (s *Stats) ConnectionClosed() {
	s.activeConnections.Add(-1)
}

// RequestServed counts one response, and one error when success is false.
func (s *Stats) RequestServed(success bool) {
	s.requestsTotal.Add(1)
	if !success {
		s.errorResponses.Add(1)
	}
}

func (s *Stats) Snapshot() Snapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return Snapshot{
		Uptime:            time.Since(s.startedAt).Round(time.Second),
		ActiveConnections: s.activeConnections.Load(),
		AcceptedTotal:     s.acceptedTotal.Load(),
		RequestsTotal:     s.requestsTotal.Load(),
		ErrorResponses:    s.errorResponses.Load(),
		QueuedConnections: s.queueLen(),
		AllocMemMb:        mem.Alloc / 1024 / 1024,
		NumGC:             mem.NumGC,
		Goroutines:        runtime.NumGoroutine(),
	}
}
