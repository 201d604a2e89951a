package observability

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStats_Counters(t *testing.T) {
	req := require.New(t)
	stats := NewStats()
	stats.TrackQueue(func() int { return 3 })

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stats.ConnectionOpened()
			stats.RequestServed(i%2 == 0)
			stats.RequestServed(true)
			if i < 4 {
				stats.ConnectionClosed()
			}
		}(i)
	}
	wg.Wait()

	snapshot := stats.Snapshot()
	req.Equal(uint64(10), snapshot.AcceptedTotal)
	req.Equal(int64(6), snapshot.ActiveConnections)
	req.Equal(uint64(20), snapshot.RequestsTotal)
	req.Equal(uint64(5), snapshot.ErrorResponses)
	req.Equal(3, snapshot.QueuedConnections)
	req.Positive(snapshot.Goroutines)
}
