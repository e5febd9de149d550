package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsCounts(t *testing.T) {
	stats := NewStats()

	stats.RecordSuccesses(4)
	stats.RecordSuccesses(4)
	stats.RecordFailures(1)
	stats.RecordSuccesses(2)

	snap := stats.Snapshot()
	assert.Equal(t, 10, snap.Success)
	assert.Equal(t, 1, snap.Failure)
	assert.Greater(t, snap.Elapsed, time.Duration(0))
}

func TestStatsConcurrentRecording(t *testing.T) {
	stats := NewStats()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.RecordSuccesses(1)
			stats.RecordFailures(1)
		}()
	}
	wg.Wait()

	snap := stats.Snapshot()
	assert.Equal(t, 50, snap.Success)
	assert.Equal(t, 50, snap.Failure)
}
