package pipeline

import (
	"sync"
	"time"
)

// Stats accumulates success and failure counts for one pipeline run.
// The engine mutates it only from the completion-drain path, but it is
// mutex-guarded so the drain discipline is not load-bearing.
type Stats struct {
	success   int
	failure   int
	startTime time.Time
	mu        sync.Mutex
}

// StatsSnapshot is a point-in-time view of a Stats.
type StatsSnapshot struct {
	Success int
	Failure int
	Elapsed time.Duration
}

// NewStats creates a Stats with the clock started.
func NewStats() *Stats {
	return &Stats{
		startTime: time.Now(),
	}
}

// RecordSuccesses adds n to the success count.
func (s *Stats) RecordSuccesses(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.success += n
}

// RecordFailures adds n to the failure count.
func (s *Stats) RecordFailures(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure += n
}

// Snapshot returns the current counts and elapsed time.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		Success: s.success,
		Failure: s.failure,
		Elapsed: time.Since(s.startTime),
	}
}
