package pipeline

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker tracks and reports progress of a pipeline run.
// It is purely observational and never influences scheduling.
type ProgressTracker struct {
	writer         io.Writer
	total          int
	completed      int
	success        int
	failure        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr)
// total: total number of items to process
// reportInterval: report progress every N completed items
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.completed = 0
	p.success = 0
	p.failure = 0
	p.lastReported = 0
}

// Update sets the current progress counters.
func (p *ProgressTracker) Update(completed, success, failure int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	// Cap at total
	if completed > p.total {
		completed = p.total
	}

	p.completed = completed
	p.success = success
	p.failure = failure

	// Report if we've crossed a report interval
	if p.completed-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.completed
	}
}

// Finish prints the final progress line.
func (p *ProgressTracker) Finish(success, failure int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.completed = p.total
	p.success = success
	p.failure = failure
	p.report()
	fmt.Fprintln(p.writer) // Print newline after final progress
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

// ETA estimates the remaining run time from the average time per
// completed item. Returns false until the first item completes.
func (p *ProgressTracker) ETA() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eta()
}

// eta computes the estimate. Must be called with lock held.
func (p *ProgressTracker) eta() (time.Duration, bool) {
	if !p.started || p.completed == 0 {
		return 0, false
	}

	elapsed := time.Since(p.startTime)
	perItem := elapsed / time.Duration(p.completed)
	return perItem * time.Duration(p.total-p.completed), true
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.startTime)
	rate := float64(p.completed) / elapsed.Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.completed) / float64(p.total) * 100.0
	}

	etaStr := "unknown"
	if eta, ok := p.eta(); ok {
		etaStr = eta.Round(time.Second).String()
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f items/s - %d ok / %d failed - ETA %s",
		p.completed, p.total, percentage, rate, p.success, p.failure, etaStr)
}
