package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// ProgressFunc reports how many executions have completed and failed so far,
// plus the batch size. batch.Orchestrator.Progress satisfies it.
type ProgressFunc func() (completed, failed, total int64)

// ProgressReporter displays a live progress line while a batch is in flight.
type ProgressReporter struct {
	progress ProgressFunc
	ticker   *time.Ticker
	done     chan struct{}
	finished chan struct{}
	writer   io.Writer
	active   int32
}

// NewProgressReporter creates a reporter that redraws at the given interval.
func NewProgressReporter(progress ProgressFunc, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		progress: progress,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		writer:   writer,
	}
}

// Start begins drawing progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates and waits for the final redraw.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			completed, failed, total := p.progress()
			fmt.Fprintf(p.writer, "\rRequests: %d/%d | Failures: %d", completed, total, failed)
		case <-p.done:
			return
		}
	}
}
