package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/torosent/webvitals/internal/metrics"
)

// Source returns the current metrics snapshot.
type Source func() metrics.Values

// ProgressReporter displays the metrics collected so far at a fixed interval.
type ProgressReporter struct {
	source   Source
	ticker   *time.Ticker
	done     chan struct{}
	finished chan struct{}
	writer   io.Writer
	active   int32
	start    time.Time
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(source Source, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		source:   source,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		writer:   writer,
		start:    time.Now(),
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates.
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
			fmt.Fprint(p.writer, progressLine(p.source(), time.Since(p.start)))
		case <-p.done:
			return
		}
	}
}

func progressLine(values metrics.Values, elapsed time.Duration) string {
	line := fmt.Sprintf("\rElapsed: %s | Pending metrics: %d", elapsed.Truncate(time.Second), values.Len())
	records := values.Records()
	if len(records) > 0 {
		latest := records[len(records)-1]
		line += fmt.Sprintf(" | Last: %s=%s", latest.Name, formatValue(latest))
	}
	return line
}
