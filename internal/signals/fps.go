package signals

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/torosent/webvitals/internal/metrics"
)

const (
	defaultFPSInterval = time.Second
	maxTrackedFPS      = 10_000
)

// FPS samples the page's frame rate over LogFpsCount windows and reports the mean
// once. Frames come from the page's Frames trigger.
type FPS struct {
	// Interval is the sampling window; zero means one second.
	Interval time.Duration

	ticks   <-chan time.Time
	sampled chan<- struct{}
}

func (*FPS) Name() string { return MetricFPS }
func (*FPS) Phase() Phase { return PhaseAfterLoad }

func (f *FPS) Start(ctx context.Context, env Env) {
	if env.Page == nil {
		return
	}
	windows := env.LogFpsCount
	if windows < 1 {
		windows = 1
	}
	interval := f.Interval
	if interval <= 0 {
		interval = defaultFPSInterval
	}

	var frames atomic.Int64
	cancel := env.Page.Frames.Register(func() { frames.Add(1) })

	go func() {
		defer cancel()

		ticks := f.ticks
		if ticks == nil {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			ticks = ticker.C
		}

		// Track rates from 1 to 10k fps with 3 significant figures.
		hist := hdrhistogram.New(1, maxTrackedFPS, 3)
		for hist.TotalCount() < int64(windows) {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
			}
			rate := math.Round(float64(frames.Swap(0)) / interval.Seconds())
			if rate > maxTrackedFPS {
				rate = maxTrackedFPS
			}
			_ = hist.RecordValue(int64(rate))
			if f.sampled != nil {
				f.sampled <- struct{}{}
			}
		}
		env.Report(metrics.NewRecord(MetricFPS, hist.Mean()))
	}()
}
