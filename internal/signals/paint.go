package signals

import (
	"context"
	"sync"

	"github.com/torosent/webvitals/internal/lifecycle"
	"github.com/torosent/webvitals/internal/metrics"
)

// PaintTiming reports the start time of the first paint entry with a given name.
type PaintTiming struct {
	metric    string
	entryName string
}

// FirstPaint returns the producer for first-paint.
func FirstPaint() PaintTiming {
	return PaintTiming{metric: MetricFirstPaint, entryName: "first-paint"}
}

// FirstContentfulPaint returns the producer for first-contentful-paint.
func FirstContentfulPaint() PaintTiming {
	return PaintTiming{metric: MetricFirstContentfulPaint, entryName: "first-contentful-paint"}
}

func (p PaintTiming) Name() string { return p.metric }
func (p PaintTiming) Phase() Phase { return PhaseAfterLoad }

func (p PaintTiming) Start(_ context.Context, env Env) {
	if env.Page == nil {
		return
	}
	f := &finalizer{}
	f.add(env.Page.Timeline.Observe(lifecycle.EntryPaint, true, func(e lifecycle.Entry) {
		if e.Name != p.entryName {
			return
		}
		f.finish(func() {
			env.Report(metrics.NewRecord(p.metric, e.StartTime))
		})
	}))
}

// FID reports the delay between the first input and the start of its processing.
type FID struct{}

func (FID) Name() string { return MetricFirstInputDelay }
func (FID) Phase() Phase { return PhaseAfterLoad }

func (FID) Start(_ context.Context, env Env) {
	if env.Page == nil {
		return
	}
	f := &finalizer{}
	f.add(env.Page.Timeline.Observe(lifecycle.EntryFirstInput, true, func(e lifecycle.Entry) {
		f.finish(func() {
			env.Report(metrics.NewRecord(MetricFirstInputDelay, e.ProcessingStart-e.StartTime))
		})
	}))
}

// LCP tracks the latest largest-contentful-paint candidate and reports it when the
// user first interacts or the page goes away.
type LCP struct {
	mu     sync.Mutex
	latest *float64
}

func (*LCP) Name() string { return MetricLargestContentfulPaint }
func (*LCP) Phase() Phase { return PhaseAfterLoad }

func (l *LCP) Start(ctx context.Context, env Env) {
	if env.Page == nil {
		return
	}
	f := &finalizer{}
	report := func() {
		f.finish(func() {
			l.mu.Lock()
			latest := l.latest
			l.mu.Unlock()
			if latest != nil {
				env.Report(metrics.NewRecord(MetricLargestContentfulPaint, *latest))
			}
		})
	}

	f.add(env.Page.Timeline.Observe(lifecycle.EntryLargestPaint, true, func(e lifecycle.Entry) {
		l.mu.Lock()
		l.latest = metrics.Float(e.StartTime)
		l.mu.Unlock()
	}))
	f.add(env.Page.Timeline.Observe(lifecycle.EntryFirstInput, true, func(lifecycle.Entry) { report() }))
	onPageEnd(ctx, env.Page, f, report)
}
