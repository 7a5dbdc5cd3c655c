package signals

import (
	"context"
	"sync"

	"github.com/torosent/webvitals/internal/lifecycle"
	"github.com/torosent/webvitals/internal/metrics"
)

// CLS sums layout shifts not caused by recent input. The total is reported when the
// custom paint event fires or the page goes away.
type CLS struct {
	mu    sync.Mutex
	total float64
}

func (*CLS) Name() string { return MetricCumulativeLayoutShift }
func (*CLS) Phase() Phase { return PhaseImmediate }

func (c *CLS) Start(ctx context.Context, env Env) {
	if env.Page == nil {
		return
	}
	f := &finalizer{}
	f.add(env.Page.Timeline.Observe(lifecycle.EntryLayoutShift, true, func(e lifecycle.Entry) {
		if e.HadRecentInput {
			return
		}
		c.mu.Lock()
		c.total += e.Value
		c.mu.Unlock()
	}))

	report := func() {
		f.finish(func() {
			c.mu.Lock()
			total := c.total
			c.mu.Unlock()
			env.Report(metrics.NewRecord(MetricCumulativeLayoutShift, total))
		})
	}
	if env.CustomPaintMetrics != "" {
		f.add(env.Page.Events.Subscribe(env.CustomPaintMetrics, report))
	}
	onPageEnd(ctx, env.Page, f, report)
}

// ResourceFlow sums the bytes transferred for resources loaded by the page. The total
// is reported when the custom paint event fires or the page goes away.
type ResourceFlow struct {
	mu    sync.Mutex
	bytes float64
}

func (*ResourceFlow) Name() string { return MetricResourceFlow }
func (*ResourceFlow) Phase() Phase { return PhaseImmediate }

func (r *ResourceFlow) Start(ctx context.Context, env Env) {
	if env.Page == nil {
		return
	}
	f := &finalizer{}
	f.add(env.Page.Timeline.Observe(lifecycle.EntryResource, true, func(e lifecycle.Entry) {
		r.mu.Lock()
		r.bytes += e.TransferSize
		r.mu.Unlock()
	}))

	report := func() {
		f.finish(func() {
			r.mu.Lock()
			total := r.bytes
			r.mu.Unlock()
			env.Report(metrics.NewRecord(MetricResourceFlow, total))
		})
	}
	if env.CustomPaintMetrics != "" {
		f.add(env.Page.Events.Subscribe(env.CustomPaintMetrics, report))
	}
	onPageEnd(ctx, env.Page, f, report)
}
