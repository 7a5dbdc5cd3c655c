package signals

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/torosent/webvitals/internal/lifecycle"
	"github.com/torosent/webvitals/internal/mark"
	"github.com/torosent/webvitals/internal/metrics"
	"github.com/torosent/webvitals/internal/reporter"
)

// Metric names reported by the built-in producers.
const (
	MetricDeviceCPUCount         = "device-cpu-count"
	MetricDeviceMemory           = "device-memory"
	MetricNavigationTiming       = "navigation-timing"
	MetricFirstPaint             = "first-paint"
	MetricFirstContentfulPaint   = "first-contentful-paint"
	MetricFirstInputDelay        = "first-input-delay"
	MetricLargestContentfulPaint = "largest-contentful-paint"
	MetricCumulativeLayoutShift  = "cumulative-layout-shift"
	MetricResourceFlow           = "resource-flow"
	MetricFPS                    = "fps"
)

// Phase says when an initializer is started.
type Phase int

const (
	// PhaseImmediate initializers start when the session is created.
	PhaseImmediate Phase = iota
	// PhaseAfterLoad initializers start once the page's load barrier is released.
	PhaseAfterLoad
)

func (p Phase) String() string {
	switch p {
	case PhaseImmediate:
		return "immediate"
	case PhaseAfterLoad:
		return "after-load"
	default:
		return "unknown"
	}
}

// Env is what an initializer is given. It never owns the store or the reporter.
type Env struct {
	Store              *metrics.Store
	Report             reporter.Reporter
	Immediately        bool
	CustomPaintMetrics string
	LogFpsCount        int
	Page               *lifecycle.Page
	Clock              mark.Clock
	Logger             logrus.FieldLogger
}

// Initializer is a metric producer.
type Initializer interface {
	Name() string
	Phase() Phase
	// Start begins observation. It must not block; ctx is cancelled when the
	// session closes.
	Start(ctx context.Context, env Env)
}

// Defaults returns the built-in producers in start order.
func Defaults() []Initializer {
	return []Initializer{
		DeviceInfo{},
		&CLS{},
		&ResourceFlow{},
		NavigationTiming{},
		FirstPaint(),
		FirstContentfulPaint(),
		FID{},
		&LCP{},
		&FPS{},
	}
}

// finalizer reports a value exactly once, on the first of several end signals.
type finalizer struct {
	mu      sync.Mutex
	done    bool
	cancels []func()
}

func (f *finalizer) add(cancel func()) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		cancel()
		return
	}
	f.cancels = append(f.cancels, cancel)
	f.mu.Unlock()
}

// finish runs report once and detaches every registered listener.
func (f *finalizer) finish(report func()) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	cancels := f.cancels
	f.cancels = nil
	f.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	report()
}

// onPageEnd calls fn on the page's hidden, before-unload and unload triggers. When
// ctx ends first the finalizer is closed without reporting.
func onPageEnd(ctx context.Context, page *lifecycle.Page, f *finalizer, fn func()) {
	f.add(page.Visibility.Hidden().Register(fn))
	f.add(page.BeforeUnload.Register(fn))
	f.add(page.Unload.Register(fn))
	stop := context.AfterFunc(ctx, func() { f.finish(func() {}) })
	f.add(func() { stop() })
}
