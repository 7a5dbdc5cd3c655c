package webvitals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/webvitals/internal/beacon"
	"github.com/torosent/webvitals/internal/config"
	"github.com/torosent/webvitals/internal/lifecycle"
	"github.com/torosent/webvitals/internal/mark"
	"github.com/torosent/webvitals/internal/metrics"
	"github.com/torosent/webvitals/internal/reporter"
	"github.com/torosent/webvitals/internal/schedule"
	"github.com/torosent/webvitals/internal/signals"
	"github.com/torosent/webvitals/internal/tracing"
)

const (
	instrumentationName = "github.com/torosent/webvitals"

	// CustomPaintMetric is the record name reported by CustomCompletedPaint.
	CustomPaintMetric = "custom-contentful-paint"

	measureSuffix = "Metrics"
)

// Flush trigger labels, used in logs and span attributes.
const (
	TriggerHidden       = "hidden"
	TriggerBeforeUnload = "beforeunload"
	TriggerUnload       = "unload"
	TriggerManual       = "manual"
)

// Aliases for the types that cross the public API.
type (
	Config   = config.Config
	Report   = reporter.Report
	Callback = reporter.Callback
	Record   = metrics.Record
	Values   = metrics.Values
)

// waiter is implemented by schedulers that can drain their deferred work.
type waiter interface {
	Wait(ctx context.Context) error
}

// WebVitals is one metrics session.
type WebVitals struct {
	cfg     Config
	session reporter.Session
	store   *metrics.Store
	report  reporter.Reporter
	marks   *mark.Registry
	clock   mark.Clock
	page    *lifecycle.Page
	sched   schedule.Scheduler
	beacon  beacon.Sender
	logger  logrus.FieldLogger
	tracer  trace.Tracer

	ownsBeacon bool
	ctx        context.Context
	cancel     context.CancelFunc
	detach     []func()
	closeOnce  sync.Once
	closeErr   error
}

// New validates cfg, starts the signal producers and wires the flush to the page's
// lifecycle triggers.
func New(cfg Config, opts ...Option) (*WebVitals, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("webvitals: %w", err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = mark.NewClock()
	}
	if o.sched == nil {
		o.sched = schedule.NewAsync()
	}
	if o.page == nil {
		o.page = lifecycle.NewPage(o.sched)
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}
	if o.tracer == nil {
		o.tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	if o.initializers == nil {
		o.initializers = signals.Defaults()
	}
	session := reporter.NewSession(cfg.AppID, cfg.Version)
	if o.session != nil {
		session = *o.session
	}

	logger := o.logger.WithFields(logrus.Fields{
		"section_id": session.SectionID,
		"app_id":     session.AppID,
	})

	wv := &WebVitals{
		cfg:     cfg,
		session: session,
		store:   metrics.NewStore(),
		marks:   mark.NewRegistry(o.clock),
		clock:   o.clock,
		page:    o.page,
		sched:   o.sched,
		beacon:  o.beacon,
		logger:  logger,
		tracer:  o.tracer,
	}
	wv.report = reporter.New(session, cfg.ReportCallback, wv.store, cfg.Immediately)

	if cfg.Buffered() && wv.beacon == nil {
		sender, err := beacon.New(cfg.ReportURI,
			beacon.WithTimeout(cfg.BeaconTimeout),
			beacon.WithLogger(wv.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("webvitals: %w", err)
		}
		wv.beacon = sender
		wv.ownsBeacon = true
	}

	wv.ctx, wv.cancel = context.WithCancel(context.Background())
	wv.startInitializers(o.initializers)

	// The flush runs after every producer's page-end listener, including those of
	// after-load producers that register once the page has loaded.
	wv.detach = append(wv.detach,
		wv.page.Visibility.Hidden().RegisterLate(func() { wv.flush(TriggerHidden) }),
		wv.page.BeforeUnload.RegisterLate(func() { wv.flush(TriggerBeforeUnload) }),
		wv.page.Unload.RegisterLate(func() { wv.flush(TriggerUnload) }),
	)

	wv.logger.WithFields(logrus.Fields{
		"buffered":     cfg.Buffered(),
		"immediately":  cfg.Immediately,
		"initializers": len(o.initializers),
	}).Debug("webvitals session started")

	return wv, nil
}

func (wv *WebVitals) startInitializers(inits []signals.Initializer) {
	env := signals.Env{
		Store:              wv.store,
		Report:             wv.report,
		Immediately:        wv.cfg.Immediately,
		CustomPaintMetrics: wv.cfg.CustomPaintMetrics,
		LogFpsCount:        wv.cfg.LogFpsCount,
		Page:               wv.page,
		Clock:              wv.clock,
	}

	for _, producer := range inits {
		producerEnv := env
		producerEnv.Logger = wv.logger.WithField("initializer", producer.Name())

		switch producer.Phase() {
		case signals.PhaseAfterLoad:
			wv.page.Load.Wait(func() {
				if wv.ctx.Err() != nil {
					return
				}
				producer.Start(wv.ctx, producerEnv)
			})
		default:
			producer.Start(wv.ctx, producerEnv)
		}
	}
}

// Session returns the identity attached to every report.
func (wv *WebVitals) Session() reporter.Session {
	return wv.session
}

// Page returns the lifecycle host driving this session.
func (wv *WebVitals) Page() *lifecycle.Page {
	return wv.page
}

// SetStartMark records the start of the custom timing name.
func (wv *WebVitals) SetStartMark(name string) {
	wv.marks.SetMark(mark.StartName(name))
}

// SetEndMark records the end of the custom timing name and reports it as
// name+"Metrics". Without a start mark the value is the end mark's own timestamp.
func (wv *WebVitals) SetEndMark(name string) {
	wv.marks.SetMark(mark.EndName(name))
	value := mark.Measure(wv.marks, name)
	wv.ClearMark(name)

	wv.report(metrics.Record{Name: name + measureSuffix, Value: value})
}

// ClearMark drops both marks of the custom timing name.
func (wv *WebVitals) ClearMark(name string) {
	wv.marks.ClearMark(mark.StartName(name))
	wv.marks.ClearMark(mark.EndName(name))
}

// CustomCompletedPaint announces an application paint milestone. The event and the
// mark happen now; the measurement is reported on a later scheduler turn. Each call
// reports its own mark's timestamp.
func (wv *WebVitals) CustomCompletedPaint() {
	label := wv.cfg.CustomPaintMetrics
	wv.page.Events.Dispatch(label)
	m := wv.marks.SetMark(label)

	wv.sched.Defer(func() {
		wv.marks.ClearMark(label)
		wv.report(metrics.NewRecord(CustomPaintMetric, m.StartTime))
	})
}

// GetCurrentMetrics returns a copy of the metrics not yet flushed.
func (wv *WebVitals) GetCurrentMetrics() metrics.Values {
	return wv.store.Values()
}

// Flush sends the stored metrics now. It reports whether a payload was handed to the
// beacon.
func (wv *WebVitals) Flush() bool {
	return wv.flush(TriggerManual)
}

func (wv *WebVitals) flush(trigger string) bool {
	if !wv.cfg.Buffered() || wv.beacon == nil {
		return false
	}

	_, span := tracing.StartFlushSpan(context.Background(), wv.tracer, trigger, wv.cfg.ReportURI)

	var (
		count int
		err   error
	)
	dispatched := wv.store.Flush(func(values metrics.Values) bool {
		count = values.Len()
		if count == 0 {
			return false
		}
		payload, mErr := json.Marshal(values)
		if mErr != nil {
			err = fmt.Errorf("encode metrics: %w", mErr)
			return false
		}
		return wv.beacon.Send(payload)
	})
	tracing.EndFlushSpan(span, count, dispatched, err)

	log := wv.logger.WithFields(logrus.Fields{
		"trigger": trigger,
		"metrics": count,
		"uri":     wv.cfg.ReportURI,
	})
	switch {
	case err != nil:
		log.WithError(err).Warn("flush failed")
	case dispatched:
		log.Debug("metrics flushed")
	case count > 0:
		log.Warn("beacon refused payload; metrics kept")
	}
	return dispatched
}

// Close tears the page down, which flushes once more, then stops the producers and
// waits for deferred work and queued beacons. ctx bounds the wait. Close is
// idempotent.
func (wv *WebVitals) Close(ctx context.Context) error {
	wv.closeOnce.Do(func() {
		var errs []error

		if w, ok := wv.sched.(waiter); ok {
			if err := w.Wait(ctx); err != nil {
				errs = append(errs, fmt.Errorf("wait for deferred work: %w", err))
			}
		}

		wv.page.Close()
		wv.cancel()
		for _, detach := range wv.detach {
			detach()
		}

		if wv.ownsBeacon {
			shutdownCtx, cancel := context.WithTimeout(ctx, wv.cfg.ShutdownTimeout)
			if err := wv.beacon.Close(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("close beacon: %w", err))
			}
			cancel()
		}
		if sp, ok := wv.beacon.(beacon.StatsProvider); ok {
			stats := sp.Stats()
			wv.logger.WithFields(logrus.Fields{
				"queued":     stats.Queued,
				"delivered":  stats.Delivered,
				"refused":    stats.Refused,
				"errors":     stats.Errors,
				"bytes_sent": stats.BytesSent,
			}).Info("beacon delivery summary")
		}

		wv.closeErr = errors.Join(errs...)
		wv.logger.Debug("webvitals session closed")
	})
	return wv.closeErr
}
