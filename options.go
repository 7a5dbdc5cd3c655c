package webvitals

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/webvitals/internal/beacon"
	"github.com/torosent/webvitals/internal/lifecycle"
	"github.com/torosent/webvitals/internal/mark"
	"github.com/torosent/webvitals/internal/reporter"
	"github.com/torosent/webvitals/internal/schedule"
	"github.com/torosent/webvitals/internal/signals"
)

type options struct {
	page         *lifecycle.Page
	clock        mark.Clock
	sched        schedule.Scheduler
	beacon       beacon.Sender
	initializers []signals.Initializer
	logger       logrus.FieldLogger
	tracer       trace.Tracer
	session      *reporter.Session
}

// Option customizes a WebVitals session.
type Option func(*options)

// WithPage drives the session from an existing page instead of a fresh one.
func WithPage(p *lifecycle.Page) Option {
	return func(o *options) {
		o.page = p
	}
}

// WithClock sets the clock used for marks and navigation timing.
func WithClock(c mark.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithScheduler sets where deferred measurements and after-load initializers run.
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *options) {
		o.sched = s
	}
}

// WithBeacon replaces the sender built from the report URI. The caller keeps
// ownership and closes it.
func WithBeacon(s beacon.Sender) Option {
	return func(o *options) {
		o.beacon = s
	}
}

// WithInitializers replaces the built-in signal producers.
func WithInitializers(inits ...signals.Initializer) Option {
	return func(o *options) {
		o.initializers = append([]signals.Initializer{}, inits...)
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithSession fixes the session identity instead of generating a section id.
func WithSession(s reporter.Session) Option {
	return func(o *options) {
		o.session = &s
	}
}
