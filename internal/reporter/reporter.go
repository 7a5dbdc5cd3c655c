// Package reporter builds the single sink every metric producer reports into.
package reporter

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/torosent/webvitals/internal/metrics"
)

// Session identifies the reporting page session.
type Session struct {
	SectionID string `json:"sectionId"`
	AppID     string `json:"appId"`
	Version   string `json:"version"`
}

// NewSession creates a Session with a freshly generated section id.
func NewSession(appID, version string) Session {
	return Session{
		SectionID: ulid.Make().String(),
		AppID:     appID,
		Version:   version,
	}
}

// Report is a metric augmented with session identity, as handed to a Callback.
type Report struct {
	Session
	Data      metrics.Record `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// Callback receives reports in immediate mode.
type Callback func(Report)

// Reporter forwards a metric (immediate mode only) and mirrors it into the store.
type Reporter func(metrics.Record)

type options struct {
	now func() time.Time
}

// Option customizes a Reporter.
type Option func(*options)

// WithNow overrides the timestamp source for reports.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New returns a Reporter bound to session, store and mode. In immediate mode every
// record is passed to callback synchronously; the record is stored in every mode.
// A nil callback or store is tolerated.
func New(session Session, callback Callback, store *metrics.Store, immediately bool, opts ...Option) Reporter {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return func(record metrics.Record) {
		if immediately && callback != nil {
			callback(Report{
				Session:   session,
				Data:      record,
				Timestamp: o.now(),
			})
		}
		if store != nil {
			store.Set(record.Name, record)
		}
	}
}
