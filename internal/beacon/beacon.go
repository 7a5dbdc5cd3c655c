package beacon

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/torosent/webvitals/internal/clientmetrics"
)

const (
	defaultQueueSize = 16
	defaultTimeout   = 5 * time.Second
)

// Sender is a best-effort delivery channel.
type Sender interface {
	// Send queues payload for delivery and reports whether it was accepted.
	Send(payload []byte) bool
	// Close stops accepting payloads and waits for queued ones, bounded by ctx.
	Close(ctx context.Context) error
}

// StatsProvider is implemented by senders that count their deliveries.
type StatsProvider interface {
	Stats() clientmetrics.Snapshot
}

type options struct {
	timeout   time.Duration
	queueSize int
	logger    logrus.FieldLogger
}

// Option customizes a Sender.
type Option func(*options)

// WithTimeout bounds each delivery attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithQueueSize sets how many payloads may wait for delivery.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithLogger sets the logger used to report delivery failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		timeout:   defaultTimeout,
		queueSize: defaultQueueSize,
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the Sender matching the scheme of uri.
func New(uri string, opts ...Option) (Sender, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return nil, fmt.Errorf("beacon: parse report uri: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTP(u.String(), opts...), nil
	case "ws", "wss":
		return NewWebSocket(u.String(), opts...), nil
	case "file":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		if path == "" {
			return nil, fmt.Errorf("beacon: file uri %q has no path", uri)
		}
		return NewFile(path, opts...), nil
	default:
		return nil, fmt.Errorf("beacon: unsupported report uri scheme %q", u.Scheme)
	}
}

// deliverFunc performs one delivery attempt.
type deliverFunc func(ctx context.Context, payload []byte) error

// queue runs deliveries on a single background worker.
type queue struct {
	opts    options
	target  string
	deliver deliverFunc
	stats   *clientmetrics.ClientMetrics

	mu     sync.Mutex
	closed bool
	ch     chan []byte
	done   chan struct{}
}

func newQueue(target string, opts options, deliver deliverFunc) *queue {
	q := &queue{
		opts:    opts,
		target:  target,
		deliver: deliver,
		stats:   clientmetrics.New(),
		ch:      make(chan []byte, opts.queueSize),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *queue) Send(payload []byte) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.stats.IncrementRefused()
		return false
	}
	buf := append([]byte(nil), payload...)
	select {
	case q.ch <- buf:
		q.stats.IncrementQueued()
		return true
	default:
		q.stats.IncrementRefused()
		q.opts.logger.WithField("uri", q.target).Warn("beacon queue full, payload refused")
		return false
	}
}

// Stats returns the delivery counters of this sender.
func (q *queue) Stats() clientmetrics.Snapshot {
	return q.stats.Snapshot()
}

func (q *queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *queue) run() {
	defer close(q.done)
	for payload := range q.ch {
		ctx, cancel := context.WithTimeout(context.Background(), q.opts.timeout)
		err := q.deliver(ctx, payload)
		cancel()
		if err != nil {
			q.stats.IncrementErrors()
			q.opts.logger.WithError(err).WithField("uri", q.target).Warn("beacon delivery failed")
			continue
		}
		q.stats.IncrementDelivered(int64(len(payload)))
	}
}
