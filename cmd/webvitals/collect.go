package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	maxPayloadBytes   = 1 << 20
	readHeaderTimeout = 5 * time.Second
)

type collectOptions struct {
	listen   string
	path     string
	rate     float64
	burst    int
	logLevel string
	json     bool
}

func newCollectCmd() *cobra.Command {
	opts := &collectOptions{}
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Receive metric beacons over HTTP and WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCollector(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.listen, "listen", ":8080", "Address to listen on")
	flags.StringVar(&opts.path, "path", "/vitals", "Path accepting POSTed beacons; '<path>/ws' accepts WebSocket beacons")
	flags.Float64Var(&opts.rate, "rate", 50, "Beacons accepted per second (0 disables throttling)")
	flags.IntVar(&opts.burst, "burst", 100, "Burst size for the beacon rate limiter")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.BoolVar(&opts.json, "json-output", false, "Emit JSON formatted logs")
	return cmd
}

func runCollector(cmd *cobra.Command, opts *collectOptions) error {
	logger, err := newLogger(opts.logLevel, opts.json, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c := newCollector(opts.rate, opts.burst, logger)

	server := &http.Server{
		Addr:              opts.listen,
		Handler:           c.routes(opts.path),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"addr": opts.listen, "path": opts.path}).Info("collector listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown collector: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"accepted": c.accepted.Load(),
		"rejected": c.rejected.Load(),
	}).Info("collector stopped")
	return nil
}

// collector accepts beacon payloads and logs every metric they carry.
type collector struct {
	limiter  *rate.Limiter
	logger   logrus.FieldLogger
	upgrader websocket.Upgrader

	accepted atomic.Int64
	rejected atomic.Int64
}

func newCollector(perSecond float64, burst int, logger logrus.FieldLogger) *collector {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &collector{
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (c *collector) routes(path string) http.Handler {
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.HandleFunc(path, c.handleBeacon)
	mux.HandleFunc(joinPath(path, "ws"), c.handleWebSocket)
	return mux
}

func joinPath(base, elem string) string {
	if base == "" || base[len(base)-1] != '/' {
		base += "/"
	}
	return base + elem
}

func (c *collector) handleBeacon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !c.limiter.Allow() {
		c.rejected.Add(1)
		http.Error(w, "too many beacons", http.StatusTooManyRequests)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	if len(body) > maxPayloadBytes {
		c.rejected.Add(1)
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}
	if err := c.ingest(body, r.RemoteAddr, "http"); err != nil {
		c.rejected.Add(1)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *collector) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxPayloadBytes)

	for {
		kind, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.WithError(err).Debug("websocket beacon stream ended")
			}
			return
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		if !c.limiter.Allow() {
			c.rejected.Add(1)
			c.logger.WithField("remote", r.RemoteAddr).Warn("beacon dropped by rate limit")
			continue
		}
		if err := c.ingest(payload, r.RemoteAddr, "websocket"); err != nil {
			c.rejected.Add(1)
			c.logger.WithError(err).WithField("remote", r.RemoteAddr).Warn("invalid beacon")
		}
	}
}

// ingest validates one flushed snapshot and logs its metrics in payload order.
func (c *collector) ingest(payload []byte, remote, transport string) error {
	if !gjson.ValidBytes(payload) {
		return errors.New("payload is not valid JSON")
	}
	doc := gjson.ParseBytes(payload)
	if !doc.IsObject() {
		return errors.New("payload must be a JSON object")
	}

	count := 0
	doc.ForEach(func(key, rec gjson.Result) bool {
		count++
		fields := logrus.Fields{
			"remote":    remote,
			"transport": transport,
			"metric":    key.String(),
		}
		if v := rec.Get("value"); v.Exists() {
			fields["value"] = v.Float()
		} else {
			fields["value"] = "undefined"
		}
		c.logger.WithFields(fields).Info("metric received")
		return true
	})
	c.accepted.Add(1)
	c.logger.WithFields(logrus.Fields{"remote": remote, "metrics": count}).Debug("beacon accepted")
	return nil
}
