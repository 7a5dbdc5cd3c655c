// Package config provides configuration, validation and loading for webvitals.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/torosent/webvitals/internal/reporter"
)

const (
	DefaultCustomPaintMetrics = "custom-contentful-paint"
	DefaultLogFpsCount        = 5
	DefaultBeaconTimeout      = 5 * time.Second
	DefaultShutdownTimeout    = 3 * time.Second
)

type Config struct {
	AppID              string            `mapstructure:"app_id"`
	Version            string            `mapstructure:"version"`
	ReportCallback     reporter.Callback `mapstructure:"-"`
	ReportURI          string            `mapstructure:"report_uri"`
	Immediately        bool              `mapstructure:"immediately"`
	CustomPaintMetrics string            `mapstructure:"custom_paint_metrics"`
	LogFpsCount        int               `mapstructure:"log_fps_count"`
	BeaconTimeout      time.Duration     `mapstructure:"beacon_timeout"`
	ShutdownTimeout    time.Duration     `mapstructure:"shutdown_timeout"`
	LogLevel           string            `mapstructure:"log_level"`
	JSONOutput         bool              `mapstructure:"json_output"`
	Tracing            TracingConfig     `mapstructure:"tracing"`
	ConfigFile         string            `mapstructure:"-"`
}

// TracingConfig configures OpenTelemetry export of flush spans.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Insecure    bool    `mapstructure:"insecure"`
}

// Enabled reports whether an OTLP endpoint is configured, directly or via environment.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// Defaults returns a Config with every optional field set to its default.
func Defaults() Config {
	return Config{
		CustomPaintMetrics: DefaultCustomPaintMetrics,
		LogFpsCount:        DefaultLogFpsCount,
		BeaconTimeout:      DefaultBeaconTimeout,
		ShutdownTimeout:    DefaultShutdownTimeout,
		LogLevel:           "info",
		Tracing:            TracingConfig{SampleRate: 1.0},
	}
}

// WithDefaults fills zero-valued optional fields.
func (c Config) WithDefaults() Config {
	d := Defaults()
	if strings.TrimSpace(c.CustomPaintMetrics) == "" {
		c.CustomPaintMetrics = d.CustomPaintMetrics
	}
	if c.LogFpsCount == 0 {
		c.LogFpsCount = d.LogFpsCount
	}
	if c.BeaconTimeout == 0 {
		c.BeaconTimeout = d.BeaconTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return c
}

// Buffered reports whether metrics are batched and flushed to ReportURI.
func (c Config) Buffered() bool {
	return strings.TrimSpace(c.ReportURI) != "" && !c.Immediately
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if strings.TrimSpace(c.AppID) == "" {
		issues = append(issues, "app_id is required")
	}
	if strings.TrimSpace(c.Version) == "" {
		issues = append(issues, "version is required")
	}
	if c.ReportCallback == nil {
		issues = append(issues, "report callback is required")
	}
	if c.LogFpsCount < 1 {
		issues = append(issues, "log_fps_count must be >= 1")
	}
	if c.BeaconTimeout < 0 {
		issues = append(issues, "beacon_timeout must be >= 0")
	}
	if c.ShutdownTimeout < 0 {
		issues = append(issues, "shutdown_timeout must be >= 0")
	}

	if uriIssues := validateReportURI(c.ReportURI); len(uriIssues) > 0 {
		issues = append(issues, uriIssues...)
	}

	if tracingIssues := validateTracingConfig(c.Tracing); len(tracingIssues) > 0 {
		issues = append(issues, tracingIssues...)
	}

	if c.Immediately && strings.TrimSpace(c.ReportURI) != "" {
		fmt.Fprintln(os.Stderr, "WARNING: report_uri is ignored while immediately is enabled; metrics go to the report callback only.")
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}

	return nil
}

func validateReportURI(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return []string{fmt.Sprintf("report_uri: %v", err)}
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ws", "wss":
		if u.Host == "" {
			return []string{fmt.Sprintf("report_uri: host is required for %s", u.Scheme)}
		}
	case "file":
		if u.Path == "" && u.Opaque == "" {
			return []string{"report_uri: path is required for file"}
		}
	default:
		return []string{fmt.Sprintf("report_uri: scheme must be 'http', 'https', 'ws', 'wss', or 'file', got %q", u.Scheme)}
	}
	return nil
}

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	switch strings.ToLower(t.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing: protocol must be 'grpc' or 'http', got %q", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1.0 {
		issues = append(issues, fmt.Sprintf("tracing: sample_rate must be between 0.0 and 1.0, got %g", t.SampleRate))
	}
	return issues
}
