package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all configuration flags on a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "webvitals",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all configuration flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Session identity
	flags.String("app-id", "", "Application identifier attached to every report")
	flags.String("version", "", "Application version attached to every report")

	// Reporting mode
	flags.String("report-uri", "", "Endpoint for buffered flushes (http(s)://, ws(s):// or file://)")
	flags.Bool("immediately", false, "Report each metric as soon as it is known instead of buffering")
	flags.String("custom-paint-metrics", DefaultCustomPaintMetrics, "Name of the application-defined paint event")
	flags.Int("log-fps-count", DefaultLogFpsCount, "Number of one-second windows sampled for the frame rate")
	flags.Duration("beacon-timeout", DefaultBeaconTimeout, "Timeout for a single beacon delivery")
	flags.Duration("shutdown-timeout", DefaultShutdownTimeout, "Max time to wait for queued beacons at shutdown")

	// Output flags
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.Bool("json-output", false, "Emit JSON formatted output")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing flags
	flags.String("tracing-endpoint", "", "OTLP collector endpoint for flush spans")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.Float64("tracing-sample-rate", 1.0, "Trace sampling ratio between 0.0 and 1.0")
	flags.Bool("tracing-insecure", false, "Disable TLS for the OTLP exporter")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("app-id") {
		val, err := fs.GetString("app-id")
		if err != nil {
			return err
		}
		cfg.AppID = val
	}
	if fs.Changed("version") {
		val, err := fs.GetString("version")
		if err != nil {
			return err
		}
		cfg.Version = val
	}
	if fs.Changed("report-uri") {
		val, err := fs.GetString("report-uri")
		if err != nil {
			return err
		}
		cfg.ReportURI = val
	}
	if fs.Changed("immediately") {
		val, err := fs.GetBool("immediately")
		if err != nil {
			return err
		}
		cfg.Immediately = val
	}
	if fs.Changed("custom-paint-metrics") {
		val, err := fs.GetString("custom-paint-metrics")
		if err != nil {
			return err
		}
		cfg.CustomPaintMetrics = strings.TrimSpace(val)
	}
	if fs.Changed("log-fps-count") {
		val, err := fs.GetInt("log-fps-count")
		if err != nil {
			return err
		}
		cfg.LogFpsCount = val
	}
	if fs.Changed("beacon-timeout") {
		val, err := fs.GetDuration("beacon-timeout")
		if err != nil {
			return err
		}
		cfg.BeaconTimeout = val
	}
	if fs.Changed("shutdown-timeout") {
		val, err := fs.GetDuration("shutdown-timeout")
		if err != nil {
			return err
		}
		cfg.ShutdownTimeout = val
	}
	if fs.Changed("log-level") {
		val, err := fs.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	if fs.Changed("tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	return nil
}
