package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and configuration files to produce a Config.
func (l Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	return l.LoadFlags(flagSet)
}

// LoadFlags builds a Config from an already parsed flag set, reading the file named
// by --config first and letting explicitly set flags override it.
func (Loader) LoadFlags(flagSet *pflag.FlagSet) (*Config, error) {
	configPath := ""
	if f := flagSet.Lookup("config"); f != nil {
		configPath = strings.TrimSpace(f.Value.String())
	}

	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := Defaults()
	cfg.ConfigFile = configPath

	if err := applyConfigSettings(&cfg, cfgViper.AllSettings()); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(&cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.AppID = strings.TrimSpace(cfg.AppID)
	cfg.Version = strings.TrimSpace(cfg.Version)
	cfg.ReportURI = strings.TrimSpace(cfg.ReportURI)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	out := cfg.WithDefaults()
	return &out, nil
}

// applyConfigSettings copies the values found in a config file onto cfg. Every bad
// key is reported, not only the first.
func applyConfigSettings(cfg *Config, raw map[string]interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	s, err := newSettings(raw)
	if err != nil {
		return err
	}

	errs := []error{
		s.str("app_id", &cfg.AppID),
		s.str("version", &cfg.Version),
		s.str("report_uri", &cfg.ReportURI),
		s.boolean("immediately", &cfg.Immediately),
		s.str("custom_paint_metrics", &cfg.CustomPaintMetrics),
		s.integer("log_fps_count", &cfg.LogFpsCount),
		s.duration("beacon_timeout", &cfg.BeaconTimeout),
		s.duration("shutdown_timeout", &cfg.ShutdownTimeout),
		s.str("log_level", &cfg.LogLevel),
		s.boolean("json_output", &cfg.JSONOutput),
	}
	if section, ok := s.lookup("tracing"); ok {
		errs = append(errs, parseTracingConfig(section, &cfg.Tracing))
	}
	return errors.Join(errs...)
}

func parseTracingConfig(section any, tracing *TracingConfig) error {
	s, err := newSettings(section)
	if err != nil {
		return settingError("tracing", err)
	}
	*tracing = Defaults().Tracing
	err = errors.Join(
		s.str("endpoint", &tracing.Endpoint),
		s.str("protocol", &tracing.Protocol),
		s.str("service_name", &tracing.ServiceName),
		s.ratio("sample_rate", &tracing.SampleRate),
		s.boolean("insecure", &tracing.Insecure),
	)
	tracing.Protocol = strings.ToLower(tracing.Protocol)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}
