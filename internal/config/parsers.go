package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// settings is the decoded view of a config file. Keys are matched in their
// snake_case, kebab-case and camelCase spellings, case-insensitively.
type settings map[string]any

func newSettings(raw any) (settings, error) {
	m, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, err
	}
	s := make(settings, len(m))
	for key, val := range m {
		s[strings.ToLower(strings.TrimSpace(key))] = val
	}
	return s, nil
}

func (s settings) lookup(key string) (any, bool) {
	for _, k := range []string{key, strings.ReplaceAll(key, "_", "-"), strings.ReplaceAll(key, "_", "")} {
		if val, ok := s[k]; ok {
			return val, true
		}
	}
	return nil, false
}

func (s settings) str(key string, dst *string) error {
	raw, ok := s.lookup(key)
	if !ok {
		return nil
	}
	val, err := cast.ToStringE(raw)
	if err != nil {
		return settingError(key, err)
	}
	*dst = strings.TrimSpace(val)
	return nil
}

func (s settings) boolean(key string, dst *bool) error {
	raw, ok := s.lookup(key)
	if !ok {
		return nil
	}
	val, err := cast.ToBoolE(raw)
	if err != nil {
		return settingError(key, err)
	}
	*dst = val
	return nil
}

func (s settings) integer(key string, dst *int) error {
	raw, ok := s.lookup(key)
	if !ok {
		return nil
	}
	val, err := cast.ToIntE(raw)
	if err != nil {
		return settingError(key, err)
	}
	*dst = val
	return nil
}

func (s settings) ratio(key string, dst *float64) error {
	raw, ok := s.lookup(key)
	if !ok {
		return nil
	}
	val, err := cast.ToFloat64E(raw)
	if err != nil {
		return settingError(key, err)
	}
	*dst = val
	return nil
}

// duration accepts Go duration strings. Bare numbers are seconds.
func (s settings) duration(key string, dst *time.Duration) error {
	raw, ok := s.lookup(key)
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return settingError(key, err)
		}
		*dst = d
	case time.Duration:
		*dst = v
	default:
		secs, err := cast.ToFloat64E(v)
		if err != nil {
			return settingError(key, err)
		}
		*dst = time.Duration(secs * float64(time.Second))
	}
	return nil
}

func settingError(key string, err error) error {
	return fmt.Errorf("config key %q: %w", key, err)
}
