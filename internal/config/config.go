package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Defaults applied when the corresponding Config fields are unset.
const (
	DefaultAddr                  = ":8080"
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "json"
	DefaultUpdateIntervalMS      = 16
	DefaultFixedUpdateIntervalMS = 20
	DefaultNotifyCacheSize       = 32
	DefaultNotifyOpenedEvent     = 1001
	DefaultNotifyClosedEvent     = 1002
)

// Config holds runtime parameters for the event host.
// Zero values mean "unspecified" and are replaced by WithDefaults. As a
// consequence event id 0 cannot be used for NotifyOpenedEvent or
// NotifyClosedEvent; it always selects the default id.
type Config struct {
	Addr                  string   `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel              string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat             string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	UpdateIntervalMS      int      `json:"update_interval_ms" yaml:"update_interval_ms" toml:"update_interval_ms"`
	FixedUpdateIntervalMS int      `json:"fixed_update_interval_ms" yaml:"fixed_update_interval_ms" toml:"fixed_update_interval_ms"`
	NotifyCacheSize       int      `json:"notify_cache_size" yaml:"notify_cache_size" toml:"notify_cache_size"`
	NotifyOpenedEvent     int      `json:"notify_opened_event" yaml:"notify_opened_event" toml:"notify_opened_event"`
	NotifyClosedEvent     int      `json:"notify_closed_event" yaml:"notify_closed_event" toml:"notify_closed_event"`
	CORSEnabled           bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins    []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
}

// Default returns a Config with every field set to its default.
func Default() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns a copy of c with unset fields defaulted.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.UpdateIntervalMS == 0 {
		c.UpdateIntervalMS = DefaultUpdateIntervalMS
	}
	if c.FixedUpdateIntervalMS == 0 {
		c.FixedUpdateIntervalMS = DefaultFixedUpdateIntervalMS
	}
	if c.NotifyCacheSize == 0 {
		c.NotifyCacheSize = DefaultNotifyCacheSize
	}
	if c.NotifyOpenedEvent == 0 {
		c.NotifyOpenedEvent = DefaultNotifyOpenedEvent
	}
	if c.NotifyClosedEvent == 0 {
		c.NotifyClosedEvent = DefaultNotifyClosedEvent
	}
	return c
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var result *multierror.Error
	switch strings.ToLower(c.LogLevel) {
	case "off", "debug", "info", "warn", "warning", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		result = multierror.Append(result, fmt.Errorf("log_format: must be json or console, got %q", c.LogFormat))
	}
	if c.UpdateIntervalMS <= 0 {
		result = multierror.Append(result, fmt.Errorf("update_interval_ms: must be positive, got %d", c.UpdateIntervalMS))
	}
	if c.FixedUpdateIntervalMS <= 0 {
		result = multierror.Append(result, fmt.Errorf("fixed_update_interval_ms: must be positive, got %d", c.FixedUpdateIntervalMS))
	}
	if c.NotifyCacheSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("notify_cache_size: must be positive, got %d", c.NotifyCacheSize))
	}
	if c.NotifyOpenedEvent == c.NotifyClosedEvent {
		result = multierror.Append(result, fmt.Errorf("notify_opened_event and notify_closed_event must differ (both %d)", c.NotifyOpenedEvent))
	}
	return result.ErrorOrNil()
}

func (c Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalMS) * time.Millisecond
}

func (c Config) FixedUpdateInterval() time.Duration {
	return time.Duration(c.FixedUpdateIntervalMS) * time.Millisecond
}
