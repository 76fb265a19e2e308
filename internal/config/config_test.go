package config

import (
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.UpdateInterval() != 16*time.Millisecond || cfg.FixedUpdateInterval() != 20*time.Millisecond {
		t.Fatalf("intervals: %v %v", cfg.UpdateInterval(), cfg.FixedUpdateInterval())
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Config{
		LogLevel:              "loud",
		LogFormat:             "xml",
		UpdateIntervalMS:      -1,
		FixedUpdateIntervalMS: -1,
		NotifyCacheSize:       -1,
		NotifyOpenedEvent:     5,
		NotifyClosedEvent:     5,
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("expected *multierror.Error, got %T", err)
	}
	if len(merr.Errors) != 6 {
		t.Fatalf("expected 6 problems, got %d: %v", len(merr.Errors), err)
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Fatalf("missing log_level problem: %v", err)
	}
}

func TestWithDefaults_ZeroNotifyEventSelectsDefault(t *testing.T) {
	cfg := Config{NotifyOpenedEvent: 0, NotifyClosedEvent: 7}.WithDefaults()
	if cfg.NotifyOpenedEvent != DefaultNotifyOpenedEvent || cfg.NotifyClosedEvent != 7 {
		t.Fatalf("notify events: %d %d", cfg.NotifyOpenedEvent, cfg.NotifyClosedEvent)
	}
}
