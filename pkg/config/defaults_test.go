package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Beans.MaxImportDepth != DefaultMaxImportDepth {
		t.Errorf("MaxImportDepth = %d, want %d", cfg.Beans.MaxImportDepth, DefaultMaxImportDepth)
	}
	if cfg.Beans.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("MaxFileSize = %d, want %d", cfg.Beans.MaxFileSize, DefaultMaxFileSize)
	}
	if diff := cmp.Diff(DefaultRefSuffixes, cfg.Beans.Shorthand.RefSuffixes); diff != "" {
		t.Errorf("RefSuffixes mismatch (-want +got):\n%s", diff)
	}
	if cfg.Beans.Shorthand.Namespace != DefaultShorthandNS {
		t.Errorf("Shorthand.Namespace = %q, want %q", cfg.Beans.Shorthand.Namespace, DefaultShorthandNS)
	}
	if cfg.Journal.Backend != DefaultJournalBackend {
		t.Errorf("Journal.Backend = %q, want %q", cfg.Journal.Backend, DefaultJournalBackend)
	}
	if cfg.Journal.PruneSchedule != DefaultJournalPruneSchedule {
		t.Errorf("Journal.PruneSchedule = %q, want %q", cfg.Journal.PruneSchedule, DefaultJournalPruneSchedule)
	}
	if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
		t.Errorf("Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, DefaultLoggingLevel)
	}
	if cfg.Telemetry.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Telemetry.Metrics.Namespace, DefaultMetricsNamespace)
	}
}

func TestApplyDefaults_PreservesValues(t *testing.T) {
	cfg := &Config{
		Beans: BeansConfig{
			MaxImportDepth: 3,
			Shorthand:      ShorthandConfig{RefSuffixes: []string{"_id"}},
		},
		Journal: JournalConfig{Backend: "sqlite", Path: "x.db"},
	}
	ApplyDefaults(cfg)

	if cfg.Beans.MaxImportDepth != 3 {
		t.Errorf("MaxImportDepth = %d, want 3", cfg.Beans.MaxImportDepth)
	}
	if diff := cmp.Diff([]string{"_id"}, cfg.Beans.Shorthand.RefSuffixes); diff != "" {
		t.Errorf("RefSuffixes mismatch (-want +got):\n%s", diff)
	}
	if cfg.Journal.Path != "x.db" {
		t.Errorf("Journal.Path = %q, want %q", cfg.Journal.Path, "x.db")
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	first := NewDefault()
	second := NewDefault()
	ApplyDefaults(second)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ApplyDefaults not idempotent (-first +second):\n%s", diff)
	}
}

func TestNewDefault_IsValid(t *testing.T) {
	if err := Validate(NewDefault()); err != nil {
		t.Errorf("Validate(NewDefault()) = %v, want nil", err)
	}
	cfg := NewDefault()
	if !cfg.Journal.Enabled || !cfg.Telemetry.Metrics.Enabled {
		t.Error("NewDefault() should enable journal and metrics")
	}
}
