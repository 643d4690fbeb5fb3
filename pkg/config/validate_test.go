package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := NewTestConfig().
		WithSources("a.xml").
		WithProfiles("dev").
		WithJournal("sqlite", "journal.db").
		Build()

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"empty source", func(c *Config) { c.Beans.Sources = []string{" "} }, "beans.sources[0]"},
		{"negated profile", func(c *Config) { c.Beans.ActiveProfiles = []string{"!dev"} }, "beans.active_profiles[0]"},
		{"negative import depth", func(c *Config) { c.Beans.MaxImportDepth = -1 }, "beans.max_import_depth"},
		{"extension without dot", func(c *Config) { c.Beans.FileExtensions = []string{"xml"} }, "beans.file_extensions[0]"},
		{"empty ref suffix", func(c *Config) { c.Beans.Shorthand.RefSuffixes = []string{""} }, "beans.shorthand.ref_suffixes[0]"},
		{"self supertype", func(c *Config) { c.Beans.Types = map[string][]string{"A": {"A"}} }, "beans.types.A"},
		{"sqlite without path", func(c *Config) { c.Journal.Backend = "sqlite"; c.Journal.Path = "" }, "journal.path"},
		{"bad cron", func(c *Config) { c.Journal.PruneSchedule = "every day" }, "journal.prune_schedule"},
		{"bad level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"bad format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"bad metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"bad listen address", func(c *Config) { c.Telemetry.Metrics.ListenAddress = "nowhere" }, "telemetry.metrics.listen_address"},
		{"tracing without endpoint", func(c *Config) { c.Telemetry.Tracing.Enabled = true }, "telemetry.tracing.endpoint"},
		{"bad ratio", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)

			err := Validate(cfg)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() fields = %v, want %q", verr.Errors, tt.wantField)
			}
		})
	}
}

func TestValidate_DisabledJournalSkipsChecks(t *testing.T) {
	cfg := NewDefault()
	cfg.Journal.Enabled = false
	cfg.Journal.Backend = "redis"

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := NewDefault()
	cfg.Telemetry.Logging.Level = "loud"
	cfg.Beans.MaxImportDepth = -2

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("Validate() = %q, want message counting 2 errors", err)
	}
}
