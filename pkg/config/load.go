package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values and validates the result. Environment variables
// are not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration and applies defaults without validating.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	presetBooleans(&cfg)

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides named BEANS_SECTION_FIELD. Environment
// variables take precedence over the file.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies BEANS_* environment variables. Values that fail
// to parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// Beans overrides
	if val := os.Getenv("BEANS_BEANS_SOURCES"); val != "" {
		cfg.Beans.Sources = splitList(val)
	}
	if val := os.Getenv("BEANS_BEANS_BASE_DIR"); val != "" {
		cfg.Beans.BaseDir = val
	}
	if val := os.Getenv("BEANS_BEANS_ACTIVE_PROFILES"); val != "" {
		cfg.Beans.ActiveProfiles = splitList(val)
	}
	if val := os.Getenv("BEANS_BEANS_MAX_IMPORT_DEPTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Beans.MaxImportDepth = i
		}
	}
	if val := os.Getenv("BEANS_BEANS_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Beans.MaxFileSize = i
		}
	}
	if val := os.Getenv("BEANS_BEANS_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Beans.Watch = b
		}
	}
	if val := os.Getenv("BEANS_BEANS_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Beans.WatchDebounce = d
		}
	}
	if val := os.Getenv("BEANS_BEANS_SHORTHAND_REF_SUFFIXES"); val != "" {
		cfg.Beans.Shorthand.RefSuffixes = splitList(val)
	}

	// Journal overrides
	if val := os.Getenv("BEANS_JOURNAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Enabled = b
		}
	}
	if val := os.Getenv("BEANS_JOURNAL_BACKEND"); val != "" {
		cfg.Journal.Backend = val
	}
	if val := os.Getenv("BEANS_JOURNAL_PATH"); val != "" {
		cfg.Journal.Path = val
	}
	if val := os.Getenv("BEANS_JOURNAL_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Journal.RetentionDays = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("BEANS_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("BEANS_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("BEANS_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("BEANS_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("BEANS_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("BEANS_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("BEANS_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
