package config

import "time"

// Default values for configuration fields.
const (
	// Beans defaults
	DefaultMaxFileSize    = int64(10 * 1024 * 1024)
	DefaultMaxImportDepth = 10
	DefaultWatchDebounce  = 100 * time.Millisecond
	DefaultShorthandNS    = "http://www.springframework.org/schema/p"
	DefaultShorthandPfx   = "p"

	// Journal defaults
	DefaultJournalEnabled       = true
	DefaultJournalBackend       = "memory"
	DefaultJournalPath          = "data/journal.db"
	DefaultJournalBusyTimeout   = 5 * time.Second
	DefaultJournalRetentionDays = 30
	DefaultJournalPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel        = "info"
	DefaultLoggingFormat       = "text"
	DefaultMetricsEnabled      = true
	DefaultMetricsAddress      = "127.0.0.1:9464"
	DefaultPrometheusPath      = "/metrics"
	DefaultMetricsNamespace    = "beans"
	DefaultMetricsSubsystem    = "loader"
	DefaultTracingSampler      = "always"
	DefaultTracingSamplingRate = 1.0
	DefaultTracingServiceName  = "beans"
	DefaultOTLPTimeout         = 10 * time.Second
)

// DefaultRefSuffixes are the shorthand reference suffixes.
var DefaultRefSuffixes = []string{"-ref", "Ref"}

// DefaultFileExtensions select definition files in source directories.
var DefaultFileExtensions = []string{".xml"}

// DefaultLoadDurationBuckets suit loads from a few definitions to thousands.
var DefaultLoadDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// NewDefault returns a configuration with every default applied.
func NewDefault() *Config {
	cfg := &Config{}
	presetBooleans(cfg)
	ApplyDefaults(cfg)
	return cfg
}

// presetBooleans sets boolean fields whose default is true. It runs before
// YAML decoding so that an explicit false in the file still wins.
func presetBooleans(cfg *Config) {
	cfg.Journal.Enabled = DefaultJournalEnabled
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
}

// ApplyDefaults fills zero-valued fields with their defaults.
// It is idempotent.
func ApplyDefaults(cfg *Config) {
	// Beans defaults
	if cfg.Beans.MaxFileSize == 0 {
		cfg.Beans.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Beans.MaxImportDepth == 0 {
		cfg.Beans.MaxImportDepth = DefaultMaxImportDepth
	}
	if cfg.Beans.WatchDebounce == 0 {
		cfg.Beans.WatchDebounce = DefaultWatchDebounce
	}
	if len(cfg.Beans.FileExtensions) == 0 {
		cfg.Beans.FileExtensions = append([]string(nil), DefaultFileExtensions...)
	}
	if cfg.Beans.Shorthand.Namespace == "" {
		cfg.Beans.Shorthand.Namespace = DefaultShorthandNS
	}
	if cfg.Beans.Shorthand.Prefix == "" {
		cfg.Beans.Shorthand.Prefix = DefaultShorthandPfx
	}
	if len(cfg.Beans.Shorthand.RefSuffixes) == 0 {
		cfg.Beans.Shorthand.RefSuffixes = append([]string(nil), DefaultRefSuffixes...)
	}

	// Journal defaults
	if cfg.Journal.Backend == "" {
		cfg.Journal.Backend = DefaultJournalBackend
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}
	if cfg.Journal.BusyTimeout == 0 {
		cfg.Journal.BusyTimeout = DefaultJournalBusyTimeout
	}
	if cfg.Journal.RetentionDays == 0 {
		cfg.Journal.RetentionDays = DefaultJournalRetentionDays
	}
	if cfg.Journal.PruneSchedule == "" {
		cfg.Journal.PruneSchedule = DefaultJournalPruneSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.LoadDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.LoadDurationBuckets = append([]float64(nil), DefaultLoadDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSamplingRate
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}
