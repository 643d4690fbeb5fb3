package config

import "time"

// Config is the root configuration.
type Config struct {
	// Beans configures where definitions are read from and how they are
	// interpreted.
	Beans BeansConfig `yaml:"beans"`

	// Journal configures the load history store.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BeansConfig configures definition loading.
type BeansConfig struct {
	// Sources are XML files or directories, loaded in order into one
	// registry.
	Sources []string `yaml:"sources"`

	// BaseDir anchors relative source and import paths.
	// Default: "" (working directory)
	BaseDir string `yaml:"base_dir"`

	// ActiveProfiles selects nested <beans profile="..."> blocks.
	ActiveProfiles []string `yaml:"active_profiles"`

	// Shorthand configures p-namespace attribute expansion.
	Shorthand ShorthandConfig `yaml:"shorthand"`

	// Types declares the type hierarchy used for lookups by type.
	// Keys are type names, values their direct supertypes.
	Types map[string][]string `yaml:"types"`

	// MaxFileSize is the largest accepted document in bytes.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// MaxImportDepth bounds nested <import> elements.
	// Default: 10
	MaxImportDepth int `yaml:"max_import_depth"`

	// FileExtensions selects files when a source is a directory.
	// Default: [".xml"]
	FileExtensions []string `yaml:"file_extensions"`

	// Watch enables reloading when a source changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// WatchDebounce delays reloads until changes settle.
	// Default: 100ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// ShorthandConfig configures shorthand property attributes.
type ShorthandConfig struct {
	// Namespace is the namespace URI of shorthand attributes.
	// Default: "http://www.springframework.org/schema/p"
	Namespace string `yaml:"namespace"`

	// Prefix is also accepted when the namespace was never declared.
	// Default: "p"
	Prefix string `yaml:"prefix"`

	// RefSuffixes mark attributes whose value names another bean.
	// Default: ["-ref", "Ref"]
	RefSuffixes []string `yaml:"ref_suffixes"`
}

// JournalConfig configures the load journal.
type JournalConfig struct {
	// Enabled controls whether loads are recorded.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the store.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file.
	// Default: "data/journal.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RetentionDays drops entries older than this many days (0 = keep).
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords keeps at most this many entries (0 = unlimited).
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is the cron expression for retention pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress serves the metrics endpoint while watching.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "beans"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "loader"
	Subsystem string `yaml:"subsystem"`

	// LoadDurationBuckets defines histogram buckets for load duration (seconds).
	// Default: [0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5]
	LoadDurationBuckets []float64 `yaml:"load_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "beans"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
