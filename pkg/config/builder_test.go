package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a builder holding a valid default configuration.
func NewTestConfig() *ConfigBuilder {
	return &ConfigBuilder{cfg: *NewDefault()}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithSources sets the definition sources.
func (b *ConfigBuilder) WithSources(sources ...string) *ConfigBuilder {
	b.cfg.Beans.Sources = sources
	return b
}

// WithProfiles sets the active profiles.
func (b *ConfigBuilder) WithProfiles(profiles ...string) *ConfigBuilder {
	b.cfg.Beans.ActiveProfiles = profiles
	return b
}

// WithJournal sets the journal backend and path.
func (b *ConfigBuilder) WithJournal(backend, path string) *ConfigBuilder {
	b.cfg.Journal.Enabled = true
	b.cfg.Journal.Backend = backend
	b.cfg.Journal.Path = path
	return b
}

// WithWatch enables watching with the given debounce.
func (b *ConfigBuilder) WithWatch(debounce time.Duration) *ConfigBuilder {
	b.cfg.Beans.Watch = true
	b.cfg.Beans.WatchDebounce = debounce
	return b
}

// WithTracing enables tracing to endpoint.
func (b *ConfigBuilder) WithTracing(endpoint string) *ConfigBuilder {
	b.cfg.Telemetry.Tracing.Enabled = true
	b.cfg.Telemetry.Tracing.Endpoint = endpoint
	return b
}
