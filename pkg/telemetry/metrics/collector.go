package metrics

import (
	"time"

	"mercator-hq/beans/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry and the load metrics.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	loadMetrics *LoadMetrics
}

// NewCollector creates a collector. If registry is nil a fresh registry is
// created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg == nil {
		cfg = &config.MetricsConfig{Enabled: true}
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.LoadDurationBuckets) == 0 {
		cfg.LoadDurationBuckets = config.DefaultLoadDurationBuckets
	}

	return &Collector{
		config:      cfg,
		registry:    registry,
		loadMetrics: NewLoadMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordLoad records a completed load.
//
// Parameters:
//   - status: "success" or "error"
//   - trigger: what started the load ("initial", "reload", "watch", "lint")
//   - duration: total load time
func (c *Collector) RecordLoad(status, trigger string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.loadMetrics.RecordLoad(status, trigger, duration)
}

// RecordError counts a failed load by error kind, e.g. "duplicate_id".
func (c *Collector) RecordError(kind string) {
	if !c.enabled() {
		return
	}
	c.loadMetrics.errorsTotal.WithLabelValues(kind).Inc()
}

// UpdateRegistry publishes the size of the active registry.
func (c *Collector) UpdateRegistry(definitions, aliases int) {
	if !c.enabled() {
		return
	}
	c.loadMetrics.definitions.Set(float64(definitions))
	c.loadMetrics.aliases.Set(float64(aliases))
}

// RecordOverrides adds n silent replacements.
func (c *Collector) RecordOverrides(n int) {
	if !c.enabled() || n <= 0 {
		return
	}
	c.loadMetrics.overridesTotal.Add(float64(n))
}

// RecordImport counts one followed <import>.
func (c *Collector) RecordImport() {
	if !c.enabled() {
		return
	}
	c.loadMetrics.importsTotal.Inc()
}

// RecordPruned adds n journal entries removed by retention.
func (c *Collector) RecordPruned(n int64) {
	if !c.enabled() || n <= 0 {
		return
	}
	c.loadMetrics.prunedTotal.Add(float64(n))
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
