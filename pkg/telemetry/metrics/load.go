package metrics

import (
	"time"

	"mercator-hq/beans/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// LoadMetrics tracks bean definition loads.
type LoadMetrics struct {
	loadsTotal     *prometheus.CounterVec
	loadDuration   *prometheus.HistogramVec
	errorsTotal    *prometheus.CounterVec
	definitions    prometheus.Gauge
	aliases        prometheus.Gauge
	overridesTotal prometheus.Counter
	importsTotal   prometheus.Counter
	prunedTotal    prometheus.Counter
}

// NewLoadMetrics creates and registers load metrics with the provided registry.
func NewLoadMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *LoadMetrics {
	lm := &LoadMetrics{
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "loads_total",
				Help:      "Total number of bean definition loads",
			},
			[]string{"status", "trigger"},
		),

		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "load_duration_seconds",
				Help:      "Duration of bean definition loads in seconds",
				Buckets:   cfg.LoadDurationBuckets,
			},
			[]string{"trigger"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "errors_total",
				Help:      "Total number of failed loads by error kind",
			},
			[]string{"kind"},
		),

		definitions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "definitions",
				Help:      "Number of bean definitions in the active registry",
			},
		),

		aliases: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "aliases",
				Help:      "Number of aliases in the active registry",
			},
		),

		overridesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "overrides_total",
				Help:      "Total number of definitions replaced by a later definition with the same id",
			},
		),

		importsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "imports_total",
				Help:      "Total number of imported resources",
			},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "journal_pruned_total",
				Help:      "Total number of journal entries removed by retention",
			},
		),
	}

	registry.MustRegister(
		lm.loadsTotal,
		lm.loadDuration,
		lm.errorsTotal,
		lm.definitions,
		lm.aliases,
		lm.overridesTotal,
		lm.importsTotal,
		lm.prunedTotal,
	)

	return lm
}

// RecordLoad records a completed load and its duration.
func (lm *LoadMetrics) RecordLoad(status, trigger string, duration time.Duration) {
	lm.loadsTotal.WithLabelValues(status, trigger).Inc()
	lm.loadDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}
