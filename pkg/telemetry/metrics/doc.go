// Package metrics provides Prometheus metrics for bean definition loading.
//
// # Metrics
//
//   - beans_loader_loads_total{status,trigger}: completed loads
//   - beans_loader_load_duration_seconds{trigger}: load latency
//   - beans_loader_definitions: definitions in the active registry
//   - beans_loader_aliases: aliases in the active registry
//   - beans_loader_overrides_total: same-id replacements across scopes
//   - beans_loader_imports_total: <import> elements followed
//   - beans_loader_errors_total{kind}: failed loads by error kind
//   - beans_loader_journal_pruned_total: journal entries removed by retention
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordLoad("success", "initial", time.Since(start))
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// A nil *Collector is valid and records nothing, so components can take one
// unconditionally.
package metrics
