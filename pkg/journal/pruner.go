package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/beans/pkg/config"
	"mercator-hq/beans/pkg/telemetry/metrics"
)

// PrunerConfig configures retention.
type PrunerConfig struct {
	// RetentionDays is how many days entries are kept. 0 keeps them forever.
	RetentionDays int

	// MaxRecords is the maximum number of entries kept. 0 means unlimited.
	MaxRecords int64

	// PruneSchedule is a cron expression, e.g. "0 3 * * *". Empty disables
	// scheduled pruning.
	PruneSchedule string
}

// PrunerConfigFrom extracts the retention settings from the journal
// configuration.
func PrunerConfigFrom(cfg config.JournalConfig) *PrunerConfig {
	return &PrunerConfig{
		RetentionDays: cfg.RetentionDays,
		MaxRecords:    cfg.MaxRecords,
		PruneSchedule: cfg.PruneSchedule,
	}
}

// Pruner enforces retention limits on a store.
type Pruner struct {
	store     Store
	config    *PrunerConfig
	logger    *slog.Logger
	metrics   *metrics.Collector
	scheduler *Scheduler
	now       func() time.Time
}

// PrunerOption configures a Pruner.
type PrunerOption func(*Pruner)

// WithPrunerLogger sets the pruner's logger.
func WithPrunerLogger(logger *slog.Logger) PrunerOption {
	return func(p *Pruner) {
		p.logger = logger
	}
}

// WithPrunerMetrics counts pruned entries.
func WithPrunerMetrics(c *metrics.Collector) PrunerOption {
	return func(p *Pruner) {
		p.metrics = c
	}
}

// NewPruner creates a pruner for store.
func NewPruner(store Store, cfg *PrunerConfig, opts ...PrunerOption) *Pruner {
	if cfg == nil {
		cfg = &PrunerConfig{}
	}
	p := &Pruner{
		store:  store,
		config: cfg,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "journal.retention")
	p.scheduler = NewScheduler(p)
	return p
}

// Prune deletes entries past the retention period, then the oldest entries
// beyond MaxRecords. It returns the total number deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.store.DeleteBefore(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
		p.logger.Debug("pruned entries by age",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.store.Trim(ctx, p.config.MaxRecords)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		total += deleted
		p.logger.Debug("pruned entries by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	p.metrics.RecordPruned(total)
	if total > 0 {
		p.logger.Info("journal pruning completed", "total_deleted", total)
	}
	return total, nil
}

// Start starts scheduled pruning.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops scheduled pruning.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning, or nil.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
