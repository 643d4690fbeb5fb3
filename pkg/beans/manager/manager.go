package manager

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/beans/pkg/beans/ast"
	beanErrors "mercator-hq/beans/pkg/beans/errors"
	"mercator-hq/beans/pkg/beans/loader"
	"mercator-hq/beans/pkg/beans/registry"
	"mercator-hq/beans/pkg/beans/resource"
	"mercator-hq/beans/pkg/beans/shorthand"
	"mercator-hq/beans/pkg/beans/types"
	"mercator-hq/beans/pkg/config"
	"mercator-hq/beans/pkg/journal"
	"mercator-hq/beans/pkg/telemetry/logging"
	"mercator-hq/beans/pkg/telemetry/metrics"
	"mercator-hq/beans/pkg/telemetry/tracing"
)

// Load triggers recorded in metrics and the journal.
const (
	TriggerInitial = "initial"
	TriggerReload  = "reload"
	TriggerWatch   = "watch"
)

// Manager loads the configured sources and serves lookups against the
// active registry.
type Manager struct {
	config    *config.BeansConfig
	hierarchy *types.Hierarchy
	expander  *shorthand.Expander
	resources *resource.FileLoader
	journal   journal.Store
	metrics   *metrics.Collector
	tracer    trace.Tracer
	logger    *slog.Logger

	// loadMu serializes loads
	loadMu  sync.Mutex
	current atomic.Pointer[registry.Registry]

	stateMu sync.RWMutex
	status  Status

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
}

// Status describes the most recent load.
type Status struct {
	Loaded      bool
	LoadID      string
	Trigger     string
	LastLoad    time.Time
	LastError   error
	Sources     []string
	Definitions int
	Aliases     int
	Overrides   int
	Version     string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithJournal records every load in store.
func WithJournal(store journal.Store) Option {
	return func(m *Manager) {
		m.journal = store
	}
}

// WithMetrics reports loads to c.
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) {
		m.metrics = c
	}
}

// WithTracer sets the tracer for load spans.
func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) {
		m.tracer = t
	}
}

// New creates a manager for cfg. Nothing is loaded until Load is called.
func New(cfg *config.BeansConfig, opts ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	var shorthandOpts []shorthand.Option
	if cfg.Shorthand.Namespace != "" {
		shorthandOpts = append(shorthandOpts, shorthand.WithNamespace(cfg.Shorthand.Namespace))
	}
	if cfg.Shorthand.Prefix != "" {
		shorthandOpts = append(shorthandOpts, shorthand.WithPrefix(cfg.Shorthand.Prefix))
	}
	if len(cfg.Shorthand.RefSuffixes) > 0 {
		shorthandOpts = append(shorthandOpts, shorthand.WithRefSuffixes(cfg.Shorthand.RefSuffixes...))
	}

	resources := resource.NewFileLoader(cfg.BaseDir)
	if cfg.MaxFileSize > 0 {
		resources.MaxFileSize = cfg.MaxFileSize
	}

	m := &Manager{
		config:    cfg,
		hierarchy: types.FromMap(cfg.Types),
		expander:  shorthand.New(shorthandOpts...),
		resources: resources,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.tracer == nil {
		m.tracer = otel.Tracer(tracing.InstrumentationName)
	}

	m.logger.Debug("bean manager configured",
		"sources", cfg.Sources,
		"types", m.hierarchy.Types(),
		"ref_suffixes", m.expander.RefSuffixes(),
	)
	return m, nil
}

// Load performs the initial load.
func (m *Manager) Load(ctx context.Context) error {
	return m.load(ctx, TriggerInitial)
}

// Reload reloads all sources. On failure the previous registry stays
// active.
func (m *Manager) Reload(ctx context.Context) error {
	return m.load(ctx, TriggerReload)
}

func (m *Manager) load(ctx context.Context, trigger string) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	start := time.Now()
	entry := journal.NewEntry(trigger, nil)
	ctx = logging.WithLoadID(ctx, entry.ID)
	ctx, span := m.tracer.Start(ctx, "beans.manager.load", trace.WithAttributes(
		attribute.String(tracing.AttrLoadID, entry.ID),
		attribute.String(tracing.AttrTrigger, trigger),
	))
	defer span.End()

	m.logger.InfoContext(ctx, "loading bean definitions", "trigger", trigger)

	reg, sources, err := m.build(ctx)
	entry.Resources = sources
	entry.Duration = time.Since(start)

	if err != nil {
		tracing.SetStatus(span, err)
		entry.Status = journal.StatusFailure
		entry.Error = err.Error()
		m.metrics.RecordLoad("error", trigger, entry.Duration)
		m.metrics.RecordError(ErrorKind(err))
		m.record(ctx, entry)

		m.stateMu.Lock()
		m.status.LastError = err
		m.status.LoadID = entry.ID
		m.status.Trigger = trigger
		m.stateMu.Unlock()

		m.logger.ErrorContext(ctx, "failed to load bean definitions, keeping previous registry",
			"error", err,
			"duration_ms", entry.Duration.Milliseconds(),
		)
		return err
	}

	stats := reg.Stats()
	m.current.Store(reg)

	entry.Status = journal.StatusSuccess
	entry.Definitions = stats.Definitions
	entry.Aliases = stats.Aliases
	entry.Overrides = stats.Overrides
	entry.Version = stats.Version

	span.SetAttributes(
		attribute.Int(tracing.AttrDefinitions, stats.Definitions),
		attribute.Int(tracing.AttrOverrides, stats.Overrides),
	)
	tracing.SetStatus(span, nil)
	m.metrics.RecordLoad("success", trigger, entry.Duration)
	m.metrics.UpdateRegistry(stats.Definitions, stats.Aliases)
	m.metrics.RecordOverrides(stats.Overrides)
	m.record(ctx, entry)

	m.stateMu.Lock()
	m.status = Status{
		Loaded:      true,
		LoadID:      entry.ID,
		Trigger:     trigger,
		LastLoad:    start,
		Sources:     sources,
		Definitions: stats.Definitions,
		Aliases:     stats.Aliases,
		Overrides:   stats.Overrides,
		Version:     stats.Version,
	}
	m.stateMu.Unlock()

	m.logger.InfoContext(ctx, "bean definitions loaded",
		"definitions", stats.Definitions,
		"aliases", stats.Aliases,
		"overrides", stats.Overrides,
		"version", stats.Version,
		"duration_ms", entry.Duration.Milliseconds(),
	)
	return nil
}

// build loads every source into a new registry.
func (m *Manager) build(ctx context.Context) (*registry.Registry, []string, error) {
	sources, err := m.expandSources()
	if err != nil {
		return nil, nil, err
	}

	reg := registry.New(registry.WithHierarchy(m.hierarchy))
	l := m.newLoader(reg)
	for _, src := range sources {
		if err := l.LoadResource(ctx, src); err != nil {
			return nil, sources, err
		}
	}
	return reg, sources, nil
}

func (m *Manager) newLoader(reg *registry.Registry) *loader.Loader {
	opts := []loader.Option{
		loader.WithExpander(m.expander),
		loader.WithResourceLoader(m.resources),
		loader.WithActiveProfiles(m.config.ActiveProfiles...),
		loader.WithLogger(m.logger),
		loader.WithTracer(m.tracer),
		loader.WithMetrics(m.metrics),
	}
	if m.config.MaxImportDepth > 0 {
		opts = append(opts, loader.WithMaxImportDepth(m.config.MaxImportDepth))
	}
	return loader.New(reg, opts...)
}

// record writes entry to the journal. Journal failures never fail a load.
func (m *Manager) record(ctx context.Context, entry *journal.Entry) {
	if m.journal == nil {
		return
	}
	if err := m.journal.Record(ctx, entry); err != nil {
		m.logger.WarnContext(ctx, "failed to record load in journal", "error", err)
	}
}

// Check loads each source on its own, without touching the active
// registry, and collects every failure. A single failure is returned as
// is; several come back as an *ErrorList. The returned registry holds the
// combined result when all sources loaded.
func (m *Manager) Check(ctx context.Context) (*registry.Registry, error) {
	sources, err := m.expandSources()
	if err != nil {
		return nil, err
	}

	var errs beanErrors.ErrorList
	for _, src := range sources {
		reg := registry.New(registry.WithHierarchy(m.hierarchy))
		errs.Add(m.newLoader(reg).LoadResource(ctx, src))
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}

	reg, _, err := m.build(ctx)
	return reg, err
}

// Registry returns the active registry, or nil before the first
// successful load.
func (m *Manager) Registry() *registry.Registry {
	return m.current.Load()
}

// Lookup resolves an id or alias in the active registry.
func (m *Manager) Lookup(id string) (*ast.Definition, bool) {
	reg := m.current.Load()
	if reg == nil {
		return nil, false
	}
	return reg.Lookup(id)
}

// Get is Lookup returning a NotFoundError with a suggestion.
func (m *Manager) Get(id string) (*ast.Definition, error) {
	reg := m.current.Load()
	if reg == nil {
		return nil, ErrNotLoaded
	}
	return reg.Get(id)
}

// LookupSingleByAssignableType returns the unique definition assignable to
// typeName in the active registry.
func (m *Manager) LookupSingleByAssignableType(typeName string) (*ast.Definition, error) {
	reg := m.current.Load()
	if reg == nil {
		return nil, ErrNotLoaded
	}
	return reg.LookupSingleByAssignableType(typeName)
}

// Status returns a snapshot of the most recent load.
func (m *Manager) Status() Status {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	s := m.status
	s.Sources = append([]string(nil), m.status.Sources...)
	return s
}

// Watch reloads whenever a source file changes. It blocks until ctx is
// cancelled or Close is called.
func (m *Manager) Watch(ctx context.Context) error {
	if !m.config.Watch {
		return ErrWatchDisabled
	}

	m.watchMu.Lock()
	if m.watchCancel != nil {
		m.watchMu.Unlock()
		return fmt.Errorf("watch already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	m.watchCancel = cancel
	m.watchMu.Unlock()

	defer func() {
		m.watchMu.Lock()
		m.watchCancel = nil
		m.watchMu.Unlock()
		cancel()
	}()

	wcfg := DefaultFileWatcherConfig()
	wcfg.Extensions = m.extensions()
	if m.config.WatchDebounce > 0 {
		wcfg.DebounceInterval = m.config.WatchDebounce
	}
	for _, src := range m.config.Sources {
		wcfg.Paths = append(wcfg.Paths, filepath.Clean(m.fsPath(src)))
	}

	watcher, err := NewFileWatcher(wcfg, m.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			m.logger.Error("failed to stop file watcher", "error", err)
		}
	}()

	return watcher.Watch(ctx, func() error {
		return m.load(ctx, TriggerWatch)
	})
}

// Close stops a running Watch.
func (m *Manager) Close() error {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	return nil
}
