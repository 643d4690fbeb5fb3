package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	beanErrors "mercator-hq/beans/pkg/beans/errors"
	"mercator-hq/beans/pkg/beans/registry"
	"mercator-hq/beans/pkg/beans/resource"
	"mercator-hq/beans/pkg/beans/shorthand"
	"mercator-hq/beans/pkg/telemetry/logging"
	"mercator-hq/beans/pkg/telemetry/metrics"
	"mercator-hq/beans/pkg/telemetry/tracing"
	"mercator-hq/beans/pkg/xmldoc"
)

// DefaultMaxImportDepth bounds chains of nested <import> elements.
const DefaultMaxImportDepth = 10

// Loader populates a caller-owned registry from bean documents.
// Loads against one Loader must be serialized by the caller.
type Loader struct {
	registry       *registry.Registry
	expander       *shorthand.Expander
	resources      resource.Loader
	profiles       map[string]bool
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        *metrics.Collector
	maxImportDepth int

	// generated counts generated ids per class
	generated map[string]int
}

// Option configures a Loader.
type Option func(*Loader)

// WithExpander sets the shorthand attribute expander.
func WithExpander(e *shorthand.Expander) Option {
	return func(l *Loader) {
		l.expander = e
	}
}

// WithResourceLoader sets the loader used for LoadResource and <import>.
func WithResourceLoader(r resource.Loader) Option {
	return func(l *Loader) {
		l.resources = r
	}
}

// WithActiveProfiles selects which profile-guarded <beans> blocks are read.
func WithActiveProfiles(profiles ...string) Option {
	return func(l *Loader) {
		for _, p := range profiles {
			if p = strings.TrimSpace(p); p != "" {
				l.profiles[p] = true
			}
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithTracer sets the tracer for load spans. The default uses the global
// OpenTelemetry provider.
func WithTracer(t trace.Tracer) Option {
	return func(l *Loader) {
		l.tracer = t
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(l *Loader) {
		l.metrics = c
	}
}

// WithMaxImportDepth bounds nested imports. Zero or less disables imports
// beyond the top-level document.
func WithMaxImportDepth(depth int) Option {
	return func(l *Loader) {
		l.maxImportDepth = depth
	}
}

// New creates a loader writing into reg.
func New(reg *registry.Registry, opts ...Option) *Loader {
	l := &Loader{
		registry:       reg,
		profiles:       make(map[string]bool),
		maxImportDepth: DefaultMaxImportDepth,
		generated:      make(map[string]int),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.expander == nil {
		l.expander = shorthand.New()
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.tracer == nil {
		l.tracer = otel.Tracer(tracing.InstrumentationName)
	}
	return l
}

// Load is the one-shot form: it reads doc into a new registry.
func Load(ctx context.Context, doc *xmldoc.Document, opts ...Option) (*registry.Registry, error) {
	reg := registry.New()
	if err := New(reg, opts...).Load(ctx, doc); err != nil {
		return nil, err
	}
	return reg, nil
}

// Registry returns the registry the loader writes into.
func (l *Loader) Registry() *registry.Registry {
	return l.registry
}

// Load reads a parsed document into the registry.
func (l *Loader) Load(ctx context.Context, doc *xmldoc.Document) error {
	if doc == nil || doc.Root == nil {
		return &beanErrors.LoadError{Message: "document has no root element"}
	}
	name := l.canonical(doc.Resource)
	return l.run(ctx, name, func(ctx context.Context) error {
		return newSession(l, name, []string{name}).run(ctx, doc)
	})
}

// LoadResource reads and parses the named resource, then loads it.
func (l *Loader) LoadResource(ctx context.Context, name string) error {
	if l.resources == nil {
		return &beanErrors.LoadError{Resource: name, Message: "no resource loader configured"}
	}
	name = l.canonical(name)
	return l.run(ctx, name, func(ctx context.Context) error {
		res, err := l.resources.Load(name)
		if err != nil {
			return err
		}
		doc, err := res.Parse()
		if err != nil {
			return err
		}
		return newSession(l, res.Name, []string{res.Name}).run(ctx, doc)
	})
}

// run wraps a top-level load with its span, logging and error wrapping.
func (l *Loader) run(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = logging.WithResource(ctx, name)
	ctx, span := l.tracer.Start(ctx, "beans.load", trace.WithAttributes(tracing.ResourceAttr(name)))
	defer span.End()

	before := l.registry.Count()
	overrides := l.registry.Overrides()

	err := fn(ctx)
	if err != nil {
		tracing.SetStatus(span, err)
		return wrapLoadError(name, err)
	}

	added := l.registry.Count() - before
	replaced := l.registry.Overrides() - overrides
	span.SetAttributes(
		attribute.Int(tracing.AttrDefinitions, added),
		attribute.Int(tracing.AttrOverrides, replaced),
	)
	tracing.SetStatus(span, nil)
	l.logger.DebugContext(ctx, "loaded bean definitions",
		"added", added,
		"replaced", replaced,
		"total", l.registry.Count(),
	)
	return nil
}

// canonical normalizes a top-level resource name so import cycles back to
// it are recognized.
func (l *Loader) canonical(name string) string {
	if l.resources == nil || name == "" {
		return name
	}
	return l.resources.Resolve("", name)
}

// generateID returns "<class>#<n>" with the first n not yet registered.
func (l *Loader) generateID(class string) string {
	for {
		n := l.generated[class]
		l.generated[class] = n + 1
		id := fmt.Sprintf("%s#%d", class, n)
		if !l.registry.Contains(id) {
			return id
		}
	}
}

// profileActive reports whether a profile attribute selects the block.
// Profiles are separated by commas or spaces and any match activates the
// block; "!p" matches when p is not active.
func (l *Loader) profileActive(spec string) bool {
	fields := splitNames(spec)
	if len(fields) == 0 {
		return true
	}
	for _, p := range fields {
		if neg, ok := strings.CutPrefix(p, "!"); ok {
			if !l.profiles[neg] {
				return true
			}
			continue
		}
		if l.profiles[p] {
			return true
		}
	}
	return false
}

// splitNames splits a name or profile list on commas, semicolons and spaces.
func splitNames(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// wrapLoadError wraps err in a LoadError naming the resource, unless it
// already is one.
func wrapLoadError(name string, err error) error {
	if le, ok := err.(*beanErrors.LoadError); ok {
		if le.Resource == "" {
			le.Resource = name
		}
		return le
	}
	return &beanErrors.LoadError{
		Resource: name,
		Message:  "invalid bean definitions",
		Cause:    err,
	}
}
