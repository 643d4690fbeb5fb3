package loader

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/beans/pkg/beans/ast"
	beanErrors "mercator-hq/beans/pkg/beans/errors"
	"mercator-hq/beans/pkg/beans/scope"
	"mercator-hq/beans/pkg/telemetry/logging"
	"mercator-hq/beans/pkg/telemetry/tracing"
	"mercator-hq/beans/pkg/xmldoc"
)

// session holds the traversal state of one document. Imported documents get
// their own session and therefore their own top-level scope.
type session struct {
	l        *Loader
	resource string
	scope    *scope.Resolver

	// chain is the import path from the top-level document to this one
	chain []string

	// profiles holds the profile attribute of each open block
	profiles []string
}

func newSession(l *Loader, resource string, chain []string) *session {
	return &session{
		l:        l,
		resource: resource,
		scope:    scope.New(),
		chain:    chain,
	}
}

func (s *session) run(ctx context.Context, doc *xmldoc.Document) error {
	if doc.Root.Kind != xmldoc.KindBeans {
		return &beanErrors.MalformedElementError{
			Element:  doc.Root.Local,
			Message:  "root element must be <beans>",
			Location: doc.Root.Location,
		}
	}
	if err := s.walk(ctx, doc.Root); err != nil {
		return err
	}
	if !s.scope.Done() {
		panic("loader: scope left open after traversal")
	}
	return nil
}

// walk is the single dispatch point over element kinds.
func (s *session) walk(ctx context.Context, el *xmldoc.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch el.Kind {
	case xmldoc.KindBeans:
		profile := el.AttrValue("profile")
		if !s.l.profileActive(profile) {
			s.l.logger.DebugContext(ctx, "skipping <beans> block for inactive profile",
				"profile", profile,
				"location", el.Location.String(),
			)
			return nil
		}

		s.scope.Enter()
		s.profiles = append(s.profiles, profile)
		for _, child := range el.Children {
			if err := s.walk(ctx, child); err != nil {
				return err
			}
		}
		s.profiles = s.profiles[:len(s.profiles)-1]
		s.scope.Exit()
		return nil

	case xmldoc.KindBean:
		def, err := s.bean(ctx, el, false)
		if err != nil {
			return err
		}
		return s.register(ctx, def)

	case xmldoc.KindImport:
		return s.importResource(ctx, el)

	case xmldoc.KindAlias:
		return s.alias(el)

	case xmldoc.KindProperty, xmldoc.KindValue, xmldoc.KindRef:
		return &beanErrors.MalformedElementError{
			Element:  el.Local,
			Message:  "element must be nested inside a <bean>",
			Location: el.Location,
		}

	default:
		// Elements from other namespaces, <description> and the like carry
		// no definitions.
		return nil
	}
}

// bean builds the definition for a <bean> element. Top-level beans declare
// their id and aliases in the current scope; inner beans do not.
func (s *session) bean(ctx context.Context, el *xmldoc.Element, inner bool) (*ast.Definition, error) {
	id := el.AttrValue("id")
	class := el.AttrValue("class")
	names := splitNames(el.AttrValue("name"))

	if id == "" && len(names) > 0 {
		id, names = names[0], names[1:]
	}
	if id == "" {
		if class == "" {
			return nil, &beanErrors.MalformedElementError{
				Element:  "bean",
				Message:  "bean requires an id, a name or a class",
				Location: el.Location,
			}
		}
		id = s.l.generateID(class)
	}
	names = slices.DeleteFunc(names, func(n string) bool { return n == id })

	def := &ast.Definition{
		ID:       id,
		Class:    class,
		Aliases:  names,
		Depth:    s.scope.Depth() - 1,
		Profile:  s.currentProfile(),
		Inner:    inner,
		Location: el.Location,
	}

	if !inner {
		for _, name := range def.Names() {
			if err := s.scope.Declare(name, el.Location); err != nil {
				return nil, err
			}
		}
	}

	// Shorthand attributes first, then explicit properties; both go through
	// AddProperty so a repeated name fails either way.
	if err := s.l.expander.Expand(el, def); err != nil {
		return nil, err
	}

	for _, child := range el.Children {
		switch child.Kind {
		case xmldoc.KindProperty:
			prop, err := s.property(ctx, child, def)
			if err != nil {
				return nil, err
			}
			if err := def.AddProperty(prop); err != nil {
				return nil, err
			}
		case xmldoc.KindOther:
		default:
			return nil, &beanErrors.MalformedElementError{
				Element:  child.Local,
				BeanID:   def.ID,
				Message:  "unexpected element inside <bean>",
				Location: child.Location,
			}
		}
	}

	return def, nil
}

// property parses an explicit <property>. Exactly one of the value
// attribute, the ref attribute, a <value>, a <ref> or an inner <bean> must
// supply the value.
func (s *session) property(ctx context.Context, el *xmldoc.Element, owner *ast.Definition) (*ast.Property, error) {
	malformed := func(msg string, loc xmldoc.Location) error {
		return &beanErrors.MalformedElementError{
			Element:  "property",
			BeanID:   owner.ID,
			Message:  msg,
			Location: loc,
		}
	}

	name := el.AttrValue("name")
	if name == "" {
		return nil, malformed("property requires a name", el.Location)
	}

	var values []ast.Value
	if v, ok := el.Attr("value"); ok {
		values = append(values, ast.Literal(v))
	}
	if r, ok := el.Attr("ref"); ok {
		if r == "" {
			return nil, malformed(fmt.Sprintf("property %q has an empty ref", name), el.Location)
		}
		values = append(values, ast.Reference(r))
	}

	for _, child := range el.Children {
		switch child.Kind {
		case xmldoc.KindValue:
			values = append(values, ast.Literal(child.Text))
		case xmldoc.KindRef:
			target := child.AttrValue("bean")
			if target == "" {
				return nil, malformed(fmt.Sprintf("<ref> in property %q requires a bean attribute", name), child.Location)
			}
			values = append(values, ast.Reference(target))
		case xmldoc.KindBean:
			inner, err := s.bean(ctx, child, true)
			if err != nil {
				return nil, err
			}
			values = append(values, ast.InnerBean(inner))
		case xmldoc.KindOther:
		default:
			return nil, malformed(fmt.Sprintf("unexpected <%s> in property %q", child.Local, name), child.Location)
		}
	}

	switch len(values) {
	case 0:
		return nil, malformed(fmt.Sprintf("property %q has no value", name), el.Location)
	case 1:
	default:
		return nil, malformed(fmt.Sprintf("property %q must have exactly one value, found %d", name, len(values)), el.Location)
	}

	return &ast.Property{
		Name:     name,
		Value:    values[0],
		Source:   ast.SourceExplicit,
		Location: el.Location,
	}, nil
}

// register writes a top-level definition, logging when it replaces one from
// another scope.
func (s *session) register(ctx context.Context, def *ast.Definition) error {
	if prev, ok := s.l.registry.Lookup(def.ID); ok && prev.ID == def.ID {
		s.l.logger.DebugContext(ctx, "replacing bean definition",
			"id", def.ID,
			"previous", prev.Location.String(),
			"location", def.Location.String(),
		)
	}
	return s.l.registry.Register(def)
}

func (s *session) alias(el *xmldoc.Element) error {
	name := el.AttrValue("name")
	alias := el.AttrValue("alias")
	if name == "" || alias == "" {
		return &beanErrors.MalformedElementError{
			Element:  "alias",
			Message:  "alias requires name and alias attributes",
			Location: el.Location,
		}
	}
	if err := s.scope.Declare(alias, el.Location); err != nil {
		return err
	}
	return s.l.registry.RegisterAlias(name, alias)
}

// importResource loads the document named by an <import> element.
func (s *session) importResource(ctx context.Context, el *xmldoc.Element) error {
	rel := el.AttrValue("resource")
	if rel == "" {
		return &beanErrors.MalformedElementError{
			Element:  "import",
			Message:  "import requires a resource attribute",
			Location: el.Location,
		}
	}
	if s.l.resources == nil {
		return &beanErrors.ImportError{
			Resource: s.resource,
			Import:   rel,
			Message:  "no resource loader configured",
		}
	}

	target := s.l.resources.Resolve(s.resource, rel)
	if slices.Contains(s.chain, target) {
		return &beanErrors.ImportError{
			Resource: s.resource,
			Import:   target,
			Cycle:    append(slices.Clone(s.chain), target),
		}
	}
	if len(s.chain) > s.l.maxImportDepth {
		return &beanErrors.ImportError{
			Resource: s.resource,
			Import:   target,
			Message:  fmt.Sprintf("import depth exceeds maximum of %d", s.l.maxImportDepth),
		}
	}

	ctx, span := s.l.tracer.Start(ctx, "beans.import", trace.WithAttributes(
		tracing.ResourceAttr(s.resource),
		attribute.String(tracing.AttrImport, target),
	))
	defer span.End()

	res, err := s.l.resources.Load(target)
	if err != nil {
		err = &beanErrors.ImportError{Resource: s.resource, Import: target, Message: "failed to load", Cause: err}
		tracing.SetStatus(span, err)
		return err
	}
	doc, err := res.Parse()
	if err != nil {
		err = &beanErrors.ImportError{Resource: s.resource, Import: target, Message: "failed to parse", Cause: err}
		tracing.SetStatus(span, err)
		return err
	}

	s.l.metrics.RecordImport()
	s.l.logger.DebugContext(ctx, "importing bean definitions", "import", res.Name)

	sub := newSession(s.l, res.Name, append(slices.Clone(s.chain), res.Name))
	err = sub.run(logging.WithResource(ctx, res.Name), doc)
	tracing.SetStatus(span, err)
	return err
}

func (s *session) currentProfile() string {
	for i := len(s.profiles) - 1; i >= 0; i-- {
		if s.profiles[i] != "" {
			return s.profiles[i]
		}
	}
	return ""
}
