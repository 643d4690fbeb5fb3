// Package shorthand expands property-namespace attributes on a <bean>
// element into ordinary property assignments.
//
//	<bean id="rob" class="TestBean" p:name="Rob Harrop" p:spouse-ref="sally"/>
//
// is equivalent to
//
//	<bean id="rob" class="TestBean">
//	  <property name="name" value="Rob Harrop"/>
//	  <property name="spouse" ref="sally"/>
//	</bean>
//
// An attribute whose local name ends with one of the reference suffixes
// ("-ref" and "Ref" by default) becomes a reference to the bean named by the
// attribute text. The text is used verbatim; whether such a bean exists is
// not checked here.
package shorthand

import (
	"sort"
	"strings"

	"mercator-hq/beans/pkg/beans/ast"
	"mercator-hq/beans/pkg/xmldoc"
)

const (
	// DefaultNamespace is the property namespace URI.
	DefaultNamespace = "http://www.springframework.org/schema/p"

	// DefaultPrefix is matched when a document uses p: without declaring it.
	DefaultPrefix = "p"
)

// DefaultRefSuffixes are the reference suffixes used when none are configured.
var DefaultRefSuffixes = []string{"-ref", "Ref"}

// Expander rewrites shorthand attributes into property assignments.
type Expander struct {
	namespace string
	prefix    string
	suffixes  []string
}

// Option configures an Expander.
type Option func(*Expander)

// WithNamespace sets the namespace URI that marks shorthand attributes.
func WithNamespace(uri string) Option {
	return func(e *Expander) {
		e.namespace = uri
	}
}

// WithPrefix sets the undeclared prefix that marks shorthand attributes.
// An empty prefix disables prefix matching.
func WithPrefix(prefix string) Option {
	return func(e *Expander) {
		e.prefix = prefix
	}
}

// WithRefSuffixes replaces the reference suffixes.
func WithRefSuffixes(suffixes ...string) Option {
	return func(e *Expander) {
		e.suffixes = nil
		for _, s := range suffixes {
			if s != "" {
				e.suffixes = append(e.suffixes, s)
			}
		}
	}
}

// New creates an expander with the default namespace, prefix and suffixes.
func New(opts ...Option) *Expander {
	e := &Expander{
		namespace: DefaultNamespace,
		prefix:    DefaultPrefix,
		suffixes:  append([]string(nil), DefaultRefSuffixes...),
	}
	for _, opt := range opts {
		opt(e)
	}
	// Longest suffix first so "-ref" wins over a shorter overlapping suffix.
	sort.SliceStable(e.suffixes, func(i, j int) bool {
		return len(e.suffixes[i]) > len(e.suffixes[j])
	})
	return e
}

// IsShorthand reports whether the attribute belongs to the property namespace.
func (e *Expander) IsShorthand(a xmldoc.Attr) bool {
	if a.Space == "" {
		return false
	}
	return a.Space == e.namespace || (e.prefix != "" && a.Space == e.prefix)
}

// ExpandAttr converts one shorthand attribute into a property assignment.
func (e *Expander) ExpandAttr(a xmldoc.Attr, loc xmldoc.Location) *ast.Property {
	prop := &ast.Property{
		Name:     a.Local,
		Value:    ast.Literal(a.Value),
		Source:   ast.SourceShorthand,
		Location: loc,
	}
	if name, ok := e.refProperty(a.Local); ok {
		prop.Name = name
		prop.Value = ast.Reference(a.Value)
	}
	return prop
}

// refProperty strips a reference suffix. A name that is only the suffix
// is not a reference.
func (e *Expander) refProperty(local string) (string, bool) {
	for _, suffix := range e.suffixes {
		if strings.HasSuffix(local, suffix) && len(local) > len(suffix) {
			return strings.TrimSuffix(local, suffix), true
		}
	}
	return "", false
}

// Expand adds a property to def for every shorthand attribute of el, in
// attribute order. A name that is already assigned on def, or assigned by
// two shorthand attributes, fails with a DuplicatePropertyError.
func (e *Expander) Expand(el *xmldoc.Element, def *ast.Definition) error {
	for _, a := range el.Attrs {
		if !e.IsShorthand(a) {
			continue
		}
		if err := def.AddProperty(e.ExpandAttr(a, el.Location)); err != nil {
			return err
		}
	}
	return nil
}

// RefSuffixes returns the configured suffixes, longest first.
func (e *Expander) RefSuffixes() []string {
	return append([]string(nil), e.suffixes...)
}
