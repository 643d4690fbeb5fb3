package ast

import "mercator-hq/beans/pkg/xmldoc"

// PropertySource records how a property assignment was written.
type PropertySource string

const (
	// SourceExplicit is a nested <property> element.
	SourceExplicit PropertySource = "explicit"
	// SourceShorthand is an attribute in the property namespace.
	SourceShorthand PropertySource = "shorthand"
)

// Property is one property assignment.
type Property struct {
	Name     string
	Value    Value
	Source   PropertySource
	Location xmldoc.Location
}

// PropertySet is an ordered set of properties keyed by name.
// The zero value is ready to use.
type PropertySet struct {
	props []*Property
	index map[string]int
}

// Add appends p unless its name is already present. On conflict it returns
// the existing property and false.
func (s *PropertySet) Add(p *Property) (*Property, bool) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[p.Name]; ok {
		return s.props[i], false
	}
	s.index[p.Name] = len(s.props)
	s.props = append(s.props, p)
	return p, true
}

// Get returns the property with the given name.
func (s *PropertySet) Get(name string) (*Property, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.props[i], true
}

// Len returns the number of properties.
func (s *PropertySet) Len() int {
	return len(s.props)
}

// All returns the properties in declaration order.
// The returned slice is a copy.
func (s *PropertySet) All() []*Property {
	out := make([]*Property, len(s.props))
	copy(out, s.props)
	return out
}

// Names returns the property names in declaration order.
func (s *PropertySet) Names() []string {
	names := make([]string, len(s.props))
	for i, p := range s.props {
		names[i] = p.Name
	}
	return names
}
