package ast

import (
	beanErrors "mercator-hq/beans/pkg/beans/errors"
	"mercator-hq/beans/pkg/xmldoc"
)

// Definition describes how to configure one component.
// After registration it is owned by the registry and must not be mutated.
type Definition struct {
	// ID is the identifier the definition is registered under
	ID string

	// Class is the declared type name (the "class" attribute)
	Class string

	// Aliases are additional names from the "name" attribute
	Aliases []string

	// Properties holds the property assignments in declaration order
	Properties PropertySet

	// Depth is the nesting depth of the enclosing <beans> block (0 = root)
	Depth int

	// Profile is the profile expression of the enclosing block, if any
	Profile string

	// Inner is true for definitions nested inside a property
	Inner bool

	// Location is the position of the <bean> element
	Location xmldoc.Location
}

// AddProperty adds a property assignment, failing with a
// DuplicatePropertyError if the name is already assigned.
func (d *Definition) AddProperty(p *Property) error {
	existing, ok := d.Properties.Add(p)
	if ok {
		return nil
	}
	return &beanErrors.DuplicatePropertyError{
		BeanID:   d.ID,
		Property: p.Name,
		Location: p.Location,
		Existing: existing.Location,
		Sources:  [2]string{string(existing.Source), string(p.Source)},
	}
}

// Property returns the assignment for name.
func (d *Definition) Property(name string) (*Property, bool) {
	return d.Properties.Get(name)
}

// PropertyValue returns the value assigned to name.
func (d *Definition) PropertyValue(name string) (Value, bool) {
	p, ok := d.Properties.Get(name)
	if !ok {
		return Value{}, false
	}
	return p.Value, true
}

// Names returns the id followed by the aliases.
func (d *Definition) Names() []string {
	names := make([]string, 0, 1+len(d.Aliases))
	names = append(names, d.ID)
	return append(names, d.Aliases...)
}

// References returns the ids referenced by this definition, including
// references made by its inner beans, in declaration order.
func (d *Definition) References() []string {
	var refs []string
	for _, p := range d.Properties.All() {
		switch p.Value.Kind {
		case ValueReference:
			refs = append(refs, p.Value.Ref)
		case ValueInnerBean:
			if p.Value.Bean != nil {
				refs = append(refs, p.Value.Bean.References()...)
			}
		}
	}
	return refs
}
