package ast

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	beanErrors "mercator-hq/beans/pkg/beans/errors"
	"mercator-hq/beans/pkg/xmldoc"
)

func TestDefinition_AddProperty(t *testing.T) {
	def := &Definition{ID: "rob", Class: "TestBean"}
	first := xmldoc.Location{Resource: "beans.xml", Line: 4, Column: 3}
	second := xmldoc.Location{Resource: "beans.xml", Line: 6, Column: 5}

	if err := def.AddProperty(&Property{Name: "age", Value: Literal("24"), Source: SourceShorthand, Location: first}); err != nil {
		t.Fatalf("AddProperty(age) error = %v, want nil", err)
	}
	if err := def.AddProperty(&Property{Name: "name", Value: Literal("Rob"), Source: SourceExplicit}); err != nil {
		t.Fatalf("AddProperty(name) error = %v, want nil", err)
	}

	err := def.AddProperty(&Property{Name: "age", Value: Literal("30"), Source: SourceExplicit, Location: second})
	if err == nil {
		t.Fatal("AddProperty(age) twice error = nil, want error")
	}

	var dupErr *beanErrors.DuplicatePropertyError
	if !errors.As(err, &dupErr) {
		t.Fatalf("error type = %T, want *DuplicatePropertyError", err)
	}
	if dupErr.BeanID != "rob" || dupErr.Property != "age" {
		t.Errorf("error = %+v, want bean rob property age", dupErr)
	}
	if dupErr.Sources != [2]string{"shorthand", "explicit"} {
		t.Errorf("Sources = %v, want [shorthand explicit]", dupErr.Sources)
	}
	if dupErr.Existing != first {
		t.Errorf("Existing = %v, want %v", dupErr.Existing, first)
	}
	if dupErr.Location != second {
		t.Errorf("Location = %v, want %v", dupErr.Location, second)
	}

	v, ok := def.PropertyValue("age")
	if !ok || v.Literal != "24" {
		t.Errorf("PropertyValue(age) = %v, %v; want first assignment 24", v, ok)
	}

	if diff := cmp.Diff([]string{"age", "name"}, def.Properties.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinition_References(t *testing.T) {
	inner := &Definition{Class: "TestBean", Inner: true}
	_ = inner.AddProperty(&Property{Name: "spouse", Value: Reference("sally2")})

	def := &Definition{ID: "sally2"}
	_ = def.AddProperty(&Property{Name: "name", Value: Literal("Sally")})
	_ = def.AddProperty(&Property{Name: "spouse", Value: InnerBean(inner)})
	_ = def.AddProperty(&Property{Name: "friend", Value: Reference("rob")})

	if diff := cmp.Diff([]string{"sally2", "rob"}, def.References()); diff != "" {
		t.Errorf("References() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinition_Names(t *testing.T) {
	def := &Definition{ID: "a", Aliases: []string{"b", "c"}}
	if diff := cmp.Diff([]string{"a", "b", "c"}, def.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Literal("24"), "24"},
		{Reference("sally"), "ref(sally)"},
		{InnerBean(&Definition{Class: "TestBean"}), "bean(TestBean)"},
	}

	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPropertySet_ZeroValue(t *testing.T) {
	var set PropertySet
	if _, ok := set.Get("missing"); ok {
		t.Error("Get on zero PropertySet returned ok")
	}
	if set.Len() != 0 {
		t.Errorf("Len() = %d, want 0", set.Len())
	}
}
