package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mercator-hq/beans/pkg/beans/ast"
	beanErrors "mercator-hq/beans/pkg/beans/errors"
	"mercator-hq/beans/pkg/beans/types"
)

func createTestDefinition(id, class string) *ast.Definition {
	return &ast.Definition{ID: id, Class: class}
}

func TestNew(t *testing.T) {
	reg := New()

	if reg == nil {
		t.Fatal("New() returned nil")
	}
	if reg.Count() != 0 {
		t.Errorf("Count() = %d, want 0", reg.Count())
	}
	if reg.Version() == "" {
		t.Error("Version() is empty")
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := New()

	if err := reg.Register(createTestDefinition("rob", "TestBean")); err != nil {
		t.Fatalf("Register() error = %v, want nil", err)
	}

	def, ok := reg.Lookup("rob")
	if !ok {
		t.Fatal("Lookup() returned false, want true")
	}
	if def.Class != "TestBean" {
		t.Errorf("def.Class = %q, want %q", def.Class, "TestBean")
	}
}

func TestRegistry_Register_Invalid(t *testing.T) {
	reg := New()

	tests := []struct {
		name string
		def  *ast.Definition
	}{
		{"nil definition", nil},
		{"empty id", &ast.Definition{Class: "TestBean"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.def)
			if err == nil {
				t.Fatal("Register() error = nil, want error")
			}
			var regErr *beanErrors.RegistryError
			if !errors.As(err, &regErr) {
				t.Fatalf("error type = %T, want *RegistryError", err)
			}
		})
	}
}

func TestRegistry_Register_ReplaceExisting(t *testing.T) {
	reg := New()

	_ = reg.Register(createTestDefinition("a", "First"))
	_ = reg.Register(createTestDefinition("b", "Other"))
	if err := reg.Register(createTestDefinition("a", "Second")); err != nil {
		t.Fatalf("Register() replacement error = %v, want nil", err)
	}

	if reg.Count() != 2 {
		t.Errorf("Count() = %d, want 2", reg.Count())
	}
	def, _ := reg.Lookup("a")
	if def.Class != "Second" {
		t.Errorf("def.Class = %q, want %q (last one wins)", def.Class, "Second")
	}
	if diff := cmp.Diff([]string{"a", "b"}, reg.Names()); diff != "" {
		t.Errorf("Names() mismatch, replacement should keep position (-want +got):\n%s", diff)
	}
	if reg.Overrides() != 1 {
		t.Errorf("Overrides() = %d, want 1", reg.Overrides())
	}
}

func TestRegistry_SortedNames(t *testing.T) {
	reg := New()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		_ = reg.Register(createTestDefinition(id, "Clock"))
	}

	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, reg.SortedNames()); diff != "" {
		t.Errorf("SortedNames() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, reg.Names()); diff != "" {
		t.Errorf("Names() mismatch after SortedNames (-want +got):\n%s", diff)
	}
}

func TestRegistry_Lookup_NotFound(t *testing.T) {
	reg := New()
	_ = reg.Register(createTestDefinition("sally", "TestBean"))

	if _, ok := reg.Lookup("sallly"); ok {
		t.Error("Lookup(unknown) returned true, want false")
	}

	_, err := reg.Get("sallly")
	if !errors.Is(err, beanErrors.ErrNotFound) {
		t.Fatalf("Get(unknown) error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "Did you mean 'sally'?") {
		t.Errorf("Get(unknown) error = %q, want suggestion", err.Error())
	}
}

func TestRegistry_Aliases(t *testing.T) {
	reg := New()
	def := createTestDefinition("dataSource", "DataSource")
	def.Aliases = []string{"ds", "db"}
	_ = reg.Register(def)

	if got, ok := reg.Lookup("ds"); !ok || got != def {
		t.Errorf("Lookup(alias) = %v, %v; want the definition", got, ok)
	}
	if err := reg.RegisterAlias("dataSource", "primary"); err != nil {
		t.Fatalf("RegisterAlias() error = %v", err)
	}
	if diff := cmp.Diff([]string{"db", "ds", "primary"}, reg.Aliases("dataSource")); diff != "" {
		t.Errorf("Aliases() mismatch (-want +got):\n%s", diff)
	}
	if reg.Contains("ds") {
		t.Error("Contains(alias) = true, want false")
	}

	if err := reg.RegisterAlias("x", "x"); err == nil {
		t.Error("RegisterAlias(x, x) error = nil, want error")
	}
	if err := reg.RegisterAlias("", "y"); err == nil {
		t.Error("RegisterAlias(\"\", y) error = nil, want error")
	}
}

func TestRegistry_AliasBeforeTarget(t *testing.T) {
	reg := New()
	_ = reg.RegisterAlias("late", "early")

	if _, ok := reg.Lookup("early"); ok {
		t.Error("Lookup(dangling alias) = true, want false")
	}

	_ = reg.Register(createTestDefinition("late", "TestBean"))
	if _, ok := reg.Lookup("early"); !ok {
		t.Error("Lookup(alias) after target registered = false, want true")
	}
}

func TestRegistry_LookupSingleByAssignableType(t *testing.T) {
	hierarchy := types.FromMap(map[string][]string{
		"DerivedTestBean": {"TestBean"},
		"TestBean":        {"ITestBean"},
	})

	t.Run("single match", func(t *testing.T) {
		reg := New(WithHierarchy(hierarchy))
		_ = reg.Register(createTestDefinition("x", "TestBean"))
		_ = reg.Register(createTestDefinition("factory", "Factory"))

		def, err := reg.LookupSingleByAssignableType("ITestBean")
		if err != nil {
			t.Fatalf("LookupSingleByAssignableType() error = %v, want nil", err)
		}
		if def.ID != "x" {
			t.Errorf("def.ID = %q, want %q", def.ID, "x")
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		reg := New(WithHierarchy(hierarchy))
		_ = reg.Register(createTestDefinition("rob", "TestBean"))
		_ = reg.Register(createTestDefinition("derivedSally", "DerivedTestBean"))

		_, err := reg.LookupSingleByAssignableType("TestBean")
		var ambErr *beanErrors.AmbiguousOrMissingBeanError
		if !errors.As(err, &ambErr) {
			t.Fatalf("error = %v, want *AmbiguousOrMissingBeanError", err)
		}
		if diff := cmp.Diff([]string{"rob", "derivedSally"}, ambErr.Candidates); diff != "" {
			t.Errorf("Candidates mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing", func(t *testing.T) {
		reg := New()
		_ = reg.Register(createTestDefinition("rob", "TestBean"))

		_, err := reg.LookupSingleByAssignableType("ITestBean")
		if !errors.Is(err, beanErrors.ErrAmbiguousBean) {
			t.Fatalf("error = %v, want ErrAmbiguousBean", err)
		}
	})
}

func TestRegistry_UnresolvedReferences(t *testing.T) {
	reg := New()

	rob := createTestDefinition("rob", "TestBean")
	_ = rob.AddProperty(&ast.Property{Name: "spouse", Value: ast.Reference("sally")})
	derived := createTestDefinition("derivedSally", "DerivedTestBean")
	_ = derived.AddProperty(&ast.Property{Name: "spouse", Value: ast.Reference("r")})

	_ = reg.Register(rob)
	_ = reg.Register(derived)
	_ = reg.Register(createTestDefinition("sally", "TestBean"))

	want := map[string][]string{"derivedSally": {"r"}}
	if diff := cmp.Diff(want, reg.UnresolvedReferences()); diff != "" {
		t.Errorf("UnresolvedReferences() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Version(t *testing.T) {
	reg := New()
	empty := reg.Version()

	_ = reg.Register(createTestDefinition("a", "TestBean"))
	first := reg.Version()
	if first == empty {
		t.Error("Version() did not change after Register")
	}

	other := New()
	_ = other.Register(createTestDefinition("a", "TestBean"))
	if other.Version() != first {
		t.Errorf("Version() = %q, want %q for identical contents", other.Version(), first)
	}
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	reg := New()
	_ = reg.Register(createTestDefinition("a", "TestBean"))

	clone := reg.Clone()
	_ = clone.Register(createTestDefinition("b", "TestBean"))

	if reg.Count() != 1 {
		t.Errorf("original Count() = %d, want 1", reg.Count())
	}
	if clone.Count() != 2 {
		t.Errorf("clone Count() = %d, want 2", clone.Count())
	}
}

func TestRegistry_Stats(t *testing.T) {
	reg := New()
	def := createTestDefinition("a", "TestBean")
	def.Aliases = []string{"alpha"}
	_ = def.AddProperty(&ast.Property{Name: "name", Value: ast.Literal("x")})
	_ = reg.Register(def)
	_ = reg.Register(def)

	stats := reg.Stats()
	if stats.Definitions != 1 || stats.Aliases != 1 || stats.Properties != 1 || stats.Overrides != 1 {
		t.Errorf("Stats() = %+v, want 1 definition, 1 alias, 1 property, 1 override", stats)
	}
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	reg := New()
	for i := 0; i < 50; i++ {
		_ = reg.Register(createTestDefinition(fmt.Sprintf("bean-%d", i), "TestBean"))
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, ok := reg.Lookup(fmt.Sprintf("bean-%d", (n+j)%50)); !ok {
					t.Errorf("Lookup(bean-%d) = false", (n+j)%50)
					return
				}
				_ = reg.Names()
			}
		}(i)
	}
	wg.Wait()
}
