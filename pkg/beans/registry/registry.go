package registry

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"

	"mercator-hq/beans/pkg/beans/ast"
	beanErrors "mercator-hq/beans/pkg/beans/errors"
	"mercator-hq/beans/pkg/beans/types"
)

// Registry is an ordered, thread-safe map of bean definitions.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]*ast.Definition
	names       []string
	aliases     map[string]string
	hierarchy   *types.Hierarchy
	overrides   int
	version     string
	loadTime    time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithHierarchy sets the type hierarchy used by type-based lookup.
func WithHierarchy(h *types.Hierarchy) Option {
	return func(r *Registry) {
		r.hierarchy = h
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		definitions: make(map[string]*ast.Definition),
		aliases:     make(map[string]string),
		loadTime:    time.Now(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.updateVersion()
	return r
}

// Register inserts def under def.ID, replacing any existing definition with
// the same id. Replacement never fails. The only errors are a nil
// definition or an empty id. The definition's aliases are registered too.
func (r *Registry) Register(def *ast.Definition) error {
	if def == nil {
		return &beanErrors.RegistryError{
			Operation: "register",
			Message:   "definition cannot be nil",
		}
	}
	if def.ID == "" {
		return &beanErrors.RegistryError{
			Operation: "register",
			Message:   "definition id cannot be empty",
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[def.ID]; exists {
		r.overrides++
	} else {
		r.names = append(r.names, def.ID)
	}
	r.definitions[def.ID] = def
	delete(r.aliases, def.ID)

	for _, alias := range def.Aliases {
		if alias != def.ID {
			r.aliases[alias] = def.ID
		}
	}

	r.updateVersion()
	return nil
}

// RegisterAlias makes alias resolve to id. The target does not need to be
// registered yet. A later alias with the same name replaces the earlier one.
func (r *Registry) RegisterAlias(id, alias string) error {
	if id == "" || alias == "" {
		return &beanErrors.RegistryError{
			ID:        id,
			Operation: "register_alias",
			Message:   "name and alias cannot be empty",
		}
	}
	if id == alias {
		return &beanErrors.RegistryError{
			ID:        id,
			Operation: "register_alias",
			Message:   "alias cannot be the same as the bean id",
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.aliases[alias] = id
	return nil
}

// Lookup returns the definition registered under id or one of its aliases.
// The boolean is the not-found signal.
func (r *Registry) Lookup(id string) (*ast.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lookupLocked(id)
}

func (r *Registry) lookupLocked(id string) (*ast.Definition, bool) {
	if def, ok := r.definitions[id]; ok {
		return def, true
	}
	if canonical, ok := r.aliases[id]; ok {
		def, ok := r.definitions[canonical]
		return def, ok
	}
	return nil, false
}

// Get is Lookup returning a NotFoundError with a suggestion when the id is
// unknown.
func (r *Registry) Get(id string) (*ast.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if def, ok := r.lookupLocked(id); ok {
		return def, nil
	}
	return nil, &beanErrors.NotFoundError{
		ID:         id,
		Suggestion: beanErrors.SuggestID(id, r.names),
	}
}

// Contains reports whether a definition is registered under exactly id
// (aliases are not consulted).
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.definitions[id]
	return ok
}

// DefinitionsOfType returns, in registration order, every definition whose
// class is assignable to typeName.
func (r *Registry) DefinitionsOfType(typeName string) []*ast.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*ast.Definition
	for _, id := range r.names {
		def := r.definitions[id]
		if r.hierarchy.AssignableTo(def.Class, typeName) {
			out = append(out, def)
		}
	}
	return out
}

// LookupSingleByAssignableType returns the unique definition whose class is
// assignable to typeName. Zero or several matches yield an
// AmbiguousOrMissingBeanError listing the candidates.
func (r *Registry) LookupSingleByAssignableType(typeName string) (*ast.Definition, error) {
	matches := r.DefinitionsOfType(typeName)
	if len(matches) == 1 {
		return matches[0], nil
	}

	candidates := make([]string, len(matches))
	for i, def := range matches {
		candidates[i] = def.ID
	}
	return nil, &beanErrors.AmbiguousOrMissingBeanError{
		Type:       typeName,
		Candidates: candidates,
	}
}

// Names returns the registered ids in first-registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// SortedNames returns the registered ids sorted alphabetically.
func (r *Registry) SortedNames() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}

// Definitions returns the definitions in registration order.
func (r *Registry) Definitions() []*ast.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*ast.Definition, len(r.names))
	for i, id := range r.names {
		defs[i] = r.definitions[id]
	}
	return defs
}

// Aliases returns the aliases that resolve to id, sorted.
func (r *Registry) Aliases(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for alias, target := range r.aliases {
		if target == id {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// Count returns the number of registered definitions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.definitions)
}

// Overrides returns how many registrations replaced an existing definition.
func (r *Registry) Overrides() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.overrides
}

// UnresolvedReferences maps bean ids to the references they make that no
// registered id or alias satisfies. The loader never resolves references,
// so this is a diagnostic for callers such as the lint command.
func (r *Registry) UnresolvedReferences() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]string)
	for _, id := range r.names {
		for _, ref := range r.definitions[id].References() {
			if _, ok := r.lookupLocked(ref); !ok {
				out[id] = append(out[id], ref)
			}
		}
	}
	return out
}

// Clone returns a copy of the registry sharing the (immutable) definitions.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := &Registry{
		definitions: make(map[string]*ast.Definition, len(r.definitions)),
		names:       make([]string, len(r.names)),
		aliases:     make(map[string]string, len(r.aliases)),
		hierarchy:   r.hierarchy,
		overrides:   r.overrides,
		version:     r.version,
		loadTime:    r.loadTime,
	}
	copy(clone.names, r.names)
	for id, def := range r.definitions {
		clone.definitions[id] = def
	}
	for alias, id := range r.aliases {
		clone.aliases[alias] = id
	}
	return clone
}

// Version returns a short hash identifying the registered ids and classes.
func (r *Registry) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.version
}

// Stats returns counters describing the registry contents.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		Definitions: len(r.definitions),
		Aliases:     len(r.aliases),
		Overrides:   r.overrides,
		Version:     r.version,
		LoadTime:    r.loadTime,
	}
	for _, def := range r.definitions {
		stats.Properties += def.Properties.Len()
	}
	return stats
}

// updateVersion recomputes the version hash. Callers hold the write lock.
func (r *Registry) updateVersion() {
	h := sha256.New()

	names := make([]string, len(r.names))
	copy(names, r.names)
	sort.Strings(names)

	for _, id := range names {
		def := r.definitions[id]
		h.Write([]byte(def.ID))
		h.Write([]byte{0})
		h.Write([]byte(def.Class))
		h.Write([]byte{0})
		h.Write([]byte(def.Location.Resource))
		h.Write([]byte{0})
	}

	r.version = fmt.Sprintf("%x", h.Sum(nil))[:16]
	r.loadTime = time.Now()
}

// Stats contains statistics about a registry.
type Stats struct {
	Definitions int
	Aliases     int
	Properties  int
	Overrides   int
	Version     string
	LoadTime    time.Time
}
