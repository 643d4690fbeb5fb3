// Package types answers "is class X assignable to type Y" for type-based
// bean lookup. Bean definitions only carry type names, so the hierarchy is
// declared explicitly, usually from the "types" section of the config file.
package types

import "sort"

// Hierarchy maps a type name to its direct supertypes (superclasses and
// implemented interfaces). A nil *Hierarchy only matches exact names.
type Hierarchy struct {
	supertypes map[string][]string
}

// NewHierarchy returns an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{supertypes: make(map[string][]string)}
}

// FromMap builds a hierarchy from a type -> supertypes map.
func FromMap(m map[string][]string) *Hierarchy {
	h := NewHierarchy()
	for typ, supers := range m {
		h.Declare(typ, supers...)
	}
	return h
}

// Declare records direct supertypes of typ. Repeated calls accumulate.
func (h *Hierarchy) Declare(typ string, supertypes ...string) {
	for _, s := range supertypes {
		if s == "" || s == typ || contains(h.supertypes[typ], s) {
			continue
		}
		h.supertypes[typ] = append(h.supertypes[typ], s)
	}
	if _, ok := h.supertypes[typ]; !ok {
		h.supertypes[typ] = nil
	}
}

// AssignableTo reports whether a value of type typ can be used where target
// is expected: the names are equal or target is a transitive supertype.
// Cycles in the declarations are tolerated.
func (h *Hierarchy) AssignableTo(typ, target string) bool {
	if typ == target {
		return true
	}
	if h == nil || typ == "" {
		return false
	}

	visited := map[string]bool{typ: true}
	queue := []string{typ}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, s := range h.supertypes[current] {
			if s == target {
				return true
			}
			if !visited[s] {
				visited[s] = true
				queue = append(queue, s)
			}
		}
	}
	return false
}

// Types returns every declared type name, sorted.
func (h *Hierarchy) Types() []string {
	if h == nil {
		return nil
	}
	names := make([]string, 0, len(h.supertypes))
	for name := range h.supertypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
