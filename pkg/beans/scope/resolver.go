// Package scope tracks which bean identifiers are visible in each open
// <beans> block while a document is traversed.
//
// Each block gets a fresh identifier set when it is entered. An identifier
// collides only with one declared earlier in the same, still-open set, so
// the same id may appear once in an outer block and again in a nested or
// sibling block.
package scope

import (
	beanErrors "mercator-hq/beans/pkg/beans/errors"
	"mercator-hq/beans/pkg/xmldoc"
)

// Resolver is a stack of identifier sets, one per open block.
// It is not safe for concurrent use.
type Resolver struct {
	stack []map[string]xmldoc.Location
}

// New returns a resolver with no open scope.
func New() *Resolver {
	return &Resolver{}
}

// Enter opens a nested block with an empty identifier set.
func (r *Resolver) Enter() {
	r.stack = append(r.stack, make(map[string]xmldoc.Location))
}

// Exit closes the innermost block. Exiting with no open block is a caller
// bug and panics.
func (r *Resolver) Exit() {
	if len(r.stack) == 0 {
		panic("scope: Exit called with no open scope")
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// Declare records id in the innermost block. If the block already holds id
// it returns a DuplicateIdentifierError and leaves the set unchanged.
// Declaring with no open block panics.
func (r *Resolver) Declare(id string, loc xmldoc.Location) error {
	if len(r.stack) == 0 {
		panic("scope: Declare called with no open scope")
	}

	top := r.stack[len(r.stack)-1]
	if prev, ok := top[id]; ok {
		return &beanErrors.DuplicateIdentifierError{
			ID:       id,
			Location: loc,
			Previous: prev,
		}
	}
	top[id] = loc
	return nil
}

// Depth returns the number of open blocks.
func (r *Resolver) Depth() int {
	return len(r.stack)
}

// Done reports whether every opened block has been closed.
func (r *Resolver) Done() bool {
	return len(r.stack) == 0
}
