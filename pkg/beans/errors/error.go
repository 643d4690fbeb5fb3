package errors

import (
	"errors"
	"fmt"
	"strings"

	"mercator-hq/beans/pkg/xmldoc"
)

// Sentinel values matched by the typed errors' Is methods.
var (
	ErrDuplicateIdentifier = errors.New("duplicate bean identifier")
	ErrDuplicateProperty   = errors.New("duplicate property")
	ErrNotFound            = errors.New("bean definition not found")
	ErrAmbiguousBean       = errors.New("no unique bean definition")
	ErrMalformedElement    = errors.New("malformed element")
)

// DuplicateIdentifierError is raised when two definitions share an
// identifier within the same nesting scope.
type DuplicateIdentifierError struct {
	// ID is the repeated identifier
	ID string

	// Location is where the second declaration appears
	Location xmldoc.Location

	// Previous is where the identifier was first declared
	Previous xmldoc.Location
}

// Error implements the error interface.
func (e *DuplicateIdentifierError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[duplicate-id] bean id %q is already used in this <beans> block", e.ID))
	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  --> %s", e.Location))
	}
	if e.Previous.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  = first declared at %s", e.Previous))
	}
	return sb.String()
}

// Is matches ErrDuplicateIdentifier.
func (e *DuplicateIdentifierError) Is(target error) bool {
	return target == ErrDuplicateIdentifier
}

// DuplicatePropertyError is raised when a property name is assigned twice
// on one definition, whether by shorthand attributes, explicit property
// elements or a mix of both.
type DuplicatePropertyError struct {
	// BeanID is the definition carrying the conflict
	BeanID string

	// Property is the property name assigned twice
	Property string

	// Location is where the second assignment appears
	Location xmldoc.Location

	// Existing is where the name was first assigned
	Existing xmldoc.Location

	// Sources names how each assignment was written ("shorthand", "explicit")
	Sources [2]string
}

// Error implements the error interface.
func (e *DuplicatePropertyError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[duplicate-property] property %q is defined more than once on bean %q", e.Property, e.BeanID))
	if e.Sources[0] != "" && e.Sources[1] != "" {
		sb.WriteString(fmt.Sprintf(" (%s and %s)", e.Sources[0], e.Sources[1]))
	}
	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  --> %s", e.Location))
	}
	if e.Existing.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  = first assigned at %s", e.Existing))
	}
	return sb.String()
}

// Is matches ErrDuplicateProperty.
func (e *DuplicatePropertyError) Is(target error) bool {
	return target == ErrDuplicateProperty
}

// AmbiguousOrMissingBeanError is returned by type-based lookup when zero or
// more than one definition matches.
type AmbiguousOrMissingBeanError struct {
	// Type is the requested type name
	Type string

	// Candidates lists the ids of every matching definition
	Candidates []string
}

// Error implements the error interface.
func (e *AmbiguousOrMissingBeanError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no bean definition of type %q", e.Type)
	}
	return fmt.Sprintf("expected a single bean definition of type %q but found %d: %s",
		e.Type, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// Is matches ErrAmbiguousBean.
func (e *AmbiguousOrMissingBeanError) Is(target error) bool {
	return target == ErrAmbiguousBean
}

// NotFoundError is returned by identifier lookup when no definition exists.
type NotFoundError struct {
	// ID is the identifier that was requested
	ID string

	// Suggestion is an optional hint such as "Did you mean 'rob'?"
	Suggestion string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("no bean definition named %q. %s", e.ID, e.Suggestion)
	}
	return fmt.Sprintf("no bean definition named %q", e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedElementError reports an element the loader cannot interpret,
// such as a <property> without a name.
type MalformedElementError struct {
	// Element is the element name, e.g. "property"
	Element string

	// BeanID is the enclosing definition, if any
	BeanID string

	// Message describes the problem
	Message string

	// Location is the element's position
	Location xmldoc.Location
}

// Error implements the error interface.
func (e *MalformedElementError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[malformed] <%s>", e.Element))
	if e.BeanID != "" {
		sb.WriteString(fmt.Sprintf(" in bean %q", e.BeanID))
	}
	sb.WriteString(": " + e.Message)
	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  --> %s", e.Location))
	}
	return sb.String()
}

// Is matches ErrMalformedElement.
func (e *MalformedElementError) Is(target error) bool {
	return target == ErrMalformedElement
}

// ImportError reports a failed <import>, including import cycles.
type ImportError struct {
	// Resource is the resource containing the import
	Resource string

	// Import is the resource that was being imported
	Import string

	// Cycle lists the resources of an import cycle, if one was found
	Cycle []string

	// Message describes the problem
	Message string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("circular import detected in %q: %s", e.Resource, strings.Join(e.Cycle, " -> "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("import error in %q: failed to import %q: %s: %v", e.Resource, e.Import, e.Message, e.Cause)
	}
	return fmt.Sprintf("import error in %q: failed to import %q: %s", e.Resource, e.Import, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ImportError) Unwrap() error {
	return e.Cause
}

// ParseError reports a document that is not well-formed XML.
type ParseError struct {
	Resource string
	Line     int
	Column   int
	Cause    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %q at line %d, column %d: %v", e.Resource, e.Line, e.Column, e.Cause)
	}
	return fmt.Sprintf("parse error in %q: %v", e.Resource, e.Cause)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// LoadError is the fatal error returned when a load operation aborts.
// The typed cause stays reachable through errors.As.
type LoadError struct {
	// Resource is the resource being loaded
	Resource string

	// Message describes the failure
	Message string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load bean definitions from %q: %s: %v", e.Resource, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load bean definitions from %q: %s", e.Resource, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// RegistryError reports misuse of the registry API, such as registering a
// definition without an identifier.
type RegistryError struct {
	ID        string
	Operation string
	Message   string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("registry error for bean %q during %s: %s", e.ID, e.Operation, e.Message)
	}
	return fmt.Sprintf("registry error during %s: %s", e.Operation, e.Message)
}
