// Package errors defines the error taxonomy of the bean loader.
//
// Loading errors are fatal: the first one aborts the whole load and is
// returned wrapped in a LoadError that names the resource. Lookup errors
// (NotFoundError, AmbiguousOrMissingBeanError) are ordinary return values.
//
// Every error type names the identifier or property that caused it and,
// where one is known, the source location:
//
//	[duplicate-id] bean id "a" is already used in this <beans> block
//	  --> beans.xml:7:31
//	  = first declared at beans.xml:5:31
//
// Callers match on the typed errors with errors.As, or on the sentinel
// values with errors.Is:
//
//	if errors.Is(err, beanErrors.ErrDuplicateIdentifier) {
//	    ...
//	}
package errors
