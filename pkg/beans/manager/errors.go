package manager

import (
	"context"
	"errors"

	beanErrors "mercator-hq/beans/pkg/beans/errors"
)

var (
	// ErrNotLoaded is returned by lookups before the first successful load.
	ErrNotLoaded = errors.New("bean definitions not loaded")

	// ErrWatchDisabled is returned by Watch when watching is off in the
	// configuration.
	ErrWatchDisabled = errors.New("watching is not enabled in configuration")

	// ErrNoSources is returned when the configuration names no sources.
	ErrNoSources = errors.New("no bean definition sources configured")
)

// ErrorKind classifies a load error for metrics.
func ErrorKind(err error) string {
	var (
		parseErr  *beanErrors.ParseError
		importErr *beanErrors.ImportError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, beanErrors.ErrDuplicateIdentifier):
		return "duplicate_id"
	case errors.Is(err, beanErrors.ErrDuplicateProperty):
		return "duplicate_property"
	case errors.Is(err, beanErrors.ErrMalformedElement):
		return "malformed"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &importErr):
		return "import"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "load"
	}
}
