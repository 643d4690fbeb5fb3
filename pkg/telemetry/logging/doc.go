// Package logging builds the structured loggers used across the loader.
//
// Loggers are plain *slog.Logger values. The handler returned by New copies
// load correlation fields (load_id, resource) from the context into every
// record, so components only need to log with the *Context methods:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "text"})
//	ctx = logging.WithLoadID(ctx, id)
//	logger.InfoContext(ctx, "loaded bean definitions", "count", n)
package logging
