// Package loader reads bean definition documents into a registry.
//
// A document is walked depth first. Every <beans> block opens a fresh
// identifier scope, so an id may be reused in a nested or sibling block but
// not twice in the same block. Each <bean> is declared in the current scope,
// its shorthand attributes are expanded, its explicit <property> elements
// are merged, and it is registered. A later definition with an id already in
// the registry replaces the earlier one.
//
//	reg := registry.New()
//	l := loader.New(reg, loader.WithResourceLoader(resource.NewFileLoader("conf")))
//	if err := l.LoadResource(ctx, "app-context.xml"); err != nil {
//		return err
//	}
//
// Any error aborts the load. Definitions registered before the failure stay
// in the registry; callers that need all-or-nothing semantics load into a
// fresh registry and discard it on error.
package loader
