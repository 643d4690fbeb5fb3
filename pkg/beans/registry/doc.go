// Package registry provides the definition registry: an ordered mapping from
// bean identifier to bean definition.
//
// Registering an identifier that already exists replaces the earlier
// definition silently and keeps the identifier's original position. This is
// what lets the same id be reused in independent nested <beans> blocks, with
// the last one processed winning. Same-block duplicates never reach the
// registry; the loader rejects them first.
//
// # Basic Usage
//
//	reg := registry.New(registry.WithHierarchy(types.FromMap(cfg.Types)))
//	if err := loader.New(reg).Load(ctx, doc); err != nil {
//	    return err
//	}
//
//	def, ok := reg.Lookup("rob")
//	single, err := reg.LookupSingleByAssignableType("TestBean")
//
// A Registry is safe for concurrent readers. Loads against one registry must
// be serialized by the caller.
package registry
