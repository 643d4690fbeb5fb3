// Package ast holds the bean definition model produced by the loader.
//
// # Core Types
//
// Definition: a named configuration record (id, class, aliases, properties)
//
// Property: a single property assignment on a definition
//
// PropertySet: ordered properties with at most one assignment per name
//
// Value: tagged value, either a literal, a reference to another bean id,
// or an inner bean definition
//
// References are kept as plain identifiers. Nothing in this package or the
// loader resolves them; a later wiring phase looks them up in the registry.
package ast
