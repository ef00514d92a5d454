// Package ident provides the namespace and identity model for types.
//
// Every type known to a generation run is identified by the pair
// (owning component, local name). The pair is interned once into an opaque
// TypeID, and every later "is this the same type" decision compares TypeIDs,
// never raw names: two components may use the same local name for unrelated
// types.
//
// Key types:
//   - QualifiedName: component + local name, used for lookups and messages
//   - TypeID: opaque, comparable, stable for the lifetime of one Table
//   - Table: the per-run interner
package ident
