// Package registry provides the per-run component registry.
//
// A Registry is an explicit object owned by one generation run: it holds
// every registered component, its locally declared types and custom type
// names, the builtin primitives, and the identity table that interns
// (component, name) pairs into TypeIDs. There is no package-level state, so
// independent runs (and tests) never observe each other.
//
// Register is atomic and serialized: a rejected component leaves the
// registry untouched, and concurrent callers are safe.
package registry
