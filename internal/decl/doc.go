// Package decl defines the in-memory declaration list of one component, as
// produced by a frontend (YAML loader, Go package analyzer, or any parser).
//
// Declarations are unresolved: named type references are plain strings and
// only become links once the resolver has run. Both TypeDef definitions and
// type expressions are closed sum types; consumers switch over every variant
// and panic on anything else.
//
// Type expression syntax:
//
//	u8 | i32 | f64 | string | bytes | timestamp | ...   builtin primitives
//	Point                                              named type
//	sequence<Point>                                    ordered list
//	optional<string>                                   nullable value
//	map<string, u32>                                   key/value map
package decl
