// Package bridge validates custom type declarations.
//
// A custom type presents a semantic type (UserId) to consumers while the
// value crosses the boundary as a concrete wire type (string). The bridge
// checks each declaration against the owning component's scope and keeps
// the accepted wrappers per component. Conversion functions are carried as
// opaque references and never invoked.
package bridge
