// Package analyze turns Go packages into component declarations.
//
// It uses golang.org/x/tools/go/packages with go/types to read the exported
// API of each package. Every package becomes one component named after the
// package:
//
//   - structs become records; fields are named by their json tag
//   - named basic types become aliases, or enums when the package declares
//     constants of that type
//   - types implementing error become error definitions
//   - interfaces become objects; a NewX function returning X is its constructor
//   - exported functions become component functions; a leading
//     context.Context marks them async
//   - named types from other packages become external references pinned to
//     the owning package's component
//
// Declarations that cannot cross the boundary (channels, funcs, generics)
// are skipped and reported.
package analyze
