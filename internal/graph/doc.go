// Package graph provides the resolved type graph handed to emitters.
//
// A Graph is produced once per successful run by the resolver and is
// read-only afterwards: every named reference is a Link to a TypeID, every
// custom type carries its wire type and both conversion function
// references, and nothing unresolved remains. Emitters never mutate it and
// this package knows nothing about any target language.
package graph
