// Package match ranks known type names against one that failed to resolve,
// to produce "did you mean" suggestions.
//
// Names are compared after normalization (Tokens, Normalize, Stem) using an
// edit distance that counts adjacent transpositions as one edit.
package match
