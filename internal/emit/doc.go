// Package emit defines the contract between the resolved type graph and
// language emitters.
//
// Emitters only read the graph. A Set holds the emitters of one run; there
// is no global emitter registry.
package emit
