// Package resolve turns a registry of component declarations into a
// resolved type graph.
//
// Resolution binds every external reference to exactly one definition,
// validates custom types through the bridge, re-checks every field and
// signature against its component's scope and orders components so that
// dependencies come first. All problems are collected before the run
// fails; a failed run never yields a partial graph.
package resolve
