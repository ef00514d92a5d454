// Package diagnostic provides structured, attributed errors and warnings
// for component registration and type resolution.
//
// Every diagnostic names the component and type it originates from, so a
// caller can render a compile error without this package formatting one.
// Resolution collects every independent failure of a run instead of stopping
// at the first one.
//
// Key types:
//   - Kind: error kind enum that also satisfies error, for errors.Is
//   - Diagnostic: one attributed finding
//   - Diagnostics: collected findings split by severity
//   - Failure: the error returned when a run has error diagnostics
package diagnostic
