package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a single diagnostic used as an error value.
// It unwraps to its Kind.
type Error struct {
	Diagnostic
}

// Error implements error.
func (e *Error) Error() string {
	return e.Diagnostic.String()
}

// Unwrap returns the diagnostic kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Failure is returned when a run produced error diagnostics.
// It unwraps to one *Error per error diagnostic.
type Failure struct {
	Diagnostics Diagnostics
}

// Error implements error.
func (f *Failure) Error() string {
	parts := make([]string, 0, len(f.Diagnostics.Errors))
	for _, d := range f.Diagnostics.Errors {
		parts = append(parts, d.String())
	}

	return fmt.Sprintf("%d error(s): %s", len(parts), strings.Join(parts, "; "))
}

// Unwrap exposes every error diagnostic to errors.Is and errors.As.
func (f *Failure) Unwrap() []error {
	errs := make([]error, 0, len(f.Diagnostics.Errors))
	for _, d := range f.Diagnostics.Errors {
		errs = append(errs, d.Err())
	}

	return errs
}

// Collect extracts diagnostics from an error returned by this module.
// Foreign errors become a single KindUnknown diagnostic.
func Collect(err error) Diagnostics {
	var out Diagnostics
	if err == nil {
		return out
	}

	var failure *Failure
	if errors.As(err, &failure) {
		out.Merge(failure.Diagnostics)
		return out
	}

	var single *Error
	if errors.As(err, &single) {
		out.Add(single.Diagnostic)
		return out
	}

	out.AddError(KindUnknown, "", "", err.Error())

	return out
}
