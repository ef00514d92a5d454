package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"bindgen/internal/common"
)

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind classifies a diagnostic.
// A Kind is itself an error so callers can write errors.Is(err, KindWrapperConflict).
type Kind int

const (
	KindUnknown Kind = iota
	KindDuplicateComponent
	KindDuplicateTypeName
	KindNotFound // internal lookup miss; converted before surfacing from a run
	KindUnresolvedExternalType
	KindAmbiguousExternalType
	KindWireTypeUnresolved
	KindWrapperConflict
	KindInvalidErrorType
	KindDefinitionCycle
	KindUnusedExternalType
	KindInvalidDeclaration
)

// Error implements error.
func (k Kind) Error() string {
	return k.String()
}

// Diagnostics holds all diagnostic information from a run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single attributed finding.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Kind identifies the class of problem.
	Kind Kind
	// Component is the component the problem originates from.
	Component string
	// TypeName is the offending type or reference name.
	TypeName string
	// FieldPath locates the reference inside a declaration (if any),
	// e.g. "Route.stops" or "fn greet(who)".
	FieldPath string
	// Message is the human-readable description.
	Message string
	// Candidates lists competing definitions for ambiguity errors.
	Candidates []string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// New creates an error-severity diagnostic.
func New(kind Kind, component, typeName, message string) Diagnostic {
	return Diagnostic{
		Severity:  SeverityError,
		Kind:      kind,
		Component: component,
		TypeName:  typeName,
		Message:   message,
	}
}

// Newf is New with a formatted message.
func Newf(kind Kind, component, typeName, format string, args ...any) Diagnostic {
	return New(kind, component, typeName, fmt.Sprintf(format, args...))
}

// WithField returns a copy with the field path set.
func (d Diagnostic) WithField(path string) Diagnostic {
	d.FieldPath = path
	return d
}

// WithCandidates returns a copy listing competing candidates.
func (d Diagnostic) WithCandidates(candidates ...string) Diagnostic {
	d.Candidates = append([]string(nil), candidates...)
	return d
}

// WithSuggestions returns a copy carrying suggestions.
func (d Diagnostic) WithSuggestions(suggestions ...string) Diagnostic {
	d.Suggestions = append([]string(nil), suggestions...)
	return d
}

// AsWarning returns a copy downgraded to warning severity.
func (d Diagnostic) AsWarning() Diagnostic {
	d.Severity = SeverityWarning
	return d
}

// Err wraps the diagnostic as an error.
func (d Diagnostic) Err() error {
	return &Error{Diagnostic: d}
}

// Add appends a diagnostic to the bucket matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(kind Kind, component, typeName, message string) {
	d.Add(New(kind, component, typeName, message))
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(kind Kind, component, typeName, message string) {
	d.Add(New(kind, component, typeName, message).AsWarning())
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(kind Kind, component, typeName, message string) {
	diag := New(kind, component, typeName, message)
	diag.Severity = SeverityInfo
	d.Add(diag)
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// ByKind returns every diagnostic of the given kind, errors first.
func (d *Diagnostics) ByKind(kind Kind) []Diagnostic {
	var out []Diagnostic

	for _, bucket := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range bucket {
			if diag.Kind == kind {
				out = append(out, diag)
			}
		}
	}

	return out
}

// Sort orders every bucket by component, type name, field path and kind.
func (d *Diagnostics) Sort() {
	for _, bucket := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		sort.SliceStable(bucket, func(i, j int) bool {
			a, b := bucket[i], bucket[j]
			if a.Component != b.Component {
				return a.Component < b.Component
			}

			if a.TypeName != b.TypeName {
				return a.TypeName < b.TypeName
			}

			if a.FieldPath != b.FieldPath {
				return a.FieldPath < b.FieldPath
			}

			return a.Kind < b.Kind
		})
	}
}

// Err returns a *Failure holding every diagnostic, or nil if valid.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	return &Failure{Diagnostics: *d}
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Component != "" || d.TypeName != "" {
		prefix = append(prefix, "["+d.Component+":"+d.TypeName+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := fmt.Sprintf("[%s] %s", d.Kind, d.Message)

	if len(d.Candidates) > 0 {
		msg += " (candidates: " + strings.Join(d.Candidates, ", ") + ")"
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean: " + strings.Join(d.Suggestions, ", ") + ")"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
