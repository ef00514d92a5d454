package analyze

import (
	"fmt"
	"go/token"
	"reflect"
	"strings"

	"bindgen/internal/decl"
)

// Package is a loaded Go package converted into a component.
type Package struct {
	// Path is the package import path.
	Path string
	// Component holds the converted declarations.
	Component *decl.Component
	// Skipped lists declarations that could not be converted.
	Skipped []Skipped
}

// Skipped records a declaration left out of a component.
type Skipped struct {
	Pos    token.Position
	Name   string
	Reason string
}

// String returns a human-readable representation of the Skipped entry.
func (s Skipped) String() string {
	return fmt.Sprintf("%s: %s: %s", s.Pos, s.Name, s.Reason)
}

// fieldName returns the json tag name if present, otherwise the Go name.
// ok is false for fields tagged json:"-".
func fieldName(goName string, tag reflect.StructTag) (name string, ok bool) {
	jsonTag := tag.Get("json")
	if jsonTag == "-" {
		return "", false
	}

	if name, _, _ := strings.Cut(jsonTag, ","); name != "" {
		return name, true
	}

	return goName, true
}
