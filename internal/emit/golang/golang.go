// Package golang renders a resolved component as Go declarations.
//
// Records become structs, enums tagged unions (a sealed interface plus one
// struct per variant, or an int32 with constants when no variant carries
// data), errors error types, objects interfaces and custom types named
// types with a converter that calls the caller-supplied conversion
// functions.
package golang

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"

	"bindgen/internal/graph"
)

// Config holds configuration for the Go emitter.
type Config struct {
	// ImportPrefix is joined with a component name to form its import path.
	// With an empty prefix the component name is the import path.
	ImportPrefix string
	// DebugDir receives the unformatted source when formatting fails.
	// Empty disables the sidecar.
	DebugDir string
}

// DefaultConfig returns the default emitter configuration.
func DefaultConfig() Config {
	return Config{}
}

// Emitter implements emit.Emitter for Go.
type Emitter struct {
	config Config
}

// New creates a Go emitter.
func New(config Config) *Emitter {
	return &Emitter{config: config}
}

// Name implements emit.Emitter.
func (e *Emitter) Name() string { return "go" }

// FileExtension implements emit.Emitter.
func (e *Emitter) FileExtension() string { return ".go" }

// Emit implements emit.Emitter.
func (e *Emitter) Emit(g *graph.Graph, component string) ([]byte, error) {
	c, ok := g.Component(component)
	if !ok {
		return nil, fmt.Errorf("component %q is not in the graph", component)
	}

	data, err := newBuilder(g, c, e.config).file()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if e.config.DebugDir != "" {
			_ = writeDebugUnformatted(e.config.DebugDir, component+".go", buf.Bytes())
		}

		return nil, fmt.Errorf("formatting code: %w", err)
	}

	return formatted, nil
}

// writeDebugUnformatted writes unformatted code to a sidecar file. This is
// best-effort and never makes emission fail harder.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.go"

	return os.WriteFile(filepath.Join(outDir, debugName), content, 0o644)
}
