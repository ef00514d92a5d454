// Package manifest renders a resolved component as a YAML document
// describing its types, identities, layouts and wrappers.
package manifest

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"bindgen/internal/emit"
	"bindgen/internal/graph"
)

// Manifest is the document written for one component.
type Manifest struct {
	Run       string     `yaml:"run,omitempty"`
	Component string     `yaml:"component"`
	Version   string     `yaml:"version,omitempty"`
	DependsOn []string   `yaml:"depends_on,omitempty"`
	Types     []Type     `yaml:"types,omitempty"`
	Externals []External `yaml:"externals,omitempty"`
	Functions []Function `yaml:"functions,omitempty"`
}

// Type describes one owned type.
type Type struct {
	Name      string     `yaml:"name"`
	ID        string     `yaml:"id"`
	Kind      string     `yaml:"kind"`
	Canonical string     `yaml:"canonical"`
	Doc       string     `yaml:"doc,omitempty"`
	Layout    string     `yaml:"layout"`
	Target    string     `yaml:"target,omitempty"`
	Fields    []Field    `yaml:"fields,omitempty"`
	Variants  []Variant  `yaml:"variants,omitempty"`
	Flat      bool       `yaml:"flat,omitempty"`
	Ctors     []Function `yaml:"constructors,omitempty"`
	Methods   []Function `yaml:"methods,omitempty"`
	Wire      string     `yaml:"wire,omitempty"`
	ToWire    string     `yaml:"to_wire,omitempty"`
	FromWire  string     `yaml:"from_wire,omitempty"`
}

// Field is a named type expression.
type Field struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Variant is an enum or error case.
type Variant struct {
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields,omitempty"`
}

// Function is a function, constructor or method signature.
type Function struct {
	Name    string  `yaml:"name"`
	Params  []Field `yaml:"params,omitempty"`
	Returns string  `yaml:"returns,omitempty"`
	Throws  string  `yaml:"throws,omitempty"`
	Async   bool    `yaml:"async,omitempty"`
}

// External is a resolved external reference.
type External struct {
	Name   string `yaml:"name"`
	Hint   string `yaml:"hint,omitempty"`
	Target string `yaml:"target"`
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithRunID records the run id in every manifest. Manifests of different
// runs then differ even when the declarations do not.
func WithRunID() Option {
	return func(e *Emitter) {
		e.runID = true
	}
}

// Emitter implements emit.Emitter for YAML manifests.
type Emitter struct {
	runID bool
}

// New creates a manifest emitter.
func New(opts ...Option) *Emitter {
	e := &Emitter{}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Name implements emit.Emitter.
func (e *Emitter) Name() string { return "manifest" }

// FileExtension implements emit.Emitter.
func (e *Emitter) FileExtension() string { return ".yaml" }

// Emit implements emit.Emitter.
func (e *Emitter) Emit(g *graph.Graph, component string) ([]byte, error) {
	m, err := Build(g, component)
	if err != nil {
		return nil, err
	}

	if e.runID {
		m.Run = g.RunID()
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	return buf.Bytes(), nil
}

// Build assembles the manifest of component.
func Build(g *graph.Graph, component string) (*Manifest, error) {
	c, ok := g.Component(component)
	if !ok {
		return nil, fmt.Errorf("component %q is not in the graph", component)
	}

	m := &Manifest{
		Component: c.Name,
		Version:   c.Version,
		DependsOn: c.DependsOn,
	}

	for _, id := range c.Types {
		t, ok := g.Type(id)
		if !ok {
			return nil, fmt.Errorf("type %s of component %s is not in the graph", id, component)
		}

		m.Types = append(m.Types, describe(g, t))
	}

	for _, ext := range c.Externals {
		m.Externals = append(m.Externals, External{
			Name:   ext.Declared,
			Hint:   ext.Hint,
			Target: emit.QualifiedName(g, ext.Target, ext.Declared),
		})
	}

	for _, fn := range c.Functions {
		m.Functions = append(m.Functions, function(g, fn))
	}

	return m, nil
}

func describe(g *graph.Graph, t *graph.Type) Type {
	out := Type{
		Name:      t.Name.Name,
		ID:        t.ID.String(),
		Kind:      t.Def.Kind().String(),
		Canonical: t.CanonicalName(),
		Doc:       t.Doc,
	}

	if l, ok := g.Layout(t.ID); ok {
		out.Layout = emit.QualifiedName(g, l.Wire, "")
		if l.Kind != graph.KindBuiltin {
			out.Layout = l.Kind.String() + " " + out.Layout
		}
	}

	switch d := t.Def.(type) {
	case *graph.Alias:
		out.Target = emit.QualifiedRef(g, d.Target)
	case *graph.Record:
		out.Fields = fields(g, d.Fields)
	case *graph.Enum:
		out.Variants = variants(g, d.Variants)
	case *graph.Error:
		out.Variants = variants(g, d.Variants)
		out.Flat = d.Flat
	case *graph.Object:
		for _, f := range d.Constructors {
			out.Ctors = append(out.Ctors, function(g, f))
		}

		for _, f := range d.Methods {
			out.Methods = append(out.Methods, function(g, f))
		}
	case *graph.Custom:
		out.Wire = emit.QualifiedName(g, d.Wire, d.WireName)
		out.ToWire = string(d.ToWire)
		out.FromWire = string(d.FromWire)
	case *graph.Builtin:
	default:
		panic(fmt.Sprintf("manifest: unhandled definition %T", t.Def))
	}

	return out
}

func fields(g *graph.Graph, in []graph.Field) []Field {
	out := make([]Field, 0, len(in))
	for _, f := range in {
		out = append(out, Field{Name: f.Name, Type: emit.QualifiedRef(g, f.Type)})
	}

	return out
}

func variants(g *graph.Graph, in []graph.Variant) []Variant {
	out := make([]Variant, 0, len(in))
	for _, v := range in {
		out = append(out, Variant{Name: v.Name, Fields: fields(g, v.Fields)})
	}

	return out
}

func function(g *graph.Graph, fn graph.Function) Function {
	out := Function{
		Name:    fn.Name,
		Returns: emit.QualifiedRef(g, fn.Returns),
		Async:   fn.Async,
	}

	for _, p := range fn.Params {
		out.Params = append(out.Params, Field{Name: p.Name, Type: emit.QualifiedRef(g, p.Type)})
	}

	if fn.Throws != nil {
		out.Throws = emit.QualifiedRef(g, *fn.Throws)
	}

	return out
}
