package graph

import (
	"sort"

	"bindgen/internal/diagnostic"
	"bindgen/internal/ident"
)

// maxLayoutDepth bounds alias/custom chains when computing layouts.
// The resolver rejects cycles, so this only guards hand-built graphs.
const maxLayoutDepth = 64

// Graph is the resolved type graph of one run. It is immutable: the types,
// components and wrappers it hands out are shared, and callers must not
// modify them or their slices.
type Graph struct {
	runID      string
	order      []string
	components map[string]*Component
	types      map[ident.TypeID]*Type
	byName     map[ident.QualifiedName]ident.TypeID
	wrappers   map[ident.TypeID]*Wrapper
	warnings   []diagnostic.Diagnostic
}

// RunID identifies the run that produced the graph.
func (g *Graph) RunID() string {
	return g.runID
}

// Order returns component names in dependency order, leaves first.
func (g *Graph) Order() []string {
	return append([]string(nil), g.order...)
}

// Components returns every component in dependency order.
func (g *Graph) Components() []*Component {
	out := make([]*Component, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.components[name])
	}

	return out
}

// Component returns a component by name. The result is shared; do not modify it.
func (g *Graph) Component(name string) (*Component, bool) {
	c, ok := g.components[name]
	return c, ok
}

// Type returns a type by identity. The result is shared; do not modify it.
func (g *Graph) Type(id ident.TypeID) (*Type, bool) {
	t, ok := g.types[id]
	return t, ok
}

// Types returns every type, builtins included, ordered by identity.
func (g *Graph) Types() []*Type {
	out := make([]*Type, 0, len(g.types))
	for _, t := range g.types {
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Less(out[j].ID)
	})

	return out
}

// Lookup returns the type owned by component under name. Builtins are
// addressed with ident.BuiltinComponent.
func (g *Graph) Lookup(component, name string) (*Type, bool) {
	id, ok := g.byName[ident.QualifiedName{Component: component, Name: name}]
	if !ok {
		return nil, false
	}

	return g.Type(id)
}

// Visible resolves name as seen from inside component: owned types,
// then external references, then builtins.
func (g *Graph) Visible(component, name string) (*Type, bool) {
	if t, ok := g.Lookup(component, name); ok {
		return t, true
	}

	if c, ok := g.components[component]; ok {
		for _, ext := range c.Externals {
			if ext.Declared == name {
				return g.Type(ext.Target)
			}
		}
	}

	return g.Lookup(ident.BuiltinComponent, name)
}

// Wrapper returns the wrapper whose semantic type is id.
func (g *Graph) Wrapper(semantic ident.TypeID) (*Wrapper, bool) {
	w, ok := g.wrappers[semantic]
	return w, ok
}

// WrappersOf returns the wrappers declared by component, in declaration order.
func (g *Graph) WrappersOf(component string) []*Wrapper {
	c, ok := g.components[component]
	if !ok {
		return nil
	}

	out := make([]*Wrapper, 0, len(c.Wrappers))
	for _, id := range c.Wrappers {
		out = append(out, g.wrappers[id])
	}

	return out
}

// Layout returns the physical representation of id, following custom
// types to their wire type and aliases to their target.
func (g *Graph) Layout(id ident.TypeID) (Layout, bool) {
	for range maxLayoutDepth {
		t, ok := g.types[id]
		if !ok {
			return Layout{}, false
		}

		switch d := t.Def.(type) {
		case *Custom:
			id = d.Wire
			continue

		case *Alias:
			if link, ok := d.Target.(Link); ok {
				id = link.ID
				continue
			}

			return Layout{Wire: id, Kind: KindAlias}, true

		case *Builtin:
			return Layout{Wire: id, Kind: KindBuiltin, Primitive: d.Primitive, Size: d.Primitive.Size()}, true

		case *Record, *Enum, *Object, *Error:
			return Layout{Wire: id, Kind: d.Kind()}, true

		default:
			panic("graph: unhandled definition in Layout")
		}
	}

	return Layout{}, false
}

// Warnings returns non-fatal diagnostics produced while resolving.
func (g *Graph) Warnings() []diagnostic.Diagnostic {
	return append([]diagnostic.Diagnostic(nil), g.warnings...)
}

// Builder assembles a Graph. It is used by the resolver only; a Builder
// must not be used after Build.
type Builder struct {
	g *Graph
}

// NewBuilder creates a Builder for a run.
func NewBuilder(runID string) *Builder {
	return &Builder{g: &Graph{
		runID:      runID,
		components: make(map[string]*Component),
		types:      make(map[ident.TypeID]*Type),
		byName:     make(map[ident.QualifiedName]ident.TypeID),
		wrappers:   make(map[ident.TypeID]*Wrapper),
	}}
}

// AddType adds a type node.
func (b *Builder) AddType(t *Type) {
	b.g.types[t.ID] = t
	b.g.byName[t.Name] = t.ID
}

// AddComponent adds a resolved component.
func (b *Builder) AddComponent(c *Component) {
	b.g.components[c.Name] = c
}

// AddWrapper records an accepted wrapper.
func (b *Builder) AddWrapper(w *Wrapper) {
	b.g.wrappers[w.Semantic] = w
}

// SetOrder sets the dependency order of components.
func (b *Builder) SetOrder(order []string) {
	b.g.order = append([]string(nil), order...)
}

// AddWarning attaches a warning to the graph.
func (b *Builder) AddWarning(d diagnostic.Diagnostic) {
	b.g.warnings = append(b.g.warnings, d)
}

// Build returns the finished graph.
func (b *Builder) Build() *Graph {
	g := b.g
	b.g = nil

	return g
}
