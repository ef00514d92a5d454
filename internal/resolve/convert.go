package resolve

import (
	"fmt"
	"sort"

	"bindgen/internal/bridge"
	"bindgen/internal/decl"
	"bindgen/internal/diagnostic"
	"bindgen/internal/graph"
	"bindgen/internal/ident"
)

// component converts c's declarations into graph nodes.
func (rn *run) component(b *graph.Builder, br *bridge.Bridge, c *decl.Component) *graph.Component {
	sc := rn.scopes[c.Name]
	gc := &graph.Component{Name: c.Name, Version: c.Version}

	for _, td := range c.Types {
		e := sc.names[td.Name].entry
		rn.addType(b, &graph.Type{
			ID:   e.ID,
			Name: e.Name,
			Doc:  td.Doc,
			Def:  rn.definition(sc, td),
		})
		gc.Types = append(gc.Types, e.ID)
	}

	for _, w := range br.Wrappers(c.Name) {
		rn.addType(b, &graph.Type{
			ID:   w.ID,
			Name: ident.QualifiedName{Component: c.Name, Name: w.Semantic},
			Def: &graph.Custom{
				Wire:     w.Wire,
				WireName: w.WireName,
				ToWire:   w.ToWire,
				FromWire: w.FromWire,
			},
		})
		b.AddWrapper(w.Graph())
		gc.Types = append(gc.Types, w.ID)
		gc.Wrappers = append(gc.Wrappers, w.ID)
	}

	for _, ext := range sc.externals {
		if ext.failed() {
			continue
		}

		gc.Externals = append(gc.Externals, graph.External{
			Declared: ext.name,
			Hint:     ext.ext.Component,
			Target:   ext.entry.ID,
		})
	}

	for i := range c.Functions {
		f := &c.Functions[i]
		gc.Functions = append(gc.Functions, rn.function(sc, "fn "+f.Name, f))
	}

	for d := range sc.deps {
		gc.DependsOn = append(gc.DependsOn, d)
	}

	sort.Strings(gc.DependsOn)

	return gc
}

func (rn *run) definition(sc *scope, td decl.TypeDef) graph.Definition {
	switch d := td.Def.(type) {
	case *decl.Alias:
		return &graph.Alias{Target: rn.ref(sc, td.Name, d.Target)}
	case *decl.Record:
		return &graph.Record{Fields: rn.fields(sc, td.Name, d.Fields)}
	case *decl.Enum:
		return &graph.Enum{Variants: rn.variants(sc, td.Name, d.Variants)}
	case *decl.Error:
		return &graph.Error{Variants: rn.variants(sc, td.Name, d.Variants), Flat: d.IsFlat()}
	case *decl.Object:
		obj := &graph.Object{}
		for i := range d.Constructors {
			f := &d.Constructors[i]
			obj.Constructors = append(obj.Constructors, rn.function(sc, td.Name+"::"+f.Name, f))
		}

		for i := range d.Methods {
			f := &d.Methods[i]
			obj.Methods = append(obj.Methods, rn.function(sc, td.Name+"."+f.Name, f))
		}

		return obj
	case nil:
		rn.diags.Add(diagnostic.Newf(diagnostic.KindInvalidDeclaration, sc.component, td.Name,
			"type %q has no definition", td.Name))

		return &graph.Record{}
	default:
		panic(fmt.Sprintf("resolve: unhandled definition %T", td.Def))
	}
}

func (rn *run) fields(sc *scope, path string, fields []decl.Field) []graph.Field {
	out := make([]graph.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, graph.Field{Name: f.Name, Type: rn.ref(sc, path+"."+f.Name, f.Type)})
	}

	return out
}

func (rn *run) variants(sc *scope, path string, variants []decl.Variant) []graph.Variant {
	out := make([]graph.Variant, 0, len(variants))
	for _, v := range variants {
		out = append(out, graph.Variant{Name: v.Name, Fields: rn.fields(sc, path+"::"+v.Name, v.Fields)})
	}

	return out
}

func (rn *run) function(sc *scope, path string, f *decl.Function) graph.Function {
	gf := graph.Function{Name: f.Name, Async: f.Async}

	for _, p := range f.Params {
		gf.Params = append(gf.Params, graph.Param{Name: p.Name, Type: rn.ref(sc, path+"("+p.Name+")", p.Type)})
	}

	if f.Returns != nil {
		gf.Returns = rn.ref(sc, path+" -> return", f.Returns)
	}

	if f.Throws != "" {
		gf.Throws = rn.throws(sc, path+" throws", f.Throws)
	}

	return gf
}

// throws links an error clause. Only Error definitions may be thrown.
func (rn *run) throws(sc *scope, path, name string) *graph.Link {
	b, link := rn.link(sc, path, name)
	if b == nil || b.failed() {
		return &link
	}

	if b.entry.Def == nil || b.entry.Def.Def == nil || b.entry.Def.Def.Kind() != decl.DefError {
		rn.diags.Add(diagnostic.Newf(diagnostic.KindInvalidErrorType, sc.component, name,
			"%q is not an error type", name).WithField(path))
	}

	return &link
}

// ref converts a type expression, reporting every name missing from sc.
func (rn *run) ref(sc *scope, path string, t decl.Type) graph.Ref {
	switch tt := t.(type) {
	case decl.Primitive:
		e, ok := rn.reg.Builtin(tt.Kind.String())
		if !ok {
			rn.diags.Add(diagnostic.Newf(diagnostic.KindInvalidDeclaration, sc.component, tt.String(),
				"invalid primitive").WithField(path))

			return graph.Link{Declared: tt.String()}
		}

		return graph.Link{ID: e.ID, Declared: tt.String()}
	case decl.Named:
		_, link := rn.link(sc, path, tt.Name)
		return link
	case decl.Sequence:
		return graph.Sequence{Elem: rn.ref(sc, path, tt.Elem)}
	case decl.Optional:
		return graph.Optional{Inner: rn.ref(sc, path, tt.Inner)}
	case decl.Map:
		return graph.Map{Key: rn.ref(sc, path, tt.Key), Value: rn.ref(sc, path, tt.Value)}
	case nil:
		rn.diags.Add(diagnostic.New(diagnostic.KindInvalidDeclaration, sc.component, "",
			"missing type").WithField(path))

		return graph.Link{}
	default:
		panic(fmt.Sprintf("resolve: unhandled type %T", t))
	}
}

// link resolves a named reference. Failed externals were reported when they
// were bound and yield an invalid link without a second diagnostic.
func (rn *run) link(sc *scope, path, name string) (*binding, graph.Link) {
	b, ok := rn.lookup(sc, name)
	if !ok {
		rn.diags.Add(diagnostic.Newf(diagnostic.KindUnresolvedExternalType, sc.component, name,
			"%q is neither declared in %q nor referenced as an external type", name, sc.component).
			WithField(path).
			WithSuggestions(rn.suggestInScope(sc, name)...))

		return nil, graph.Link{Declared: name}
	}

	b.used = true

	if b.failed() {
		return b, graph.Link{Declared: name}
	}

	return b, graph.Link{ID: b.entry.ID, Declared: name}
}
