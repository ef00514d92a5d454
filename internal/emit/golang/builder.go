package golang

import (
	"errors"
	"fmt"
	"go/token"
	"path"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"bindgen/internal/common"
	"bindgen/internal/decl"
	"bindgen/internal/graph"
)

// Template data.

type fileData struct {
	Package   string
	Component string
	Version   string
	Imports   []importSpec
	Decls     []declData
	APIName   string
	API       []funcData
}

type importSpec struct {
	Alias string
	Path  string
}

type declData struct {
	Kind     string // alias, record, enum, flat, object, custom
	Name     string
	Doc      []string
	Target   string
	Fields   []fieldData
	Variants []variantData
	IsError  bool

	Methods      []funcData
	Constructors []funcData

	Converter string
	ToWire    string
	FromWire  string
}

type fieldData struct {
	Name string
	Type string
	Tag  string
}

type variantData struct {
	Name    string
	Type    string
	Fields  []fieldData
	Message string
}

type funcData struct {
	Name    string
	Doc     []string
	Params  string
	Results string
}

var primitiveTypes = map[decl.PrimitiveKind]string{
	decl.PrimitiveBool:      "bool",
	decl.PrimitiveI8:        "int8",
	decl.PrimitiveI16:       "int16",
	decl.PrimitiveI32:       "int32",
	decl.PrimitiveI64:       "int64",
	decl.PrimitiveU8:        "uint8",
	decl.PrimitiveU16:       "uint16",
	decl.PrimitiveU32:       "uint32",
	decl.PrimitiveU64:       "uint64",
	decl.PrimitiveF32:       "float32",
	decl.PrimitiveF64:       "float64",
	decl.PrimitiveString:    "string",
	decl.PrimitiveBytes:     "[]byte",
	decl.PrimitiveTimestamp: "time.Time",
	decl.PrimitiveDuration:  "time.Duration",
}

// builder turns one graph component into template data. Errors are
// accumulated so a single Emit reports every broken reference.
type builder struct {
	g       *graph.Graph
	comp    *graph.Component
	config  Config
	imports map[string]importSpec
	errs    []error
}

func newBuilder(g *graph.Graph, c *graph.Component, config Config) *builder {
	return &builder{g: g, comp: c, config: config, imports: make(map[string]importSpec)}
}

func (b *builder) file() (*fileData, error) {
	data := &fileData{
		Package:   packageName(b.comp.Name),
		Component: b.comp.Name,
		Version:   b.comp.Version,
	}

	for _, id := range b.comp.Types {
		t, ok := b.g.Type(id)
		if !ok {
			b.errs = append(b.errs, fmt.Errorf("type %s of component %s is not in the graph", id, b.comp.Name))
			continue
		}

		data.Decls = append(data.Decls, b.decl(t))
	}

	for _, fn := range b.comp.Functions {
		data.API = append(data.API, b.function(exportName(fn.Name), fn))
	}

	data.APIName = "API"
	if _, clash := b.g.Lookup(b.comp.Name, data.APIName); clash {
		data.APIName = exportName(b.comp.Name) + "API"
	}

	for _, spec := range b.imports {
		data.Imports = append(data.Imports, spec)
	}

	sort.Slice(data.Imports, func(i, j int) bool {
		return data.Imports[i].Path < data.Imports[j].Path
	})

	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}

	return data, nil
}

func (b *builder) decl(t *graph.Type) declData {
	name := exportName(t.Name.Name)
	d := declData{Name: name, Doc: docLines(t.Doc)}

	switch def := t.Def.(type) {
	case *graph.Alias:
		d.Kind = "alias"
		d.Target = b.goType(def.Target)
		d.defaultDoc(name + " is an alias of " + d.Target + ".")

	case *graph.Record:
		d.Kind = "record"
		d.Fields = b.fields(def.Fields)
		d.defaultDoc(name + " is a record declared by " + b.comp.Name + ".")

	case *graph.Enum:
		d.Kind = "enum"
		if isFlat(def.Variants) {
			d.Kind = "flat"
		}

		d.Variants = b.variants(t, def.Variants)
		d.defaultDoc(name + " is an enum declared by " + b.comp.Name + ".")

	case *graph.Error:
		d.Kind = "enum"
		if def.Flat {
			d.Kind = "flat"
		}

		d.IsError = true
		d.Variants = b.variants(t, def.Variants)
		d.defaultDoc(name + " is an error declared by " + b.comp.Name + ".")

	case *graph.Object:
		d.Kind = "object"
		for _, m := range def.Methods {
			d.Methods = append(d.Methods, b.function(exportName(m.Name), m))
		}

		for _, c := range def.Constructors {
			c.Returns = graph.Link{ID: t.ID, Declared: t.Name.Name}
			d.Constructors = append(d.Constructors, b.function(exportName(c.Name), c))
		}

		d.defaultDoc(name + " is an object declared by " + b.comp.Name + ".")

	case *graph.Custom:
		d.Kind = "custom"
		d.Target = b.goType(graph.Link{ID: def.Wire, Declared: def.WireName})
		d.Converter = "FfiConverter" + t.CanonicalName()
		d.ToWire = goIdent(string(def.ToWire))
		d.FromWire = goIdent(string(def.FromWire))
		d.defaultDoc(name + " is carried across the boundary as " + def.WireName + ".")

	default:
		b.errs = append(b.errs, fmt.Errorf("type %s: cannot emit %s definition", t.Name, t.Def.Kind()))
	}

	return d
}

func (d *declData) defaultDoc(line string) {
	if len(d.Doc) == 0 {
		d.Doc = []string{line}
	}
}

func (b *builder) fields(fields []graph.Field) []fieldData {
	out := make([]fieldData, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldData{
			Name: exportName(f.Name),
			Type: b.goType(f.Type),
			Tag:  "`json:\"" + f.Name + "\"`",
		})
	}

	return out
}

func (b *builder) variants(t *graph.Type, variants []graph.Variant) []variantData {
	name := exportName(t.Name.Name)

	out := make([]variantData, 0, len(variants))
	for _, v := range variants {
		out = append(out, variantData{
			Name:    v.Name,
			Type:    name + exportName(v.Name),
			Fields:  b.fields(v.Fields),
			Message: strconv.Quote(t.Name.Name + "::" + v.Name),
		})
	}

	return out
}

func (b *builder) function(name string, fn graph.Function) funcData {
	var params []string

	if fn.Async {
		b.addImport("context")

		params = append(params, "ctx context.Context")
	}

	for _, p := range fn.Params {
		params = append(params, paramName(p.Name)+" "+b.goType(p.Type))
	}

	var results []string
	if fn.Returns != nil {
		results = append(results, b.goType(fn.Returns))
	}

	f := funcData{Name: name, Params: strings.Join(params, ", ")}

	if fn.Throws != nil {
		results = append(results, "error")
		f.Doc = append(f.Doc, "Errors are of type "+b.goType(*fn.Throws)+".")
	}

	switch len(results) {
	case 0:
	case 1:
		f.Results = " " + results[0]
	default:
		f.Results = " (" + strings.Join(results, ", ") + ")"
	}

	return f
}

// goType renders r as a Go type expression, recording imports.
func (b *builder) goType(r graph.Ref) string {
	switch rr := r.(type) {
	case graph.Link:
		return b.named(rr)
	case graph.Sequence:
		return "[]" + b.goType(rr.Elem)
	case graph.Optional:
		inner := b.goType(rr.Inner)
		if b.nillable(rr.Inner) {
			return inner
		}

		return "*" + inner
	case graph.Map:
		return "map[" + b.goType(rr.Key) + "]" + b.goType(rr.Value)
	default:
		panic(fmt.Sprintf("golang: unhandled ref %T", r))
	}
}

func (b *builder) named(l graph.Link) string {
	t, ok := b.g.Type(l.ID)
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("type %q is not in the graph", l.Declared))
		return "any"
	}

	if bt, ok := t.Def.(*graph.Builtin); ok {
		s := primitiveTypes[bt.Primitive]
		if strings.HasPrefix(s, "time.") {
			b.addImport("time")
		}

		return s
	}

	name := exportName(t.Name.Name)
	if t.Name.Component == b.comp.Name {
		return name
	}

	return b.addImport(b.importPath(t.Name.Component)) + "." + name
}

// nillable reports whether the Go rendering of r already has a nil value.
func (b *builder) nillable(r graph.Ref) bool {
	switch rr := r.(type) {
	case graph.Sequence, graph.Map:
		return true
	case graph.Link:
		t, ok := b.g.Type(rr.ID)
		if !ok {
			return false
		}

		_, object := t.Def.(*graph.Object)

		return object
	default:
		return false
	}
}

func (b *builder) importPath(component string) string {
	if b.config.ImportPrefix == "" {
		return component
	}

	return path.Join(b.config.ImportPrefix, component)
}

// addImport records an import and returns the name it is referenced by.
func (b *builder) addImport(importPath string) string {
	if spec, ok := b.imports[importPath]; ok {
		if spec.Alias != "" {
			return spec.Alias
		}

		return common.ImportName(importPath)
	}

	spec := importSpec{Path: importPath}

	name := common.ImportName(importPath)
	if pkg := packageName(name); pkg != name {
		spec.Alias = pkg
		name = pkg
	}

	b.imports[importPath] = spec

	return name
}

func isFlat(variants []graph.Variant) bool {
	for _, v := range variants {
		if len(v.Fields) > 0 {
			return false
		}
	}

	return true
}

func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}

	return strings.Split(doc, "\n")
}

// exportName converts a declared name to an exported Go identifier:
// "user_id" becomes "UserId", "Point" stays "Point".
func exportName(name string) string {
	var sb strings.Builder

	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}

		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		sb.WriteString(string(r))
	}

	s := sb.String()
	if s == "" || !unicode.IsLetter([]rune(s)[0]) {
		s = "X" + s
	}

	return s
}

// paramName converts a declared name to an unexported Go identifier.
func paramName(name string) string {
	r := []rune(exportName(name))
	r[0] = unicode.ToLower(r[0])

	s := string(r)
	if token.IsKeyword(s) {
		s += "_"
	}

	return s
}

// packageName lowercases a component name into a Go package name.
func packageName(component string) string {
	s := strings.ToLower(strings.ReplaceAll(component, "-", "_"))
	if token.IsKeyword(s) {
		s += "_"
	}

	return s
}

// goIdent maps an opaque conversion reference onto a Go identifier.
func goIdent(ref string) string {
	var sb strings.Builder

	for i, r := range ref {
		switch {
		case unicode.IsLetter(r) || r == '_':
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteRune('_')
			}

			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}

	s := sb.String()
	if token.IsKeyword(s) {
		s += "_"
	}

	return s
}
