package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindgen/internal/decl"
	"bindgen/internal/diagnostic"
	"bindgen/internal/graph"
	"bindgen/internal/registry"
	"bindgen/internal/resolve"
)

const routingYAML = `
component: routing
version: 1.2.0
externals:
  - Point
  - name: Polygon
    from: geo
custom_types:
  - name: UserId
    wire: string
    to_wire: user_id_to_string
    from_wire: user_id_from_string
types:
  - name: Route
    doc: An ordered list of stops.
    record:
      stops: sequence<Point>
      owner: optional<UserId>
      area: Polygon
  - name: Mode
    enum:
      - Walk
      - Drive: {speed: f64}
  - name: RouteError
    error: [NoPath, Timeout]
  - name: Distance
    alias: f64
  - name: Empty
    record: {}
  - name: Planner
    object:
      constructors:
        - name: new
      methods:
        - name: plan
          params: {from: Point, to: Point}
          returns: Route
          throws: RouteError
          async: true
functions:
  - name: version
    returns: string
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(routingYAML))
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, "routing", c.Name)
	assert.Equal(t, "1.2.0", c.Version)

	assert.Equal(t, []decl.ExternalRef{{Name: "Point"}, {Name: "Polygon", Component: "geo"}}, c.Externals)
	assert.Equal(t, []decl.WrapperDecl{{
		Name: "UserId", Wire: "string", ToWire: "user_id_to_string", FromWire: "user_id_from_string",
	}}, c.Wrappers)

	require.Len(t, c.Types, 6)

	route := c.Types[0]
	assert.Equal(t, "An ordered list of stops.", route.Doc)
	rec, ok := route.Def.(*decl.Record)
	require.True(t, ok)
	require.Len(t, rec.Fields, 3)
	// Mapping order is kept.
	assert.Equal(t, "stops", rec.Fields[0].Name)
	assert.Equal(t, "owner", rec.Fields[1].Name)
	assert.Equal(t, "area", rec.Fields[2].Name)
	assert.Equal(t, decl.MustParseType("sequence<Point>"), rec.Fields[0].Type)

	mode, ok := c.Types[1].Def.(*decl.Enum)
	require.True(t, ok)
	require.Len(t, mode.Variants, 2)
	assert.Empty(t, mode.Variants[0].Fields)
	assert.Equal(t, "speed", mode.Variants[1].Fields[0].Name)

	routeErr, ok := c.Types[2].Def.(*decl.Error)
	require.True(t, ok)
	assert.True(t, routeErr.IsFlat())

	assert.Equal(t, &decl.Alias{Target: decl.Primitive{Kind: decl.PrimitiveF64}}, c.Types[3].Def)
	assert.Empty(t, c.Types[4].Def.(*decl.Record).Fields)

	planner, ok := c.Types[5].Def.(*decl.Object)
	require.True(t, ok)
	require.Len(t, planner.Constructors, 1)
	require.Len(t, planner.Methods, 1)

	plan := planner.Methods[0]
	assert.True(t, plan.Async)
	assert.Equal(t, "RouteError", plan.Throws)
	assert.Equal(t, "fn plan(from, to)", plan.Signature())

	require.Len(t, c.Functions, 1)
	assert.Equal(t, decl.MustParseType("string"), c.Functions[0].Returns)
}

func TestParseFieldListForms(t *testing.T) {
	c, err := Parse([]byte(`
component: geo
types:
  - name: Point
    record:
      - {name: lat, type: f64}
      - lon: f64
`))
	require.NoError(t, err)

	rec := c.Types[0].Def.(*decl.Record)
	require.Len(t, rec.Fields, 2)
	assert.Equal(t, "lat", rec.Fields[0].Name)
	assert.Equal(t, "lon", rec.Fields[1].Name)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "empty", yaml: "", want: "empty declaration file"},
		{name: "unknown key", yaml: "component: a\nmodules: []\n", want: "modules"},
		{name: "missing component", yaml: "version: \"1\"\n", want: "component: name is required"},
		{
			name: "no definition",
			yaml: "component: a\ntypes:\n  - name: T\n",
			want: "one of alias, record, enum, error or object is required",
		},
		{
			name: "two definitions",
			yaml: "component: a\ntypes:\n  - name: T\n    alias: u8\n    record: {x: u8}\n",
			want: "2 definitions given",
		},
		{
			name: "bad type expression",
			yaml: "component: a\ntypes:\n  - name: T\n    record: {x: sequence<u8}\n",
			want: "field x",
		},
		{
			name: "field type not scalar",
			yaml: "component: a\ntypes:\n  - name: T\n    record: {x: [u8]}\n",
			want: "expected a type expression",
		},
		{
			name: "external without name",
			yaml: "component: a\nexternals:\n  - from: geo\n",
			want: "externals[0]: name is required",
		},
		{
			name: "custom type without wire",
			yaml: "component: a\ncustom_types:\n  - name: UserId\n",
			want: "custom_types[0]: name and wire are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseReportsEveryBadEntry(t *testing.T) {
	_, err := Parse([]byte(`
component: a
types:
  - name: A
  - name: B
    alias: map<u8>
functions:
  - returns: u8
`))
	require.Error(t, err)

	assert.Contains(t, err.Error(), "types[0] A")
	assert.Contains(t, err.Error(), "types[1] B")
	assert.Contains(t, err.Error(), "functions[0]")
}

func TestMarshalRoundTrip(t *testing.T) {
	c, err := Parse([]byte(routingYAML))
	require.NoError(t, err)

	data, err := Marshal(c)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err, string(data))

	assert.Equal(t, c, again)
	assert.Contains(t, string(data), "- Point\n")
	assert.Contains(t, string(data), "{stops: sequence<Point>, owner: optional<UserId>")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	geo := writeFile(t, dir, "geo.yaml", "component: geo\ntypes:\n  - name: Point\n    record: {lat: f64, lon: f64}\n")
	routing := writeFile(t, dir, "routing.yaml", routingYAML)

	reg := registry.New()
	require.NoError(t, LoadAll(context.Background(), reg, []string{routing, geo}, 2))

	comps := reg.Components()
	require.Len(t, comps, 2)
	// Registered in argument order regardless of parse completion order.
	assert.Equal(t, "routing", comps[0].Name)
	assert.Equal(t, "geo", comps[1].Name)
}

func TestLoadAll_CollectsRegistrationErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "component: geo\ntypes:\n  - name: Point\n    alias: string\n")
	b := writeFile(t, dir, "b.yaml", "component: geo\ntypes:\n  - name: Line\n    alias: string\n")
	c := writeFile(t, dir, "c.yaml", "component: dup\ntypes:\n  - name: X\n    alias: u8\n  - name: X\n    alias: u16\n")

	reg := registry.New()
	err := LoadAll(context.Background(), reg, []string{a, b, c}, 0)
	require.Error(t, err)

	assert.True(t, errors.Is(err, diagnostic.KindDuplicateComponent))
	assert.True(t, errors.Is(err, diagnostic.KindDuplicateTypeName))
	assert.Equal(t, 1, reg.Len())
}

func TestLoadAll_ParseErrorAborts(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "component: geo\n")
	bad := writeFile(t, dir, "bad.yaml", "component: [\n")

	reg := registry.New()
	err := LoadAll(context.Background(), reg, []string{good, bad}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
	assert.Equal(t, 0, reg.Len())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "component: b\n")
	writeFile(t, dir, "a.yml", "component: a\n")
	writeFile(t, dir, "notes.txt", "ignored")

	single := writeFile(t, t.TempDir(), "single.yaml", "component: s\n")

	paths, err := Expand([]string{dir, single})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml"), single}, paths)

	_, err = Expand([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	c := &decl.Component{
		Name:  "geo",
		Types: []decl.TypeDef{{Name: "Point", Def: &decl.Record{Fields: []decl.Field{{Name: "lat", Type: decl.MustParseType("f64")}}}}},
	}

	path := filepath.Join(t.TempDir(), "geo.yaml")
	require.NoError(t, WriteFile(c, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLoadAll_SampleDeclarations(t *testing.T) {
	paths, err := Expand([]string{filepath.Join("..", "..", "examples", "decls")})
	require.NoError(t, err)
	require.Len(t, paths, 4)

	reg := registry.New()
	require.NoError(t, LoadAll(context.Background(), reg, paths, 2))

	cfg := resolve.DefaultConfig()
	cfg.FailOnWarnings = true

	g, err := resolve.NewResolver(reg, cfg).Resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"geo", "ids", "routing", "app"}, g.Order())

	trip, ok := g.Lookup("app", "Trip")
	require.True(t, ok)

	rec, ok := trip.Def.(*graph.Record)
	require.True(t, ok)
	require.Len(t, rec.Fields, 3)

	owner, ok := g.Layout(rec.Fields[0].Type.(graph.Link).ID)
	require.True(t, ok)
	assert.Equal(t, decl.PrimitiveString, owner.Primitive)

	started, ok := g.Layout(rec.Fields[2].Type.(graph.Link).ID)
	require.True(t, ok)
	assert.Equal(t, decl.PrimitiveTimestamp, started.Primitive)
}

func TestParseFile_Decl(t *testing.T) {
	f, err := ParseFile([]byte(routingYAML))
	require.NoError(t, err)
	assert.Equal(t, "routing", f.Component)

	c, err := f.Decl()
	require.NoError(t, err)
	assert.Equal(t, f.Component, c.Name)
	assert.Len(t, c.Types, len(f.Types))

	f.Component = ""
	_, err = f.Decl()
	assert.Error(t, err)
}
