package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"bindgen/internal/decl"
	"bindgen/internal/graph"
	"bindgen/internal/registry"
	"bindgen/internal/resolve"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()

	reg := registry.New(registry.WithRunID("run-42"))
	require.NoError(t, reg.Register(&decl.Component{
		Name:    "geo",
		Version: "1.0.0",
		Types: []decl.TypeDef{{Name: "Point", Doc: "A coordinate.", Def: &decl.Record{Fields: []decl.Field{
			{Name: "lat", Type: decl.MustParseType("f64")},
			{Name: "lon", Type: decl.MustParseType("f64")},
		}}}},
	}))
	require.NoError(t, reg.Register(&decl.Component{
		Name:      "app",
		Externals: []decl.ExternalRef{{Name: "Point"}},
		Wrappers:  []decl.WrapperDecl{{Name: "Location", Wire: "Point", ToWire: "loc_lower", FromWire: "loc_lift"}},
		Types: []decl.TypeDef{
			{Name: "Handle", Def: &decl.Alias{Target: decl.MustParseType("string")}},
			{Name: "Failure", Def: &decl.Error{Variants: []decl.Variant{{Name: "Gone"}}}},
			{Name: "Trip", Def: &decl.Record{Fields: []decl.Field{
				{Name: "stops", Type: decl.MustParseType("sequence<Location>")},
			}}},
		},
		Functions: []decl.Function{{
			Name:    "plan",
			Params:  []decl.Param{{Name: "from", Type: decl.MustParseType("Point")}},
			Returns: decl.MustParseType("optional<Trip>"),
			Throws:  "Failure",
			Async:   true,
		}},
	}))

	g, err := resolve.Resolve(reg)
	require.NoError(t, err)

	return g
}

func TestBuild(t *testing.T) {
	m, err := Build(testGraph(t), "app")
	require.NoError(t, err)

	assert.Equal(t, "app", m.Component)
	assert.Empty(t, m.Run)
	assert.Equal(t, []string{"geo"}, m.DependsOn)
	assert.Equal(t, []External{{Name: "Point", Target: "geo.Point"}}, m.Externals)

	byName := make(map[string]Type)
	for _, typ := range m.Types {
		byName[typ.Name] = typ
	}

	require.Len(t, byName, 4)

	handle := byName["Handle"]
	assert.Equal(t, "alias", handle.Kind)
	assert.Equal(t, "string", handle.Target)
	assert.Equal(t, "string", handle.Layout)

	assert.Equal(t, []Field{{Name: "stops", Type: "sequence<app.Location>"}}, byName["Trip"].Fields)
	assert.Equal(t, "record app.Trip", byName["Trip"].Layout)
	assert.True(t, byName["Failure"].Flat)

	loc := byName["Location"]
	assert.Equal(t, "custom", loc.Kind)
	assert.Equal(t, "TypeLocation", loc.Canonical)
	assert.Equal(t, "geo.Point", loc.Wire)
	assert.Equal(t, "loc_lower", loc.ToWire)
	assert.Equal(t, "loc_lift", loc.FromWire)
	assert.Equal(t, "record geo.Point", loc.Layout)

	require.Len(t, m.Functions, 1)
	assert.Equal(t, Function{
		Name:    "plan",
		Params:  []Field{{Name: "from", Type: "geo.Point"}},
		Returns: "optional<app.Trip>",
		Throws:  "app.Failure",
		Async:   true,
	}, m.Functions[0])
}

func TestEmitter_Emit(t *testing.T) {
	g := testGraph(t)

	e := New(WithRunID())
	assert.Equal(t, "manifest", e.Name())
	assert.Equal(t, ".yaml", e.FileExtension())

	out, err := e.Emit(g, "geo")
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, yaml.Unmarshal(out, &m))

	assert.Equal(t, "run-42", m.Run)
	assert.Equal(t, "1.0.0", m.Version)
	require.Len(t, m.Types, 1)
	assert.Equal(t, "A coordinate.", m.Types[0].Doc)
	assert.Equal(t, "record geo.Point", m.Types[0].Layout)

	assert.Contains(t, string(out), "component: geo\n")
}

func TestEmitter_UnknownComponent(t *testing.T) {
	_, err := New().Emit(testGraph(t), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `component "nope" is not in the graph`)
}
