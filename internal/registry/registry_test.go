package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"bindgen/internal/decl"
	"bindgen/internal/diagnostic"
	"bindgen/internal/ident"
)

func geoComponent() *decl.Component {
	return &decl.Component{
		Name: "geo",
		Types: []decl.TypeDef{
			{Name: "Point", Def: &decl.Record{Fields: []decl.Field{
				{Name: "x", Type: decl.MustParseType("f64")},
				{Name: "y", Type: decl.MustParseType("f64")},
			}}},
		},
	}
}

func TestRegister_LookupLocal(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(geoComponent()))

	e, err := reg.LookupLocal("geo", "Point")
	require.NoError(t, err)
	assert.Equal(t, ident.QualifiedName{Component: "geo", Name: "Point"}, e.Name)
	require.NotNil(t, e.Def)
	assert.Equal(t, decl.DefRecord, e.Def.Def.Kind())

	_, err = reg.LookupLocal("geo", "Line")
	assert.ErrorIs(t, err, diagnostic.KindNotFound)

	_, err = reg.LookupLocal("missing", "Point")
	assert.ErrorIs(t, err, diagnostic.KindNotFound)
}

func TestRegister_DuplicateComponentIsAtomic(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(geoComponent()))

	idsBefore := reg.Identities().Len()

	dup := &decl.Component{
		Name:  "geo",
		Types: []decl.TypeDef{{Name: "Line", Def: &decl.Record{}}},
	}
	err := reg.Register(dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, diagnostic.KindDuplicateComponent)

	// Registry is unchanged: the first component is still there and the
	// rejected one's types were never interned.
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, idsBefore, reg.Identities().Len())

	_, err = reg.LookupLocal("geo", "Line")
	assert.ErrorIs(t, err, diagnostic.KindNotFound)

	c, ok := reg.Component("geo")
	require.True(t, ok)
	assert.Len(t, c.Types, 1)
}

func TestRegister_DuplicateTypeName(t *testing.T) {
	reg := New()

	c := &decl.Component{
		Name: "routing",
		Types: []decl.TypeDef{
			{Name: "Route", Def: &decl.Record{}},
			{Name: "Route", Def: &decl.Enum{}},
			{Name: "Point", Def: &decl.Record{}},
			{Name: "string", Def: &decl.Record{}},
		},
		Externals: []decl.ExternalRef{{Name: "Point", Component: "geo"}},
	}

	err := reg.Register(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, diagnostic.KindDuplicateTypeName)

	diags := diagnostic.Collect(err)
	require.Len(t, diags.Errors, 3, "every collision is reported, not just the first")

	names := make([]string, 0, len(diags.Errors))
	for _, d := range diags.Errors {
		assert.Equal(t, "routing", d.Component)
		names = append(names, d.TypeName)
	}

	assert.ElementsMatch(t, []string{"Route", "string", "Point"}, names)
	assert.Equal(t, 0, reg.Len())
}

func TestRegister_WrapperNameCollidesWithType(t *testing.T) {
	reg := New()

	err := reg.Register(&decl.Component{
		Name:     "app",
		Types:    []decl.TypeDef{{Name: "UserId", Def: &decl.Record{}}},
		Wrappers: []decl.WrapperDecl{{Name: "UserId", Wire: "string", ToWire: "a", FromWire: "b"}},
	})
	assert.ErrorIs(t, err, diagnostic.KindDuplicateTypeName)
}

func TestRegister_DuplicateWrappersLeftToBridge(t *testing.T) {
	reg := New()

	err := reg.Register(&decl.Component{
		Name: "app",
		Wrappers: []decl.WrapperDecl{
			{Name: "UserId", Wire: "string"},
			{Name: "UserId", Wire: "u64"},
		},
	})
	require.NoError(t, err)

	e, err := reg.LookupLocal("app", "UserId")
	require.NoError(t, err)
	require.True(t, e.IsCustom())
	assert.Equal(t, "string", e.Wrapper.Wire, "first declaration owns the name")
}

func TestRegister_InvalidComponent(t *testing.T) {
	reg := New()

	assert.Error(t, reg.Register(nil))
	assert.Error(t, reg.Register(&decl.Component{Name: "not valid"}))
}

func TestLookupAny_ReturnsAllMatchesSorted(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(geoComponent()))
	require.NoError(t, reg.Register(&decl.Component{
		Name:  "chart",
		Types: []decl.TypeDef{{Name: "Point", Def: &decl.Record{}}},
	}))

	matches := reg.LookupAny("Point")
	require.Len(t, matches, 2)
	assert.Equal(t, "chart", matches[0].Name.Component)
	assert.Equal(t, "geo", matches[1].Name.Component)
	assert.NotEqual(t, matches[0].ID, matches[1].ID)

	assert.Empty(t, reg.LookupAny("Nope"))
}

func TestIdentityOf(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(geoComponent()))

	a, err := reg.IdentityOf("geo", "Point")
	require.NoError(t, err)

	b, err := reg.IdentityOf("geo", "Point")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	str, err := reg.IdentityOf(ident.BuiltinComponent, "string")
	require.NoError(t, err)
	assert.True(t, str.IsValid())

	_, err = reg.IdentityOf(ident.BuiltinComponent, "Point")
	assert.ErrorIs(t, err, diagnostic.KindNotFound)
}

func TestRegistries_AreIndependent(t *testing.T) {
	first := New()
	second := New()

	require.NoError(t, first.Register(geoComponent()))
	require.NoError(t, second.Register(geoComponent()))

	assert.NotEqual(t, first.RunID(), second.RunID())
	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 1, second.Len())
}

func TestRegister_Concurrent(t *testing.T) {
	reg := New(WithRunID("test-run"))

	var g errgroup.Group

	for i := range 16 {
		g.Go(func() error {
			return reg.Register(&decl.Component{
				Name:  fmt.Sprintf("c%d", i),
				Types: []decl.TypeDef{{Name: "T", Def: &decl.Record{}}},
			})
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, 16, reg.Len())
	assert.Len(t, reg.LookupAny("T"), 16)
	assert.Equal(t, "test-run", reg.RunID())
}

func TestBuiltins(t *testing.T) {
	reg := New()

	e, ok := reg.Builtin("bytes")
	require.True(t, ok)
	assert.True(t, e.IsBuiltin())
	assert.Equal(t, decl.PrimitiveBytes, e.Primitive)
	assert.Len(t, reg.BuiltinEntries(), len(decl.Primitives()))
}

func TestEntries_DeclarationOrder(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&decl.Component{
		Name: "app",
		Types: []decl.TypeDef{
			{Name: "B", Def: &decl.Record{}},
			{Name: "A", Def: &decl.Record{}},
		},
		Wrappers: []decl.WrapperDecl{{Name: "UserId", Wire: "string"}},
	}))

	entries := reg.Entries("app")
	require.Len(t, entries, 3)
	assert.Equal(t, "B", entries[0].Name.Name)
	assert.Equal(t, "A", entries[1].Name.Name)
	assert.Equal(t, "UserId", entries[2].Name.Name)
	assert.Nil(t, reg.Entries("missing"))
}
