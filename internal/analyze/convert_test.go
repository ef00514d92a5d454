package analyze

import (
	"go/token"
	"go/types"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindgen/internal/decl"
)

func newTestConverter() *converter {
	pkg := types.NewPackage("example.com/app", "app")

	return &converter{
		pkg:       pkg,
		externals: make(map[string]string),
		objects:   make(map[string]*decl.Object),
		comp:      &decl.Component{Name: "app"},
		out:       &Package{Path: pkg.Path()},
	}
}

func namedIn(pkg *types.Package, name string, underlying types.Type) *types.Named {
	tn := types.NewTypeName(token.NoPos, pkg, name, nil)
	return types.NewNamed(tn, underlying, nil)
}

func TestConverter_Expr(t *testing.T) {
	c := newTestConverter()
	other := types.NewPackage("example.com/geo", "geo")
	timePkg := types.NewPackage("time", "time")

	point := namedIn(other, "Point", types.NewStruct(nil, nil))
	local := namedIn(c.pkg, "Route", types.NewStruct(nil, nil))
	stamp := namedIn(timePkg, "Time", types.NewStruct(nil, nil))

	tests := []struct {
		in   types.Type
		want string
	}{
		{types.Typ[types.Int], "i64"},
		{types.Typ[types.Uint8], "u8"},
		{types.NewSlice(types.Typ[types.Byte]), "bytes"},
		{types.NewSlice(types.Typ[types.String]), "sequence<string>"},
		{types.NewArray(types.Typ[types.Float32], 3), "sequence<f32>"},
		{types.NewPointer(types.Typ[types.Bool]), "optional<bool>"},
		{types.NewMap(types.Typ[types.String], types.Typ[types.Int32]), "map<string, i32>"},
		{local, "Route"},
		{point, "Point"},
		{stamp, "timestamp"},
	}

	for _, tt := range tests {
		got, err := c.expr(tt.in)
		require.NoError(t, err, tt.in.String())
		assert.Equal(t, tt.want, got.String())
	}

	assert.Equal(t, map[string]string{"Point": "geo"}, c.externals)
}

func TestConverter_ExprUnsupported(t *testing.T) {
	c := newTestConverter()

	unsupported := []types.Type{
		types.NewChan(types.SendRecv, types.Typ[types.Int]),
		types.Typ[types.Complex128],
		types.NewSignatureType(nil, nil, nil, nil, nil, false),
		types.Universe.Lookup("error").Type(),
	}

	for _, in := range unsupported {
		_, err := c.expr(in)
		assert.Error(t, err, in.String())
	}
}

func TestConverter_ExternalNameClash(t *testing.T) {
	c := newTestConverter()
	a := namedIn(types.NewPackage("example.com/a", "a"), "Point", types.NewStruct(nil, nil))
	b := namedIn(types.NewPackage("example.com/b", "b"), "Point", types.NewStruct(nil, nil))

	_, err := c.expr(a)
	require.NoError(t, err)

	_, err = c.expr(b)
	assert.ErrorContains(t, err, "imported from both")
}

func TestFieldName(t *testing.T) {
	name, ok := fieldName("CustomerID", reflect.StructTag(`json:"customer_id,omitempty"`))
	assert.True(t, ok)
	assert.Equal(t, "customer_id", name)

	name, ok = fieldName("Name", "")
	assert.True(t, ok)
	assert.Equal(t, "Name", name)

	name, ok = fieldName("Name", reflect.StructTag(`json:",omitempty"`))
	assert.True(t, ok)
	assert.Equal(t, "Name", name)

	_, ok = fieldName("Secret", reflect.StructTag(`json:"-"`))
	assert.False(t, ok)
}

func TestConverter_SignatureErrorResult(t *testing.T) {
	c := newTestConverter()
	route := namedIn(c.pkg, "Route", types.NewStruct(nil, nil))
	ctxType := namedIn(types.NewPackage("context", "context"), "Context", types.NewInterfaceType(nil, nil))
	errType := types.Universe.Lookup("error").Type()

	sig := types.NewSignatureType(nil, nil, nil,
		types.NewTuple(
			types.NewParam(token.NoPos, nil, "ctx", ctxType),
			types.NewParam(token.NoPos, c.pkg, "to", types.Typ[types.String]),
		),
		types.NewTuple(
			types.NewVar(token.NoPos, nil, "", route),
			types.NewVar(token.NoPos, nil, "", errType),
		),
		false)

	fn, err := c.signature("Plan", sig)
	require.NoError(t, err)
	assert.True(t, fn.Async)
	assert.Equal(t, "fn Plan(to)", fn.Signature())
	assert.Equal(t, "Route", fn.Returns.String())
	assert.Equal(t, errorResult, fn.Throws)

	only := types.NewSignatureType(nil, nil, nil, nil,
		types.NewTuple(types.NewVar(token.NoPos, nil, "", errType)), false)

	fn, err = c.signature("Cancel", only)
	require.NoError(t, err)
	assert.Nil(t, fn.Returns)
	assert.Equal(t, errorResult, fn.Throws)
}

func TestConverter_BindThrows(t *testing.T) {
	c := newTestConverter()
	obj := &decl.Object{Methods: []decl.Function{{Name: "plan", Throws: errorResult}, {Name: "cancel"}}}
	c.objects["Planner"] = obj
	c.comp.Types = []decl.TypeDef{
		{Name: "Failure", Def: &decl.Error{Variants: []decl.Variant{{Name: "NoPath"}}}},
		{Name: "Planner", Def: obj},
	}
	c.comp.Functions = []decl.Function{{Name: "Check", Throws: errorResult}}

	c.bindThrows()

	assert.Equal(t, "Failure", c.comp.Functions[0].Throws)
	assert.Equal(t, "Failure", obj.Methods[0].Throws)
	assert.Empty(t, obj.Methods[1].Throws)
}

func TestConverter_BindThrowsAmbiguous(t *testing.T) {
	c := newTestConverter()
	c.comp.Types = []decl.TypeDef{
		{Name: "ParseError", Def: &decl.Error{Variants: []decl.Variant{{Name: "ParseError"}}}},
		{Name: "IOError", Def: &decl.Error{Variants: []decl.Variant{{Name: "IOError"}}}},
	}
	c.comp.Functions = []decl.Function{{Name: "Load", Throws: errorResult}}

	c.bindThrows()

	assert.Empty(t, c.comp.Functions[0].Throws)
}
