package bridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindgen/internal/diagnostic"
	"bindgen/internal/graph"
	"bindgen/internal/ident"
)

type fakeScopes struct {
	table   *ident.Table
	visible map[string]map[string]Target
}

func newFakeScopes() *fakeScopes {
	f := &fakeScopes{table: ident.NewTable(), visible: make(map[string]map[string]Target)}

	return f
}

func (f *fakeScopes) builtin(component, name string) {
	f.put(component, name, Target{ID: f.table.Intern(ident.QualifiedName{Name: name}), Builtin: true})
}

func (f *fakeScopes) local(component, name string, custom bool) ident.TypeID {
	id := f.table.Intern(ident.QualifiedName{Component: component, Name: name})
	f.put(component, name, Target{ID: id, Custom: custom})

	return id
}

func (f *fakeScopes) put(component, name string, t Target) {
	if f.visible[component] == nil {
		f.visible[component] = make(map[string]Target)
	}

	f.visible[component][name] = t
}

func (f *fakeScopes) ResolveName(component, name string) (Target, error) {
	t, ok := f.visible[component][name]
	if !ok {
		return Target{}, diagnostic.Newf(diagnostic.KindNotFound, component, name, "no type %q", name).Err()
	}

	return t, nil
}

func (f *fakeScopes) IdentityOf(component, name string) (ident.TypeID, error) {
	id, ok := f.table.Lookup(ident.QualifiedName{Component: component, Name: name})
	if !ok {
		return ident.TypeID{}, diagnostic.Newf(diagnostic.KindNotFound, component, name, "no type %q", name).Err()
	}

	return id, nil
}

func TestDeclareWrapper_AcceptsBuiltinWire(t *testing.T) {
	scopes := newFakeScopes()
	scopes.builtin("app", "string")
	userID := scopes.local("app", "UserId", true)

	b := New(scopes)

	w, err := b.DeclareWrapper("app", "UserId", "string", "user_id_to_string", "user_id_from_string")
	require.NoError(t, err)

	assert.Equal(t, userID, w.ID)
	assert.Equal(t, "string", w.WireName)
	assert.NotEqual(t, w.ID, w.Wire)
	assert.Equal(t, graph.ConversionRef("user_id_to_string"), w.Graph().ToWire)
	assert.Len(t, b.Wrappers("app"), 1)

	got, ok := b.Lookup("app", "UserId")
	require.True(t, ok)
	assert.Same(t, w, got)
}

func TestDeclareWrapper_BuiltinWireSharedWithinComponent(t *testing.T) {
	scopes := newFakeScopes()
	scopes.builtin("app", "string")
	scopes.local("app", "UserId", true)
	scopes.local("app", "Email", true)

	b := New(scopes)

	_, err := b.DeclareWrapper("app", "UserId", "string", "a", "b")
	require.NoError(t, err)

	_, err = b.DeclareWrapper("app", "Email", "string", "c", "d")
	require.NoError(t, err)

	assert.Len(t, b.Wrappers("app"), 2)
}

func TestDeclareWrapper_Conflicts(t *testing.T) {
	scopes := newFakeScopes()
	scopes.local("app", "Handle", false)
	scopes.local("app", "UserId", true)
	scopes.local("app", "Login", true)

	b := New(scopes)

	_, err := b.DeclareWrapper("app", "UserId", "Handle", "a", "b")
	require.NoError(t, err)

	_, err = b.DeclareWrapper("app", "UserId", "Handle", "a", "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostic.KindWrapperConflict))

	_, err = b.DeclareWrapper("app", "Login", "Handle", "c", "d")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostic.KindWrapperConflict))
	assert.Contains(t, err.Error(), "UserId")

	assert.Len(t, b.Wrappers("app"), 1)
}

func TestDeclareWrapper_SameWireInDifferentComponents(t *testing.T) {
	scopes := newFakeScopes()
	handle := scopes.local("ids", "Handle", false)
	scopes.put("a", "Handle", Target{ID: handle})
	scopes.put("b", "Handle", Target{ID: handle})
	scopes.local("a", "UserId", true)
	scopes.local("b", "UserId", true)

	b := New(scopes)

	wa, err := b.DeclareWrapper("a", "UserId", "Handle", "x", "y")
	require.NoError(t, err)

	wb, err := b.DeclareWrapper("b", "UserId", "Handle", "x", "y")
	require.NoError(t, err)

	assert.Equal(t, wa.Wire, wb.Wire)
	assert.NotEqual(t, wa.ID, wb.ID)
}

func TestDeclareWrapper_WireUnresolved(t *testing.T) {
	scopes := newFakeScopes()
	scopes.local("app", "UserId", true)
	scopes.local("app", "Email", true)
	scopes.local("app", "Login", true)

	b := New(scopes)

	_, err := b.DeclareWrapper("app", "UserId", "Missing", "a", "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostic.KindWireTypeUnresolved))
	assert.Contains(t, err.Error(), "Missing")

	_, err = b.DeclareWrapper("app", "Email", "Login", "a", "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostic.KindWireTypeUnresolved))
	assert.Contains(t, err.Error(), "itself a custom type")

	assert.Empty(t, b.Wrappers("app"))
}

func TestDeclareWrapper_MissingConversion(t *testing.T) {
	scopes := newFakeScopes()
	scopes.builtin("app", "string")
	scopes.local("app", "UserId", true)

	b := New(scopes)

	_, err := b.DeclareWrapper("app", "UserId", "string", "", "from")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostic.KindInvalidDeclaration))
}

func TestWrappers_UnknownOwner(t *testing.T) {
	b := New(newFakeScopes())

	assert.Nil(t, b.Wrappers("nobody"))

	_, ok := b.Lookup("nobody", "X")
	assert.False(t, ok)
}
