package ident

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_InternIsStable(t *testing.T) {
	table := NewTable()

	a := table.Intern(QualifiedName{Component: "geo", Name: "Point"})
	b := table.Intern(QualifiedName{Component: "geo", Name: "Point"})

	assert.True(t, a.IsValid())
	assert.Equal(t, a, b)
	assert.Equal(t, 1, table.Len())
}

func TestTable_SameNameDifferentComponent(t *testing.T) {
	table := NewTable()

	geo := table.Intern(QualifiedName{Component: "geo", Name: "Point"})
	chart := table.Intern(QualifiedName{Component: "chart", Name: "Point"})

	assert.NotEqual(t, geo, chart, "same local name in different components must not alias")
}

func TestTable_LookupAndName(t *testing.T) {
	table := NewTable()
	q := QualifiedName{Component: "routing", Name: "Route"}

	_, ok := table.Lookup(q)
	assert.False(t, ok)

	id := table.Intern(q)

	got, ok := table.Lookup(q)
	require.True(t, ok)
	assert.Equal(t, id, got)

	name, ok := table.Name(id)
	require.True(t, ok)
	assert.Equal(t, q, name)

	_, ok = table.Name(TypeID{})
	assert.False(t, ok)
}

func TestTable_SeparateTablesDoNotShareState(t *testing.T) {
	first := NewTable()
	second := NewTable()

	first.Intern(QualifiedName{Component: "a", Name: "X"})

	_, ok := second.Lookup(QualifiedName{Component: "a", Name: "X"})
	assert.False(t, ok)
}

func TestTable_ConcurrentIntern(t *testing.T) {
	table := NewTable()
	q := QualifiedName{Component: "ids", Name: "UserId"}

	var wg sync.WaitGroup

	ids := make([]TypeID, 32)
	for i := range ids {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			ids[i] = table.Intern(q)
		}(i)
	}

	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	assert.Equal(t, 1, table.Len())
}

func TestQualifiedName_String(t *testing.T) {
	assert.Equal(t, "geo.Point", QualifiedName{Component: "geo", Name: "Point"}.String())
	assert.Equal(t, "string", QualifiedName{Name: "string"}.String())
	assert.True(t, QualifiedName{Name: "u8"}.IsBuiltin())
}

func TestTypeID_String(t *testing.T) {
	table := NewTable()
	id := table.Intern(QualifiedName{Component: "geo", Name: "Point"})

	assert.Equal(t, "type#1", id.String())
	assert.Equal(t, "type#invalid", TypeID{}.String())
}
