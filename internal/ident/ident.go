package ident

import (
	"strconv"
	"sync"
)

// BuiltinComponent is the reserved owner of builtin primitive types.
const BuiltinComponent = ""

// QualifiedName names a type by its owning component and local name.
type QualifiedName struct {
	Component string // e.g., "geo"; empty for builtins
	Name      string // e.g., "Point"
}

// String returns a human-readable representation of the QualifiedName.
func (q QualifiedName) String() string {
	if q.Component == BuiltinComponent {
		return q.Name
	}

	return q.Component + "." + q.Name
}

// IsBuiltin reports whether the name lives in the builtin namespace.
func (q QualifiedName) IsBuiltin() bool {
	return q.Component == BuiltinComponent
}

// TypeID is an opaque, interned type identity.
// The zero value is invalid and never returned by a Table.
type TypeID struct {
	n uint32
}

// IsValid returns true if the id was produced by a Table.
func (id TypeID) IsValid() bool {
	return id.n != 0
}

// String returns a debug representation such as "type#3".
func (id TypeID) String() string {
	if !id.IsValid() {
		return "type#invalid"
	}

	return "type#" + strconv.FormatUint(uint64(id.n), 10)
}

// Less orders ids by interning order. Useful for deterministic output only.
func (id TypeID) Less(other TypeID) bool {
	return id.n < other.n
}

// Table interns qualified names into TypeIDs.
// It is safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	byName map[QualifiedName]TypeID
	names  []QualifiedName // index n-1 holds the name for TypeID{n}
}

// NewTable creates a new empty Table.
func NewTable() *Table {
	return &Table{
		byName: make(map[QualifiedName]TypeID),
	}
}

// Intern returns the TypeID for q, allocating one on first use.
func (t *Table) Intern(q QualifiedName) TypeID {
	t.mu.RLock()
	id, ok := t.byName[q]
	t.mu.RUnlock()

	if ok {
		return id
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Another writer may have won the race between the two locks.
	if id, ok := t.byName[q]; ok {
		return id
	}

	t.names = append(t.names, q)
	id = TypeID{n: uint32(len(t.names))}
	t.byName[q] = id

	return id
}

// Lookup returns the TypeID for q without allocating.
func (t *Table) Lookup(q QualifiedName) (TypeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	id, ok := t.byName[q]

	return id, ok
}

// Name returns the qualified name an id was interned from.
func (t *Table) Name(id TypeID) (QualifiedName, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !id.IsValid() || int(id.n) > len(t.names) {
		return QualifiedName{}, false
	}

	return t.names[id.n-1], true
}

// Len returns the number of interned names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.names)
}
