package bridge

import (
	"errors"
	"fmt"

	"bindgen/internal/diagnostic"
	"bindgen/internal/graph"
	"bindgen/internal/ident"
)

// Target is a name resolved inside a component's scope.
type Target struct {
	ID      ident.TypeID
	Builtin bool
	// Custom is set when the name is itself a custom type.
	Custom bool
}

// Scopes resolves names as seen from inside a component.
type Scopes interface {
	// ResolveName resolves name in component's scope: local types and custom
	// types, resolved external references, then builtins.
	ResolveName(component, name string) (Target, error)
	// IdentityOf returns the TypeID of a locally declared name.
	IdentityOf(component, name string) (ident.TypeID, error)
}

// Wrapper is an accepted custom type.
type Wrapper struct {
	Owner    string
	Semantic string
	ID       ident.TypeID
	WireName string
	Wire     ident.TypeID
	ToWire   graph.ConversionRef
	FromWire graph.ConversionRef
}

// Graph returns the emitter-facing form of w.
func (w *Wrapper) Graph() *graph.Wrapper {
	return &graph.Wrapper{
		Owner:    w.Owner,
		Semantic: w.ID,
		Wire:     w.Wire,
		ToWire:   w.ToWire,
		FromWire: w.FromWire,
	}
}

type owned struct {
	claimed  map[string]bool
	wires    map[ident.TypeID]string
	accepted []*Wrapper
}

// Bridge accumulates wrapper declarations for one run.
// It is not safe for concurrent use.
type Bridge struct {
	scopes Scopes
	owners map[string]*owned
}

// New creates a Bridge resolving wire names through scopes.
func New(scopes Scopes) *Bridge {
	return &Bridge{
		scopes: scopes,
		owners: make(map[string]*owned),
	}
}

// DeclareWrapper validates and records a custom type declared by owner.
//
// It fails with KindWrapperConflict when semantic is already claimed in owner
// or when the same user-declared wire type is already wrapped in owner, and
// with KindWireTypeUnresolved when wire does not name a concrete type in
// owner's scope.
func (b *Bridge) DeclareWrapper(owner, semantic, wire string, toWire, fromWire graph.ConversionRef) (*Wrapper, error) {
	o := b.owner(owner)

	if o.claimed[semantic] {
		return nil, diagnostic.Newf(diagnostic.KindWrapperConflict, owner, semantic,
			"custom type %q is declared more than once", semantic).Err()
	}

	o.claimed[semantic] = true

	if toWire == "" || fromWire == "" {
		return nil, diagnostic.Newf(diagnostic.KindInvalidDeclaration, owner, semantic,
			"custom type %q must name both conversion functions", semantic).Err()
	}

	target, err := b.scopes.ResolveName(owner, wire)
	if err != nil {
		return nil, diagnostic.Newf(diagnostic.KindWireTypeUnresolved, owner, semantic,
			"wire type %q of custom type %q does not resolve: %s", wire, semantic, cause(err)).Err()
	}

	if target.Custom {
		return nil, diagnostic.Newf(diagnostic.KindWireTypeUnresolved, owner, semantic,
			"wire type %q of custom type %q is itself a custom type", wire, semantic).Err()
	}

	if !target.Builtin {
		if prev, taken := o.wires[target.ID]; taken {
			return nil, diagnostic.Newf(diagnostic.KindWrapperConflict, owner, semantic,
				"wire type %q is already wrapped by %q", wire, prev).
				WithCandidates(prev, semantic).Err()
		}
	}

	id, err := b.scopes.IdentityOf(owner, semantic)
	if err != nil {
		return nil, fmt.Errorf("custom type %s.%s: %w", owner, semantic, err)
	}

	w := &Wrapper{
		Owner:    owner,
		Semantic: semantic,
		ID:       id,
		WireName: wire,
		Wire:     target.ID,
		ToWire:   toWire,
		FromWire: fromWire,
	}

	if !target.Builtin {
		o.wires[target.ID] = semantic
	}

	o.accepted = append(o.accepted, w)

	return w, nil
}

// Wrappers returns the wrappers accepted for owner, in declaration order.
func (b *Bridge) Wrappers(owner string) []*Wrapper {
	o, ok := b.owners[owner]
	if !ok {
		return nil
	}

	return append([]*Wrapper(nil), o.accepted...)
}

// Lookup returns the accepted wrapper for semantic in owner.
func (b *Bridge) Lookup(owner, semantic string) (*Wrapper, bool) {
	o, ok := b.owners[owner]
	if !ok {
		return nil, false
	}

	for _, w := range o.accepted {
		if w.Semantic == semantic {
			return w, true
		}
	}

	return nil, false
}

func (b *Bridge) owner(name string) *owned {
	o, ok := b.owners[name]
	if !ok {
		o = &owned{
			claimed: make(map[string]bool),
			wires:   make(map[ident.TypeID]string),
		}
		b.owners[name] = o
	}

	return o
}

func cause(err error) string {
	var derr *diagnostic.Error
	if errors.As(err, &derr) {
		return derr.Message
	}

	return err.Error()
}
