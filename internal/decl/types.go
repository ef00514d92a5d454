package decl

import (
	"fmt"
	"strings"
)

// Type is an unresolved type expression.
// Variants: Primitive, Named, Sequence, Optional, Map.
type Type interface {
	fmt.Stringer
	isType()
}

// Primitive is a builtin primitive type.
type Primitive struct {
	Kind PrimitiveKind
}

// Named references a type by its local name. It is resolved against the
// declaring component's scope (local types, external refs, custom types).
type Named struct {
	Name string
}

// Sequence is an ordered list of Elem.
type Sequence struct {
	Elem Type
}

// Optional is a nullable Inner.
type Optional struct {
	Inner Type
}

// Map associates Key with Value.
type Map struct {
	Key   Type
	Value Type
}

func (Primitive) isType() {}
func (Named) isType()     {}
func (Sequence) isType()  {}
func (Optional) isType()  {}
func (Map) isType()       {}

func (p Primitive) String() string { return p.Kind.String() }
func (n Named) String() string     { return n.Name }
func (s Sequence) String() string  { return "sequence<" + s.Elem.String() + ">" }
func (o Optional) String() string  { return "optional<" + o.Inner.String() + ">" }
func (m Map) String() string       { return "map<" + m.Key.String() + ", " + m.Value.String() + ">" }

// NamedRefs returns every Named leaf of t in left-to-right order.
func NamedRefs(t Type) []Named {
	var out []Named

	walkNamed(t, func(n Named) { out = append(out, n) })

	return out
}

func walkNamed(t Type, fn func(Named)) {
	switch tt := t.(type) {
	case nil, Primitive:
	case Named:
		fn(tt)
	case Sequence:
		walkNamed(tt.Elem, fn)
	case Optional:
		walkNamed(tt.Inner, fn)
	case Map:
		walkNamed(tt.Key, fn)
		walkNamed(tt.Value, fn)
	default:
		panic(fmt.Sprintf("decl: unhandled type expression %T", t))
	}
}

// ParseType parses a type expression such as "map<string, sequence<Point>>".
func ParseType(s string) (Type, error) {
	p := &typeParser{src: s}

	t, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", s, err)
	}

	p.skipSpace()

	if p.pos != len(p.src) {
		return nil, fmt.Errorf("invalid type %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos)
	}

	return t, nil
}

// MustParseType is ParseType that panics on error. Intended for tests and
// statically known expressions.
func MustParseType(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}

	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) parse() (Type, error) {
	p.skipSpace()

	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("expected type name at offset %d", p.pos)
	}

	switch name {
	case "sequence":
		args, err := p.args(1)
		if err != nil {
			return nil, err
		}

		return Sequence{Elem: args[0]}, nil

	case "optional":
		args, err := p.args(1)
		if err != nil {
			return nil, err
		}

		return Optional{Inner: args[0]}, nil

	case "map":
		args, err := p.args(2)
		if err != nil {
			return nil, err
		}

		return Map{Key: args[0], Value: args[1]}, nil
	}

	if k, ok := LookupPrimitive(name); ok {
		return Primitive{Kind: k}, nil
	}

	return Named{Name: name}, nil
}

// args parses "<T, U, ...>" with exactly n arguments.
func (p *typeParser) args(n int) ([]Type, error) {
	p.skipSpace()

	if !p.consume('<') {
		return nil, fmt.Errorf("expected '<' at offset %d", p.pos)
	}

	out := make([]Type, 0, n)

	for i := range n {
		if i > 0 {
			p.skipSpace()

			if !p.consume(',') {
				return nil, fmt.Errorf("expected ',' at offset %d", p.pos)
			}
		}

		t, err := p.parse()
		if err != nil {
			return nil, err
		}

		out = append(out, t)
	}

	p.skipSpace()

	if !p.consume('>') {
		return nil, fmt.Errorf("expected '>' at offset %d", p.pos)
	}

	return out, nil
}

func (p *typeParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos], p.pos == start) {
		p.pos++
	}

	return p.src[start:p.pos]
}

func (p *typeParser) consume(b byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == b {
		p.pos++
		return true
	}

	return false
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func isIdentByte(b byte, first bool) bool {
	switch {
	case b == '_', b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return !first
	default:
		return false
	}
}

// IsValidIdent reports whether s is a valid declaration identifier.
func IsValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if !isIdentByte(s[i], i == 0) {
			return false
		}
	}

	return true
}
