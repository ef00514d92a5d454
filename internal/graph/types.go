package graph

import (
	"fmt"

	"bindgen/internal/common"
	"bindgen/internal/decl"
	"bindgen/internal/ident"
)

// Ref is a resolved type expression.
// Variants: Link, Sequence, Optional, Map.
type Ref interface {
	fmt.Stringer
	isRef()
}

// Link points at a type by identity. Declared keeps the name as written
// in the referencing component, for diagnostics and emitted comments.
type Link struct {
	ID       ident.TypeID
	Declared string
}

// Sequence is an ordered list of Elem.
type Sequence struct {
	Elem Ref
}

// Optional is a nullable Inner.
type Optional struct {
	Inner Ref
}

// Map associates Key with Value.
type Map struct {
	Key   Ref
	Value Ref
}

func (Link) isRef()     {}
func (Sequence) isRef() {}
func (Optional) isRef() {}
func (Map) isRef()      {}

func (l Link) String() string     { return l.Declared }
func (s Sequence) String() string { return "sequence<" + s.Elem.String() + ">" }
func (o Optional) String() string { return "optional<" + o.Inner.String() + ">" }
func (m Map) String() string      { return "map<" + m.Key.String() + ", " + m.Value.String() + ">" }

// Links returns every Link in r, left to right.
func Links(r Ref) []Link {
	var out []Link

	var walk func(Ref)
	walk = func(r Ref) {
		switch rr := r.(type) {
		case nil:
		case Link:
			out = append(out, rr)
		case Sequence:
			walk(rr.Elem)
		case Optional:
			walk(rr.Inner)
		case Map:
			walk(rr.Key)
			walk(rr.Value)
		default:
			panic(fmt.Sprintf("graph: unhandled ref %T", r))
		}
	}
	walk(r)

	return out
}

// Kind enumerates resolved definition variants.
type Kind int

const (
	KindBuiltin Kind = iota + 1
	KindAlias
	KindRecord
	KindEnum
	KindObject
	KindError
	KindCustom
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindAlias:
		return "alias"
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindError:
		return "error"
	case KindCustom:
		return "custom"
	default:
		return common.UnknownStr
	}
}

// Definition is the resolved body of a Type.
// Variants: *Builtin, *Alias, *Record, *Enum, *Object, *Error, *Custom.
type Definition interface {
	Kind() Kind
	isDefinition()
}

// Builtin is a primitive owned by the builtin namespace.
type Builtin struct {
	Primitive decl.PrimitiveKind
}

// Alias names another type.
type Alias struct {
	Target Ref
}

// Record is a product type.
type Record struct {
	Fields []Field
}

// Enum is a tagged union.
type Enum struct {
	Variants []Variant
}

// Object is an opaque handle.
type Object struct {
	Constructors []Function
	Methods      []Function
}

// Error is an error enum.
type Error struct {
	Variants []Variant
	Flat     bool
}

// ConversionRef identifies a caller-supplied conversion function.
// It is threaded through to emitters and never invoked.
type ConversionRef string

// Custom is a semantic type presented in place of its wire type.
type Custom struct {
	Wire     ident.TypeID
	WireName string // wire type as declared, e.g. "string"
	ToWire   ConversionRef
	FromWire ConversionRef
}

func (*Builtin) Kind() Kind { return KindBuiltin }
func (*Alias) Kind() Kind   { return KindAlias }
func (*Record) Kind() Kind  { return KindRecord }
func (*Enum) Kind() Kind    { return KindEnum }
func (*Object) Kind() Kind  { return KindObject }
func (*Error) Kind() Kind   { return KindError }
func (*Custom) Kind() Kind  { return KindCustom }

func (*Builtin) isDefinition() {}
func (*Alias) isDefinition()   {}
func (*Record) isDefinition()  {}
func (*Enum) isDefinition()    {}
func (*Object) isDefinition()  {}
func (*Error) isDefinition()   {}
func (*Custom) isDefinition()  {}

// Field is a resolved record or variant field.
type Field struct {
	Name string
	Type Ref
}

// Variant is a resolved enum or error case.
type Variant struct {
	Name   string
	Fields []Field
}

// Function is a resolved function, constructor or method.
type Function struct {
	Name    string
	Params  []Param
	Returns Ref   // nil if the function returns nothing
	Throws  *Link // nil if infallible; always links to a KindError type
	Async   bool
}

// Param is a resolved parameter.
type Param struct {
	Name string
	Type Ref
}

// Type is one node of the graph.
type Type struct {
	ID   ident.TypeID
	Name ident.QualifiedName
	Doc  string
	Def  Definition
}

// CanonicalName is the language-neutral name emitters derive helper
// identifiers from, e.g. "TypePoint" for FfiConverterTypePoint.
func (t *Type) CanonicalName() string {
	return "Type" + t.Name.Name
}

// External is a resolved external type reference.
type External struct {
	// Declared is the name used inside the consuming component.
	Declared string
	// Hint is the owning component named in the declaration, if any.
	Hint string
	// Target is the definition the reference resolved to.
	Target ident.TypeID
}

// Wrapper links a semantic custom type to its wire type.
type Wrapper struct {
	Owner    string
	Semantic ident.TypeID
	Wire     ident.TypeID
	ToWire   ConversionRef
	FromWire ConversionRef
}

// Component is a resolved component.
type Component struct {
	Name    string
	Version string
	// Types lists owned types (including custom types) in declaration order.
	Types []ident.TypeID
	// Externals lists resolved external references in declaration order.
	Externals []External
	// Wrappers lists semantic type ids of accepted wrappers.
	Wrappers  []ident.TypeID
	Functions []Function
	// DependsOn names the components this one references, sorted.
	DependsOn []string
}

// Layout describes the physical representation of a type at the boundary:
// the type actually transmitted after following custom types and aliases.
type Layout struct {
	Wire      ident.TypeID
	Kind      Kind
	Primitive decl.PrimitiveKind // set when Kind is KindBuiltin
	Size      int                // fixed size in bytes, 0 if variable or not a primitive
}
