package decl

import (
	"fmt"

	"bindgen/internal/common"
)

// Component is the declaration list of one independently compiled unit.
type Component struct {
	// Name is unique across a generation run.
	Name string
	// Version is informational (e.g., "1.2.0").
	Version string
	// Types are the locally declared types, in declaration order.
	Types []TypeDef
	// Externals are types consumed by name from other components.
	Externals []ExternalRef
	// Wrappers are custom type rules declared by this component.
	Wrappers []WrapperDecl
	// Functions are top-level exported functions.
	Functions []Function
}

// ExternalRef is a placeholder for a type owned by another component.
type ExternalRef struct {
	// Name is the referenced type's local name in its owner.
	Name string
	// Component optionally pins the owning component. When empty every
	// other registered component is searched and exactly one must match.
	Component string
}

// WrapperDecl declares that a wire type is exposed as a semantic type.
type WrapperDecl struct {
	// Name is the semantic type name, local to the declaring component.
	Name string
	// Wire names the underlying type: a builtin, a local type or an external ref.
	Wire string
	// ToWire identifies the semantic->wire conversion function. Opaque.
	ToWire string
	// FromWire identifies the wire->semantic conversion function. Opaque.
	FromWire string
}

// TypeDef is a named, locally declared type.
type TypeDef struct {
	Name string
	Doc  string
	Def  Definition
}

// DefKind enumerates Definition variants.
type DefKind int

const (
	DefAlias DefKind = iota + 1
	DefRecord
	DefEnum
	DefObject
	DefError
)

// String returns a human-readable representation of the DefKind.
func (k DefKind) String() string {
	switch k {
	case DefAlias:
		return "alias"
	case DefRecord:
		return "record"
	case DefEnum:
		return "enum"
	case DefObject:
		return "object"
	case DefError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Definition is the body of a TypeDef.
// Variants: *Alias, *Record, *Enum, *Object, *Error.
type Definition interface {
	Kind() DefKind
	isDefinition()
}

// Alias names another type expression (typically a primitive).
type Alias struct {
	Target Type
}

// Record is a product type with ordered named fields.
type Record struct {
	Fields []Field
}

// Enum is a tagged union; variants may carry fields.
type Enum struct {
	Variants []Variant
}

// Object is an opaque handle exposing constructors and methods.
type Object struct {
	Constructors []Function
	Methods      []Function
}

// Error is an error enum usable in a function's Throws clause.
type Error struct {
	Variants []Variant
}

func (*Alias) Kind() DefKind  { return DefAlias }
func (*Record) Kind() DefKind { return DefRecord }
func (*Enum) Kind() DefKind   { return DefEnum }
func (*Object) Kind() DefKind { return DefObject }
func (*Error) Kind() DefKind  { return DefError }

func (*Alias) isDefinition()  {}
func (*Record) isDefinition() {}
func (*Enum) isDefinition()   {}
func (*Object) isDefinition() {}
func (*Error) isDefinition()  {}

// IsFlat reports whether no variant carries data.
func (e *Error) IsFlat() bool {
	for _, v := range e.Variants {
		if len(v.Fields) > 0 {
			return false
		}
	}

	return true
}

// Field is a named, typed member of a record or variant.
type Field struct {
	Name string
	Type Type
}

// Variant is one case of an Enum or Error.
type Variant struct {
	Name   string
	Fields []Field
}

// Function is an exported function, constructor or method signature.
type Function struct {
	Name    string
	Params  []Param
	Returns Type   // nil for no return value
	Throws  string // name of an Error definition, empty if infallible
	Async   bool
}

// Param is a named function parameter.
type Param struct {
	Name string
	Type Type
}

// Signature renders the function for diagnostics, e.g. "fn say_after(secs, who)".
func (f *Function) Signature() string {
	s := "fn " + f.Name + "("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}

		s += p.Name
	}

	return s + ")"
}

// TypeRefs calls fn for every type expression reachable from the definition,
// with a path locating it inside the declaration.
func TypeRefs(def TypeDef, fn func(path string, t Type)) {
	switch d := def.Def.(type) {
	case *Alias:
		fn(def.Name, d.Target)
	case *Record:
		fieldRefs(def.Name, d.Fields, fn)
	case *Enum:
		variantRefs(def.Name, d.Variants, fn)
	case *Error:
		variantRefs(def.Name, d.Variants, fn)
	case *Object:
		for i := range d.Constructors {
			FunctionRefs(def.Name+"::"+d.Constructors[i].Name, &d.Constructors[i], fn)
		}

		for i := range d.Methods {
			FunctionRefs(def.Name+"."+d.Methods[i].Name, &d.Methods[i], fn)
		}
	default:
		panic(fmt.Sprintf("decl: unhandled definition %T", def.Def))
	}
}

// FunctionRefs calls fn for every parameter and return type of f.
func FunctionRefs(path string, f *Function, fn func(path string, t Type)) {
	for _, p := range f.Params {
		fn(path+"("+p.Name+")", p.Type)
	}

	if f.Returns != nil {
		fn(path+" -> return", f.Returns)
	}
}

func fieldRefs(path string, fields []Field, fn func(string, Type)) {
	for _, f := range fields {
		fn(path+"."+f.Name, f.Type)
	}
}

func variantRefs(path string, variants []Variant, fn func(string, Type)) {
	for _, v := range variants {
		fieldRefs(path+"::"+v.Name, v.Fields, fn)
	}
}
