package analyze

import (
	"cmp"
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"bindgen/internal/decl"
)

var (
	errorType  = types.Universe.Lookup("error").Type()
	errorIface = errorType.Underlying().(*types.Interface)
)

// errorResult marks a signature ending in an error result until bindThrows
// knows which Error definition it names.
const errorResult = "error"

// converter holds the state of converting one package.
type converter struct {
	pkg       *types.Package
	fset      *token.FileSet
	docs      map[string]string
	externals map[string]string // name -> owning component
	objects   map[string]*decl.Object
	comp      *decl.Component
	out       *Package
}

func (c *converter) skip(obj types.Object, name string, err error) {
	var pos token.Position
	if c.fset != nil {
		pos = c.fset.Position(obj.Pos())
	}

	c.out.Skipped = append(c.out.Skipped, Skipped{Pos: pos, Name: name, Reason: err.Error()})
}

// typeDef converts one exported type declaration.
func (c *converter) typeDef(tn *types.TypeName) {
	if tn.IsAlias() {
		c.skip(tn, tn.Name(), errors.New("type aliases are not supported"))
		return
	}

	named, ok := tn.Type().(*types.Named)
	if !ok {
		return
	}

	if named.TypeParams().Len() > 0 {
		c.skip(tn, tn.Name(), errors.New("generic types are not supported"))
		return
	}

	def, err := c.definition(tn.Name(), named)
	if err != nil {
		c.skip(tn, tn.Name(), err)
		return
	}

	c.comp.Types = append(c.comp.Types, decl.TypeDef{Name: tn.Name(), Doc: c.docs[tn.Name()], Def: def})
}

func (c *converter) definition(name string, named *types.Named) (decl.Definition, error) {
	isError := implementsError(named)

	switch u := named.Underlying().(type) {
	case *types.Struct:
		fields := c.fields(name, u)
		if isError {
			return &decl.Error{Variants: []decl.Variant{{Name: name, Fields: fields}}}, nil
		}

		return &decl.Record{Fields: fields}, nil

	case *types.Basic:
		if variants := c.constants(named); len(variants) > 0 {
			if isError {
				return &decl.Error{Variants: variants}, nil
			}

			return &decl.Enum{Variants: variants}, nil
		}

		target, err := c.expr(u)
		if err != nil {
			return nil, err
		}

		return &decl.Alias{Target: target}, nil

	case *types.Interface:
		obj := &decl.Object{}

		for i := range u.NumMethods() {
			m := u.Method(i)
			if !m.Exported() {
				continue
			}

			fn, err := c.signature(m.Name(), m.Type().(*types.Signature))
			if err != nil {
				c.skip(m, name+"."+m.Name(), err)
				continue
			}

			obj.Methods = append(obj.Methods, fn)
		}

		c.objects[name] = obj

		return obj, nil

	default:
		target, err := c.expr(u)
		if err != nil {
			return nil, err
		}

		return &decl.Alias{Target: target}, nil
	}
}

// fields converts exported struct fields. Fields that cannot cross the
// boundary are skipped and reported.
func (c *converter) fields(owner string, st *types.Struct) []decl.Field {
	var out []decl.Field

	for i := range st.NumFields() {
		f := st.Field(i)
		if !f.Exported() {
			continue
		}

		name, ok := fieldName(f.Name(), reflect.StructTag(st.Tag(i)))
		if !ok {
			continue
		}

		t, err := c.expr(f.Type())
		if err != nil {
			c.skip(f, owner+"."+f.Name(), err)
			continue
		}

		out = append(out, decl.Field{Name: name, Type: t})
	}

	return out
}

// constants returns the exported constants of type named, as variants in
// declaration order.
func (c *converter) constants(named *types.Named) []decl.Variant {
	var consts []*types.Const

	scope := c.pkg.Scope()
	for _, n := range scope.Names() {
		k, ok := scope.Lookup(n).(*types.Const)
		if ok && k.Exported() && types.Identical(k.Type(), named) {
			consts = append(consts, k)
		}
	}

	slices.SortFunc(consts, func(a, b *types.Const) int {
		return cmp.Compare(a.Pos(), b.Pos())
	})

	out := make([]decl.Variant, 0, len(consts))
	for _, k := range consts {
		out = append(out, decl.Variant{Name: k.Name()})
	}

	return out
}

// function converts an exported top-level function. NewX returning object
// X becomes a constructor of X.
func (c *converter) function(fn *types.Func) {
	sig := fn.Type().(*types.Signature)

	f, err := c.signature(fn.Name(), sig)
	if err != nil {
		c.skip(fn, fn.Name(), err)
		return
	}

	if target, ok := strings.CutPrefix(fn.Name(), "New"); ok {
		if obj, ok := c.objects[target]; ok && returnsNamed(sig, target) {
			f.Name = "new"
			f.Returns = nil
			obj.Constructors = append(obj.Constructors, f)

			return
		}
	}

	c.comp.Functions = append(c.comp.Functions, f)
}

// signature converts a Go signature. A leading context.Context marks the
// function async; a trailing error result marks it throwing.
func (c *converter) signature(name string, sig *types.Signature) (decl.Function, error) {
	fn := decl.Function{Name: name}

	params := sig.Params()
	start := 0

	if params.Len() > 0 && isNamed(params.At(0).Type(), "context", "Context") {
		fn.Async = true
		start = 1
	}

	for i := start; i < params.Len(); i++ {
		p := params.At(i)

		t, err := c.expr(p.Type())
		if err != nil {
			return decl.Function{}, fmt.Errorf("parameter %d: %w", i, err)
		}

		pname := p.Name()
		if pname == "" || pname == "_" {
			pname = fmt.Sprintf("arg%d", i)
		}

		fn.Params = append(fn.Params, decl.Param{Name: pname, Type: t})
	}

	results := sig.Results()
	n := results.Len()

	if n > 0 && types.Identical(results.At(n-1).Type(), errorType) {
		fn.Throws = errorResult
		n--
	}

	switch n {
	case 0:
	case 1:
		t, err := c.expr(results.At(0).Type())
		if err != nil {
			return decl.Function{}, fmt.Errorf("result: %w", err)
		}

		fn.Returns = t
	default:
		return decl.Function{}, fmt.Errorf("%d results; at most one value and an error are supported", n)
	}

	return fn, nil
}

// bindThrows points every throwing signature at the package's error type.
// Go signatures only say "error", so with zero or several Error definitions
// the functions are left infallible.
func (c *converter) bindThrows() {
	var errs []string

	for _, td := range c.comp.Types {
		if _, ok := td.Def.(*decl.Error); ok {
			errs = append(errs, td.Name)
		}
	}

	throws := ""
	if len(errs) == 1 {
		throws = errs[0]
	}

	bind := func(fns []decl.Function) {
		for i := range fns {
			if fns[i].Throws == errorResult {
				fns[i].Throws = throws
			}
		}
	}

	bind(c.comp.Functions)

	for _, obj := range c.objects {
		bind(obj.Constructors)
		bind(obj.Methods)
	}
}

// expr converts a Go type into a type expression.
func (c *converter) expr(t types.Type) (decl.Type, error) {
	switch tt := types.Unalias(t).(type) {
	case *types.Basic:
		k, ok := basicKinds[tt.Kind()]
		if !ok {
			return nil, fmt.Errorf("unsupported basic type %s", tt)
		}

		return decl.Primitive{Kind: k}, nil

	case *types.Pointer:
		inner, err := c.expr(tt.Elem())
		if err != nil {
			return nil, err
		}

		return decl.Optional{Inner: inner}, nil

	case *types.Slice:
		if b, ok := tt.Elem().(*types.Basic); ok && b.Kind() == types.Byte {
			return decl.Primitive{Kind: decl.PrimitiveBytes}, nil
		}

		elem, err := c.expr(tt.Elem())
		if err != nil {
			return nil, err
		}

		return decl.Sequence{Elem: elem}, nil

	case *types.Array:
		elem, err := c.expr(tt.Elem())
		if err != nil {
			return nil, err
		}

		return decl.Sequence{Elem: elem}, nil

	case *types.Map:
		key, err := c.expr(tt.Key())
		if err != nil {
			return nil, err
		}

		value, err := c.expr(tt.Elem())
		if err != nil {
			return nil, err
		}

		return decl.Map{Key: key, Value: value}, nil

	case *types.Named:
		return c.named(tt)

	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
}

func (c *converter) named(t *types.Named) (decl.Type, error) {
	obj := t.Obj()

	switch {
	case obj.Pkg() == nil:
		return nil, fmt.Errorf("unsupported type %s", obj.Name())
	case isNamed(t, "time", "Time"):
		return decl.Primitive{Kind: decl.PrimitiveTimestamp}, nil
	case isNamed(t, "time", "Duration"):
		return decl.Primitive{Kind: decl.PrimitiveDuration}, nil
	case t.TypeArgs().Len() > 0:
		return nil, fmt.Errorf("generic type %s is not supported", obj.Name())
	case !obj.Exported():
		return nil, fmt.Errorf("unexported type %s", obj.Name())
	case obj.Pkg() == c.pkg:
		return decl.Named{Name: obj.Name()}, nil
	}

	owner := obj.Pkg().Name()
	if prev, ok := c.externals[obj.Name()]; ok && prev != owner {
		return nil, fmt.Errorf("type %s is imported from both %s and %s", obj.Name(), prev, owner)
	}

	c.externals[obj.Name()] = owner

	return decl.Named{Name: obj.Name()}, nil
}

var basicKinds = map[types.BasicKind]decl.PrimitiveKind{
	types.Bool:    decl.PrimitiveBool,
	types.Int8:    decl.PrimitiveI8,
	types.Int16:   decl.PrimitiveI16,
	types.Int32:   decl.PrimitiveI32,
	types.Int64:   decl.PrimitiveI64,
	types.Int:     decl.PrimitiveI64,
	types.Uint8:   decl.PrimitiveU8,
	types.Uint16:  decl.PrimitiveU16,
	types.Uint32:  decl.PrimitiveU32,
	types.Uint64:  decl.PrimitiveU64,
	types.Uint:    decl.PrimitiveU64,
	types.Float32: decl.PrimitiveF32,
	types.Float64: decl.PrimitiveF64,
	types.String:  decl.PrimitiveString,
}

func implementsError(named *types.Named) bool {
	return types.Implements(named, errorIface) || types.Implements(types.NewPointer(named), errorIface)
}

func isNamed(t types.Type, pkgPath, name string) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return false
	}

	return named.Obj().Pkg().Path() == pkgPath && named.Obj().Name() == name
}

func returnsNamed(sig *types.Signature, name string) bool {
	if sig.Results().Len() == 0 {
		return false
	}

	t := sig.Results().At(0).Type()
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	named, ok := types.Unalias(t).(*types.Named)

	return ok && named.Obj().Name() == name
}
