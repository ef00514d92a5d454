package loader

import (
	"errors"
	"fmt"

	"bindgen/internal/decl"
)

// Decl converts the file into a declaration list. Every malformed
// entry is reported; the errors are joined.
func (f *File) Decl() (*decl.Component, error) {
	var errs []error

	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if f.Component == "" {
		fail("component: name is required")
	}

	c := &decl.Component{Name: f.Component, Version: f.Version}

	for i, ext := range f.Externals {
		if ext.Name == "" {
			fail("externals[%d]: name is required", i)
			continue
		}

		c.Externals = append(c.Externals, decl.ExternalRef{Name: ext.Name, Component: ext.From})
	}

	for i, ct := range f.CustomTypes {
		if ct.Name == "" || ct.Wire == "" {
			fail("custom_types[%d]: name and wire are required", i)
			continue
		}

		c.Wrappers = append(c.Wrappers, decl.WrapperDecl{
			Name:     ct.Name,
			Wire:     ct.Wire,
			ToWire:   ct.ToWire,
			FromWire: ct.FromWire,
		})
	}

	for i := range f.Types {
		ts := &f.Types[i]

		def, err := ts.definition()
		if err != nil {
			fail("types[%d] %s: %w", i, ts.Name, err)
			continue
		}

		c.Types = append(c.Types, decl.TypeDef{Name: ts.Name, Doc: ts.Doc, Def: def})
	}

	for i := range f.Functions {
		fn, err := f.Functions[i].function()
		if err != nil {
			fail("functions[%d]: %w", i, err)
			continue
		}

		c.Functions = append(c.Functions, fn)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return c, nil
}

func (ts *TypeSpec) definition() (decl.Definition, error) {
	if ts.Name == "" {
		return nil, errors.New("name is required")
	}

	var (
		defs []decl.Definition
		errs []error
	)

	if ts.Alias != "" {
		target, err := decl.ParseType(ts.Alias)
		errs = append(errs, err)
		defs = append(defs, &decl.Alias{Target: target})
	}

	if ts.Record != nil {
		fields, err := ts.Record.fields()
		errs = append(errs, err)
		defs = append(defs, &decl.Record{Fields: fields})
	}

	if ts.Enum != nil {
		variants, err := ts.Enum.variants()
		errs = append(errs, err)
		defs = append(defs, &decl.Enum{Variants: variants})
	}

	if ts.Error != nil {
		variants, err := ts.Error.variants()
		errs = append(errs, err)
		defs = append(defs, &decl.Error{Variants: variants})
	}

	if ts.Object != nil {
		obj, err := ts.Object.object()
		errs = append(errs, err)
		defs = append(defs, obj)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	switch len(defs) {
	case 0:
		return nil, errors.New("one of alias, record, enum, error or object is required")
	case 1:
		return defs[0], nil
	default:
		return nil, fmt.Errorf("%d definitions given, expected exactly one", len(defs))
	}
}

func (fl FieldList) fields() ([]decl.Field, error) {
	out := make([]decl.Field, 0, len(fl))

	var errs []error

	for _, f := range fl {
		t, err := decl.ParseType(f.Type)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", f.Name, err))
			continue
		}

		out = append(out, decl.Field{Name: f.Name, Type: t})
	}

	return out, errors.Join(errs...)
}

func (vl VariantList) variants() ([]decl.Variant, error) {
	out := make([]decl.Variant, 0, len(vl))

	var errs []error

	for _, v := range vl {
		fields, err := v.Fields.fields()
		if err != nil {
			errs = append(errs, fmt.Errorf("variant %s: %w", v.Name, err))
			continue
		}

		out = append(out, decl.Variant{Name: v.Name, Fields: fields})
	}

	return out, errors.Join(errs...)
}

func (spec *ObjectSpec) object() (*decl.Object, error) {
	obj := &decl.Object{}

	var errs []error

	for i := range spec.Constructors {
		fn, err := spec.Constructors[i].function()
		errs = append(errs, err)
		obj.Constructors = append(obj.Constructors, fn)
	}

	for i := range spec.Methods {
		fn, err := spec.Methods[i].function()
		errs = append(errs, err)
		obj.Methods = append(obj.Methods, fn)
	}

	return obj, errors.Join(errs...)
}

func (fs *FunctionSpec) function() (decl.Function, error) {
	if fs.Name == "" {
		return decl.Function{}, errors.New("function name is required")
	}

	fn := decl.Function{Name: fs.Name, Throws: fs.Throws, Async: fs.Async}

	params, err := fs.Params.fields()
	if err != nil {
		return decl.Function{}, fmt.Errorf("fn %s: %w", fs.Name, err)
	}

	for _, p := range params {
		fn.Params = append(fn.Params, decl.Param(p))
	}

	if fs.Returns != "" {
		fn.Returns, err = decl.ParseType(fs.Returns)
		if err != nil {
			return decl.Function{}, fmt.Errorf("fn %s returns: %w", fs.Name, err)
		}
	}

	return fn, nil
}

// FromComponent converts a declaration list into its YAML form.
func FromComponent(c *decl.Component) *File {
	f := &File{Component: c.Name, Version: c.Version}

	for _, ext := range c.Externals {
		f.Externals = append(f.Externals, ExternalSpec{Name: ext.Name, From: ext.Component})
	}

	for _, w := range c.Wrappers {
		f.CustomTypes = append(f.CustomTypes, CustomTypeSpec{
			Name:     w.Name,
			Wire:     w.Wire,
			ToWire:   w.ToWire,
			FromWire: w.FromWire,
		})
	}

	for _, td := range c.Types {
		f.Types = append(f.Types, typeSpec(td))
	}

	for i := range c.Functions {
		f.Functions = append(f.Functions, functionSpec(&c.Functions[i]))
	}

	return f
}

func typeSpec(td decl.TypeDef) TypeSpec {
	ts := TypeSpec{Name: td.Name, Doc: td.Doc}

	switch d := td.Def.(type) {
	case *decl.Alias:
		ts.Alias = d.Target.String()
	case *decl.Record:
		fl := fieldList(d.Fields)
		ts.Record = &fl
	case *decl.Enum:
		vl := variantList(d.Variants)
		ts.Enum = &vl
	case *decl.Error:
		vl := variantList(d.Variants)
		ts.Error = &vl
	case *decl.Object:
		obj := &ObjectSpec{}
		for i := range d.Constructors {
			obj.Constructors = append(obj.Constructors, functionSpec(&d.Constructors[i]))
		}

		for i := range d.Methods {
			obj.Methods = append(obj.Methods, functionSpec(&d.Methods[i]))
		}

		ts.Object = obj
	default:
		panic(fmt.Sprintf("loader: unhandled definition %T", td.Def))
	}

	return ts
}

func fieldList(fields []decl.Field) FieldList {
	out := FieldList{}
	for _, f := range fields {
		out = append(out, FieldSpec{Name: f.Name, Type: f.Type.String()})
	}

	return out
}

func variantList(variants []decl.Variant) VariantList {
	out := VariantList{}
	for _, v := range variants {
		out = append(out, VariantSpec{Name: v.Name, Fields: fieldList(v.Fields)})
	}

	return out
}

func functionSpec(fn *decl.Function) FunctionSpec {
	fs := FunctionSpec{Name: fn.Name, Throws: fn.Throws, Async: fn.Async}

	for _, p := range fn.Params {
		fs.Params = append(fs.Params, FieldSpec{Name: p.Name, Type: p.Type.String()})
	}

	if fn.Returns != nil {
		fs.Returns = fn.Returns.String()
	}

	return fs
}
