package golang

import "text/template"

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by bindgen. DO NOT EDIT.
// Component {{.Component}}{{with .Version}} version {{.}}{{end}}.

package {{.Package}}
{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{range .Decls}}{{template "decl" .}}{{end}}
{{- if .API}}
// {{.APIName}} lists the functions exported by {{.Component}}.
type {{.APIName}} interface {
{{range .API}}{{template "method" .}}{{end}}}
{{end}}

{{- define "doc"}}{{range .Doc}}// {{.}}
{{end}}{{end}}

{{- define "method"}}{{range .Doc}}	// {{.}}
{{end}}	{{.Name}}({{.Params}}){{.Results}}
{{end}}

{{- define "fields"}}{{range .}}	{{.Name}} {{.Type}} {{.Tag}}
{{end}}{{end}}

{{- define "decl"}}
{{if eq .Kind "alias"}}{{template "doc" .}}type {{.Name}} = {{.Target}}
{{else if eq .Kind "record"}}{{template "doc" .}}type {{.Name}} struct {
{{template "fields" .Fields}}}
{{else if eq .Kind "flat"}}{{template "doc" .}}type {{.Name}} int32

const (
{{range $i, $v := .Variants}}	{{$v.Type}}{{if eq $i 0}} {{$.Name}} = iota{{end}}
{{end}})
{{if .IsError}}
// Error implements error.
func (e {{.Name}}) Error() string {
	switch e {
{{range .Variants}}	case {{.Type}}:
		return {{.Message}}
{{end}}	}

	return "unknown {{.Name}}"
}
{{end}}{{else if eq .Kind "enum"}}{{template "doc" .}}type {{.Name}} interface {
	is{{.Name}}()
}
{{range .Variants}}
// {{.Type}} is the {{.Name}} variant of {{$.Name}}.
type {{.Type}} struct {
{{template "fields" .Fields}}}

func ({{.Type}}) is{{$.Name}}() {}
{{if $.IsError}}
// Error implements error.
func ({{.Type}}) Error() string { return {{.Message}} }
{{end}}{{end}}{{else if eq .Kind "object"}}{{template "doc" .}}type {{.Name}} interface {
{{range .Methods}}{{template "method" .}}{{end}}}
{{if .Constructors}}
// {{.Name}}Factory constructs {{.Name}} values.
type {{.Name}}Factory interface {
{{range .Constructors}}{{template "method" .}}{{end}}}
{{end}}{{else if eq .Kind "custom"}}{{template "doc" .}}type {{.Name}} {{.Target}}

// {{.Converter}} converts {{.Name}} with {{.ToWire}} and {{.FromWire}},
// which the package author supplies.
type {{.Converter}} struct{}

// Lower converts a {{.Name}} to its wire representation.
func ({{.Converter}}) Lower(v {{.Name}}) {{.Target}} { return {{.ToWire}}(v) }

// Lift converts a wire value back to {{.Name}}.
func ({{.Converter}}) Lift(v {{.Target}}) {{.Name}} { return {{.FromWire}}(v) }
{{end}}{{end}}
`))
