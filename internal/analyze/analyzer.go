package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"

	"bindgen/internal/decl"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the analyzer logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Analyzer) {
		a.log = log
	}
}

// WithDir sets the directory patterns are resolved from.
func WithDir(dir string) Option {
	return func(a *Analyzer) {
		a.dir = dir
	}
}

// Analyzer loads Go packages and converts them into components.
type Analyzer struct {
	dir string
	log zerolog.Logger
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// LoadPackages loads the packages matching patterns and converts each one.
// Patterns are standard Go package patterns (e.g., "./geo", "bindgen/examples/...").
func (a *Analyzer) LoadPackages(patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("package errors: %w", err)
	}

	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].PkgPath < pkgs[j].PkgPath
	})

	out := make([]*Package, 0, len(pkgs))

	for _, pkg := range pkgs {
		p := a.processPackage(pkg)

		for _, s := range p.Skipped {
			a.log.Warn().
				Str("package", p.Path).
				Str("decl", s.Name).
				Str("pos", s.Pos.String()).
				Msg(s.Reason)
		}

		a.log.Debug().
			Str("package", p.Path).
			Int("types", len(p.Component.Types)).
			Int("externals", len(p.Component.Externals)).
			Int("functions", len(p.Component.Functions)).
			Msg("package analyzed")

		out = append(out, p)
	}

	return out, nil
}

// Components returns the components of pkgs.
func Components(pkgs []*Package) []*decl.Component {
	out := make([]*decl.Component, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.Component)
	}

	return out
}

// processPackage converts the exported declarations of one package.
func (a *Analyzer) processPackage(pkg *packages.Package) *Package {
	c := &converter{
		pkg:       pkg.Types,
		fset:      pkg.Fset,
		docs:      typeDocs(pkg.Syntax),
		externals: make(map[string]string),
		objects:   make(map[string]*decl.Object),
		comp:      &decl.Component{Name: pkg.Name},
		out:       &Package{Path: pkg.PkgPath},
	}
	c.out.Component = c.comp

	scope := pkg.Types.Scope()

	var (
		typeNames []*types.TypeName
		funcs     []*types.Func
	)

	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.TypeName:
			if obj.Exported() {
				typeNames = append(typeNames, obj)
			}
		case *types.Func:
			if obj.Exported() {
				funcs = append(funcs, obj)
			}
		}
	}

	byPos := func(a, b types.Object) bool { return a.Pos() < b.Pos() }
	sort.Slice(typeNames, func(i, j int) bool { return byPos(typeNames[i], typeNames[j]) })
	sort.Slice(funcs, func(i, j int) bool { return byPos(funcs[i], funcs[j]) })

	for _, tn := range typeNames {
		c.typeDef(tn)
	}

	for _, fn := range funcs {
		c.function(fn)
	}

	c.bindThrows()

	for _, name := range sortedKeys(c.externals) {
		c.comp.Externals = append(c.comp.Externals, decl.ExternalRef{Name: name, Component: c.externals[name]})
	}

	return c.out
}

// typeDocs maps type names to their doc comment text.
func typeDocs(files []*ast.File) map[string]string {
	docs := make(map[string]string)

	for _, f := range files {
		for _, d := range f.Decls {
			gen, ok := d.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)

				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}

				if doc != nil {
					docs[ts.Name.Name] = strings.TrimSpace(doc.Text())
				}
			}
		}
	}

	return docs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
