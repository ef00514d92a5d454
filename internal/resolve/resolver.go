package resolve

import (
	"sort"

	"github.com/rs/zerolog"

	"bindgen/internal/bridge"
	"bindgen/internal/decl"
	"bindgen/internal/diagnostic"
	"bindgen/internal/graph"
	"bindgen/internal/ident"
	"bindgen/internal/match"
	"bindgen/internal/registry"
)

// Config controls resolution.
type Config struct {
	// FailOnWarnings promotes warnings to errors.
	FailOnWarnings bool
	// MaxSuggestions caps "did you mean" hints per diagnostic. Zero disables them.
	MaxSuggestions int
}

// DefaultConfig returns the default resolver configuration.
func DefaultConfig() Config {
	return Config{
		MaxSuggestions: match.DefaultMaxSuggestions,
	}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// Resolver resolves the components of a registry into a graph.
type Resolver struct {
	reg *registry.Registry
	cfg Config
	log zerolog.Logger
}

// NewResolver creates a Resolver over reg.
func NewResolver(reg *registry.Registry, cfg Config, opts ...Option) *Resolver {
	r := &Resolver{
		reg: reg,
		cfg: cfg,
		log: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve resolves reg with the default configuration.
func Resolve(reg *registry.Registry) (*graph.Graph, error) {
	return NewResolver(reg, DefaultConfig()).Resolve()
}

// Resolve builds the graph for every registered component.
// On failure it returns a nil graph and a *diagnostic.Failure carrying every
// diagnostic of the run.
func (r *Resolver) Resolve() (*graph.Graph, error) {
	rn := &run{
		Resolver: r,
		scopes:   make(map[string]*scope),
		types:    make(map[ident.TypeID]*graph.Type),
	}

	return rn.resolve()
}

// run holds the state of one Resolve call.
type run struct {
	*Resolver

	comps  []*decl.Component
	scopes map[string]*scope
	types  map[ident.TypeID]*graph.Type
	diags  diagnostic.Diagnostics
}

func (rn *run) resolve() (*graph.Graph, error) {
	rn.comps = rn.reg.Components()

	rn.log.Debug().
		Str("run", rn.reg.RunID()).
		Int("components", len(rn.comps)).
		Msg("resolving")

	for _, c := range rn.comps {
		rn.scopes[c.Name] = rn.localScope(c)
	}

	for _, c := range rn.comps {
		sc := rn.scopes[c.Name]
		for _, ext := range c.Externals {
			rn.resolveExternal(sc, ext)
		}
	}

	br := bridge.New(rn)

	for _, c := range rn.comps {
		for _, w := range c.Wrappers {
			_, err := br.DeclareWrapper(c.Name, w.Name, w.Wire,
				graph.ConversionRef(w.ToWire), graph.ConversionRef(w.FromWire))
			if err != nil {
				rn.diags.Merge(diagnostic.Collect(err))
			}
		}
	}

	b := graph.NewBuilder(rn.reg.RunID())

	for _, e := range rn.reg.BuiltinEntries() {
		rn.addType(b, &graph.Type{ID: e.ID, Name: e.Name, Def: &graph.Builtin{Primitive: e.Primitive}})
	}

	for _, c := range rn.comps {
		b.AddComponent(rn.component(b, br, c))
	}

	rn.checkDefinitionCycles()
	rn.reportUnused()

	b.SetOrder(rn.order())

	if rn.cfg.FailOnWarnings {
		for _, w := range rn.diags.Warnings {
			w.Severity = diagnostic.SeverityError
			rn.diags.Errors = append(rn.diags.Errors, w)
		}

		rn.diags.Warnings = nil
	}

	rn.diags.Sort()

	if err := rn.diags.Err(); err != nil {
		rn.log.Debug().
			Int("errors", len(rn.diags.Errors)).
			Int("warnings", len(rn.diags.Warnings)).
			Msg("resolution failed")

		return nil, err
	}

	for _, w := range rn.diags.Warnings {
		b.AddWarning(w)
	}

	g := b.Build()

	rn.log.Debug().
		Strs("order", g.Order()).
		Int("types", len(rn.types)).
		Int("warnings", len(rn.diags.Warnings)).
		Msg("resolved")

	return g, nil
}

func (rn *run) localScope(c *decl.Component) *scope {
	sc := newScope(c.Name)

	for _, e := range rn.reg.Entries(c.Name) {
		o := originLocal
		if e.IsCustom() {
			o = originCustom
		}

		sc.bind(&binding{name: e.Name.Name, origin: o, entry: e})
	}

	return sc
}

// resolveExternal binds one external reference. A hinted reference is looked
// up in that component only; otherwise exactly one other component must
// declare the name.
func (rn *run) resolveExternal(sc *scope, ext decl.ExternalRef) {
	b := &binding{name: ext.Name, origin: originExternal, ext: ext}
	sc.bind(b)

	if ext.Component != "" {
		rn.resolveHinted(sc, b)
		return
	}

	var matches []*registry.Entry

	for _, e := range rn.reg.LookupAny(ext.Name) {
		if e.Name.Component != sc.component {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		rn.diags.Add(diagnostic.Newf(diagnostic.KindUnresolvedExternalType, sc.component, ext.Name,
			"external type %q is not declared by any other component", ext.Name).
			WithSuggestions(rn.suggestRegistered(sc.component, ext.Name)...))
	case 1:
		b.entry = matches[0]
		sc.deps[matches[0].Name.Component] = true
	default:
		candidates := make([]string, 0, len(matches))
		for _, e := range matches {
			candidates = append(candidates, e.Name.String())
		}

		rn.diags.Add(diagnostic.Newf(diagnostic.KindAmbiguousExternalType, sc.component, ext.Name,
			"external type %q is declared by %d components; name the owning component", ext.Name, len(matches)).
			WithCandidates(candidates...))
	}
}

func (rn *run) resolveHinted(sc *scope, b *binding) {
	hint := b.ext.Component

	if hint == sc.component {
		rn.diags.Add(diagnostic.Newf(diagnostic.KindUnresolvedExternalType, sc.component, b.name,
			"external type %q names its own component %q", b.name, hint))

		return
	}

	if _, ok := rn.reg.Component(hint); !ok {
		known := make(map[string]string)
		for _, c := range rn.comps {
			known[c.Name] = c.Name
		}

		rn.diags.Add(diagnostic.Newf(diagnostic.KindUnresolvedExternalType, sc.component, b.name,
			"external type %q names unregistered component %q", b.name, hint).
			WithSuggestions(match.Suggest(hint, known, rn.cfg.MaxSuggestions)...))

		return
	}

	e, err := rn.reg.LookupLocal(hint, b.name)
	if err != nil {
		known := make(map[string]string)
		for _, e := range rn.reg.Entries(hint) {
			known[e.Name.String()] = e.Name.Name
		}

		rn.diags.Add(diagnostic.Newf(diagnostic.KindUnresolvedExternalType, sc.component, b.name,
			"component %q declares no type %q", hint, b.name).
			WithSuggestions(match.Suggest(b.name, known, rn.cfg.MaxSuggestions)...))

		return
	}

	b.entry = e
	sc.deps[hint] = true
}

// lookup finds name in sc, falling back to builtins.
func (rn *run) lookup(sc *scope, name string) (*binding, bool) {
	if b, ok := sc.names[name]; ok {
		return b, true
	}

	if e, ok := rn.reg.Builtin(name); ok {
		return &binding{name: name, origin: originBuiltin, entry: e}, true
	}

	return nil, false
}

// ResolveName implements bridge.Scopes.
func (rn *run) ResolveName(component, name string) (bridge.Target, error) {
	sc, ok := rn.scopes[component]
	if !ok {
		return bridge.Target{}, diagnostic.Newf(diagnostic.KindNotFound, component, name,
			"component %q is not registered", component).Err()
	}

	b, ok := rn.lookup(sc, name)
	if !ok {
		return bridge.Target{}, diagnostic.Newf(diagnostic.KindNotFound, component, name,
			"%q is not in scope", name).
			WithSuggestions(rn.suggestInScope(sc, name)...).Err()
	}

	b.used = true

	if b.failed() {
		return bridge.Target{}, diagnostic.Newf(diagnostic.KindUnresolvedExternalType, component, name,
			"external type %q is unresolved", name).Err()
	}

	return bridge.Target{
		ID:      b.entry.ID,
		Builtin: b.entry.IsBuiltin(),
		Custom:  b.entry.IsCustom(),
	}, nil
}

// IdentityOf implements bridge.Scopes.
func (rn *run) IdentityOf(component, name string) (ident.TypeID, error) {
	return rn.reg.IdentityOf(component, name)
}

// suggestInScope proposes names visible in sc, plus names owned by other
// components that could be added as external references.
func (rn *run) suggestInScope(sc *scope, name string) []string {
	known := make(map[string]string)

	for n := range sc.names {
		known[n] = n
	}

	for _, k := range decl.Primitives() {
		known[k.String()] = k.String()
	}

	for _, c := range rn.comps {
		if c.Name == sc.component {
			continue
		}

		for _, e := range rn.reg.Entries(c.Name) {
			known[e.Name.String()] = e.Name.Name
		}
	}

	return match.Suggest(name, known, rn.cfg.MaxSuggestions)
}

func (rn *run) suggestRegistered(exclude, name string) []string {
	known := make(map[string]string)

	for _, c := range rn.comps {
		if c.Name == exclude {
			continue
		}

		for _, e := range rn.reg.Entries(c.Name) {
			known[e.Name.String()] = e.Name.Name
		}
	}

	return match.Suggest(name, known, rn.cfg.MaxSuggestions)
}

func (rn *run) addType(b *graph.Builder, t *graph.Type) {
	rn.types[t.ID] = t
	b.AddType(t)
}

// reportUnused warns about external references nothing in their component uses.
func (rn *run) reportUnused() {
	for _, c := range rn.comps {
		for _, b := range rn.scopes[c.Name].externals {
			if b.used || b.failed() {
				continue
			}

			rn.diags.Add(diagnostic.Newf(diagnostic.KindUnusedExternalType, c.Name, b.name,
				"external type %q is never referenced", b.name).AsWarning())
		}
	}
}

// order sorts components so that every component follows the components it
// references. Cycles are broken by name.
func (rn *run) order() []string {
	names := make([]string, 0, len(rn.comps))
	for _, c := range rn.comps {
		names = append(names, c.Name)
	}

	sort.Strings(names)

	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	order, broken := dependencyOrder(len(names), func(i int) []int {
		var deps []int
		for d := range rn.scopes[names[i]].deps {
			deps = append(deps, index[d])
		}

		return deps
	})

	for _, i := range broken {
		rn.log.Debug().Str("component", names[i]).Msg("component cycle broken by name")
	}

	out := make([]string, 0, len(order))
	for _, i := range order {
		out = append(out, names[i])
	}

	return out
}
