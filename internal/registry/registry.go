package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bindgen/internal/decl"
	"bindgen/internal/diagnostic"
	"bindgen/internal/ident"
)

// Entry is a type visible in a component's local namespace.
// Exactly one of Def, Wrapper or Primitive is set.
type Entry struct {
	ID        ident.TypeID
	Name      ident.QualifiedName
	Def       *decl.TypeDef      // locally declared type
	Wrapper   *decl.WrapperDecl  // custom type semantic name
	Primitive decl.PrimitiveKind // builtin primitive
}

// IsBuiltin returns true for builtin primitives.
func (e *Entry) IsBuiltin() bool {
	return e.Primitive != decl.PrimitiveInvalid
}

// IsCustom returns true for custom type semantic names.
func (e *Entry) IsCustom() bool {
	return e.Wrapper != nil
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(r *Registry) {
		r.runID = id
	}
}

// Registry holds every component registered for one generation run.
type Registry struct {
	mu         sync.RWMutex
	runID      string
	log        zerolog.Logger
	ids        *ident.Table
	components map[string]*registered
	order      []string
	builtins   map[string]*Entry
}

type registered struct {
	comp    *decl.Component
	entries map[string]*Entry
	ordered []*Entry
}

// New creates a Registry with the builtin primitives pre-interned.
func New(opts ...Option) *Registry {
	r := &Registry{
		runID:      uuid.NewString(),
		log:        zerolog.Nop(),
		ids:        ident.NewTable(),
		components: make(map[string]*registered),
		builtins:   make(map[string]*Entry),
	}

	for _, opt := range opts {
		opt(r)
	}

	for _, k := range decl.Primitives() {
		q := ident.QualifiedName{Component: ident.BuiltinComponent, Name: k.String()}
		r.builtins[q.Name] = &Entry{ID: r.ids.Intern(q), Name: q, Primitive: k}
	}

	return r
}

// RunID identifies the generation run this registry belongs to.
func (r *Registry) RunID() string {
	return r.runID
}

// Identities returns the identity table shared by everything in the run.
func (r *Registry) Identities() *ident.Table {
	return r.ids
}

// Register adds a component's declarations.
// It fails with KindDuplicateComponent or KindDuplicateTypeName and leaves
// the registry unchanged on failure.
func (r *Registry) Register(c *decl.Component) error {
	if c == nil || !decl.IsValidIdent(c.Name) {
		name := ""
		if c != nil {
			name = c.Name
		}

		return diagnostic.Newf(diagnostic.KindInvalidDeclaration, name, "", "invalid component name %q", name).Err()
	}

	// Namespace checks need no lock: they only read the component itself.
	diags := checkNamespace(c)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[c.Name]; exists {
		return diagnostic.Newf(diagnostic.KindDuplicateComponent, c.Name, "",
			"component %q is already registered", c.Name).Err()
	}

	if err := diags.Err(); err != nil {
		return err
	}

	reg := &registered{
		comp:    c,
		entries: make(map[string]*Entry, len(c.Types)+len(c.Wrappers)),
	}

	for i := range c.Types {
		td := &c.Types[i]
		reg.add(r.entry(c.Name, td.Name, func(e *Entry) { e.Def = td }))
	}

	for i := range c.Wrappers {
		w := &c.Wrappers[i]
		if _, taken := reg.entries[w.Name]; taken {
			// Duplicate semantic names are a bridge-level WrapperConflict.
			continue
		}

		reg.add(r.entry(c.Name, w.Name, func(e *Entry) { e.Wrapper = w }))
	}

	r.components[c.Name] = reg
	r.order = append(r.order, c.Name)

	r.log.Debug().
		Str("component", c.Name).
		Int("types", len(c.Types)).
		Int("externals", len(c.Externals)).
		Int("wrappers", len(c.Wrappers)).
		Msg("component registered")

	return nil
}

func (r *Registry) entry(component, name string, set func(*Entry)) *Entry {
	q := ident.QualifiedName{Component: component, Name: name}
	e := &Entry{ID: r.ids.Intern(q), Name: q}
	set(e)

	return e
}

func (reg *registered) add(e *Entry) {
	reg.entries[e.Name.Name] = e
	reg.ordered = append(reg.ordered, e)
}

// checkNamespace reports every local name collision inside one component.
// Types, external references and custom type names share one namespace;
// builtin names are reserved.
func checkNamespace(c *decl.Component) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	seen := make(map[string]string)

	claim := func(name, what string) {
		if !decl.IsValidIdent(name) {
			diags.Add(diagnostic.Newf(diagnostic.KindInvalidDeclaration, c.Name, name,
				"%s name %q is not a valid identifier", what, name))

			return
		}

		if _, builtin := decl.LookupPrimitive(name); builtin {
			diags.Add(diagnostic.Newf(diagnostic.KindDuplicateTypeName, c.Name, name,
				"%s %q shadows a builtin type", what, name))

			return
		}

		if prev, ok := seen[name]; ok {
			diags.Add(diagnostic.Newf(diagnostic.KindDuplicateTypeName, c.Name, name,
				"%s %q collides with %s of the same name", what, name, prev))

			return
		}

		seen[name] = what
	}

	for _, td := range c.Types {
		claim(td.Name, "type")
	}

	for _, ext := range c.Externals {
		claim(ext.Name, "external reference")
	}

	wrappers := make(map[string]bool)

	for _, w := range c.Wrappers {
		if wrappers[w.Name] {
			continue
		}

		wrappers[w.Name] = true
		claim(w.Name, "custom type")
	}

	return diags
}

// LookupLocal returns the type named name declared by component.
func (r *Registry) LookupLocal(component, name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.components[component]
	if !ok {
		return nil, diagnostic.Newf(diagnostic.KindNotFound, component, name,
			"component %q is not registered", component).Err()
	}

	e, ok := reg.entries[name]
	if !ok {
		return nil, diagnostic.Newf(diagnostic.KindNotFound, component, name,
			"component %q declares no type %q", component, name).Err()
	}

	return e, nil
}

// LookupAny returns every registered type named name, sorted by component.
// Intended for diagnostics only: a match by name alone is not an identity.
func (r *Registry) LookupAny(name string) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Entry

	for _, reg := range r.components {
		if e, ok := reg.entries[name]; ok {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name.Component < out[j].Name.Component
	})

	return out
}

// Builtin returns the builtin primitive entry for name.
func (r *Registry) Builtin(name string) (*Entry, bool) {
	e, ok := r.builtins[name]
	return e, ok
}

// BuiltinEntries returns every builtin entry in primitive order.
func (r *Registry) BuiltinEntries() []*Entry {
	out := make([]*Entry, 0, len(r.builtins))
	for _, k := range decl.Primitives() {
		out = append(out, r.builtins[k.String()])
	}

	return out
}

// IdentityOf returns the TypeID of (component, localName).
// The builtin namespace is addressed with ident.BuiltinComponent.
func (r *Registry) IdentityOf(component, localName string) (ident.TypeID, error) {
	if component == ident.BuiltinComponent {
		if e, ok := r.builtins[localName]; ok {
			return e.ID, nil
		}

		return ident.TypeID{}, diagnostic.Newf(diagnostic.KindNotFound, component, localName,
			"no builtin type %q", localName).Err()
	}

	e, err := r.LookupLocal(component, localName)
	if err != nil {
		return ident.TypeID{}, err
	}

	return e.ID, nil
}

// Component returns a registered component by name.
func (r *Registry) Component(name string) (*decl.Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.components[name]
	if !ok {
		return nil, false
	}

	return reg.comp, true
}

// Components returns every component in registration order.
func (r *Registry) Components() []*decl.Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*decl.Component, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.components[name].comp)
	}

	return out
}

// Entries returns a component's local entries: types first, then custom
// types, each in declaration order.
func (r *Registry) Entries(component string) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.components[component]
	if !ok {
		return nil
	}

	return append([]*Entry(nil), reg.ordered...)
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// String summarizes the registry for logs.
func (r *Registry) String() string {
	return fmt.Sprintf("registry(run=%s, components=%d, ids=%d)", r.runID, r.Len(), r.ids.Len())
}
