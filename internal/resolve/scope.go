package resolve

import (
	"bindgen/internal/decl"
	"bindgen/internal/registry"
)

type origin int

const (
	originLocal origin = iota + 1
	originCustom
	originExternal
	originBuiltin
)

// binding is a name visible inside one component.
type binding struct {
	name   string
	origin origin
	// entry is the definition the name denotes; nil for a failed external.
	entry *registry.Entry
	ext   decl.ExternalRef
	used  bool
}

func (b *binding) failed() bool {
	return b.entry == nil
}

// scope is the namespace of one component during a run.
type scope struct {
	component string
	names     map[string]*binding
	externals []*binding
	deps      map[string]bool
}

func newScope(component string) *scope {
	return &scope{
		component: component,
		names:     make(map[string]*binding),
		deps:      make(map[string]bool),
	}
}

func (s *scope) bind(b *binding) {
	s.names[b.name] = b
	if b.origin == originExternal {
		s.externals = append(s.externals, b)
	}
}
