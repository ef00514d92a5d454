package emit

import (
	"bindgen/internal/graph"
	"bindgen/internal/ident"
)

// QualifiedRef renders r with every link replaced by the qualified name of
// its target, e.g. "sequence<geo.Point>". Builtins stay unqualified.
func QualifiedRef(g *graph.Graph, r graph.Ref) string {
	switch rr := r.(type) {
	case nil:
		return ""
	case graph.Link:
		return QualifiedName(g, rr.ID, rr.Declared)
	case graph.Sequence:
		return "sequence<" + QualifiedRef(g, rr.Elem) + ">"
	case graph.Optional:
		return "optional<" + QualifiedRef(g, rr.Inner) + ">"
	case graph.Map:
		return "map<" + QualifiedRef(g, rr.Key) + ", " + QualifiedRef(g, rr.Value) + ">"
	default:
		panic("emit: unhandled ref")
	}
}

// QualifiedName returns the qualified name of id, or fallback when id is
// not in g.
func QualifiedName(g *graph.Graph, id ident.TypeID, fallback string) string {
	t, ok := g.Type(id)
	if !ok {
		return fallback
	}

	return t.Name.String()
}
