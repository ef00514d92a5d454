package resolve

import (
	"slices"
	"strings"

	"bindgen/internal/diagnostic"
	"bindgen/internal/graph"
	"bindgen/internal/ident"
)

// checkDefinitionCycles reports alias and custom type chains that loop back
// on themselves. Such a chain has no wire layout. Records, enums and objects
// may reference each other freely.
func (rn *run) checkDefinitionCycles() {
	ids := make([]ident.TypeID, 0, len(rn.types))
	for id := range rn.types {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b ident.TypeID) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})

	const (
		visiting = 1
		done     = 2
	)

	state := make(map[ident.TypeID]int, len(ids))

	for _, start := range ids {
		var path []ident.TypeID

		for id := start; ; {
			if state[id] == done {
				break
			}

			if state[id] == visiting {
				rn.reportCycle(path[slices.Index(path, id):])
				break
			}

			state[id] = visiting
			path = append(path, id)

			next, ok := rn.definitionEdge(id)
			if !ok {
				break
			}

			id = next
		}

		for _, id := range path {
			state[id] = done
		}
	}
}

// definitionEdge returns the type whose layout id borrows.
func (rn *run) definitionEdge(id ident.TypeID) (ident.TypeID, bool) {
	t, ok := rn.types[id]
	if !ok {
		return ident.TypeID{}, false
	}

	switch d := t.Def.(type) {
	case *graph.Alias:
		if link, ok := d.Target.(graph.Link); ok && link.ID.IsValid() {
			return link.ID, true
		}
	case *graph.Custom:
		if d.Wire.IsValid() {
			return d.Wire, true
		}
	}

	return ident.TypeID{}, false
}

func (rn *run) reportCycle(cycle []ident.TypeID) {
	names := make([]string, 0, len(cycle)+1)
	for _, id := range cycle {
		names = append(names, rn.types[id].Name.String())
	}

	names = append(names, names[0])

	head := rn.types[cycle[0]].Name
	rn.diags.Add(diagnostic.Newf(diagnostic.KindDefinitionCycle, head.Component, head.Name,
		"definition cycle: %s", strings.Join(names, " -> ")))
}
