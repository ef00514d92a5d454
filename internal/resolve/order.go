package resolve

import (
	"sort"
)

// dependencyOrder returns node indices with every node after its
// dependencies.
//
// Nodes are by index; depsFn(i) yields the indices i depends on. When several
// nodes are ready the smallest index wins. A cycle does not fail the sort:
// the smallest blocked index of a cycle that waits on nothing outside itself
// is released and reported in broken. Nodes that only depend on a cycle still
// come after every member of it.
func dependencyOrder(n int, depsFn func(i int) []int) (order, broken []int) {
	if n <= 0 {
		return nil, nil
	}

	deps := make([][]int, n)
	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n || d == i {
				continue
			}

			deps[i] = append(deps[i], d)
			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	scc := components(deps)
	done := make([]bool, n)

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order = make([]int, 0, n)

	for len(order) < n {
		if len(ready) == 0 {
			i := releasable(deps, scc, done)
			broken = append(broken, i)
			ready = append(ready, i)
		}

		i := ready[0]
		ready = ready[1:]

		done[i] = true
		order = append(order, i)

		for _, j := range out[i] {
			if done[j] {
				continue
			}

			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	return order, broken
}

// releasable returns the smallest pending node of a strongly connected
// component that has no pending dependency outside itself. One always
// exists while nodes are pending and none is ready: the condensation of the
// pending nodes is acyclic, so it has a source.
func releasable(deps [][]int, scc []int, done []bool) int {
	blocked := make(map[int]bool)

	for i := range deps {
		if done[i] {
			continue
		}

		for _, d := range deps[i] {
			if !done[d] && scc[d] != scc[i] {
				blocked[scc[i]] = true
				break
			}
		}
	}

	for i := range deps {
		if !done[i] && !blocked[scc[i]] {
			return i
		}
	}

	panic("resolve: no releasable node in a blocked dependency order")
}

// components labels every node with its strongly connected component
// (Tarjan's algorithm).
func components(deps [][]int) []int {
	n := len(deps)

	var (
		index   = make([]int, n)
		low     = make([]int, n)
		onStack = make([]bool, n)
		comp    = make([]int, n)
		stack   []int
		next    = 1
		label   int
	)

	var visit func(v int)
	visit = func(v int) {
		index[v] = next
		low[v] = next
		next++

		stack = append(stack, v)
		onStack[v] = true

		for _, w := range deps[v] {
			switch {
			case index[w] == 0:
				visit(w)
				low[v] = min(low[v], low[w])
			case onStack[w]:
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}

		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			comp[w] = label

			if w == v {
				break
			}
		}

		label++
	}

	for v := range n {
		if index[v] == 0 {
			visit(v)
		}
	}

	return comp
}
