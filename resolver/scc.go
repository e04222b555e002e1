package resolver

// DepFunc returns the dependencies of a package.
type DepFunc func(name string) []string

type tarjan struct {
	deps    DepFunc
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	sccs    [][]string
	next    int
}

// Tarjan returns the strongly connected components reachable from nodes.
//
// A component is emitted once every component it depends on has been
// emitted, so the result is in reverse topological order. Within a
// component, packages are listed in the order they leave the search stack.
func Tarjan(nodes []string, deps DepFunc) [][]string {
	t := &tarjan{
		deps:    deps,
		index:   map[string]int{},
		lowlink: map[string]int{},
		onStack: map[string]bool{},
	}

	for _, n := range nodes {
		if _, seen := t.index[n]; !seen {
			t.connect(n)
		}
	}

	return t.sccs
}

func (t *tarjan) connect(v string) {
	t.index[v] = t.next
	t.lowlink[v] = t.next
	t.next++

	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, d := range t.deps(v) {
		if _, seen := t.index[d]; !seen {
			t.connect(d)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[d])
		} else if t.onStack[d] {
			t.lowlink[v] = min(t.lowlink[v], t.index[d])
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}

	var scc []string

	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false

		scc = append(scc, w)

		if w == v {
			break
		}
	}

	t.sccs = append(t.sccs, scc)
}
