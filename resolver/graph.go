package resolver

import (
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/mung"
	"github.com/edwingeng/deque"

	"github.com/ardnew/abmeta/tree"
)

// Graph is a dependency graph between package names.
type Graph struct {
	edges map[string][]string
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{edges: map[string][]string{}}
}

// Add records that name depends on each of deps. Duplicate edges are
// ignored.
func (g *Graph) Add(name string, deps ...string) {
	cur := g.edges[name]

	for _, d := range deps {
		if !slices.Contains(cur, d) {
			cur = append(cur, d)
		}
	}

	g.edges[name] = cur
}

// FromTree builds the graph of field dependencies between the packages of t
// as they apply on arch. Packages whose FAIL_ARCH covers arch are left out.
//
// For BUILDDEP the runtime dependencies are composed in front of the build
// dependencies, since building a package needs both.
func FromTree(t *tree.Tree, arch, field string) *Graph {
	g := New()

	for _, p := range t.Packages() {
		if arch != "" && p.FailArch.Fails(arch) {
			continue
		}

		deps := p.Field(field)
		if deps == nil {
			continue
		}

		names := deps.Names(arch)
		if field == tree.FieldBuildDepends {
			names = buildDeps(p.Dependencies.Names(arch), names)
		}

		g.Add(p.Name, names...)
	}

	return g
}

func buildDeps(runtime, build []string) []string {
	if len(runtime) == 0 {
		return build
	}

	joined := mung.Make(
		mung.WithSubjectItems(strings.Join(build, " ")),
		mung.WithDelim(" "),
		mung.WithPrefixItems(runtime...),
	).String()

	var names []string

	for _, n := range strings.Fields(joined) {
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}

	return names
}

// Deps returns the direct dependencies of name.
func (g *Graph) Deps(name string) []string { return g.edges[name] }

// Nodes returns the packages with recorded dependencies, sorted.
func (g *Graph) Nodes() []string {
	return slices.Sorted(maps.Keys(g.edges))
}

// Components returns the strongly connected components of g.
func (g *Graph) Components() [][]string {
	return Tarjan(g.Nodes(), g.Deps)
}

// Cycles returns the components of g that form a dependency cycle: those
// with more than one package, or a package depending on itself.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string

	for _, scc := range g.Components() {
		if len(scc) > 1 || slices.Contains(g.edges[scc[0]], scc[0]) {
			cycles = append(cycles, scc)
		}
	}

	return cycles
}

// Closure returns every package reachable from roots, in breadth-first
// order. The roots themselves are listed only if a dependency leads back to
// them.
func (g *Graph) Closure(roots ...string) []string {
	var (
		order []string
		seen  = map[string]bool{}
		queue = deque.NewDeque()
	)

	for _, r := range roots {
		queue.PushBack(r)
	}

	for queue.Len() != 0 {
		name := queue.Front().(string)
		queue.PopFront()

		for _, d := range g.edges[name] {
			if seen[d] {
				continue
			}

			seen[d] = true
			order = append(order, d)
			queue.PushBack(d)
		}
	}

	return order
}

// Missing returns the dependencies in g that have no node of their own,
// sorted. For a graph built by [FromTree] these are the names no package in
// the tree provides.
func (g *Graph) Missing() []string {
	set := map[string]bool{}

	for _, deps := range g.edges {
		for _, d := range deps {
			if _, ok := g.edges[d]; !ok {
				set[d] = true
			}
		}
	}

	return slices.Sorted(maps.Keys(set))
}
