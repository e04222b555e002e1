package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/abmeta/log"
	"github.com/ardnew/abmeta/resolver"
	"github.com/ardnew/abmeta/tree"
)

// GraphFlags select the dependency relation a graph is built from.
type GraphFlags struct {
	Field string `default:"PKGDEP" enum:"PKGDEP,BUILDDEP,PKGSUG,PKGRECOM,PKGBREAK,PKGCONFL,PKGREP,PKGPROV" help:"Dependency field (${enum})"`
	Arch  string `                                                                                        help:"Architecture whose dependency variants apply; packages that fail on it are left out"`
}

// Cycles reports the dependency cycles of a tree.
type Cycles struct {
	Format   string     `default:"json" enum:"json,yaml" help:"Output format (${enum})" short:"o"`
	Graph    GraphFlags `embed:""`
	Packages TreeFlags  `embed:""`
}

// Run executes the cycles command.
func (c *Cycles) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	t, err := c.Packages.load(ctx)
	if err != nil {
		return err
	}

	cycles := resolver.FromTree(t, c.Graph.Arch, c.Graph.Field).Cycles()
	if cycles == nil {
		cycles = [][]string{}
	}

	log.InfoContext(ctx, "dependency cycles",
		slog.String("field", c.Graph.Field),
		slog.Int("count", len(cycles)))

	return write(ctx, streamsFrom(ctx).out, c.Format, cycles)
}

// Deps lists everything the given packages transitively depend on.
type Deps struct {
	Format   string     `default:"json" enum:"json,yaml" help:"Output format (${enum})" short:"o"`
	Names    []string   `arg:""                          help:"Packages to resolve"     name:"package"`
	Graph    GraphFlags `embed:""`
	Packages TreeFlags  `embed:""`
}

// Closure is the result of the deps command.
type Closure struct {
	// Packages are the dependencies in breadth-first order.
	Packages []string `json:"packages"          yaml:"packages"`
	// Missing are the dependencies no package in the tree provides.
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Run executes the deps command.
func (d *Deps) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	t, err := d.Packages.load(ctx)
	if err != nil {
		return err
	}

	for _, name := range d.Names {
		if _, ok := t.Package(name); !ok {
			return ErrUnknownPackage.With(slog.String("package", name))
		}
	}

	return write(ctx, streamsFrom(ctx).out, d.Format,
		closure(t, resolver.FromTree(t, d.Graph.Arch, d.Graph.Field), d.Names))
}

func closure(t *tree.Tree, g *resolver.Graph, roots []string) Closure {
	c := Closure{Packages: g.Closure(roots...)}
	if c.Packages == nil {
		c.Packages = []string{}
	}

	for _, name := range c.Packages {
		if _, ok := t.Package(name); !ok {
			c.Missing = append(c.Missing, name)
		}
	}

	return c
}
