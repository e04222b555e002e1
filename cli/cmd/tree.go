package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/abmeta/log"
	"github.com/ardnew/abmeta/tree"
)

// TreeFlags select and load a package tree.
type TreeFlags struct {
	Root  string `default:"."     help:"Root of the package tree"                      name:"tree" short:"t" type:"existingdir"`
	Jobs  int    `default:"0"     help:"Units loaded concurrently (0 for all CPUs)"                short:"j"`
	Known bool   `default:"false" help:"Treat unset build-system variables as empty"              short:"k"`
}

func (f *TreeFlags) options() []tree.Option {
	return []tree.Option{
		tree.WithLogger(log.Default()),
		tree.WithJobs(f.Jobs),
		tree.WithKnownVariables(f.Known),
	}
}

func (f *TreeFlags) load(ctx context.Context) (*tree.Tree, error) {
	t, err := tree.Load(ctx, f.Root, f.options()...)
	if err != nil {
		return nil, ErrLoadTree.With(slog.String("root", f.Root)).Wrap(err)
	}

	return t, nil
}

// Tree lists the packages of a tree.
type Tree struct {
	Filter   string    `help:"Only list packages for which this expression is true" short:"f"`
	Format   string    `default:"json" enum:"json,yaml" help:"Output format (${enum})" short:"o"`
	Packages TreeFlags `embed:""`
	Names    bool      `help:"Print package names only" short:"n"`
}

// Run executes the tree command.
func (c *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var filter *tree.Filter

	if c.Filter != "" {
		if filter, err = tree.NewFilter(c.Filter); err != nil {
			return err
		}
	}

	t, err := c.Packages.load(ctx)
	if err != nil {
		return err
	}

	pkgs, err := t.Select(filter)
	if err != nil {
		return err
	}

	out := streamsFrom(ctx).out

	if c.Names {
		for _, p := range pkgs {
			if _, err := fmt.Fprintln(out, p.Name); err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}

		return nil
	}

	return write(ctx, out, c.Format, pkgs)
}
