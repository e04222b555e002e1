package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/abmeta/index"
	"github.com/ardnew/abmeta/log"
)

// IndexFlags locate the package index database.
type IndexFlags struct {
	DB     string `default:"${index}" help:"Package index database" type:"path"`
	Format string `default:"json" enum:"json,yaml" help:"Output format (${enum})" short:"o"`
}

func (f *IndexFlags) open() (*index.Index, error) {
	return index.Open(f.DB, index.WithLogger(log.Default()))
}

// Index maintains and queries a SQLite index of a package tree.
type Index struct {
	Sync       IndexSync       `cmd:"" help:"Update the index from a package tree"`
	Show       IndexShow       `cmd:"" help:"Show an indexed package"`
	Dependents IndexDependents `cmd:"" help:"List the packages that depend on a package"`
}

// IndexSync updates the index from a package tree.
type IndexSync struct {
	Index    IndexFlags `embed:""`
	Packages TreeFlags  `embed:""`
}

// Run executes the index sync command.
func (c *IndexSync) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	t, err := c.Packages.load(ctx)
	if err != nil {
		return err
	}

	ix, err := c.Index.open()
	if err != nil {
		return err
	}
	defer ix.Close()

	stats, err := ix.Sync(ctx, t)
	if err != nil {
		return err
	}

	return write(ctx, streamsFrom(ctx).out, c.Index.Format, stats)
}

// IndexShow prints an indexed package.
type IndexShow struct {
	Name  string     `arg:"" help:"Package name" name:"package"`
	Index IndexFlags `embed:""`
}

// Run executes the index show command.
func (c *IndexShow) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ix, err := c.Index.open()
	if err != nil {
		return err
	}
	defer ix.Close()

	p, err := ix.Package(ctx, c.Name)
	if err != nil {
		return err
	}

	return write(ctx, streamsFrom(ctx).out, c.Index.Format, p)
}

// IndexDependents lists the packages whose dependency field names a
// package.
type IndexDependents struct {
	Field string     `default:"PKGDEP" help:"Dependency field"`
	Name  string     `arg:""           help:"Package name" name:"package"`
	Index IndexFlags `embed:""`
}

// Run executes the index dependents command.
func (c *IndexDependents) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ix, err := c.Index.open()
	if err != nil {
		return err
	}
	defer ix.Close()

	names, err := ix.Dependents(ctx, c.Field, c.Name)
	if err != nil {
		return err
	}

	if names == nil {
		names = []string{}
	}

	log.DebugContext(ctx, "dependents",
		slog.String("package", c.Name),
		slog.String("field", c.Field),
		slog.Int("count", len(names)))

	return write(ctx, streamsFrom(ctx).out, c.Index.Format, names)
}
