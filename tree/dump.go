package tree

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/abmeta/lang"
)

// Dump holds the variables of every file of one kind in a tree, each
// evaluated on its own.
type Dump struct {
	// Vars maps slash-separated paths relative to the root to the variables
	// their file defines.
	Vars     map[string]lang.Context
	Failures []Failure
	Total    int
}

// Percent returns the share of files that failed, rounded down.
func (d *Dump) Percent() int {
	if d.Total == 0 {
		return 0
	}

	return len(d.Failures) * 100 / d.Total
}

// DumpFiles evaluates each file called name below root into a context of its
// own.
//
// A defines file is normally evaluated after its spec file and inside a
// build, so references to the [lang.Placeholders] would fail when it stands
// alone. With seed they are defined as empty for the evaluation and removed
// from the result.
func DumpFiles(
	ctx context.Context,
	root, name string,
	seed bool,
	opts ...Option,
) (*Dump, error) {
	cfg := makeConfig(opts...)

	paths, err := FindFiles(root, name)
	if err != nil {
		return nil, err
	}

	vars := make([]lang.Context, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			vars[i], errs[i] = dumpFile(gctx, path, seed, cfg.langOptions()...)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dump{Vars: make(map[string]lang.Context, len(paths)), Total: len(paths)}

	for i, path := range paths {
		if errs[i] != nil {
			d.Failures = append(d.Failures, Failure{Path: path, Err: errs[i]})
			cfg.warn(ctx, "skipping file", path, errs[i])

			continue
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		d.Vars[filepath.ToSlash(rel)] = vars[i]
	}

	cfg.logger.DebugContext(ctx, "tree dumped",
		slog.String("root", root),
		slog.String("name", name),
		slog.Int("total", d.Total),
		slog.Int("errors", len(d.Failures)))

	return d, nil
}

func dumpFile(
	ctx context.Context,
	path string,
	seed bool,
	opts ...lang.Option,
) (lang.Context, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadUnit.Wrap(err).With(slog.String("path", path))
	}

	vars := lang.Context{}
	if seed {
		lang.SeedPlaceholders(vars, lang.Placeholders...)
	}

	if err := lang.Parse(ctx, string(src), vars, opts...); err != nil {
		return nil, ErrParseUnit.Wrap(err).With(slog.String("path", path))
	}

	if seed {
		lang.RemovePlaceholders(vars, lang.Placeholders...)
	}

	return vars, nil
}
