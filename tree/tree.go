package tree

import (
	"context"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/abmeta/lang"
)

const (
	specName    = "spec"
	definesName = "defines"

	// maxDepth bounds how far below the root defines files are searched.
	maxDepth = 4
)

// Tree is the set of packages loaded from a package tree.
type Tree struct {
	packages map[string]*Package
	Root     string
	failures []Failure
}

// Failure records a unit that could not be loaded.
type Failure struct {
	Err  error
	Path string
}

// Unit locates the two declaration files of a package.
type Unit struct {
	Spec    string
	Defines string
}

// Load reads every package unit below root.
//
// Units are loaded concurrently. A unit that fails is logged and skipped, and
// can be retrieved with [Tree.Failures]. Load itself only fails if root
// cannot be walked.
func Load(ctx context.Context, root string, opts ...Option) (*Tree, error) {
	cfg := makeConfig(opts...)

	units, failures, err := FindUnits(root)
	if err != nil {
		return nil, err
	}

	pkgs := make([]*Package, len(units))
	errs := make([]error, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.jobs)

	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			pkgs[i], errs[i] = LoadUnit(gctx, u, cfg.langOptions()...)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := &Tree{
		Root:     root,
		packages: make(map[string]*Package, len(units)),
		failures: failures,
	}

	for i, u := range units {
		if errs[i] != nil {
			t.fail(ctx, cfg, u.Spec, errs[i])

			continue
		}

		if prev, ok := t.packages[pkgs[i].Name]; ok {
			cfg.logger.DebugContext(ctx, "duplicate package",
				slog.String("package", prev.Name),
				slog.String("replaced", prev.SpecPath),
				slog.String("by", pkgs[i].SpecPath))
		}

		t.packages[pkgs[i].Name] = pkgs[i]
	}

	cfg.logger.DebugContext(ctx, "tree loaded",
		slog.String("root", root),
		slog.Int("packages", len(t.packages)),
		slog.Int("failures", len(t.failures)))

	return t, nil
}

func (c config) langOptions() []lang.Option {
	return []lang.Option{
		lang.WithLogger(c.logger),
		lang.WithKnownVariables(c.known),
	}
}

func (t *Tree) fail(ctx context.Context, cfg config, path string, err error) {
	t.failures = append(t.failures, Failure{Path: path, Err: err})
	cfg.warn(ctx, "skipping package unit", path, err)
}

// warn logs a failing file, attaching the rendered diagnostic when err
// carries a parse error.
func (c config) warn(ctx context.Context, msg, path string, err error) {
	attrs := []slog.Attr{slog.String("path", path), slog.Any("error", err)}

	var perr *lang.ParseError
	if errors.As(err, &perr) {
		file := failedFile(err, path)
		if src, rerr := os.ReadFile(file); rerr == nil {
			attrs = append(attrs, slog.String("diagnostic", perr.Render(string(src), file)))
		}
	}

	c.logger.WarnContext(ctx, msg, attrs...)
}

// failedFile returns the file named by the "path" attribute of err, or def.
func failedFile(err error, def string) string {
	var terr *Error
	if errors.As(err, &terr) {
		for _, a := range terr.attrs {
			if a.Key == "path" {
				return a.Value.String()
			}
		}
	}

	return def
}

// FindUnits walks root for defines files and pairs each with its spec file,
// which is looked up next to it and then in the parent directory. Units
// without a spec file are returned as failures.
func FindUnits(root string) ([]Unit, []Failure, error) {
	var (
		units    []Unit
		failures []Failure
	)

	err := walk(root, definesName, func(path string) {
		dir := filepath.Dir(path)

		for _, cand := range []string{dir, filepath.Dir(dir)} {
			spec := filepath.Join(cand, specName)
			if fi, err := os.Stat(spec); err == nil && fi.Mode().IsRegular() {
				units = append(units, Unit{Spec: spec, Defines: path})

				return
			}
		}

		failures = append(failures, Failure{
			Path: path,
			Err:  ErrMissingSpec.With(slog.String("path", path)),
		})
	})
	if err != nil {
		return nil, nil, err
	}

	return units, failures, nil
}

// FindFiles returns the paths of the files called name below root, in walk
// order.
func FindFiles(root, name string) ([]string, error) {
	var paths []string

	err := walk(root, name, func(path string) {
		paths = append(paths, path)
	})

	return paths, err
}

// walk calls fn for each file called name at most maxDepth levels
// below root.
func walk(root, name string, fn func(path string)) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		depth := 0
		if rel != "." {
			depth = strings.Count(filepath.ToSlash(rel), "/") + 1
		}

		if d.IsDir() {
			if depth >= maxDepth {
				return fs.SkipDir
			}

			return nil
		}

		if d.Name() == name {
			fn(path)
		}

		return nil
	})
	if err != nil {
		return ErrWalk.Wrap(err).With(slog.String("root", root))
	}

	return nil
}

// LoadUnit evaluates the spec and defines files of u into one context and
// assembles the package they describe.
//
// The spec file's VER and REL are renamed to PKGVER and PKGREL before the
// defines file is evaluated.
func LoadUnit(ctx context.Context, u Unit, opts ...lang.Option) (*Package, error) {
	spec, err := os.ReadFile(u.Spec)
	if err != nil {
		return nil, ErrReadUnit.Wrap(err).With(slog.String("path", u.Spec))
	}

	defines, err := os.ReadFile(u.Defines)
	if err != nil {
		return nil, ErrReadUnit.Wrap(err).With(slog.String("path", u.Defines))
	}

	vars := lang.Context{}

	if err := lang.Parse(ctx, string(spec), vars, opts...); err != nil {
		return nil, ErrParseUnit.Wrap(err).With(slog.String("path", u.Spec))
	}

	vars.Rename("VER", "PKGVER")
	vars.Rename("REL", "PKGREL")

	if err := lang.Parse(ctx, string(defines), vars, opts...); err != nil {
		return nil, ErrParseUnit.Wrap(err).With(slog.String("path", u.Defines))
	}

	pkg, err := NewPackage(vars, u.Spec)
	if err != nil {
		return nil, ErrPackage.Wrap(err).With(slog.String("path", u.Spec))
	}

	pkg.Digest = Digest(spec, defines)

	return pkg, nil
}

// Digest returns the hex BLAKE3 hash identifying the contents of a unit.
func Digest(spec, defines []byte) string {
	h := blake3.New()
	_, _ = h.Write(spec)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(defines)

	return hex.EncodeToString(h.Sum(nil))
}

// Len returns the number of packages.
func (t *Tree) Len() int { return len(t.packages) }

// Package returns the package with the given name.
func (t *Tree) Package(name string) (*Package, bool) {
	p, ok := t.packages[name]

	return p, ok
}

// Names returns the package names in sorted order.
func (t *Tree) Names() []string {
	return slices.Sorted(maps.Keys(t.packages))
}

// Packages returns the packages sorted by name.
func (t *Tree) Packages() []*Package {
	names := t.Names()
	pkgs := make([]*Package, len(names))

	for i, name := range names {
		pkgs[i] = t.packages[name]
	}

	return pkgs
}

// Failures returns the units that could not be loaded.
func (t *Tree) Failures() []Failure { return t.failures }
