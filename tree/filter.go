package tree

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter selects packages with a boolean expr-lang expression.
//
// The expression sees these variables:
//
//	name, version, release, epoch, category, section, directory,
//	pkgsec, description, spec, digest  package fields
//	failarch                            FAIL_ARCH, normalized to "(a|b)"
//	deps, builddeps                     default dependency names
//	vars                                every variable of the unit
//
// For example: category == "app" && "glibc" in deps.
type Filter struct {
	program *vm.Program
	source  string
}

// NewFilter compiles source into a Filter.
func NewFilter(source string) (*Filter, error) {
	program, err := expr.Compile(source, expr.Env(filterEnv(&Package{})), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.Wrap(err).With(slog.String("source", source))
	}

	return &Filter{program: program, source: source}, nil
}

func (f *Filter) String() string { return f.source }

// Match reports whether p satisfies the filter.
func (f *Filter) Match(p *Package) (bool, error) {
	out, err := expr.Run(f.program, filterEnv(p))
	if err != nil {
		return false, ErrFilter.Wrap(err).
			With(slog.String("source", f.source), slog.String("package", p.Name))
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Select returns the packages of t matching f, sorted by name. A nil filter
// matches every package.
func (t *Tree) Select(f *Filter) ([]*Package, error) {
	all := t.Packages()
	if f == nil {
		return all, nil
	}

	var sel []*Package

	for _, p := range all {
		ok, err := f.Match(p)
		if err != nil {
			return nil, err
		}

		if ok {
			sel = append(sel, p)
		}
	}

	return sel, nil
}

func filterEnv(p *Package) map[string]any {
	vars := map[string]string(p.Vars)
	if vars == nil {
		vars = map[string]string{}
	}

	return map[string]any{
		"name":        p.Name,
		"version":     p.Version,
		"release":     p.Release,
		"epoch":       int(p.Epoch),
		"category":    p.Category,
		"section":     p.Section,
		"directory":   p.Directory,
		"pkgsec":      p.PkgSection,
		"description": p.Description,
		"spec":        p.SpecPath,
		"digest":      p.Digest,
		"failarch":    p.FailArch.String(),
		"deps":        p.Dependencies.Names(DefaultArch),
		"builddeps":   p.BuildDependencies.Names(DefaultArch),
		"vars":        vars,
	}
}
