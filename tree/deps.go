package tree

import (
	"strings"

	"github.com/ardnew/abmeta/lang"
)

// DefaultArch is the key of the dependencies that apply to every
// architecture without a more specific list.
const DefaultArch = "default"

// Dependency fields, in the order they are stored on [Package].
const (
	FieldDepends      = "PKGDEP"
	FieldBuildDepends = "BUILDDEP"
	FieldSuggests     = "PKGSUG"
	FieldProvides     = "PKGPROV"
	FieldRecommends   = "PKGRECOM"
	FieldReplaces     = "PKGREP"
	FieldBreaks       = "PKGBREAK"
	FieldConflicts    = "PKGCONFL"
)

// DependencyFields lists every dependency field name.
var DependencyFields = []string{
	FieldDepends, FieldBuildDepends, FieldSuggests, FieldProvides,
	FieldRecommends, FieldReplaces, FieldBreaks, FieldConflicts,
}

// Dependency is one entry of a dependency field, such as "autogen<=5.18".
type Dependency struct {
	Name    string `json:"name"              yaml:"name"`
	Relop   string `json:"relop,omitempty"   yaml:"relop,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

func (d Dependency) String() string {
	return d.Name + d.Relop + d.Version
}

// Dependencies maps an architecture to its dependency list. The list under
// [DefaultArch] comes from the plain field, FIELD__ARCH variants are stored
// under the lower-cased architecture.
type Dependencies map[string][]Dependency

// For returns the dependencies in effect on arch.
func (d Dependencies) For(arch string) []Dependency {
	if deps, ok := d[strings.ToLower(arch)]; ok && arch != "" {
		return deps
	}

	return d[DefaultArch]
}

// Names returns the names of the dependencies in effect on arch.
func (d Dependencies) Names(arch string) []string {
	deps := d.For(arch)
	names := make([]string, len(deps))

	for i, dep := range deps {
		names[i] = dep.Name
	}

	return names
}

func archDependencies(field string, vars lang.Context) Dependencies {
	deps := Dependencies{DefaultArch: parseDependencies(vars[field])}
	prefix := field + "__"

	for name, value := range vars {
		if arch, ok := strings.CutPrefix(name, prefix); ok {
			deps[strings.ToLower(arch)] = parseDependencies(value)
		}
	}

	return deps
}

func parseDependencies(s string) []Dependency {
	fields := strings.Fields(s)
	deps := make([]Dependency, 0, len(fields))

	for _, f := range fields {
		deps = append(deps, splitRelop(f))
	}

	return deps
}

// relops are tried in order, so two-character operators win.
var relops = []string{"<=", ">=", "==", "<", ">"}

func splitRelop(s string) Dependency {
	for _, op := range relops {
		if v := strings.Split(s, op); len(v) > 1 {
			return Dependency{Name: v[0], Relop: op, Version: v[1]}
		}
	}

	return Dependency{Name: s}
}
