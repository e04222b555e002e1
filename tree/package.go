package tree

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ardnew/abmeta/lang"
)

// Package is the record assembled from one package unit.
type Package struct {
	FailArch *FailArch `json:"fail_arch,omitempty" yaml:"fail_arch,omitempty"`

	Name        string `json:"name"        yaml:"name"`
	Version     string `json:"version"     yaml:"version"`
	Release     string `json:"release"     yaml:"release"`
	Category    string `json:"category"    yaml:"category"`
	Section     string `json:"section"     yaml:"section"`
	Directory   string `json:"directory"   yaml:"directory"`
	PkgSection  string `json:"pkg_section" yaml:"pkg_section"`
	Description string `json:"description" yaml:"description"`
	SpecPath    string `json:"spec_path"   yaml:"spec_path"`
	Digest      string `json:"digest"      yaml:"digest"`

	Dependencies      Dependencies `json:"dependencies"        yaml:"dependencies"`
	BuildDependencies Dependencies `json:"build_dependencies"  yaml:"build_dependencies"`
	Suggests          Dependencies `json:"package_suggests"    yaml:"package_suggests"`
	Provides          Dependencies `json:"package_provides"    yaml:"package_provides"`
	Recommends        Dependencies `json:"package_recommends"  yaml:"package_recommends"`
	Replaces          Dependencies `json:"package_replaces"    yaml:"package_replaces"`
	Breaks            Dependencies `json:"package_breaks"      yaml:"package_breaks"`
	Conflicts         Dependencies `json:"package_conflicts"   yaml:"package_conflicts"`

	// Vars holds every variable of the unit.
	Vars lang.Context `json:"-" yaml:"-"`

	Epoch uint64 `json:"epoch" yaml:"epoch"`
}

const nameField = "PKGNAME"

var mandatoryFields = []string{"PKGVER", "PKGDES", "PKGSEC"}

// categories are the tree directory prefixes that name a package category.
var categories = []string{"app-", "core-", "desktop-", "lang-", "meta-", "runtime-"}

// NewPackage assembles a Package from the variables of a unit whose spec
// file is at specPath.
func NewPackage(vars lang.Context, specPath string) (*Package, error) {
	name, ok := vars[nameField]
	if !ok {
		return nil, &PackageError{Package: "Unknown", Field: nameField, Kind: MissingField}
	}

	for _, f := range mandatoryFields {
		if _, ok := vars[f]; !ok {
			return nil, &PackageError{Package: name, Field: f, Kind: MissingField}
		}
	}

	pkg := &Package{
		Name:        name,
		Version:     vars["PKGVER"],
		Release:     "0",
		PkgSection:  vars["PKGSEC"],
		Description: vars["PKGDES"],
		SpecPath:    specPath,
		Vars:        vars,
	}

	pkg.Category, pkg.Section = categorize(specPath)

	if !IsSection(pkg.PkgSection) {
		return nil, &PackageError{Package: name, Field: "PKGSEC", Kind: FieldSyntaxError}
	}

	if s, ok := vars["PKGEPOCH"]; ok {
		epoch, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, &PackageError{
				Package: name, Field: "PKGEPOCH", Type: "unsigned int", Kind: FieldTypeError,
			}
		}

		pkg.Epoch = epoch
	}

	if rel, ok := vars["PKGREL"]; ok {
		pkg.Release = rel
	}

	if s, ok := vars["FAIL_ARCH"]; ok {
		if pkg.FailArch, ok = ParseFailArch(s); !ok {
			return nil, &PackageError{Package: name, Field: "FAIL_ARCH", Kind: FieldSyntaxError}
		}
	}

	dir := filepath.Base(filepath.Dir(specPath))
	if dir == "." || dir == string(filepath.Separator) {
		return nil, &PackageError{Package: name, Field: "DIRECTORY", Kind: FieldSyntaxError}
	}

	pkg.Directory = dir

	for _, field := range DependencyFields {
		*pkg.Field(field) = archDependencies(field, vars)
	}

	return pkg, nil
}

// categorize derives category and section from the tree directory in path,
// so ".../app-admin/acbs/spec" gives "app" and "admin".
func categorize(path string) (category, section string) {
	path = filepath.ToSlash(path)

	for _, prefix := range categories {
		at := strings.Index(path, prefix)
		if at < 0 {
			continue
		}

		end := strings.IndexByte(path[at:], '/')
		if end < 0 {
			continue
		}

		section = path[at+len(prefix) : at+end]
		category = strings.TrimSuffix(prefix, "-")
	}

	return category, section
}

// Field returns the dependency field with the given variable name, or nil.
func (p *Package) Field(name string) *Dependencies {
	switch name {
	case FieldDepends:
		return &p.Dependencies
	case FieldBuildDepends:
		return &p.BuildDependencies
	case FieldSuggests:
		return &p.Suggests
	case FieldProvides:
		return &p.Provides
	case FieldRecommends:
		return &p.Recommends
	case FieldReplaces:
		return &p.Replaces
	case FieldBreaks:
		return &p.Breaks
	case FieldConflicts:
		return &p.Conflicts
	default:
		return nil
	}
}

// FullVersion formats the version as "[EPOCH:]VERSION[-RELEASE]", omitting
// a zero epoch and release.
func (p *Package) FullVersion() string {
	var sb strings.Builder

	if p.Epoch > 0 {
		sb.WriteString(strconv.FormatUint(p.Epoch, 10) + ":")
	}

	sb.WriteString(p.Version)

	if p.Release != "" && p.Release != "0" {
		sb.WriteString("-" + p.Release)
	}

	return sb.String()
}
