package tree

import (
	"encoding/json"
	"io"
	"path/filepath"
)

// SourceInfo is the JSON form of a package's .SRCINFO, holding the variables
// of a unit that has already been evaluated elsewhere.
type SourceInfo struct {
	Name        *string `json:"PKGNAME"`
	Description *string `json:"PKGDES"`
	Version     *string `json:"PKGVER"`
	Release     *string `json:"PKGREL"`
	Section     *string `json:"PKGSEC"`
	Epoch       *uint64 `json:"PKGEPOCH"`
	FailArch    *string `json:"FAIL_ARCH"`

	Depends      string `json:"PKGDEP"`
	BuildDepends string `json:"BUILDDEP"`
	Suggests     string `json:"PKGSUG"`
	Provides     string `json:"PKGPROV"`
	Recommends   string `json:"PKGRECOM"`
	Replaces     string `json:"PKGREP"`
	Breaks       string `json:"PKGBREAK"`
	Conflicts    string `json:"PKGCONFL"`
}

// FromSourceInfo decodes a JSON .SRCINFO from r and assembles the Package of
// the unit whose spec file is at specPath.
//
// Dependency fields carry no architecture variants, so every list is stored
// under [DefaultArch]. A FAIL_ARCH that does not parse is dropped.
func FromSourceInfo(r io.Reader, specPath string) (*Package, error) {
	var si SourceInfo

	if err := json.NewDecoder(r).Decode(&si); err != nil {
		return nil, ErrReadUnit.Wrap(err)
	}

	if si.Name == nil {
		return nil, &PackageError{Package: "Unknown", Field: nameField, Kind: MissingField}
	}

	name := *si.Name

	required := []struct {
		field string
		value *string
	}{
		{"PKGDES", si.Description},
		{"PKGVER", si.Version},
		{"PKGREL", si.Release},
		{"PKGSEC", si.Section},
	}

	for _, req := range required {
		if req.value == nil {
			return nil, &PackageError{Package: name, Field: req.field, Kind: MissingField}
		}
	}

	pkg := &Package{
		Name:        name,
		Version:     *si.Version,
		Release:     *si.Release,
		PkgSection:  *si.Section,
		Description: *si.Description,
		SpecPath:    specPath,
	}

	pkg.Category, pkg.Section = categorize(specPath)

	if si.Epoch != nil {
		pkg.Epoch = *si.Epoch
	}

	if si.FailArch != nil {
		pkg.FailArch, _ = ParseFailArch(*si.FailArch)
	}

	dir := filepath.Base(filepath.Dir(specPath))
	if dir == "." || dir == string(filepath.Separator) {
		return nil, &PackageError{Package: name, Field: "DIRECTORY", Kind: FieldSyntaxError}
	}

	pkg.Directory = dir

	for field, value := range map[string]string{
		FieldDepends:      si.Depends,
		FieldBuildDepends: si.BuildDepends,
		FieldSuggests:     si.Suggests,
		FieldProvides:     si.Provides,
		FieldRecommends:   si.Recommends,
		FieldReplaces:     si.Replaces,
		FieldBreaks:       si.Breaks,
		FieldConflicts:    si.Conflicts,
	} {
		*pkg.Field(field) = Dependencies{DefaultArch: parseDependencies(value)}
	}

	return pkg, nil
}
