package tree

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/abmeta/lang"
)

func baseVars() lang.Context {
	return lang.Context{
		"PKGNAME": "acbs",
		"PKGVER":  "20240810",
		"PKGDES":  "Autobuild CI Build System",
		"PKGSEC":  "devel",
	}
}

func TestNewPackage(t *testing.T) {
	vars := baseVars()
	vars["PKGEPOCH"] = "2"
	vars["PKGREL"] = "3"
	vars["PKGDEP"] = "autobuild4  file python-3>=3.10"
	vars["PKGDEP__AMD64"] = "nasm"
	vars["FAIL_ARCH"] = "(ppc64|powerpc)"

	pkg, err := NewPackage(vars, "/tree/app-admin/acbs/spec")
	if err != nil {
		t.Fatalf("NewPackage() error = %v", err)
	}

	checks := []struct {
		name, got, want string
	}{
		{"Name", pkg.Name, "acbs"},
		{"Version", pkg.Version, "20240810"},
		{"Release", pkg.Release, "3"},
		{"Category", pkg.Category, "app"},
		{"Section", pkg.Section, "admin"},
		{"Directory", pkg.Directory, "acbs"},
		{"PkgSection", pkg.PkgSection, "devel"},
		{"Description", pkg.Description, "Autobuild CI Build System"},
		{"FullVersion", pkg.FullVersion(), "2:20240810-3"},
		{"FailArch", pkg.FailArch.String(), "(ppc64|powerpc)"},
	}

	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}

	if pkg.Epoch != 2 {
		t.Errorf("Epoch = %d, want 2", pkg.Epoch)
	}

	want := []Dependency{
		{Name: "autobuild4"},
		{Name: "file"},
		{Name: "python-3", Relop: ">=", Version: "3.10"},
	}
	if got := pkg.Dependencies.For("riscv64"); !slices.Equal(got, want) {
		t.Errorf("Dependencies.For(riscv64) = %v, want %v", got, want)
	}

	if got := pkg.Dependencies.Names("AMD64"); !slices.Equal(got, []string{"nasm"}) {
		t.Errorf("Dependencies.Names(AMD64) = %v, want [nasm]", got)
	}

	if got := pkg.BuildDependencies.For(DefaultArch); len(got) != 0 {
		t.Errorf("BuildDependencies = %v, want empty", got)
	}
}

func TestNewPackage_Defaults(t *testing.T) {
	pkg, err := NewPackage(baseVars(), "/tree/core-libs/acbs/spec")
	if err != nil {
		t.Fatalf("NewPackage() error = %v", err)
	}

	if pkg.Release != "0" {
		t.Errorf("Release = %q, want %q", pkg.Release, "0")
	}

	if pkg.Epoch != 0 {
		t.Errorf("Epoch = %d, want 0", pkg.Epoch)
	}

	if pkg.FailArch != nil {
		t.Errorf("FailArch = %v, want nil", pkg.FailArch)
	}

	if got := pkg.FullVersion(); got != "20240810" {
		t.Errorf("FullVersion() = %q, want %q", got, "20240810")
	}
}

func TestNewPackage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]string
		unset   string
		path    string
		pkg     string
		field   string
		kind    FieldErrorKind
		message string
	}{
		{
			name:    "missing name",
			unset:   "PKGNAME",
			pkg:     "Unknown",
			field:   "PKGNAME",
			kind:    MissingField,
			message: "Field PKGNAME missing.",
		},
		{
			name:    "missing version",
			unset:   "PKGVER",
			pkg:     "acbs",
			field:   "PKGVER",
			kind:    MissingField,
			message: "Field PKGVER missing.",
		},
		{
			name:    "missing section",
			unset:   "PKGSEC",
			pkg:     "acbs",
			field:   "PKGSEC",
			kind:    MissingField,
			message: "Field PKGSEC missing.",
		},
		{
			name:    "unknown section",
			set:     map[string]string{"PKGSEC": "nope"},
			pkg:     "acbs",
			field:   "PKGSEC",
			kind:    FieldSyntaxError,
			message: "Field PKGSEC has invalid syntax.",
		},
		{
			name:    "epoch",
			set:     map[string]string{"PKGEPOCH": "-1"},
			pkg:     "acbs",
			field:   "PKGEPOCH",
			kind:    FieldTypeError,
			message: "Field PKGEPOCH cannot be parsed as unsigned int.",
		},
		{
			name:  "fail arch",
			set:   map[string]string{"FAIL_ARCH": "ppc64|amd64"},
			pkg:   "acbs",
			field: "FAIL_ARCH",
			kind:  FieldSyntaxError,
		},
		{
			name:  "directory",
			path:  "spec",
			pkg:   "acbs",
			field: "DIRECTORY",
			kind:  FieldSyntaxError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := baseVars()
			for k, v := range tt.set {
				vars[k] = v
			}

			delete(vars, tt.unset)

			path := tt.path
			if path == "" {
				path = "/tree/app-admin/acbs/spec"
			}

			_, err := NewPackage(vars, path)

			var perr *PackageError
			if !errors.As(err, &perr) {
				t.Fatalf("NewPackage() error = %v, want *PackageError", err)
			}

			if perr.Package != tt.pkg || perr.Field != tt.field || perr.Kind != tt.kind {
				t.Errorf("got %+v, want package %q field %q kind %d",
					perr, tt.pkg, tt.field, tt.kind)
			}

			if tt.message != "" && perr.Error() != tt.message {
				t.Errorf("Error() = %q, want %q", perr.Error(), tt.message)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		path, category, section string
	}{
		{"/tree/app-admin/acbs/spec", "app", "admin"},
		{"/tree/runtime-common/tzdata/spec", "runtime", "common"},
		{"/tree/extra-admin/packagekit/spec", "", ""},
		{"/tree/lang-python/app-foo/spec", "lang", "python"},
		{"app-admin", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			category, section := categorize(tt.path)
			if category != tt.category || section != tt.section {
				t.Errorf("categorize(%q) = (%q, %q), want (%q, %q)",
					tt.path, category, section, tt.category, tt.section)
			}
		})
	}
}

func TestIsSection(t *testing.T) {
	tests := []struct {
		section string
		want    bool
	}{
		{"devel", true},
		{"libs", true},
		{"non-free/libs", true},
		{"contrib/games", true},
		{"nope", false},
		{"main/libs", false},
		{"non-free/", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSection(tt.section); got != tt.want {
			t.Errorf("IsSection(%q) = %v, want %v", tt.section, got, tt.want)
		}
	}
}
