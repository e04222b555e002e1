package tree

import (
	"errors"
	"testing"
)

func TestFilter(t *testing.T) {
	vars := baseVars()
	vars["PKGDEP"] = "glibc python-3"
	vars["FAIL_ARCH"] = "!amd64"

	pkg, err := NewPackage(vars, "/tree/app-admin/acbs/spec")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		source string
		want   bool
	}{
		{`name == "acbs"`, true},
		{`category == "app" && section == "admin"`, true},
		{`"glibc" in deps`, true},
		{`"glibc" in builddeps`, false},
		{`pkgsec == "libs"`, false},
		{`vars["PKGDES"] contains "CI"`, true},
		{`epoch == 0 && release == "0"`, true},
		{`failarch == "!(amd64)"`, true},
		{`len(deps) > 2`, false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			f, err := NewFilter(tt.source)
			if err != nil {
				t.Fatalf("NewFilter(%q) error = %v", tt.source, err)
			}

			got, err := f.Match(pkg)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewFilter_Errors(t *testing.T) {
	for _, source := range []string{`name ==`, `unknown == 1`, `name`} {
		t.Run(source, func(t *testing.T) {
			if _, err := NewFilter(source); !errors.Is(err, ErrFilter) {
				t.Errorf("NewFilter(%q) error = %v, want %v", source, err, ErrFilter)
			}
		})
	}
}

func TestTree_Select(t *testing.T) {
	tr := &Tree{packages: map[string]*Package{}}

	for _, name := range []string{"zlib", "bash", "acbs"} {
		vars := baseVars()
		vars["PKGNAME"] = name

		pkg, err := NewPackage(vars, "/tree/core-libs/"+name+"/spec")
		if err != nil {
			t.Fatal(err)
		}

		tr.packages[name] = pkg
	}

	all, err := tr.Select(nil)
	if err != nil || len(all) != 3 || all[0].Name != "acbs" {
		t.Fatalf("Select(nil) = %v, %v, want 3 packages sorted by name", all, err)
	}

	f, err := NewFilter(`name startsWith "b" || name == "zlib"`)
	if err != nil {
		t.Fatal(err)
	}

	sel, err := tr.Select(f)
	if err != nil {
		t.Fatal(err)
	}

	if len(sel) != 2 || sel[0].Name != "bash" || sel[1].Name != "zlib" {
		t.Errorf("Select() = %v, want [bash zlib]", sel)
	}
}
