package lang

import (
	"slices"
	"testing"
)

func TestIsKnownVariable(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"SRCDIR", "PKGDIR", "CFLAGS", "ABMK", "PWD"} {
		if !IsKnownVariable(name) {
			t.Errorf("IsKnownVariable(%q) = false", name)
		}
	}

	for _, name := range []string{"PKGNAME", "srcdir", ""} {
		if IsKnownVariable(name) {
			t.Errorf("IsKnownVariable(%q) = true", name)
		}
	}
}

func TestKnownVariables_Sorted(t *testing.T) {
	t.Parallel()

	names := slices.Collect(KnownVariables())
	if !slices.IsSorted(names) {
		t.Error("KnownVariables() is not sorted")
	}

	if len(names) != len(slices.Compact(slices.Clone(names))) {
		t.Error("KnownVariables() has duplicates")
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	vars := Context{"PKGNAME": "x"}
	SeedPlaceholders(vars, Placeholders...)

	for _, name := range Placeholders {
		if v, ok := vars[name]; !ok || v != "" {
			t.Errorf("%s = %q, %v after seeding", name, v, ok)
		}
	}

	RemovePlaceholders(vars, Placeholders...)

	if len(vars) != 1 || vars["PKGNAME"] != "x" {
		t.Errorf("after removal: %v", vars)
	}
}

func TestContext_Rename(t *testing.T) {
	t.Parallel()

	vars := Context{"VER": "1.0"}
	vars.Rename("VER", "PKGVER")
	vars.Rename("REL", "PKGREL")

	if vars["PKGVER"] != "1.0" || len(vars) != 1 {
		t.Errorf("got %v", vars)
	}
}
