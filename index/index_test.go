package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ardnew/abmeta/tree"
)

func writeUnit(t *testing.T, root, dir, defines string) {
	t.Helper()

	pkgDir := filepath.Join(root, filepath.FromSlash(dir))
	if err := os.MkdirAll(filepath.Join(pkgDir, "autobuild"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(pkgDir, "spec"), []byte("VER=1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(pkgDir, "autobuild", "defines")
	if err := os.WriteFile(path, []byte(defines), 0o644); err != nil {
		t.Fatal(err)
	}
}

func syncTree(t *testing.T, ix *Index, root string) Stats {
	t.Helper()

	tr, err := tree.Load(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	stats, err := ix.Sync(context.Background(), tr)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	return stats
}

func TestIndex_Sync(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	const (
		curlDefines = "PKGNAME=curl\nPKGSEC=net\nPKGDES=curl\nPKGDEP=\"openssl zlib>=1.2\"\nBUILDDEP__ARM64=\"neon\"\n"
		zlibDefines = "PKGNAME=zlib\nPKGSEC=libs\nPKGDES=zlib\n"
	)

	writeUnit(t, root, "app-web/curl", curlDefines)
	writeUnit(t, root, "core-libs/zlib", zlibDefines)

	ix, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	t.Cleanup(func() { _ = ix.Close() })

	if got, want := syncTree(t, ix, root), (Stats{Added: 2}); got != want {
		t.Errorf("first Sync() = %+v, want %+v", got, want)
	}

	if got, want := syncTree(t, ix, root), (Stats{Unchanged: 2}); got != want {
		t.Errorf("second Sync() = %+v, want %+v", got, want)
	}

	curl, err := ix.Package(ctx, "curl")
	if err != nil {
		t.Fatalf("Package(curl) error = %v", err)
	}

	if curl.Version != "1.0" || curl.Category != "app" || curl.Section != "web" {
		t.Errorf("curl = %+v", curl)
	}

	if len(curl.Dependencies) != 3 {
		t.Fatalf("len(curl.Dependencies) = %d, want 3: %+v", len(curl.Dependencies), curl.Dependencies)
	}

	dependents, err := ix.Dependents(ctx, tree.FieldDepends, "zlib")
	if err != nil || !slices.Equal(dependents, []string{"curl"}) {
		t.Errorf("Dependents(zlib) = %v, %v, want [curl]", dependents, err)
	}

	writeUnit(t, root, "app-web/curl", curlDefines+"PKGREL=1\n")

	if err := os.RemoveAll(filepath.Join(root, "core-libs")); err != nil {
		t.Fatal(err)
	}

	if got, want := syncTree(t, ix, root), (Stats{Updated: 1, Removed: 1}); got != want {
		t.Errorf("third Sync() = %+v, want %+v", got, want)
	}

	if _, err := ix.Package(ctx, "zlib"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Package(zlib) error = %v, want %v", err, ErrNotFound)
	}

	names, err := ix.Names(ctx)
	if err != nil || !slices.Equal(names, []string{"curl"}) {
		t.Errorf("Names() = %v, %v, want [curl]", names, err)
	}

	curl, err = ix.Package(ctx, "curl")
	if err != nil || curl.Release != "1" || len(curl.Dependencies) != 3 {
		t.Errorf("updated curl = %+v, %v", curl, err)
	}

	writeUnit(t, root, "core-libs/zlib", zlibDefines)

	if got, want := syncTree(t, ix, root), (Stats{Updated: 1, Unchanged: 1}); got != want {
		t.Errorf("fourth Sync() = %+v, want %+v", got, want)
	}

	if _, err := ix.Package(ctx, "zlib"); err != nil {
		t.Errorf("restored Package(zlib) error = %v", err)
	}
}

func TestDependencies(t *testing.T) {
	p := &tree.Package{
		Dependencies: tree.Dependencies{
			tree.DefaultArch: {{Name: "a"}, {Name: "b", Relop: ">=", Version: "2"}},
			"arm64":          {{Name: "c"}},
		},
		Breaks: tree.Dependencies{tree.DefaultArch: {{Name: "old"}}},
	}

	got := dependencies(7, p)

	want := []Dependency{
		{PackageID: 7, Field: "PKGDEP", Arch: "arm64", Name: "c"},
		{PackageID: 7, Field: "PKGDEP", Arch: "default", Name: "a"},
		{PackageID: 7, Field: "PKGDEP", Arch: "default", Name: "b", Relop: ">=", Version: "2"},
		{PackageID: 7, Field: "PKGBREAK", Arch: "default", Name: "old"},
	}

	if !slices.Equal(got, want) {
		t.Errorf("dependencies() = %+v, want %+v", got, want)
	}
}
