package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

// testTree writes a small package tree: curl depends on zlib and on libssh,
// which no package provides, and a and b depend on each other.
func testTree(t *testing.T) string {
	t.Helper()

	unit := func(dir, defines string) map[string]string {
		return map[string]string{
			dir + "/spec":              "VER=1.0\n",
			dir + "/autobuild/defines": defines + "PKGDES=test\n",
		}
	}

	files := map[string]string{}
	for _, u := range []map[string]string{
		unit("app-web/curl", "PKGNAME=curl\nPKGSEC=net\nPKGDEP=\"zlib libssh\"\n"),
		unit("core-libs/zlib", "PKGNAME=zlib\nPKGSEC=libs\n"),
		unit("app-misc/a", "PKGNAME=a\nPKGSEC=misc\nPKGDEP=b\n"),
		unit("app-misc/b", "PKGNAME=b\nPKGSEC=misc\nPKGDEP=a\n"),
	} {
		for k, v := range u {
			files[k] = v
		}
	}

	return writeFiles(t, files)
}

func TestTree_Run(t *testing.T) {
	root := testTree(t)

	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{"all", "", []string{"a", "b", "curl", "zlib"}},
		{"category", `category == "core"`, []string{"zlib"}},
		{"deps", `"zlib" in deps`, []string{"curl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout, _ := testStreams(t, "")

			c := Tree{Filter: tt.filter, Names: true, Packages: TreeFlags{Root: root}}
			if err := c.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got := strings.Fields(stdout.String()); !slices.Equal(got, tt.want) {
				t.Errorf("Run() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("bad filter", func(t *testing.T) {
		ctx, _, _ := testStreams(t, "")

		c := Tree{Filter: "category ==", Packages: TreeFlags{Root: root}}
		if err := c.Run(ctx); err == nil {
			t.Error("Run() error = nil, want a filter error")
		}
	})
}

func TestCycles_Run(t *testing.T) {
	ctx, stdout, _ := testStreams(t, "")

	c := Cycles{
		Format:   FormatJSON,
		Graph:    GraphFlags{Field: "PKGDEP"},
		Packages: TreeFlags{Root: testTree(t)},
	}
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var cycles [][]string
	if err := json.Unmarshal(stdout.Bytes(), &cycles); err != nil {
		t.Fatal(err)
	}

	if len(cycles) != 1 || !slices.Equal(slices.Sorted(slices.Values(cycles[0])), []string{"a", "b"}) {
		t.Errorf("Run() = %v, want one cycle of a and b", cycles)
	}
}

func TestDeps_Run(t *testing.T) {
	root := testTree(t)

	ctx, stdout, _ := testStreams(t, "")

	d := Deps{
		Format:   FormatJSON,
		Names:    []string{"curl"},
		Graph:    GraphFlags{Field: "PKGDEP"},
		Packages: TreeFlags{Root: root},
	}
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got Closure
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(got.Packages, []string{"zlib", "libssh"}) || !slices.Equal(got.Missing, []string{"libssh"}) {
		t.Errorf("Run() = %+v", got)
	}

	ctx, _, _ = testStreams(t, "")

	d.Names = []string{"nope"}
	if err := d.Run(ctx); !errors.Is(err, ErrUnknownPackage) {
		t.Errorf("Run(nope) error = %v, want %v", err, ErrUnknownPackage)
	}
}

func TestDump_Run(t *testing.T) {
	root := testTree(t)

	if err := os.WriteFile(filepath.Join(root, "app-misc", "b", "spec"), []byte("VER=$(date)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "dump.json.zst")

	ctx, stdout, stderr := testStreams(t, "")

	d := Dump{Output: out, Zstd: true, Errors: true, Packages: TreeFlags{Root: root}}
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stdout.Len() != 0 {
		t.Errorf("Run() wrote %q to stdout with --output", stdout)
	}

	if !strings.Contains(stderr.String(), "Total: 4, Errors: 1 (25%)") {
		t.Errorf("summary = %q", stderr)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]map[string]string
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&got); err != nil {
		t.Fatal(err)
	}

	if len(got) != 3 || got["app-web/curl/spec"]["VER"] != "1.0" {
		t.Errorf("dump = %v", got)
	}
}
