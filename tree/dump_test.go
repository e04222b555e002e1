package tree

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/abmeta/lang"
)

func TestDumpFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app-admin/acbs/spec":                acbsSpec,
		"app-admin/acbs/autobuild/defines":   "PKGNAME=acbs\nPATCHDIR=\"$SRCDIR/patches\"\n",
		"core-libs/broken/spec":              "VER=$(uname -r)\n",
		"core-libs/broken/autobuild/defines": "PKGNAME=broken\n",
	})

	tests := []struct {
		name     string
		file     string
		seed     bool
		wantVars []string
		wantFail int
	}{
		{"spec", specName, false, []string{"app-admin/acbs/spec"}, 1},
		{"defines seeded", definesName, true, []string{
			"app-admin/acbs/autobuild/defines",
			"core-libs/broken/autobuild/defines",
		}, 0},
		{"defines bare", definesName, false, []string{"core-libs/broken/autobuild/defines"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DumpFiles(context.Background(), root, tt.file, tt.seed)
			if err != nil {
				t.Fatalf("DumpFiles() error = %v", err)
			}

			if d.Total != 2 {
				t.Errorf("Total = %d, want 2", d.Total)
			}

			if len(d.Failures) != tt.wantFail {
				t.Errorf("len(Failures) = %d, want %d", len(d.Failures), tt.wantFail)
			}

			if got, want := d.Percent(), tt.wantFail*100/2; got != want {
				t.Errorf("Percent() = %d, want %d", got, want)
			}

			if len(d.Vars) != len(tt.wantVars) {
				t.Fatalf("Vars = %v, want keys %v", d.Vars, tt.wantVars)
			}

			for _, key := range tt.wantVars {
				if _, ok := d.Vars[key]; !ok {
					t.Errorf("Vars missing %q", key)
				}
			}

			for _, f := range d.Failures {
				if !errors.Is(f.Err, ErrParseUnit) {
					t.Errorf("failure %s: error = %v, want %v", f.Path, f.Err, ErrParseUnit)
				}
			}
		})
	}
}

func TestDumpFiles_RemovesPlaceholders(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app-admin/acbs/autobuild/defines": "PKGNAME=acbs\nPATCHDIR=\"$SRCDIR/patches\"\n",
	})

	d, err := DumpFiles(context.Background(), root, definesName, true)
	if err != nil {
		t.Fatalf("DumpFiles() error = %v", err)
	}

	vars := d.Vars["app-admin/acbs/autobuild/defines"]

	want := lang.Context{"PKGNAME": "acbs", "PATCHDIR": "/patches"}
	if len(vars) != len(want) {
		t.Fatalf("vars = %v, want %v", vars, want)
	}

	for k, v := range want {
		if vars[k] != v {
			t.Errorf("vars[%s] = %q, want %q", k, vars[k], v)
		}
	}
}

func TestDump_PercentEmpty(t *testing.T) {
	if got := (&Dump{}).Percent(); got != 0 {
		t.Errorf("Percent() = %d, want 0", got)
	}
}
