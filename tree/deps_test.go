package tree

import (
	"slices"
	"testing"

	"github.com/ardnew/abmeta/lang"
)

func TestSplitRelop(t *testing.T) {
	tests := []struct {
		in   string
		want Dependency
	}{
		{"autogen<=5.18.12-1", Dependency{"autogen", "<=", "5.18.12-1"}},
		{"glibc>=2.38", Dependency{"glibc", ">=", "2.38"}},
		{"perl==5.36", Dependency{"perl", "==", "5.36"}},
		{"gcc<14", Dependency{"gcc", "<", "14"}},
		{"llvm>15", Dependency{"llvm", ">", "15"}},
		{"bash", Dependency{Name: "bash"}},
		{"a<=1<=2", Dependency{"a", "<=", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := splitRelop(tt.in); got != tt.want {
				t.Errorf("splitRelop(%q) = %+v, want %+v", tt.in, got, tt.want)
			}

			if tt.want.Relop == "" || tt.in == "a<=1<=2" {
				return
			}

			if got := tt.want.String(); got != tt.in {
				t.Errorf("String() = %q, want %q", got, tt.in)
			}
		})
	}
}

func TestArchDependencies(t *testing.T) {
	vars := lang.Context{
		"PKGDEP":          "a b>=1",
		"PKGDEP__ARM64":   "a",
		"PKGDEP__PPC64":   "",
		"BUILDDEP__AMD64": "nasm",
	}

	deps := archDependencies("PKGDEP", vars)

	if got := len(deps); got != 3 {
		t.Fatalf("len = %d, want 3 (default, arm64, ppc64)", got)
	}

	tests := []struct {
		arch string
		want []string
	}{
		{"", []string{"a", "b"}},
		{"amd64", []string{"a", "b"}},
		{"arm64", []string{"a"}},
		{"ARM64", []string{"a"}},
		{"ppc64", []string{}},
	}

	for _, tt := range tests {
		if got := deps.Names(tt.arch); !slices.Equal(got, tt.want) {
			t.Errorf("Names(%q) = %v, want %v", tt.arch, got, tt.want)
		}
	}
}

func TestFailArch(t *testing.T) {
	ok := []struct {
		in      string
		archs   []string
		exclude bool
	}{
		{"(ppc64|powerpc)", []string{"ppc64", "powerpc"}, false},
		{"(ppc64)", []string{"ppc64"}, false},
		{"ppc64", []string{"ppc64"}, false},
		{"!(amd64|arm64)", []string{"amd64", "arm64"}, true},
		{"!riscv64", []string{"riscv64"}, true},
	}

	for _, tt := range ok {
		t.Run(tt.in, func(t *testing.T) {
			fa, valid := ParseFailArch(tt.in)
			if !valid {
				t.Fatalf("ParseFailArch(%q) rejected", tt.in)
			}

			if !slices.Equal(fa.Archs, tt.archs) || fa.Exclude != tt.exclude {
				t.Errorf("ParseFailArch(%q) = %+v, want archs %v exclude %v",
					tt.in, fa, tt.archs, tt.exclude)
			}
		})
	}

	for _, in := range []string{"ppc64|amd64", "ppc64|(amd64|arm64)", "", "!", "(amd64"} {
		t.Run("bad/"+in, func(t *testing.T) {
			if _, valid := ParseFailArch(in); valid {
				t.Errorf("ParseFailArch(%q) accepted", in)
			}
		})
	}
}

func TestFailArch_Fails(t *testing.T) {
	include, _ := ParseFailArch("(ppc64|powerpc)")
	exclude, _ := ParseFailArch("!(amd64|arm64)")

	tests := []struct {
		fa   *FailArch
		arch string
		want bool
	}{
		{include, "ppc64", true},
		{include, "amd64", false},
		{exclude, "amd64", false},
		{exclude, "riscv64", true},
		{nil, "amd64", false},
	}

	for _, tt := range tests {
		if got := tt.fa.Fails(tt.arch); got != tt.want {
			t.Errorf("%v.Fails(%q) = %v, want %v", tt.fa, tt.arch, got, tt.want)
		}
	}
}
