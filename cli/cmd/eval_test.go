package cmd

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/abmeta/pkg"
)

func TestEval_Run(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"spec":    "VER=1.2.3\nSRCS=\"tbl::https://example.org/x-$VER.tar.xz\"\n",
		"defines": "PKGNAME=x\nMAJOR=${VER%%.*}\n",
		"bad":     "A=$UNDEFINED\n",
	})

	spec := filepath.Join(root, "spec")
	defines := filepath.Join(root, "defines")

	tests := []struct {
		name   string
		eval   Eval
		stdin  string
		want   string
		format string
	}{
		{
			name: "shared context",
			eval: Eval{Format: FormatShell, Files: []string{spec, defines}},
			want: "MAJOR='1'\nPKGNAME='x'\n" +
				"SRCS='tbl::https://example.org/x-1.2.3.tar.xz'\nVER='1.2.3'\n",
		},
		{
			name:  "stdin",
			eval:  Eval{Format: FormatShell, Files: []string{spec, "-"}},
			stdin: "V=${VER#1.}\n",
			want:  "SRCS='tbl::https://example.org/x-1.2.3.tar.xz'\nV='2.3'\nVER='1.2.3'\n",
		},
		{
			name:  "yaml",
			eval:  Eval{Format: FormatYAML, Files: []string{"-"}},
			stdin: "A=1\n",
			want:  "A: \"1\"\n",
		},
		{
			name:  "known variables",
			eval:  Eval{Format: FormatShell, Files: []string{"-"}, Known: true},
			stdin: "P=\"$PKGDIR/usr\"\n",
			want:  "P='/usr'\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout, stderr := testStreams(t, tt.stdin)

			if err := tt.eval.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v\n%s", err, stderr)
			}

			if got := stdout.String(); got != tt.want {
				t.Errorf("Run() output = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("json", func(t *testing.T) {
		ctx, stdout, _ := testStreams(t, "A=1\nB=\"$A 2\"\n")

		if err := (&Eval{Format: FormatJSON, Files: []string{"-"}}).Run(ctx); err != nil {
			t.Fatal(err)
		}

		var got map[string]string
		if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
			t.Fatal(err)
		}

		if got["A"] != "1" || got["B"] != "1 2" || len(got) != 2 {
			t.Errorf("Run() = %v", got)
		}
	})

	t.Run("failure", func(t *testing.T) {
		ctx, stdout, stderr := testStreams(t, "")

		err := (&Eval{Format: FormatJSON, Files: []string{spec, filepath.Join(root, "bad")}}).Run(ctx)
		if !errors.Is(err, pkg.ErrEvaluate) {
			t.Errorf("Run() error = %v, want %v", err, pkg.ErrEvaluate)
		}

		if stdout.Len() != 0 {
			t.Errorf("Run() wrote %q on failure", stdout)
		}

		if !strings.Contains(stderr.String(), "UNDEFINED") {
			t.Errorf("diagnostic = %q, want it to name UNDEFINED", stderr)
		}
	})
}

func TestLint_Run(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"good":   "A=1\n",
		"bad":    "A=$(date)\n",
		"uses_a": "B=$A\n",
	})

	ctx, _, stderr := testStreams(t, "")

	err := (&Lint{Files: []string{
		filepath.Join(root, "good"),
		filepath.Join(root, "bad"),
		filepath.Join(root, "uses_a"),
	}}).Run(ctx)
	if !errors.Is(err, ErrLint) {
		t.Fatalf("Run() error = %v, want %v", err, ErrLint)
	}

	// Each file is evaluated alone, so uses_a fails as well.
	if !strings.Contains(stderr.String(), "bad") || !strings.Contains(stderr.String(), "uses_a") {
		t.Errorf("diagnostics = %q, want both failing files", stderr)
	}

	ctx, _, _ = testStreams(t, "")

	if err := (&Lint{Files: []string{filepath.Join(root, "good")}}).Run(ctx); err != nil {
		t.Errorf("Run(good) error = %v", err)
	}
}
