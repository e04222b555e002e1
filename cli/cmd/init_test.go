package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/abmeta/lang"
)

type initTestCLI struct {
	LogLevel  string   `default:"info"`
	Pretty    bool     `default:"true"`
	Tree      string   `default:""`
	Exclude   []string `default:"a,b"`
	PprofMode string   `default:"cpu"`
	Secret    string   `default:"x"    hidden:""`
}

func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initTestCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

func TestInit_Run(t *testing.T) {
	tests := []struct {
		name     string
		force    bool
		existing bool
		wantErr  error
	}{
		{name: "create"},
		{name: "overwrite with force", force: true, existing: true},
		{name: "exists without force", existing: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config")

			if tt.existing {
				if err := os.WriteFile(confPath, []byte("OLD=1\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			ctx := initContext(t, confPath, "--log-level=debug")

			err := (&Init{Force: tt.force}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr != nil {
				return
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			vars := lang.Context{}
			if err := lang.Parse(ctx, string(data), vars); err != nil {
				t.Fatalf("generated config does not evaluate: %v\n%s", err, data)
			}

			want := lang.Context{"LOG_LEVEL": "debug", "PRETTY": "true", "EXCLUDE": "a,b"}
			if len(vars) != len(want) {
				t.Errorf("config = %v, want %v", vars, want)
			}

			for k, v := range want {
				if vars[k] != v {
					t.Errorf("config[%s] = %q, want %q", k, vars[k], v)
				}
			}
		})
	}
}

func TestVariableName(t *testing.T) {
	tests := map[string]string{
		"log-level": "LOG_LEVEL",
		"tree":      "TREE",
		"no-color":  "NO_COLOR",
	}

	for flag, want := range tests {
		if got := VariableName(flag); got != want {
			t.Errorf("VariableName(%q) = %q, want %q", flag, got, want)
		}
	}
}
