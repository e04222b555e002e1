package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ardnew/abmeta/lang"
	"github.com/ardnew/abmeta/pkg"
)

func TestWrite(t *testing.T) {
	vars := lang.Context{"B": "it's", "A": "1"}

	tests := []struct {
		name    string
		format  string
		v       any
		want    string
		wantErr error
	}{
		{"json", FormatJSON, vars, "{\n  \"A\": \"1\",\n  \"B\": \"it's\"\n}\n", nil},
		{"json list", FormatJSON, []string{"a"}, "[\n  \"a\"\n]\n", nil},
		{"yaml list", FormatYAML, []string{"a", "b"}, "- a\n- b\n", nil},
		{"shell", FormatShell, vars, "A='1'\nB='it'\\''s'\n", nil},
		{"shell needs context", FormatShell, []string{"a"}, "", pkg.ErrInvalidFormat},
		{"unknown", "toml", vars, "", pkg.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := write(t.Context(), &buf, tt.format, tt.v)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("write() error = %v, want %v", err, tt.wantErr)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("write() = %q, want %q", got, tt.want)
			}
		})
	}
}
