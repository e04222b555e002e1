package lang

import (
	"context"
	"maps"
	"strings"
	"testing"
)

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", "''"},
		{"plain", "'plain'"},
		{"it's", `'it'\''s'`},
		{"$HOME", "'$HOME'"},
	}

	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestContext_WriteTo(t *testing.T) {
	t.Parallel()

	vars := Context{
		"B":     "it's ${not} expanded",
		"A":     "",
		"MULTI": "line one\nline two",
	}

	var sb strings.Builder

	n, err := vars.WriteTo(&sb)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	if int(n) != sb.Len() {
		t.Errorf("WriteTo() = %d, wrote %d bytes", n, sb.Len())
	}

	if !strings.HasPrefix(sb.String(), "A=''\nB=") {
		t.Errorf("WriteTo() output not sorted:\n%s", sb.String())
	}

	got := Context{}
	if err := Parse(context.Background(), sb.String(), got); err != nil {
		t.Fatalf("Parse(WriteTo()) error = %v", err)
	}

	if !maps.Equal(got, vars) {
		t.Errorf("round trip = %v, want %v", got, vars)
	}
}
