package repl

import "testing"

func TestOpenSubstitution(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"none", "A=$B", "", false},
		{"open", "A=${B%%.", "B%%.", true},
		{"closed", "A=${B}", "", false},
		{"nested", "A=${B:-${C#x", "C#x", true},
		{"nested_closed", "A=${B:-${C}", "B:-${C}", true},
		{"escaped", "A=\\${B", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := openSubstitution(tt.input, len(tt.input))
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("openSubstitution(%q) = (%q, %v), want (%q, %v)",
					tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLookupOperator(t *testing.T) {
	tests := []struct {
		body   string
		want   string
		wantOK bool
	}{
		{"PKGVER%%.*", "%%", true},
		{"PKGVER%.", "%", true},
		{"X:-def", ":-", true},
		{"X:2:3", ":", true},
		{"X//a/b", "//", true},
		{"X^^", "^^", true},
		{"#X", "#", true},
		{"X", "", false},
		{"", "", false},
		{"X@", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got, ok := lookupOperator(tt.body)
			if got.op != tt.want || ok != tt.wantOK {
				t.Errorf("lookupOperator(%q) = (%q, %v), want (%q, %v)",
					tt.body, got.op, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSubstitutionHint(t *testing.T) {
	if got := substitutionHint("A=${B", 5); got != "" {
		t.Errorf("substitutionHint() = %q, want empty without an operator", got)
	}

	if got := substitutionHint("A=${B:-x", 8); got == "" {
		t.Error("substitutionHint() is empty inside ${B:-")
	}
}
