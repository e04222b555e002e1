package lang

import "testing"

func TestTranslateGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		glob string
		want string
	}{
		{"1234", "1234"},
		{"1234*", "1234.*"},
		{"[!x?*]", "[^x?*]"},
		{"[!abcd+]?", "[^abcd+]?"},
		{"[abcd+][!123]*", "[abcd+][^123]*"},
		{"[abcd+]?[!123]*", "[abcd+]?[^123]*"},
		{"[a][b]", "[a][b]"},
		{"[!a][!b]", "[^a][^b]"},
		{"[abc]]", `[abc\]]`},
		{"[abc]][0[]]", `[abc\]][0\[\]]`},
		{"[abc", `\[abc`},
		{"[abc[p", `\[abc\[p`},
		{"[abc[", `\[abc\[`},
		{"a.b+c", `a\.b\+c`},
		{"x?", "x.?"},
		{`\*\!`, `\*\!`},
		{"日本*", "日本.*"},
	}

	for _, tt := range tests {
		t.Run(tt.glob, func(t *testing.T) {
			t.Parallel()

			got, err := TranslateGlob(tt.glob)
			if err != nil {
				t.Fatalf("TranslateGlob(%q) error: %v", tt.glob, err)
			}

			if got != tt.want {
				t.Errorf("TranslateGlob(%q) = %q, want %q", tt.glob, got, tt.want)
			}
		})
	}
}

func TestTranslateGlob_Lazy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		glob string
		want string
	}{
		{"*.", `.*?\.`},
		{"a*b*", "a.*?b.*?"},
		{"a?", "a.?"},
		{"[ab]*", "[ab]*"},
		{"[ab]?x", "[ab]?x"},
	}

	for _, tt := range tests {
		got, err := translateGlob(tt.glob, true)
		if err != nil {
			t.Fatalf("translateGlob(%q, true) error: %v", tt.glob, err)
		}

		if got != tt.want {
			t.Errorf("translateGlob(%q, true) = %q, want %q", tt.glob, got, tt.want)
		}
	}
}

func TestTranslateGlob_Errors(t *testing.T) {
	t.Parallel()

	for _, glob := range []string{"!a", "_!", "[!x!]", `abc\`} {
		t.Run(glob, func(t *testing.T) {
			t.Parallel()

			_, err := TranslateGlob(glob)
			if err == nil {
				t.Fatalf("TranslateGlob(%q) succeeded, want error", glob)
			}

			if kind, _ := KindOf(err); kind != KindGlob {
				t.Errorf("kind = %v, want %v", kind, KindGlob)
			}
		})
	}
}
