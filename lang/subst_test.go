package lang

import (
	"context"
	"errors"
	"testing"
)

func TestSubstring(t *testing.T) {
	t.Parallel()

	const origin = "1234567890"

	tests := []struct {
		cmd  string
		want string
	}{
		{"0:1", "1"},
		{"(0):1", "1"},
		{"(-1):(1)", "0"},
		{":7", "1234567"},
		{"0", "1234567890"},
		{"(-1):(-1)", ""},
		{"(0):(-1)", "123456789"},
		{"3", "4567890"},
		{"-3", "890"},
		{"20", ""},
		{"-20:2", "12"},
		{"2:100", "34567890"},
		{"8:-5", ""},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			t.Parallel()

			got, err := substring(origin, tt.cmd)
			if err != nil {
				t.Fatalf("substring(%q) error: %v", tt.cmd, err)
			}

			if got != tt.want {
				t.Errorf("substring(%q) = %q, want %q", tt.cmd, got, tt.want)
			}
		})
	}
}

func TestSubstring_Malformed(t *testing.T) {
	t.Parallel()

	for _, cmd := range []string{"(:1", "(:1)", "1:2:3", "a", "((1))", "1)"} {
		_, err := substring("1234567890", cmd)
		if err == nil {
			t.Errorf("substring(%q) succeeded, want error", cmd)

			continue
		}

		if err.Kind != KindInvalidSyntax {
			t.Errorf("substring(%q) kind = %v, want %v", cmd, err.Kind, KindInvalidSyntax)
		}
	}
}

func TestSubstring_CountsCharacters(t *testing.T) {
	t.Parallel()

	got, err := substring("héllo wörld", "1:4")
	if err != nil {
		t.Fatal(err)
	}

	if got != "éllo" {
		t.Errorf("got %q, want %q", got, "éllo")
	}
}

func TestReplace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		origin string
		cmd    string
		all    bool
		want   string
	}{
		{"first", "aXbXc", "X/-", false, "a-bXc"},
		{"all", "aXbXc", "X/-", true, "a-b-c"},
		{"no match", "abc", "z/-", false, "abc"},
		{"glob", "lib-1.2.3", "-*/-x", false, "lib-x"},
		{"escaped slash", "a/b", `\//_`, false, "a_b"},
		{"capture", "v1.2", "v([0-9])/r$1", false, "r1.2"},
		{"delete", "a-b-c", "-/", true, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := replace(tt.origin, tt.cmd, tt.all)
			if err != nil {
				t.Fatalf("replace error: %v", err)
			}

			if got != tt.want {
				t.Errorf("replace(%q, %q) = %q, want %q", tt.origin, tt.cmd, got, tt.want)
			}
		})
	}
}

func TestReplace_Invalid(t *testing.T) {
	t.Parallel()

	for _, cmd := range []string{"abc", "a/b/c"} {
		_, err := replace("abc", cmd, false)
		if err == nil || err.Kind != KindInvalidSyntax {
			t.Errorf("replace(%q) error = %v, want invalid syntax", cmd, err)
		}
	}

	_, err := replace("abc", "(/x", false)
	if err == nil || err.Kind != KindRegex {
		t.Errorf("replace with bad regex error = %v, want regex error", err)
	}
}

func TestTrim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  string
		pattern string
		prefix  bool
		largest bool
		want    string
	}{
		{"smallest prefix", "a.b.c", "*.", true, false, "b.c"},
		{"largest prefix", "a.b.c", "*.", true, true, "c"},
		{"smallest suffix", "a.b.c", ".*", false, false, "a.b"},
		{"largest suffix", "a.b.c", ".*", false, true, "a"},
		{"literal prefix", "a.b.c", "a.", true, false, "b.c"},
		{"smallest prefix question", "abc", "?", true, false, "bc"},
		{"largest prefix question", "abc", "??", true, true, "c"},
		{"largest prefix single question", "abc", "?", true, true, "bc"},
		{"smallest suffix question", "abc", "?", false, false, "abc"},
		{"smallest suffix question literal", "abc", "?c", false, false, "ab"},
		{"smallest prefix class repeat", "aaab", "[a]*", true, false, "b"},
		{"smallest prefix class", "aaab", "[a]", true, false, "aab"},
		{"smallest prefix class optional", "aaab", "[a]?", true, false, "aab"},
		{"largest suffix class repeat", "abc123", "[0-9]*", false, true, "abc"},
		{"largest suffix negated class", "abc123", "[!a]*", false, true, "a"},
		{"smallest prefix star then class", "x1y2z", "*[0-9]", true, false, "y2z"},
		{"largest prefix star then class", "x1y2z", "*[0-9]", true, true, "z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := trim(tt.origin, tt.pattern, tt.prefix, tt.largest)
			if err != nil {
				t.Fatalf("trim error: %v", err)
			}

			if got != tt.want {
				t.Errorf("trim(%q, %q) = %q, want %q", tt.origin, tt.pattern, got, tt.want)
			}
		})
	}

	if _, err := trim("abc", ".*", false, false); err == nil || err.Kind != KindGlob {
		t.Errorf("unmatched trim error = %v, want glob error", err)
	}
}

func TestParse_TrimOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want string
	}{
		{"${V#?}", "bc"},
		{"${V##?}", "bc"},
		{"${V%?}", "abc"},
		{"${W#[a]*}", "b"},
		{"${N%%[0-9]*}", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()

			vars := Context{}
			src := "V=abc\nW=aaab\nN=abc123\nR=" + tt.expr + "\n"

			if err := Parse(context.Background(), src, vars); err != nil {
				t.Fatalf("Parse error: %v", err)
			}

			if got := vars["R"]; got != tt.want {
				t.Errorf("R = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFoldCase(t *testing.T) {
	t.Parallel()

	ab := "[a-c]"

	tests := []struct {
		name    string
		origin  string
		pattern *string
		all     bool
		upper   bool
		want    string
	}{
		{"upper first", "hello", nil, false, true, "Hello"},
		{"upper all", "hello", nil, true, true, "HELLO"},
		{"lower first", "HELLO", nil, false, false, "hELLO"},
		{"lower all", "HeLLo", nil, true, false, "hello"},
		{"upper matching", "abcdef", &ab, true, true, "ABCdef"},
		{"first not matching", "zebra", &ab, false, true, "zebra"},
		{"unicode", "ärger", nil, false, true, "Ärger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := foldCase(tt.origin, tt.pattern, tt.all, tt.upper)
			if err != nil {
				t.Fatalf("foldCase error: %v", err)
			}

			if got != tt.want {
				t.Errorf("foldCase(%q) = %q, want %q", tt.origin, got, tt.want)
			}
		})
	}
}

func TestSubstitutions(t *testing.T) {
	t.Parallel()

	base := Context{"V": "val", "E": "", "P": "a.b.c", "U": "héllo"}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"default set", "R=${V:-w}", "val"},
		{"alternative set", "R=${V:+w}", "w"},
		{"default empty", "R=${E-w}", ""},
		{"default empty colon", "R=${E:-w}", "w"},
		{"default unset", "R=${X-w}", "w"},
		{"alternative empty", "R=${E+w}", "w"},
		{"alternative empty colon", "R=${E:+w}", ""},
		{"alternative unset", "R=${X+w}", ""},
		{"error set", "R=${V:?missing}", "val"},
		{"length", "R=${#U}", "5"},
		{"substring", "R=${V:1}", "al"},
		{"substring negative", "R=${V:(-2)}", "al"},
		{"remove prefix", "R=${P#*.}", "b.c"},
		{"remove largest suffix", "R=${P%%.*}", "a"},
		{"replace", "R=${P/./-}", "a-b.c"},
		{"replace all", "R=${P//./-}", "a-b-c"},
		{"upper", "R=${V^^}", "VAL"},
		{"nested default", "R=${X:-$V}", "val"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vars := base.Clone()
			if err := Parse(context.Background(), tt.src, vars); err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.src, err)
			}

			if got := vars["R"]; got != tt.want {
				t.Errorf("Parse(%q): R = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestSubstitutions_Errors(t *testing.T) {
	t.Parallel()

	base := Context{"V": "val", "E": ""}

	tests := []struct {
		name    string
		src     string
		kind    Kind
		keyword string
		message string
	}{
		{"error unset", "R=${X?boom}", KindSubstitution, "X", "X undefined: boom"},
		{"error empty", "R=${E:?boom}", KindSubstitution, "E", "E undefined: boom"},
		{"error no message", "R=${X?}", KindSubstitution, "X", "No error message provided"},
		{"default no value", "R=${X:-}", KindSubstitution, "X", "No default value provided"},
		{"assign", "R=${X:=1}", KindSubstitution, "X", "Variable assignment (X) inside a substitution is not allowed"},
		{"arithmetic", "R=$((1+2))", KindSubstitution, "((", ""},
		{"command", "R=$(echo x)", KindInvalidSyntax, "", "Command substitution is not allowed."},
		{"positional", "R=$1", KindInvalidSyntax, "", "Unsupported parameter type."},
		{"undefined", "R=${X}", KindContext, "X", "variable 'X' is undefined"},
		{"undefined in operation", "R=${X#a}", KindContext, "X", "variable 'X' is undefined"},
		{"bad glob", "R=${V#!}", KindGlob, "", "Unescaped `!` symbol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Parse(context.Background(), tt.src, base.Clone())

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error = %v, want *ParseError", tt.src, err)
			}

			if perr.Info.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", perr.Info.Kind, tt.kind)
			}

			if perr.Info.Keyword != tt.keyword {
				t.Errorf("keyword = %q, want %q", perr.Info.Keyword, tt.keyword)
			}

			if tt.message != "" && perr.Info.Message != tt.message {
				t.Errorf("message = %q, want %q", perr.Info.Message, tt.message)
			}
		})
	}
}
