package tree

import (
	"slices"
	"strings"
)

// FailArch lists the architectures a package is known to fail on.
// With Exclude set the package fails everywhere except on Archs.
type FailArch struct {
	Archs   []string `json:"archs"   yaml:"archs"`
	Exclude bool     `json:"exclude" yaml:"exclude"`
}

// ParseFailArch parses a FAIL_ARCH value: a single architecture, a set
// "(a|b)", or either form negated with a leading '!'.
func ParseFailArch(s string) (*FailArch, bool) {
	fa := &FailArch{}

	if rest, ok := strings.CutPrefix(s, "!"); ok {
		fa.Exclude = true
		s = rest
	}

	archs, ok := archSet(s)
	if !ok {
		return nil, false
	}

	fa.Archs = archs

	return fa, true
}

func archSet(s string) ([]string, bool) {
	switch {
	case s == "":
		return nil, false
	case len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')':
		return strings.Split(s[1:len(s)-1], "|"), true
	case strings.ContainsAny(s, "|()"):
		return nil, false
	default:
		return []string{s}, true
	}
}

// Fails reports whether a package with this FAIL_ARCH fails to build on arch.
func (fa *FailArch) Fails(arch string) bool {
	if fa == nil {
		return false
	}

	return slices.Contains(fa.Archs, arch) != fa.Exclude
}

func (fa *FailArch) String() string {
	if fa == nil {
		return ""
	}

	s := "(" + strings.Join(fa.Archs, "|") + ")"
	if fa.Exclude {
		return "!" + s
	}

	return s
}

// MarshalText renders fa in FAIL_ARCH syntax.
func (fa *FailArch) MarshalText() ([]byte, error) {
	return []byte(fa.String()), nil
}
