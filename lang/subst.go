package lang

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/abmeta/lang/ast"
)

func (e *evaluator) subst(s *ast.Subst) (string, *ErrorInfo) {
	name := paramName(s.Param)

	switch s.Kind {
	case ast.SubstCommand:
		return "", invalidSyntax("Command substitution is not allowed.")

	case ast.SubstArith:
		return "", substitutionError(fmt.Sprintf(
			"Arithmetic operation (%s) inside a substitution is not supported", s.Text), "((")

	case ast.SubstAssign:
		return "", substitutionError(fmt.Sprintf(
			"Variable assignment (%s) inside a substitution is not allowed", name), name)

	case ast.SubstDefault:
		if v, ok, err := e.lookup(s.Param); err == nil && ok && (!s.Colon || v != "") {
			return v, nil
		}

		return e.operand(s, "No default value provided")

	case ast.SubstAlternative:
		v, ok, err := e.lookup(s.Param)
		if err != nil || !ok || (s.Colon && v == "") {
			return "", nil
		}

		return e.operand(s, "No alternative value provided")

	case ast.SubstErrorIfUnset:
		if v, ok, err := e.lookup(s.Param); err == nil && ok && (!s.Colon || v != "") {
			return v, nil
		}

		msg, err := e.operand(s, "No error message provided")
		if err != nil {
			return "", err
		}

		return "", substitutionError(fmt.Sprintf("%s undefined: %s", name, msg), name)
	}

	origin, err := e.origin(s.Param)
	if err != nil {
		return "", err
	}

	switch s.Kind {
	case ast.SubstLen:
		return strconv.Itoa(utf8.RuneCountInString(origin)), nil

	case ast.SubstLowercase, ast.SubstUppercase:
		var pattern *string

		if s.Operand != nil {
			p, err := e.complexWord(s.Operand)
			if err != nil {
				return "", err
			}

			pattern = &p
		}

		return foldCase(origin, pattern, s.All, s.Kind == ast.SubstUppercase)
	}

	cmd, err := e.operand(s, "No substring command provided")
	if err != nil {
		return "", err
	}

	switch s.Kind {
	case ast.SubstSubstring:
		return substring(origin, cmd)
	case ast.SubstReplace:
		return replace(origin, cmd, false)
	case ast.SubstReplaceAll:
		return replace(origin, cmd, true)
	case ast.SubstRemoveSmallestPrefix:
		return trim(origin, cmd, true, false)
	case ast.SubstRemoveLargestPrefix:
		return trim(origin, cmd, true, true)
	case ast.SubstRemoveSmallestSuffix:
		return trim(origin, cmd, false, false)
	case ast.SubstRemoveLargestSuffix:
		return trim(origin, cmd, false, true)
	default:
		return "", invalidSyntax(fmt.Sprintf("Unsupported substitution %v.", s.Kind))
	}
}

// operand evaluates the operand of s, failing with missing if there is none.
func (e *evaluator) operand(s *ast.Subst, missing string) (string, *ErrorInfo) {
	if s.Operand == nil {
		return "", substitutionError(missing, paramName(s.Param))
	}

	return e.complexWord(s.Operand)
}

// substring implements ${V:OFFSET} and ${V:OFFSET:LENGTH}. Offsets count
// characters, not bytes.
func substring(origin, cmd string) (string, *ErrorInfo) {
	var (
		offset, length string
		bounded        bool
	)

	switch strings.Count(cmd, ":") {
	case 0:
		offset = cmd
	case 1:
		offset, length, _ = strings.Cut(cmd, ":")
		bounded = true
	default:
		return "", invalidSyntax("Bad substring command.")
	}

	chars := []rune(origin)
	n := len(chars)

	off, err := parseNumber(offset)
	if err != nil {
		return "", err
	}

	var start int
	if off >= 0 {
		start = min(n, off)
	} else {
		start = max(0, n+off)
	}

	if !bounded {
		return string(chars[start:]), nil
	}

	l, err := parseNumber(length)
	if err != nil {
		return "", err
	}

	remain := n - start

	var end int
	if l >= 0 {
		end = start + min(l, remain)
	} else {
		end = start + max(0, remain+l)
	}

	if end <= start {
		return "", nil
	}

	return string(chars[start:end]), nil
}

// parseNumber parses a signed decimal integer, optionally wrapped in one
// pair of parentheses. The empty string is zero.
func parseNumber(s string) (int, *ErrorInfo) {
	bad := invalidSyntax("Bad number in substitution.")

	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") {
		if len(s) < 2 || !strings.HasSuffix(s, ")") {
			return 0, bad
		}

		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	if strings.ContainsAny(s, "()") {
		return 0, bad
	}

	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, bad
	}

	return n, nil
}

// splitReplace splits cmd at its only unescaped slash.
func splitReplace(cmd string) (string, string, bool) {
	at := -1

	for i := 0; i < len(cmd); i++ {
		switch cmd[i] {
		case '\\':
			i++
		case '/':
			if at >= 0 {
				return "", "", false
			}

			at = i
		}
	}

	if at < 0 {
		return "", "", false
	}

	return cmd[:at], cmd[at+1:], true
}

// replace implements ${V/PAT/REPL} and ${V//PAT/REPL}. REPL may refer to
// capture groups of PAT as $1 or ${1}.
func replace(origin, cmd string, all bool) (string, *ErrorInfo) {
	pat, repl, ok := splitReplace(cmd)
	if !ok {
		return "", invalidSyntax("Invalid replace command.")
	}

	re, err := compileGlob(pat, false, func(s string) string { return s })
	if err != nil {
		return "", err
	}

	if all {
		return re.ReplaceAllString(origin, repl), nil
	}

	loc := re.FindStringSubmatchIndex(origin)
	if loc == nil {
		return origin, nil
	}

	sub := re.ExpandString(nil, repl, origin, loc)

	return origin[:loc[0]] + string(sub) + origin[loc[1]:], nil
}

// trim implements the four prefix and suffix removal operators. The smallest
// forms translate * in the pattern to a non-greedy .*.
func trim(origin, cmd string, prefix, largest bool) (string, *ErrorInfo) {
	var wrap func(string) string

	switch {
	case prefix:
		wrap = func(s string) string { return `(?s)^(?:` + s + `)(.*)$` }
	case largest:
		wrap = func(s string) string { return `(?s)^(.*?)(?:` + s + `)$` }
	default:
		wrap = func(s string) string { return `(?s)^(.*)(?:` + s + `)$` }
	}

	re, err := compileGlob(cmd, !largest, wrap)
	if err != nil {
		return "", err
	}

	m := re.FindStringSubmatch(origin)
	if m == nil {
		return "", globError(fmt.Sprintf("Pattern `%s` does not match `%s`", cmd, origin))
	}

	return m[1], nil
}

// foldCase implements the case modification operators. When pattern is not
// nil only characters matching it are converted.
func foldCase(origin string, pattern *string, all, upper bool) (string, *ErrorInfo) {
	var re *regexp.Regexp

	if pattern != nil {
		var err *ErrorInfo

		re, err = compileGlob(*pattern, false, func(s string) string { return `^(?:` + s + `)$` })
		if err != nil {
			return "", err
		}
	}

	caser := cases.Lower(language.Und)
	if upper {
		caser = cases.Upper(language.Und)
	}

	var sb strings.Builder

	sb.Grow(len(origin))

	first := true
	for _, r := range origin {
		c := string(r)
		if (all || first) && (re == nil || re.MatchString(c)) {
			c = caser.String(c)
		}

		sb.WriteString(c)

		first = false
	}

	return sb.String(), nil
}
