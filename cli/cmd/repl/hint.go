package repl

import "strings"

// operatorHint describes one parameter substitution operator.
type operatorHint struct {
	op    string
	usage string
	desc  string
}

// operatorHints is ordered so that longer operators precede their prefixes.
var operatorHints = []operatorHint{
	{":-", "${NAME:-WORD}", "WORD if NAME is unset or empty"},
	{":+", "${NAME:+WORD}", "WORD if NAME is set and not empty"},
	{":?", "${NAME:?WORD}", "fail with WORD if NAME is unset or empty"},
	{":=", "${NAME:=WORD}", "assign WORD if NAME is unset or empty"},
	{"##", "${NAME##PATTERN}", "remove largest matching prefix"},
	{"%%", "${NAME%%PATTERN}", "remove largest matching suffix"},
	{"//", "${NAME//PATTERN/REPL}", "replace every match"},
	{",,", "${NAME,,PATTERN}", "lowercase every matching character"},
	{"^^", "${NAME^^PATTERN}", "uppercase every matching character"},
	{":", "${NAME:OFFSET:LENGTH}", "substring"},
	{"-", "${NAME-WORD}", "WORD if NAME is unset"},
	{"+", "${NAME+WORD}", "WORD if NAME is set"},
	{"?", "${NAME?WORD}", "fail with WORD if NAME is unset"},
	{"=", "${NAME=WORD}", "assign WORD if NAME is unset"},
	{"#", "${NAME#PATTERN}", "remove smallest matching prefix"},
	{"%", "${NAME%PATTERN}", "remove smallest matching suffix"},
	{"/", "${NAME/PATTERN/REPL}", "replace first match"},
	{",", "${NAME,PATTERN}", "lowercase first matching character"},
	{"^", "${NAME^PATTERN}", "uppercase first matching character"},
}

// openSubstitution returns the text of the innermost "${" left unclosed
// before cursor, without the opening brace. The second result is false if
// the cursor is not inside a substitution.
func openSubstitution(input string, cursor int) (string, bool) {
	if cursor > len(input) {
		cursor = len(input)
	}

	var open []int

	for i := 0; i < cursor; i++ {
		switch {
		case input[i] == '\\':
			i++
		case input[i] == '$' && i+1 < cursor && input[i+1] == '{':
			open = append(open, i+2)
			i++
		case input[i] == '}' && len(open) > 0:
			open = open[:len(open)-1]
		}
	}

	if len(open) == 0 {
		return "", false
	}

	return input[open[len(open)-1]:cursor], true
}

// lookupOperator returns the hint for the operator that follows the
// variable name in body, the text of an open substitution.
func lookupOperator(body string) (operatorHint, bool) {
	if strings.HasPrefix(body, "#") {
		return operatorHint{"#", "${#NAME}", "length of NAME in characters"}, true
	}

	_, _, end := wordBounds(body, 0)
	if end == 0 || end == len(body) {
		return operatorHint{}, false
	}

	rest := body[end:]
	for _, h := range operatorHints {
		if strings.HasPrefix(rest, h.op) {
			return h, true
		}
	}

	return operatorHint{}, false
}

// substitutionHint returns the rendered usage line for the substitution
// operator the cursor is inside, or "" if there is none.
func substitutionHint(input string, cursor int) string {
	body, ok := openSubstitution(input, cursor)
	if !ok {
		return ""
	}

	h, ok := lookupOperator(body)
	if !ok {
		return ""
	}

	return hintStyle.Bold(true).Render(h.usage) + hintStyle.Render("  "+h.desc)
}
