package lang

import (
	"regexp"
	"strings"
)

// TranslateGlob converts a glob pattern into an equivalent regular expression
// fragment. The fragment is not anchored.
//
// A backslash escapes the next character. * matches any sequence and ?
// matches zero or one character. A bracket expression [...] matches one
// character of a set, negated by a leading !, and may be followed directly
// by * or ? to repeat the set. A [ without a matching ] is literal. Any other
// unescaped ! is an error.
func TranslateGlob(glob string) (string, error) {
	re, err := translateGlob(glob, false)
	if err != nil {
		return "", err
	}

	return re, nil
}

// translateGlob implements TranslateGlob. With lazy set, the .* emitted for
// * is non-greedy. Other repetitions are always greedy.
func translateGlob(glob string, lazy bool) (string, *ErrorInfo) {
	var sb strings.Builder

	chars := []rune(glob)
	n := len(chars)

	sb.Grow(n)

	for i := 0; i < n; i++ {
		switch c := chars[i]; c {
		case '\\':
			if i+1 >= n {
				return "", globError("Incomplete escape sequence")
			}

			i++
			sb.WriteByte('\\')
			sb.WriteRune(chars[i])

		case '[':
			if i+1 >= n {
				sb.WriteString(`\[`)

				return sb.String(), nil
			}

			found, err := closingBracket(chars, i)
			if err != nil {
				return "", err
			}

			if found <= i {
				sb.WriteString(`\[`)

				continue
			}

			sb.WriteByte('[')

			j := i + 1
			if chars[j] == '!' {
				sb.WriteByte('^')
				j++
			}

			for _, r := range chars[j:found] {
				if r == '[' || r == ']' {
					sb.WriteByte('\\')
				}

				sb.WriteRune(r)
			}

			sb.WriteByte(']')

			i = found
			if i+1 < n && (chars[i+1] == '*' || chars[i+1] == '?') {
				i++
				sb.WriteRune(chars[i])
			}

		case '*':
			sb.WriteString(".*")
			if lazy {
				sb.WriteByte('?')
			}

		case '?':
			sb.WriteString(".?")

		case '!':
			return "", globError("Unescaped `!` symbol")

		case '.', '+':
			sb.WriteByte('\\')
			sb.WriteRune(c)

		default:
			sb.WriteRune(c)
		}
	}

	return sb.String(), nil
}

// closingBracket returns the index of the ] closing the bracket expression
// opened at chars[open], or open if there is none. The last ] before the
// next [ closes the expression, except that a ] ending the pattern always
// does.
func closingBracket(chars []rune, open int) (int, *ErrorInfo) {
	found := open

	for i := open; i < len(chars); i++ {
		switch chars[i] {
		case ']':
			found = i
			if i+1 >= len(chars) {
				return found, nil
			}

		case '[':
			if found > open {
				return found, nil
			}

		case '!':
			if prev := chars[i-1]; prev != '\\' && prev != '[' {
				return 0, globError("Unescaped `!` symbol in a capturing group")
			}
		}
	}

	return found, nil
}

// compileGlob translates glob and compiles it into a regular expression
// built by wrap, which receives the translated fragment.
func compileGlob(glob string, lazy bool, wrap func(string) string) (*regexp.Regexp, *ErrorInfo) {
	frag, err := translateGlob(glob, lazy)
	if err != nil {
		return nil, err
	}

	re, cerr := regexp.Compile(wrap(frag))
	if cerr != nil {
		return nil, regexError(cerr)
	}

	return re, nil
}
