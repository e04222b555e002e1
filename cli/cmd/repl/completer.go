package repl

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/abmeta/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "unset", "reset", "edit", "clear", "quit"}

// isNameByte reports whether c may appear in a variable name. Digits are
// not allowed in the first position.
func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return !first
	}

	return false
}

// wordBounds returns the variable name at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor does not
// touch a name.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor
	for start > 0 && isNameByte(input[start-1], false) {
		start--
	}

	end = cursor
	for end < len(input) && isNameByte(input[end], false) {
		end++
	}

	return input[start:end], start, end
}

// sigil returns the reference syntax that opens the word starting at
// wordStart: "${" or "$" for a substitution, "=" for a name in assignment
// position, or "" if the word cannot be a variable name.
func sigil(input string, wordStart int) string {
	prefix := input[:wordStart]

	switch {
	case strings.HasSuffix(prefix, "${"):
		return "${"
	case strings.HasSuffix(prefix, "$"):
		return "$"
	}

	if prefix == "" {
		return "="
	}

	switch prefix[len(prefix)-1] {
	case ' ', '\t', ';', '&', '|':
		// Quoted spaces are not told apart.
		return "="
	}

	return ""
}

// variableCandidates returns the session variable names and the names the
// build system provides, sorted and unique.
func variableCandidates(vars lang.Context) []string {
	names := vars.Names()
	for name := range lang.KnownVariables() {
		names = append(names, name)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. Right after a "$" or "${" every candidate is offered, so that
// the user can browse the defined names.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	if m.mode == modeCtrl {
		return ctrlMatches(input, cursor, m.vars)
	}

	word, wordStart, wordEnd := wordBounds(input, cursor)

	switch sigil(input, wordStart) {
	case "":
		return nil, nil, wordStart, wordEnd

	case "=":
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = variableCandidates(m.vars)

	default:
		candidates = variableCandidates(m.vars)

		if word == "" {
			return allMatches(candidates), candidates, wordStart, wordEnd
		}
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// ctrlMatches completes the command name in the first word and variable
// names in the arguments of vars and unset.
func ctrlMatches(input string, cursor int, vars lang.Context) (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	fields := strings.Fields(input[:wordStart])

	switch {
	case len(fields) == 0:
		candidates = ctrlCommands
	case fields[0] == "vars", fields[0] == "v", fields[0] == "unset", fields[0] == "u":
		candidates = vars.Names()
	default:
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

func allMatches(candidates []string) fuzzy.Matches {
	matches := make(fuzzy.Matches, len(candidates))
	for i, c := range candidates {
		matches[i] = fuzzy.Match{Str: c, Index: i}
	}

	return matches
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
