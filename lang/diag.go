package lang

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// RenderOption configures [ParseError.Render].
type RenderOption func(*renderConfig)

type renderConfig struct {
	color bool
}

// WithColor enables or disables ANSI styling of rendered diagnostics.
// Styling is disabled by default.
func WithColor(enable bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.color = enable
	}
}

// WithColorFor enables styling if w is a terminal and NO_COLOR is unset.
func WithColorFor(w io.Writer) RenderOption {
	return func(cfg *renderConfig) {
		cfg.color = false

		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return
		}

		if f, ok := w.(*os.File); ok {
			cfg.color = term.IsTerminal(int(f.Fd()))
		}
	}
}

type diagStyle struct {
	title, label, gutter, marker func(string) string
}

func plain(s string) string { return s }

func makeDiagStyle(color bool) diagStyle {
	if !color {
		return diagStyle{title: plain, label: plain, gutter: plain, marker: plain}
	}

	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)

	red := r.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	bold := r.NewStyle().Bold(true)
	blue := r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	return diagStyle{
		title:  func(s string) string { return red.Render(s) },
		label:  func(s string) string { return bold.Render(s) },
		gutter: func(s string) string { return blue.Render(s) },
		marker: func(s string) string { return red.Render(s) },
	}
}

// Span returns the byte range of source highlighted for e.
//
// The range defaults to the failing command. An error naming a variable is
// narrowed to the first reference to it, and a lexer error to the single
// character at which reading stopped.
func (e *ParseError) Span(source string) (int, int) {
	clamp := func(n int) int { return max(0, min(n, len(source))) }

	if e.Info.Kind == KindLexer {
		end := clamp(e.Byte)

		return max(0, end-1), end
	}

	start, end := clamp(e.PrevByte), clamp(e.Byte)
	if start > end || e.Info.Keyword == "" {
		return start, end
	}

	seg := source[start:end]

	switch e.Info.Kind {
	case KindRestrictedSyntax:
		if i := strings.Index(seg, e.Info.Keyword); i >= 0 {
			return start + i, start + i + len(e.Info.Keyword)
		}

	case KindContext, KindSubstitution:
		if i, n := leftmostLongest(seg, "${"+e.Info.Keyword, "$"+e.Info.Keyword, "$("); i >= 0 {
			return start + i, start + i + n
		}
	}

	return start, end
}

// leftmostLongest returns the offset and length of the earliest match of any
// of patterns in s, preferring the longest pattern among those matching
// there.
func leftmostLongest(s string, patterns ...string) (int, int) {
	at, length := -1, 0

	for _, p := range patterns {
		i := strings.Index(s, p)
		if i < 0 {
			continue
		}

		if at < 0 || i < at || (i == at && len(p) > length) {
			at, length = i, len(p)
		}
	}

	return at, length
}

type sourceLine struct {
	text  string
	start int
	num   int
}

func splitLines(source string) []sourceLine {
	var lines []sourceLine

	start := 0
	for num := 1; ; num++ {
		i := strings.IndexByte(source[start:], '\n')
		if i < 0 {
			lines = append(lines, sourceLine{text: source[start:], start: start, num: num})

			return lines
		}

		lines = append(lines, sourceLine{text: source[start : start+i], start: start, num: num})
		start += i + 1
	}
}

// pad returns whitespace as wide as s, keeping tabs so columns line up.
func pad(s string) string {
	var sb strings.Builder

	for _, r := range s {
		if r == '\t' {
			sb.WriteByte('\t')

			continue
		}

		sb.WriteString(strings.Repeat(" ", max(lipgloss.Width(string(r)), 1)))
	}

	return sb.String()
}

// Render formats e as an annotated excerpt of source, the text that produced
// it. filename is shown in the location line.
func (e *ParseError) Render(source, filename string, opts ...RenderOption) string {
	var cfg renderConfig

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	style := makeDiagStyle(cfg.color)
	from, to := e.Span(source)

	var shown []sourceLine

	for _, ln := range splitLines(source) {
		end := ln.start + len(ln.text)
		if end >= from && ln.start <= max(from, to-1) {
			shown = append(shown, ln)
		}
	}

	if len(shown) == 0 {
		shown = []sourceLine{{num: 1}}
	}

	first := shown[0]
	col := len([]rune(source[first.start:max(first.start, min(from, first.start+len(first.text)))])) + 1
	width := len(strconv.Itoa(shown[len(shown)-1].num))
	indent := strings.Repeat(" ", width)
	bar := style.gutter(indent + " |")

	var sb strings.Builder

	sb.WriteString(style.title("error") + style.label(": "+e.Info.Kind.String()) + "\n")
	sb.WriteString(indent + style.gutter("-->") + " " + filename + ":" +
		strconv.Itoa(first.num) + ":" + strconv.Itoa(col) + "\n")
	sb.WriteString(bar + "\n")

	for i, ln := range shown {
		num := strconv.Itoa(ln.num)
		sb.WriteString(style.gutter(strings.Repeat(" ", width-len(num))+num+" |") + " " + ln.text + "\n")

		lo := max(from, ln.start) - ln.start
		hi := min(to, ln.start+len(ln.text)) - ln.start
		lo = min(lo, len(ln.text))
		hi = max(hi, lo)

		marks := max(len([]rune(ln.text[lo:hi])), 1)

		sb.WriteString(bar + " " + pad(ln.text[:lo]) + style.marker(strings.Repeat("^", marks)))

		if i == len(shown)-1 {
			sb.WriteString(" " + style.marker(e.Info.Message))
		}

		sb.WriteString("\n")
	}

	sb.WriteString(bar + "\n")

	return sb.String()
}
