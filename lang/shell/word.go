package shell

import (
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/ardnew/abmeta/lang/ast"
)

var varName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// complexWord converts w. In raw mode unquoted literals are kept verbatim,
// backslashes included, for operands that are later read as glob patterns.
func (p *Parser) complexWord(w *syntax.Word, raw bool) (ast.ComplexWord, error) {
	var words []ast.Word

	for _, part := range w.Parts {
		ws, err := p.wordPart(part, raw)
		if err != nil {
			return nil, err
		}

		words = append(words, ws...)
	}

	return join(words), nil
}

func join(words []ast.Word) ast.ComplexWord {
	switch len(words) {
	case 0:
		return &ast.Single{Word: &ast.Unquoted{Word: ast.Literal("")}}
	case 1:
		return &ast.Single{Word: words[0]}
	default:
		return &ast.Concat{Words: words}
	}
}

func (p *Parser) wordPart(part syntax.WordPart, raw bool) ([]ast.Word, error) {
	switch wp := part.(type) {
	case *syntax.Lit:
		if raw {
			return []ast.Word{&ast.Unquoted{Word: ast.Literal(wp.Value)}}, nil
		}

		return unquotedLit(wp.Value), nil

	case *syntax.SglQuoted:
		if wp.Dollar {
			return nil, p.unsupported(wp, "ANSI-C quoting")
		}

		return []ast.Word{ast.SingleQuoted(wp.Value)}, nil

	case *syntax.DblQuoted:
		dq := &ast.DoubleQuoted{}

		for _, inner := range wp.Parts {
			if lit, ok := inner.(*syntax.Lit); ok {
				dq.Parts = append(dq.Parts, quotedLit(lit.Value)...)

				continue
			}

			sw, err := p.simpleWord(inner)
			if err != nil {
				return nil, err
			}

			dq.Parts = append(dq.Parts, sw)
		}

		return []ast.Word{dq}, nil

	default:
		sw, err := p.simpleWord(part)
		if err != nil {
			return nil, err
		}

		return []ast.Word{&ast.Unquoted{Word: sw}}, nil
	}
}

func (p *Parser) simpleWord(part syntax.WordPart) (ast.SimpleWord, error) {
	switch wp := part.(type) {
	case *syntax.Lit:
		return ast.Literal(wp.Value), nil
	case *syntax.ParamExp:
		return p.paramExp(wp)
	case *syntax.CmdSubst:
		return &ast.Subst{Kind: ast.SubstCommand, Text: p.text(wp)}, nil
	case *syntax.ArithmExp:
		return &ast.Subst{Kind: ast.SubstArith, Text: p.text(wp)}, nil
	case *syntax.ProcSubst:
		return nil, p.unsupported(wp, "process substitution")
	case *syntax.ExtGlob:
		return nil, p.unsupported(wp, "extended globbing")
	case *syntax.BraceExp:
		return nil, p.unsupported(wp, "brace expansion")
	default:
		return nil, p.unsupported(part, "word part")
	}
}

// unquotedLit splits an unquoted literal into its plain runs, backslash
// escapes and glob characters.
func unquotedLit(s string) []ast.Word {
	var (
		words []ast.Word
		run   strings.Builder
	)

	flush := func() {
		if run.Len() > 0 {
			words = append(words, &ast.Unquoted{Word: ast.Literal(run.String())})
			run.Reset()
		}
	}
	emit := func(sw ast.SimpleWord) {
		flush()
		words = append(words, &ast.Unquoted{Word: sw})
	}

	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; r {
		case '\\':
			if i+1 < len(rs) {
				i++
				emit(ast.Escaped(string(rs[i])))
			} else {
				run.WriteRune(r)
			}
		case '*':
			emit(ast.Star{})
		case '?':
			emit(ast.Question{})
		case '[':
			emit(ast.SquareOpen{})
		case ']':
			emit(ast.SquareClose{})
		case '~':
			emit(ast.Tilde{})
		case ':':
			emit(ast.Colon{})
		default:
			run.WriteRune(r)
		}
	}

	flush()

	return words
}

// quotedLit splits a double-quoted literal. Only \$ \` \" \\ and an escaped
// newline are escapes; any other backslash is literal.
func quotedLit(s string) []ast.SimpleWord {
	var (
		parts []ast.SimpleWord
		run   strings.Builder
	)

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte("$`\"\\\n", s[i+1]) >= 0 {
			if run.Len() > 0 {
				parts = append(parts, ast.Literal(run.String()))
				run.Reset()
			}

			i++
			parts = append(parts, ast.Escaped(s[i:i+1]))

			continue
		}

		run.WriteByte(s[i])
	}

	if run.Len() > 0 {
		parts = append(parts, ast.Literal(run.String()))
	}

	return parts
}

func parameter(lit *syntax.Lit) ast.Parameter {
	if lit == nil {
		return ast.Other("")
	}

	if varName.MatchString(lit.Value) {
		return ast.Var(lit.Value)
	}

	return ast.Other(lit.Value)
}

func (p *Parser) paramExp(pe *syntax.ParamExp) (ast.SimpleWord, error) {
	switch {
	case pe.Excl:
		return nil, p.unsupported(pe, "indirect expansion")
	case pe.Width:
		return nil, p.unsupported(pe, "width expansion")
	case pe.Names != 0:
		return nil, p.unsupported(pe, "name expansion")
	case pe.Index != nil:
		return nil, p.unsupported(pe, "array indexing")
	}

	param := parameter(pe.Param)

	switch {
	case pe.Length:
		return &ast.Subst{Kind: ast.SubstLen, Param: param}, nil

	case pe.Slice != nil:
		operand, err := p.slice(pe.Slice)
		if err != nil {
			return nil, err
		}

		return &ast.Subst{Kind: ast.SubstSubstring, Param: param, Operand: operand}, nil

	case pe.Repl != nil:
		operand, err := p.replace(pe.Repl, p.emptyReplacement(pe))
		if err != nil {
			return nil, err
		}

		kind := ast.SubstReplace
		if pe.Repl.All {
			kind = ast.SubstReplaceAll
		}

		return &ast.Subst{Kind: kind, Param: param, Operand: operand}, nil

	case pe.Exp != nil:
		return p.expansion(pe, param)

	default:
		return &ast.Param{Parameter: param}, nil
	}
}

func (p *Parser) expansion(pe *syntax.ParamExp, param ast.Parameter) (ast.SimpleWord, error) {
	sub := &ast.Subst{Param: param}

	switch pe.Exp.Op {
	case syntax.DefaultUnset, syntax.DefaultUnsetOrNull:
		sub.Kind = ast.SubstDefault
		sub.Colon = pe.Exp.Op == syntax.DefaultUnsetOrNull
	case syntax.AlternateUnset, syntax.AlternateUnsetOrNull:
		sub.Kind = ast.SubstAlternative
		sub.Colon = pe.Exp.Op == syntax.AlternateUnsetOrNull
	case syntax.ErrorUnset, syntax.ErrorUnsetOrNull:
		sub.Kind = ast.SubstErrorIfUnset
		sub.Colon = pe.Exp.Op == syntax.ErrorUnsetOrNull
	case syntax.AssignUnset, syntax.AssignUnsetOrNull:
		sub.Kind = ast.SubstAssign
		sub.Colon = pe.Exp.Op == syntax.AssignUnsetOrNull
	case syntax.RemSmallPrefix:
		sub.Kind = ast.SubstRemoveSmallestPrefix
	case syntax.RemLargePrefix:
		sub.Kind = ast.SubstRemoveLargestPrefix
	case syntax.RemSmallSuffix:
		sub.Kind = ast.SubstRemoveSmallestSuffix
	case syntax.RemLargeSuffix:
		sub.Kind = ast.SubstRemoveLargestSuffix
	case syntax.LowerFirst, syntax.LowerAll:
		sub.Kind = ast.SubstLowercase
		sub.All = pe.Exp.Op == syntax.LowerAll
	case syntax.UpperFirst, syntax.UpperAll:
		sub.Kind = ast.SubstUppercase
		sub.All = pe.Exp.Op == syntax.UpperAll
	default:
		return nil, p.unsupported(pe, "parameter operator "+pe.Exp.Op.String())
	}

	if pe.Exp.Word != nil && len(pe.Exp.Word.Parts) > 0 {
		raw := sub.Kind >= ast.SubstRemoveSmallestPrefix && sub.Kind <= ast.SubstUppercase

		operand, err := p.complexWord(pe.Exp.Word, raw)
		if err != nil {
			return nil, err
		}

		sub.Operand = operand
	}

	return sub, nil
}

// emptyReplacement reports whether ${V/PAT/} was written with its separating
// slash but nothing after it, which the parser does not distinguish from
// ${V/PAT}.
func (p *Parser) emptyReplacement(pe *syntax.ParamExp) bool {
	if pe.Repl.With != nil || pe.Repl.Orig == nil {
		return false
	}

	off := int(pe.Repl.Orig.End().Offset())

	return off < len(p.src) && p.src[off] == '/'
}

// replace joins the pattern and replacement of ${V/PAT/REPL} back into a
// single PAT/REPL operand. The slash is omitted when there is no
// replacement, leaving an operand the substitution rejects.
func (p *Parser) replace(r *syntax.Replace, slash bool) (ast.ComplexWord, error) {
	var words []ast.Word

	if r.Orig != nil {
		for _, part := range r.Orig.Parts {
			ws, err := p.wordPart(part, true)
			if err != nil {
				return nil, err
			}

			words = append(words, ws...)
		}
	}

	if r.With != nil || slash {
		words = append(words, &ast.Unquoted{Word: ast.Literal("/")})
	}

	if r.With != nil {
		for _, part := range r.With.Parts {
			ws, err := p.wordPart(part, false)
			if err != nil {
				return nil, err
			}

			words = append(words, ws...)
		}
	}

	return join(words), nil
}

// slice renders ${V:OFF:LEN} back into an OFF:LEN operand. The offset and
// length are arithmetic expressions to the parser; the substitution parses
// the resulting text itself.
func (p *Parser) slice(s *syntax.Slice) (ast.ComplexWord, error) {
	var words []ast.Word

	if s.Offset != nil {
		ws, err := p.arithm(s.Offset)
		if err != nil {
			return nil, err
		}

		words = append(words, ws...)
	}

	if s.Length != nil {
		words = append(words, &ast.Unquoted{Word: ast.Colon{}})

		ws, err := p.arithm(s.Length)
		if err != nil {
			return nil, err
		}

		words = append(words, ws...)
	}

	return join(words), nil
}

func (p *Parser) arithm(x syntax.ArithmExpr) ([]ast.Word, error) {
	lit := func(s string) ast.Word { return &ast.Unquoted{Word: ast.Literal(s)} }

	switch e := x.(type) {
	case *syntax.Word:
		var words []ast.Word

		for _, part := range e.Parts {
			ws, err := p.wordPart(part, false)
			if err != nil {
				return nil, err
			}

			words = append(words, ws...)
		}

		return words, nil

	case *syntax.ParenArithm:
		inner, err := p.arithm(e.X)
		if err != nil {
			return nil, err
		}

		words := append([]ast.Word{lit("(")}, inner...)

		return append(words, lit(")")), nil

	case *syntax.UnaryArithm:
		inner, err := p.arithm(e.X)
		if err != nil {
			return nil, err
		}

		if e.Post {
			return append(inner, lit(e.Op.String())), nil
		}

		return append([]ast.Word{lit(e.Op.String())}, inner...), nil

	case *syntax.BinaryArithm:
		lhs, err := p.arithm(e.X)
		if err != nil {
			return nil, err
		}

		rhs, err := p.arithm(e.Y)
		if err != nil {
			return nil, err
		}

		words := append(lhs, lit(e.Op.String()))

		return append(words, rhs...), nil

	default:
		return nil, p.unsupported(x, "arithmetic expression")
	}
}
