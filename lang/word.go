package lang

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/abmeta/lang/ast"
)

// evaluator resolves words against a Context.
type evaluator struct {
	ctx  context.Context
	vars Context
	cfg  config
}

func (e *evaluator) complexWord(w ast.ComplexWord) (string, *ErrorInfo) {
	switch w := w.(type) {
	case *ast.Single:
		return e.word(w.Word)

	case *ast.Concat:
		// The joined result is treated as a literal and not expanded again.
		var sb strings.Builder

		for _, part := range w.Words {
			s, err := e.word(part)
			if err != nil {
				return "", err
			}

			sb.WriteString(s)
		}

		return sb.String(), nil

	default:
		return "", invalidSyntax(fmt.Sprintf("Unsupported word %T.", w))
	}
}

func (e *evaluator) word(w ast.Word) (string, *ErrorInfo) {
	switch w := w.(type) {
	case ast.SingleQuoted:
		return string(w), nil

	case *ast.DoubleQuoted:
		var sb strings.Builder

		for _, part := range w.Parts {
			s, err := e.simpleWord(part)
			if err != nil {
				return "", err
			}

			sb.WriteString(s)
		}

		return sb.String(), nil

	case *ast.Unquoted:
		return e.simpleWord(w.Word)

	default:
		return "", invalidSyntax(fmt.Sprintf("Unsupported word %T.", w))
	}
}

func (e *evaluator) simpleWord(w ast.SimpleWord) (string, *ErrorInfo) {
	switch w := w.(type) {
	case ast.Literal:
		return string(w), nil
	case ast.Escaped:
		if w == "\n" {
			return "", nil
		}

		return string(w), nil
	case *ast.Param:
		return e.origin(w.Parameter)
	case *ast.Subst:
		return e.subst(w)
	case ast.Star:
		return "*", nil
	case ast.Question:
		return "?", nil
	case ast.SquareOpen:
		return "[", nil
	case ast.SquareClose:
		return "]", nil
	case ast.Tilde:
		return "~", nil
	case ast.Colon:
		return ":", nil
	default:
		return "", invalidSyntax(fmt.Sprintf("Unsupported word %T.", w))
	}
}

// lookup returns the value of p and whether it is set.
func (e *evaluator) lookup(p ast.Parameter) (string, bool, *ErrorInfo) {
	name, ok := p.(ast.Var)
	if !ok {
		return "", false, invalidSyntax("Unsupported parameter type.")
	}

	if v, ok := e.vars[string(name)]; ok {
		return v, true, nil
	}

	if e.cfg.known && IsKnownVariable(string(name)) {
		return "", true, nil
	}

	return "", false, nil
}

// origin returns the value of p, failing if it is unset.
func (e *evaluator) origin(p ast.Parameter) (string, *ErrorInfo) {
	v, ok, err := e.lookup(p)
	if err != nil {
		return "", err
	}

	if !ok {
		name := paramName(p)

		return "", contextError(fmt.Sprintf("variable '%s' is undefined", name), name)
	}

	return v, nil
}

func paramName(p ast.Parameter) string {
	if p == nil {
		return ""
	}

	return p.String()
}
