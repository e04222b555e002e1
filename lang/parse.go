package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/abmeta/lang/ast"
	"github.com/ardnew/abmeta/lang/shell"
)

// Parse evaluates the declarations in src, storing each assigned variable in
// vars. Variables already in vars may be referenced by src.
//
// Parse stops at the first error and returns it as a [*ParseError]. Any
// assignments made before the error remain in vars. ctx is checked before
// each top-level command, and its error is returned as is.
func Parse(ctx context.Context, src string, vars Context, opts ...Option) error {
	e := &evaluator{ctx: ctx, vars: vars, cfg: makeConfig(opts...)}
	p := shell.NewParser(src)

	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd, err := p.Next()
		if err != nil {
			return e.fail(p, src, shellError(err))
		}

		if cmd == nil {
			e.cfg.logger.TraceContext(ctx, "parse complete",
				slog.Int("commands", n),
				slog.Int("variables", len(vars)))

			return nil
		}

		if info := e.topLevel(cmd); info != nil {
			return e.fail(p, src, info)
		}
	}
}

func shellError(err error) *ErrorInfo {
	var serr *shell.Error
	if errors.As(err, &serr) {
		return lexerError(serr.Message)
	}

	return lexerError(err.Error())
}

// fail locates info at the command the parser last returned. A lexer error is
// located at the offending character instead.
func (e *evaluator) fail(p *shell.Parser, src string, info *ErrorInfo) *ParseError {
	start, end := p.Start(), p.End()

	err := &ParseError{
		Info:     info,
		Line:     end.Line,
		Col:      end.Col,
		Byte:     end.Byte,
		PrevByte: start.Byte,
	}

	if info.Kind == KindLexer {
		err.Byte = min(end.Byte+1, len(src))
	}

	e.cfg.logger.DebugContext(e.ctx, "parse failed", slog.Any("error", err))

	return err
}

func (e *evaluator) topLevel(cmd *ast.TopLevelCommand) *ErrorInfo {
	switch c := cmd.Command.(type) {
	case *ast.Job:
		return invalidSyntax("Syntax error: job not allowed.")

	case *ast.List:
		if err := e.listable(c.First); err != nil {
			return err
		}

		for _, next := range c.Rest {
			if err := e.listable(next.Cmd); err != nil {
				return err
			}
		}

		return nil

	default:
		return invalidSyntax(fmt.Sprintf("Unsupported command %T.", c))
	}
}

func (e *evaluator) listable(cmd ast.ListableCommand) *ErrorInfo {
	switch c := cmd.(type) {
	case *ast.Pipe:
		return invalidSyntax("Pipe not allowed")

	case *ast.SingleCommand:
		switch pc := c.Cmd.(type) {
		case *ast.Simple:
			return e.simple(pc)
		case *ast.Compound:
			return invalidSyntax("Redirection, `if` or `for` are not allowed.")
		case *ast.FunctionDef:
			return invalidSyntax("Function definition not allowed.")
		}
	}

	return invalidSyntax(fmt.Sprintf("Unsupported command %T.", cmd))
}

func (e *evaluator) simple(cmd *ast.Simple) *ErrorInfo {
	if len(cmd.RedirectsOrCmdWords) > 0 {
		return invalidSyntax("Commands not allowed.")
	}

	for _, rv := range cmd.RedirectsOrEnvVars {
		if _, ok := rv.(*ast.Redirect); ok {
			return invalidSyntax("Redirects not allowed.")
		}
	}

	for _, rv := range cmd.RedirectsOrEnvVars {
		v, ok := rv.(*ast.EnvVar)
		if !ok {
			continue
		}

		switch {
		case v.Append:
			return restrictedSyntax(fmt.Sprintf("Appending to variable %s is not allowed.", v.Name), v.Name)
		case v.Indexed:
			return restrictedSyntax(fmt.Sprintf("Indexed assignment to %s is not allowed.", v.Name), v.Name)
		case v.Array:
			return restrictedSyntax(fmt.Sprintf("Array assignment to %s is not allowed.", v.Name), v.Name)
		case v.Value == nil:
			return invalidSyntax(fmt.Sprintf("Variable %s assigned without value.", v.Name))
		}

		value, err := e.complexWord(v.Value)
		if err != nil {
			return err
		}

		e.vars[v.Name] = value

		e.cfg.logger.TraceContext(e.ctx, "assign",
			slog.String("name", v.Name),
			slog.String("value", value))
	}

	return nil
}
