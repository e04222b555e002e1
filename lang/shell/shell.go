// Package shell converts bash source into the command tree of package ast.
//
// Tokenizing and parsing are delegated to mvdan.cc/sh/v3/syntax. The adapter
// only reshapes the result, so every construct bash accepts is reported to
// the caller, who decides what to reject.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/ardnew/abmeta/lang/ast"
)

// Pos is a position in the source text. Byte is a zero-based byte offset;
// Line and Col are one-based.
type Pos struct {
	Byte int
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

func makePos(p syntax.Pos) Pos {
	return Pos{Byte: int(p.Offset()), Line: int(p.Line()), Col: int(p.Col())}
}

// Error reports source the adapter cannot represent, either because the
// underlying parser rejected it or because it uses a bash feature with no
// counterpart in package ast.
type Error struct {
	Message string
	Pos     Pos
}

func (e *Error) Error() string { return e.Pos.String() + ": " + e.Message }

// Parser yields the top-level commands of a source text in order.
//
// Statements that precede a syntax error are still delivered; the syntax
// error is returned once they have been consumed.
type Parser struct {
	src   string
	stmts []*syntax.Stmt
	err   error
	next  int
	start Pos
	end   Pos
}

// NewParser parses src as bash.
func NewParser(src string) *Parser {
	p := &Parser{src: src, end: Pos{Line: 1, Col: 1}}

	err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Stmts(
		strings.NewReader(src),
		func(s *syntax.Stmt) bool {
			p.stmts = append(p.stmts, s)

			return true
		},
	)
	if err != nil {
		p.err = p.syntaxError(err)
	}

	return p
}

// Next returns the next top-level command, or nil and a nil error once the
// source is exhausted.
func (p *Parser) Next() (*ast.TopLevelCommand, error) {
	if p.next >= len(p.stmts) {
		if p.err != nil {
			p.start = p.end
			if e, ok := p.err.(*Error); ok {
				p.end = e.Pos
			}

			return nil, p.err
		}

		return nil, nil
	}

	s := p.stmts[p.next]
	p.next++

	p.start = makePos(s.Pos())
	p.end = makePos(s.End())

	cmd, err := p.command(s)
	if err != nil {
		if e, ok := err.(*Error); ok {
			p.end = e.Pos
		}

		return nil, err
	}

	return &ast.TopLevelCommand{Command: cmd}, nil
}

// Start returns the position where the command last returned by Next began.
func (p *Parser) Start() Pos { return p.start }

// End returns the position just past the command last returned by Next. After
// a syntax error or an unsupported construct it is the position of the
// offending character.
func (p *Parser) End() Pos { return p.end }

func (p *Parser) syntaxError(err error) error {
	var (
		perr syntax.ParseError
		lerr syntax.LangError
	)

	switch {
	case errors.As(err, &perr):
		return &Error{Message: perr.Text, Pos: makePos(perr.Pos)}
	case errors.As(err, &lerr):
		return &Error{
			Message: lerr.Feature + " is not supported",
			Pos:     makePos(lerr.Pos),
		}
	default:
		end := Pos{Byte: len(p.src), Line: 1, Col: 1}
		if n := len(p.stmts); n > 0 {
			end = makePos(p.stmts[n-1].End())
		}

		return &Error{Message: err.Error(), Pos: end}
	}
}

func (p *Parser) unsupported(node syntax.Node, what string) error {
	return &Error{Message: what + " is not supported", Pos: makePos(node.Pos())}
}

func (p *Parser) text(node syntax.Node) string {
	from, to := int(node.Pos().Offset()), int(node.End().Offset())
	if from < 0 || to > len(p.src) || from > to {
		return ""
	}

	return p.src[from:to]
}

func (p *Parser) command(s *syntax.Stmt) (ast.Command, error) {
	list, err := p.list(s)
	if err != nil {
		return nil, err
	}

	if s.Background || s.Coprocess {
		return &ast.Job{List: list}, nil
	}

	return list, nil
}

// list flattens a chain of && and || into a List. The parser nests such
// chains to the left.
func (p *Parser) list(s *syntax.Stmt) (*ast.List, error) {
	if bin, ok := s.Cmd.(*syntax.BinaryCmd); ok && !s.Negated &&
		(bin.Op == syntax.AndStmt || bin.Op == syntax.OrStmt) {
		head, err := p.list(bin.X)
		if err != nil {
			return nil, err
		}

		tail, err := p.listable(bin.Y)
		if err != nil {
			return nil, err
		}

		op := ast.And
		if bin.Op == syntax.OrStmt {
			op = ast.Or
		}

		head.Rest = append(head.Rest, ast.AndOr{Op: op, Cmd: tail})

		return head, nil
	}

	first, err := p.listable(s)
	if err != nil {
		return nil, err
	}

	return &ast.List{First: first}, nil
}

func (p *Parser) listable(s *syntax.Stmt) (ast.ListableCommand, error) {
	if bin, ok := s.Cmd.(*syntax.BinaryCmd); ok &&
		(bin.Op == syntax.Pipe || bin.Op == syntax.PipeAll) {
		cmds, err := p.pipeline(bin)
		if err != nil {
			return nil, err
		}

		return &ast.Pipe{Bang: s.Negated, Cmds: cmds}, nil
	}

	cmd, err := p.pipeable(s)
	if err != nil {
		return nil, err
	}

	if s.Negated {
		return &ast.Pipe{Bang: true, Cmds: []ast.PipeableCommand{cmd}}, nil
	}

	return &ast.SingleCommand{Cmd: cmd}, nil
}

func (p *Parser) pipeline(bin *syntax.BinaryCmd) ([]ast.PipeableCommand, error) {
	var cmds []ast.PipeableCommand

	if x, ok := bin.X.Cmd.(*syntax.BinaryCmd); ok &&
		(x.Op == syntax.Pipe || x.Op == syntax.PipeAll) {
		head, err := p.pipeline(x)
		if err != nil {
			return nil, err
		}

		cmds = head
	} else {
		cmd, err := p.pipeable(bin.X)
		if err != nil {
			return nil, err
		}

		cmds = append(cmds, cmd)
	}

	cmd, err := p.pipeable(bin.Y)
	if err != nil {
		return nil, err
	}

	return append(cmds, cmd), nil
}

func (p *Parser) pipeable(s *syntax.Stmt) (ast.PipeableCommand, error) {
	switch cmd := s.Cmd.(type) {
	case nil:
		return p.simple(nil, nil, s.Redirs)
	case *syntax.CallExpr:
		return p.simple(cmd.Assigns, cmd.Args, s.Redirs)
	case *syntax.FuncDecl:
		return &ast.FunctionDef{Name: cmd.Name.Value}, nil
	case *syntax.DeclClause:
		return commandWord(cmd.Variant.Value), nil
	case *syntax.LetClause:
		return commandWord("let"), nil
	case *syntax.IfClause:
		return &ast.Compound{Keyword: "if"}, nil
	case *syntax.WhileClause:
		if cmd.Until {
			return &ast.Compound{Keyword: "until"}, nil
		}

		return &ast.Compound{Keyword: "while"}, nil
	case *syntax.ForClause:
		if cmd.Select {
			return &ast.Compound{Keyword: "select"}, nil
		}

		return &ast.Compound{Keyword: "for"}, nil
	case *syntax.CaseClause:
		return &ast.Compound{Keyword: "case"}, nil
	case *syntax.Block:
		return &ast.Compound{Keyword: "{"}, nil
	case *syntax.Subshell:
		return &ast.Compound{Keyword: "("}, nil
	case *syntax.ArithmCmd:
		return &ast.Compound{Keyword: "(("}, nil
	case *syntax.TestClause:
		return &ast.Compound{Keyword: "[["}, nil
	case *syntax.TimeClause:
		return &ast.Compound{Keyword: "time"}, nil
	case *syntax.CoprocClause:
		return &ast.Compound{Keyword: "coproc"}, nil
	case *syntax.BinaryCmd:
		// A grouped list that appears where a single command is expected.
		return &ast.Compound{Keyword: cmd.Op.String()}, nil
	default:
		return &ast.Compound{Keyword: fmt.Sprintf("%T", cmd)}, nil
	}
}

func commandWord(name string) *ast.Simple {
	return &ast.Simple{
		RedirectsOrCmdWords: []ast.RedirectOrWord{
			&ast.CmdWord{Word: &ast.Single{Word: &ast.Unquoted{Word: ast.Literal(name)}}},
		},
	}
}

func (p *Parser) simple(
	assigns []*syntax.Assign,
	args []*syntax.Word,
	redirs []*syntax.Redirect,
) (*ast.Simple, error) {
	cmd := &ast.Simple{}

	for _, as := range assigns {
		v := &ast.EnvVar{
			Append:  as.Append,
			Indexed: as.Index != nil,
			Array:   as.Array != nil,
		}
		if as.Name != nil {
			v.Name = as.Name.Value
		}

		if as.Value != nil && len(as.Value.Parts) > 0 {
			w, err := p.complexWord(as.Value, false)
			if err != nil {
				return nil, err
			}

			v.Value = w
		}

		cmd.RedirectsOrEnvVars = append(cmd.RedirectsOrEnvVars, v)
	}

	for _, arg := range args {
		w, err := p.complexWord(arg, false)
		if err != nil {
			return nil, err
		}

		cmd.RedirectsOrCmdWords = append(cmd.RedirectsOrCmdWords, &ast.CmdWord{Word: w})
	}

	for _, r := range redirs {
		rd := &ast.Redirect{Op: r.Op.String()}
		if len(args) > 0 {
			cmd.RedirectsOrCmdWords = append(cmd.RedirectsOrCmdWords, rd)
		} else {
			cmd.RedirectsOrEnvVars = append(cmd.RedirectsOrEnvVars, rd)
		}
	}

	return cmd, nil
}
