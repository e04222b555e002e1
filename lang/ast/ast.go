// Package ast defines the command and word tree consumed by the evaluator.
//
// The tree is deliberately narrower than a full shell grammar: it records
// just enough shape for the evaluator to tell an accepted assignment list
// from a construct it must reject. Any parser that can produce these nodes
// can drive the evaluator.
package ast

// TopLevelCommand is one complete command as delimited by the parser.
type TopLevelCommand struct {
	Command Command
}

// Command is either a [*List] or a [*Job].
type Command interface{ command() }

// List is a sequence of commands joined by && and ||.
type List struct {
	First ListableCommand
	Rest  []AndOr
}

// Job is a list run in the background with &.
type Job struct {
	List *List
}

func (*List) command() {}
func (*Job) command()  {}

// AndOrOp joins two commands of a [List].
type AndOrOp int

const (
	And AndOrOp = iota // &&
	Or                 // ||
)

func (op AndOrOp) String() string {
	if op == Or {
		return "||"
	}

	return "&&"
}

// AndOr is one trailing element of a [List].
type AndOr struct {
	Cmd ListableCommand
	Op  AndOrOp
}

// ListableCommand is either a [*SingleCommand] or a [*Pipe].
type ListableCommand interface{ listable() }

// SingleCommand wraps a command that is not part of a pipeline.
type SingleCommand struct {
	Cmd PipeableCommand
}

// Pipe is a pipeline, possibly negated with a leading !.
type Pipe struct {
	Cmds []PipeableCommand
	Bang bool
}

func (*SingleCommand) listable() {}
func (*Pipe) listable()          {}

// PipeableCommand is a [*Simple], [*Compound], or [*FunctionDef].
type PipeableCommand interface{ pipeable() }

// Simple is a simple command. Leading assignments and any redirects that
// precede the first command word are kept in RedirectsOrEnvVars; command
// words and the redirects that follow them are kept in RedirectsOrCmdWords.
type Simple struct {
	RedirectsOrEnvVars  []RedirectOrEnvVar
	RedirectsOrCmdWords []RedirectOrWord
}

// Compound is any grouping or control-flow construct. Keyword names the
// construct ("if", "for", "{", "(" ...) for diagnostics.
type Compound struct {
	Keyword string
}

// FunctionDef is a function declaration.
type FunctionDef struct {
	Name string
}

func (*Simple) pipeable()      {}
func (*Compound) pipeable()    {}
func (*FunctionDef) pipeable() {}

// RedirectOrEnvVar is either an [*EnvVar] or a [*Redirect].
type RedirectOrEnvVar interface{ redirectOrEnvVar() }

// RedirectOrWord is either a [*CmdWord] or a [*Redirect].
type RedirectOrWord interface{ redirectOrWord() }

// EnvVar is a NAME=value assignment. Value is nil when nothing follows the
// equals sign.
type EnvVar struct {
	Value ComplexWord
	Name  string
	// Append, Indexed and Array mark the bash-only forms NAME+=value,
	// NAME[i]=value and NAME=(a b).
	Append  bool
	Indexed bool
	Array   bool
}

// Redirect is an I/O redirection. Op is its operator text.
type Redirect struct {
	Op string
}

// CmdWord is a command name or argument.
type CmdWord struct {
	Word ComplexWord
}

func (*EnvVar) redirectOrEnvVar()   {}
func (*Redirect) redirectOrEnvVar() {}
func (*Redirect) redirectOrWord()   {}
func (*CmdWord) redirectOrWord()    {}
