package ast

// ComplexWord is either a [*Single] word or a [*Concat] of adjacent words.
type ComplexWord interface{ complexWord() }

// Single is a complex word made of exactly one word.
type Single struct {
	Word Word
}

// Concat is a sequence of words with no separating whitespace.
type Concat struct {
	Words []Word
}

func (*Single) complexWord() {}
func (*Concat) complexWord() {}

// Word is a [SingleQuoted], [*DoubleQuoted], or [*Unquoted] word.
type Word interface{ word() }

// SingleQuoted is the verbatim text between single quotes.
type SingleQuoted string

// DoubleQuoted is the sequence of simple words between double quotes.
type DoubleQuoted struct {
	Parts []SimpleWord
}

// Unquoted is a simple word outside any quotes.
type Unquoted struct {
	Word SimpleWord
}

func (SingleQuoted) word()  {}
func (*DoubleQuoted) word() {}
func (*Unquoted) word()     {}

// SimpleWord is the smallest unit of a word.
type SimpleWord interface{ simpleWord() }

type (
	// Literal is plain text.
	Literal string
	// Escaped is a character preceded by a backslash.
	Escaped string
	// Param is a bare parameter reference such as $NAME or ${NAME}.
	Param struct{ Parameter Parameter }
	// Star is an unquoted *.
	Star struct{}
	// Question is an unquoted ?.
	Question struct{}
	// SquareOpen is an unquoted [.
	SquareOpen struct{}
	// SquareClose is an unquoted ].
	SquareClose struct{}
	// Tilde is an unquoted ~.
	Tilde struct{}
	// Colon is an unquoted :.
	Colon struct{}
)

func (Literal) simpleWord()     {}
func (Escaped) simpleWord()     {}
func (*Param) simpleWord()      {}
func (*Subst) simpleWord()      {}
func (Star) simpleWord()        {}
func (Question) simpleWord()    {}
func (SquareOpen) simpleWord()  {}
func (SquareClose) simpleWord() {}
func (Tilde) simpleWord()       {}
func (Colon) simpleWord()       {}

// Parameter names the target of a parameter reference.
type Parameter interface {
	parameter()
	String() string
}

// Var is a named variable.
type Var string

// Other is any parameter that is not a named variable: positional
// parameters ($1) and special parameters ($@, $?, $#, ...).
type Other string

func (Var) parameter()   {}
func (Other) parameter() {}

func (v Var) String() string   { return string(v) }
func (o Other) String() string { return string(o) }
