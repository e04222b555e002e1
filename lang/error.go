package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp/syntax"
)

// Kind classifies a [ParseError].
type Kind int

const (
	// KindLexer is source the shell parser cannot read.
	KindLexer Kind = iota
	// KindInvalidSyntax is a construct outside the accepted subset.
	KindInvalidSyntax
	// KindRestrictedSyntax is a bash extension that is deliberately refused.
	KindRestrictedSyntax
	// KindContext is a reference to an undefined variable.
	KindContext
	// KindSubstitution is a malformed or failing substitution.
	KindSubstitution
	// KindGlob is a malformed or unmatched pattern.
	KindGlob
	// KindRegex is a pattern whose regular expression does not compile.
	KindRegex
)

var kindLabels = [...]string{
	KindLexer:            "Invalid or unsupported syntax",
	KindInvalidSyntax:    "Invalid syntax",
	KindRestrictedSyntax: "Restricted syntax",
	KindContext:          "Context error",
	KindSubstitution:     "Substitution error",
	KindGlob:             "Glob translation error",
	KindRegex:            "Regex error",
}

// String returns the human-readable label of k.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindLabels) {
		return kindLabels[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// ErrorInfo describes what went wrong, independent of where.
//
// Keyword is the variable or token implicated, if any. It is used to narrow
// the highlighted span when rendering.
type ErrorInfo struct {
	Message string
	Keyword string
	Kind    Kind
}

func (e *ErrorInfo) Error() string { return e.Kind.String() + ": " + e.Message }

func lexerError(msg string) *ErrorInfo {
	return &ErrorInfo{Kind: KindLexer, Message: msg}
}

func invalidSyntax(msg string) *ErrorInfo {
	return &ErrorInfo{Kind: KindInvalidSyntax, Message: msg}
}

func restrictedSyntax(msg, keyword string) *ErrorInfo {
	return &ErrorInfo{Kind: KindRestrictedSyntax, Message: msg, Keyword: keyword}
}

func contextError(msg, keyword string) *ErrorInfo {
	return &ErrorInfo{Kind: KindContext, Message: msg, Keyword: keyword}
}

func substitutionError(msg, keyword string) *ErrorInfo {
	return &ErrorInfo{Kind: KindSubstitution, Message: msg, Keyword: keyword}
}

func globError(msg string) *ErrorInfo {
	return &ErrorInfo{Kind: KindGlob, Message: msg}
}

func regexError(err error) *ErrorInfo {
	var serr *syntax.Error
	if !errors.As(err, &serr) {
		return &ErrorInfo{Kind: KindRegex, Message: "Internal regex error."}
	}

	switch serr.Code {
	case syntax.ErrLarge, syntax.ErrNestingDepth:
		return &ErrorInfo{Kind: KindRegex, Message: "Compiled syntax too big."}
	case syntax.ErrInternalError:
		return &ErrorInfo{Kind: KindRegex, Message: "Internal regex error."}
	default:
		return &ErrorInfo{Kind: KindRegex, Message: "Syntax error: " + serr.Error()}
	}
}

// ParseError locates an [ErrorInfo] in the source it came from.
//
// PrevByte is the offset where the failing top-level command began and Byte
// the offset just past it. Line and Col are one-based.
type ParseError struct {
	Info     *ErrorInfo
	Line     int
	Col      int
	Byte     int
	PrevByte int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d, col %d. Reason: %s",
		e.Info.Kind, e.Line, e.Col, e.Info.Message)
}

// Unwrap returns the underlying [ErrorInfo].
func (e *ParseError) Unwrap() error { return e.Info }

// Kind returns the classification of e.
func (e *ParseError) Kind() Kind { return e.Info.Kind }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Info.Kind.String()),
		slog.String("reason", e.Info.Message),
		slog.Int("line", e.Line),
		slog.Int("col", e.Col),
	}

	if e.Info.Keyword != "" {
		attrs = append(attrs, slog.String("keyword", e.Info.Keyword))
	}

	return slog.GroupValue(attrs...)
}

// KindOf reports the [Kind] of the first [ErrorInfo] in err's chain.
func KindOf(err error) (Kind, bool) {
	var info *ErrorInfo
	if errors.As(err, &info) {
		return info.Kind, true
	}

	return 0, false
}
