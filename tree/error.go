package tree

import (
	"fmt"
	"log/slog"
	"strings"
)

// Error represents a tree loading error with structured logging support.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same message, so that
// wrapped copies of a sentinel still match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

var (
	ErrWalk        = NewError("walk tree")
	ErrMissingSpec = NewError("spec file not found")
	ErrReadUnit    = NewError("read package unit")
	ErrParseUnit   = NewError("parse package unit")
	ErrPackage     = NewError("invalid package")
	ErrFilter      = NewError("compile filter")
)

// FieldErrorKind classifies a [PackageError].
type FieldErrorKind int

const (
	MissingField FieldErrorKind = iota
	FieldTypeError
	FieldSyntaxError
)

// PackageError reports a package unit whose variables do not describe a
// valid package.
type PackageError struct {
	Package string
	Field   string
	Type    string // expected type, for FieldTypeError
	Kind    FieldErrorKind
}

func (e *PackageError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("Field %s missing.", e.Field)
	case FieldTypeError:
		return fmt.Sprintf("Field %s cannot be parsed as %s.", e.Field, e.Type)
	default:
		return fmt.Sprintf("Field %s has invalid syntax.", e.Field)
	}
}

func (e *PackageError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("package", e.Package),
		slog.String("field", e.Field),
		slog.String("reason", e.Error()),
	)
}
