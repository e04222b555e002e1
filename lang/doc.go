// Package lang evaluates package metadata declarations.
//
// A declaration file is a restricted dialect of bash that may only assign
// variables. Evaluating it fills a [Context] with the resulting values:
//
//	PKGNAME=bash
//	PKGVER=5.2.15
//	SRCS="tbl::https://ftp.gnu.org/gnu/bash/bash-${PKGVER%.*}.tar.gz"
//	PKGDES="The GNU Bourne Again shell"
//
// # Accepted commands
//
// Each top-level command must be a list of simple commands joined by && or
// ||, and every simple command must consist only of NAME=value assignments.
// Every command in a list is evaluated regardless of the operator joining
// it. Values are assigned in source order, so later assignments can refer to
// earlier ones.
//
// Jobs, pipelines, compound commands (if, for, while, case, subshells and
// groups), function definitions, command words and redirections are
// rejected. So are assignments without a value and the bash-only append,
// indexed and array assignments.
//
// # Words
//
// Single-quoted text is taken verbatim. Double-quoted and unquoted text may
// contain backslash escapes and parameter references. An escaped newline is
// a line continuation and produces nothing. Only named variables may be
// referenced; positional and special parameters are rejected.
//
// # Substitutions
//
//	${#V}            length of V in characters
//	${V:OFF[:LEN]}   substring; OFF and LEN may be negative and wrapped in ( )
//	${V/PAT/REPL}    replace the first match of PAT
//	${V//PAT/REPL}   replace every match of PAT
//	${V#PAT}         remove the smallest prefix matching PAT
//	${V##PAT}        remove the largest prefix matching PAT
//	${V%PAT}         remove the smallest suffix matching PAT
//	${V%%PAT}        remove the largest suffix matching PAT
//	${V-W} ${V:-W}   W if V is unset (or empty, with the colon)
//	${V+W} ${V:+W}   W if V is set (and non-empty, with the colon)
//	${V?W} ${V:?W}   fail with message W if V is unset (or empty)
//	${V,} ${V,,}     lower-case the first or every character
//	${V^} ${V^^}     upper-case the first or every character
//
// The case operators accept an optional pattern restricting which characters
// are converted. Assignment (${V=W}), arithmetic ($((...))) and command
// substitution ($(...)) are rejected.
//
// Patterns are globs translated to regular expressions by [TranslateGlob].
// Note that ? matches zero or one character.
//
// # Errors
//
// Evaluation stops at the first error, which is returned as a [*ParseError].
// [ParseError.Render] formats it as an annotated excerpt of the source.
package lang
