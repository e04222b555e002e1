package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/abmeta/lang"
	"github.com/ardnew/abmeta/log"
	"github.com/ardnew/abmeta/pkg"
)

// Eval evaluates declaration files into one variable map.
type Eval struct {
	Format string   `default:"json" enum:"json,yaml,shell" help:"Output format (${enum})" short:"o"`
	Files  []string `arg:""         default:"-"            help:"Declaration files evaluated in order, or '-' for stdin" name:"file"`
	Known  bool     `                                      help:"Treat unset build-system variables as empty"           short:"k"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	std := streamsFrom(ctx)

	srcs, err := readSources(ctx, e.Files)
	if err != nil {
		return err
	}

	vars, err := evaluate(ctx, std.err, srcs, lang.WithKnownVariables(e.Known))
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "evaluated",
		slog.Int("files", len(srcs)),
		slog.Int("variables", len(vars)))

	return write(ctx, std.out, e.Format, vars)
}

// evaluate parses srcs in order into one context, the way a spec file and
// its defines file share their variables. The first failure is rendered to
// diag and stops evaluation.
func evaluate(
	ctx context.Context,
	diag io.Writer,
	srcs []Source,
	opts ...lang.Option,
) (lang.Context, error) {
	vars := lang.Context{}
	opts = append([]lang.Option{lang.WithLogger(log.Default())}, opts...)

	for _, src := range srcs {
		if err := lang.Parse(ctx, string(src.Data), vars, opts...); err != nil {
			report(diag, src, err)

			return nil, pkg.ErrEvaluate.Wrapf("%s", src.Name).Wrap(err)
		}
	}

	return vars, nil
}

// report writes the annotated diagnostic of a failed evaluation of src.
func report(w io.Writer, src Source, err error) {
	var perr *lang.ParseError
	if !errors.As(err, &perr) {
		fmt.Fprintf(w, "%s: %v\n", src.Name, err)

		return
	}

	fmt.Fprint(w, perr.Render(string(src.Data), src.Name, lang.WithColorFor(w)))
}
