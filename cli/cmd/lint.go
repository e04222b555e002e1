package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/abmeta/lang"
	"github.com/ardnew/abmeta/log"
)

// Lint checks that each declaration file evaluates on its own.
//
// Unlike eval, every file is checked even after one fails, and each file
// starts from an empty context.
type Lint struct {
	Files []string `arg:"" help:"Declaration files to check, or '-' for stdin" name:"file"`
	Known bool     `       help:"Treat unset build-system variables as empty"     short:"k"`
}

// Run executes the lint command.
func (l *Lint) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	std := streamsFrom(ctx)

	srcs, err := readSources(ctx, l.Files)
	if err != nil {
		return err
	}

	var failed []string

	for _, src := range srcs {
		_, err := evaluate(ctx, std.err, []Source{src}, lang.WithKnownVariables(l.Known))
		if err != nil {
			failed = append(failed, src.Name)

			continue
		}

		log.DebugContext(ctx, "file ok", slog.String("file", src.Name))
	}

	if len(failed) > 0 {
		return ErrLint.With(
			slog.Int("failed", len(failed)),
			slog.Int("total", len(srcs)),
			slog.Any("files", failed),
		)
	}

	return nil
}
