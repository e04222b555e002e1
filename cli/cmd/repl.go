package cmd

import (
	"context"
	"os"

	"github.com/ardnew/abmeta/cli/cmd/repl"
	"github.com/ardnew/abmeta/lang"
	"github.com/ardnew/abmeta/log"
)

// Repl starts an interactive session that evaluates declarations into a
// persistent context.
type Repl struct {
	Files []string `arg:"" help:"Declaration files evaluated before the session starts" name:"file" optional:""`
	Known bool     `       help:"Treat unset build-system variables as empty"                             short:"k"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := readSources(ctx, r.Files)
	if err != nil {
		return err
	}

	opts := []lang.Option{lang.WithKnownVariables(r.Known)}

	vars, err := evaluate(ctx, streamsFrom(ctx).err, srcs, opts...)
	if err != nil {
		return err
	}

	cacheDir := os.TempDir()
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			cacheDir = dir
		}
	}

	return repl.Run(ctx, vars, cacheDir, log.Default(), opts...)
}
