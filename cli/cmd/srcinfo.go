package cmd

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/ardnew/abmeta/tree"
)

// SrcInfo prints the package record described by a JSON .SRCINFO file.
type SrcInfo struct {
	File   string `arg:""         default:"-"      help:"JSON .SRCINFO file, or '-' for stdin"              name:"file"`
	Spec   string `help:"Path of the spec file the package was built from" required:""                      short:"s"`
	Format string `default:"json" enum:"json,yaml" help:"Output format (${enum})"                           short:"o"`
}

// Run executes the srcinfo command.
func (c *SrcInfo) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := readSources(ctx, []string{c.File})
	if err != nil {
		return err
	}

	var data []byte
	if len(srcs) > 0 {
		data = srcs[0].Data
	}

	p, err := tree.FromSourceInfo(bytes.NewReader(data), c.Spec)
	if err != nil {
		return ErrSourceInfo.With(slog.String("file", c.File)).Wrap(err)
	}

	return write(ctx, streamsFrom(ctx).out, c.Format, p)
}
