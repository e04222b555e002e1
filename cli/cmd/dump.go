package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/ardnew/abmeta/pkg"
	"github.com/ardnew/abmeta/tree"
)

// Dump evaluates every spec or defines file of a tree on its own and writes
// the variables of each as one JSON object keyed by relative path.
type Dump struct {
	Output   string    `help:"Write the dump to this file instead of stdout"         short:"O" type:"path"`
	Packages TreeFlags `embed:""`
	Defines  bool      `help:"Dump defines files instead of spec files"              short:"d"`
	Errors   bool      `help:"Print the diagnostic of each file that fails"          short:"e"`
	Zstd     bool      `help:"Compress the dump with zstd"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	name, seed := "spec", false
	if d.Defines {
		name, seed = "defines", true
	}

	res, err := tree.DumpFiles(ctx, d.Packages.Root, name, seed, d.Packages.options()...)
	if err != nil {
		return ErrLoadTree.With(slog.String("root", d.Packages.Root)).Wrap(err)
	}

	std := streamsFrom(ctx)

	if d.Errors {
		for _, f := range res.Failures {
			data, _ := os.ReadFile(f.Path)
			report(std.err, Source{Name: f.Path, Data: data}, f.Err)
		}
	}

	if err := d.write(std.out, res.Vars); err != nil {
		return err
	}

	_, err = fmt.Fprintf(std.err, "Total: %d, Errors: %d (%d%%)\n",
		res.Total, len(res.Failures), res.Percent())

	return err
}

func (d *Dump) write(stdout io.Writer, v any) (err error) {
	w := stdout

	if d.Output != "" {
		f, err := os.Create(d.Output)
		if err != nil {
			return ErrWriteOutput.With(slog.String("file", d.Output)).Wrap(err)
		}

		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = ErrWriteOutput.With(slog.String("file", d.Output)).Wrap(cerr)
			}
		}()

		w = f
	}

	if d.Zstd {
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		defer func() {
			if cerr := enc.Close(); err == nil && cerr != nil {
				err = ErrWriteOutput.Wrap(cerr)
			}
		}()

		w = enc
	}

	data, err := json.Marshal(v)
	if err != nil {
		return pkg.ErrJSONMarshal.Wrap(err)
	}

	if _, err := w.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
