package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/abmeta/lang"
	"github.com/ardnew/abmeta/pkg"
)

// Output formats accepted by the --format flags.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatShell = "shell"
)

// defaultIndent is the indent width of JSON and YAML output.
const defaultIndent = 2

// write encodes v to w in the given format.
//
// The shell format only applies to a [lang.Context], which is written as
// declarations that can be fed back to the evaluator.
func write(ctx context.Context, w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", strings.Repeat(" ", defaultIndent))
		if err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case FormatYAML:
		data, err := yaml.MarshalContext(ctx, v, yaml.Indent(defaultIndent))
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	case FormatShell:
		vars, ok := v.(lang.Context)
		if !ok {
			return pkg.ErrInvalidFormat.Wrapf("%s output needs a variable map", format)
		}

		_, err := vars.WriteTo(w)

		return err
	}

	return pkg.ErrInvalidFormat.Wrapf("%q", format)
}
