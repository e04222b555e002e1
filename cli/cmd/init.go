package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/abmeta/lang"
	"github.com/ardnew/abmeta/log"
	"github.com/ardnew/abmeta/pkg"
	"github.com/ardnew/abmeta/profile"
)

// Init generates a default configuration file with current flag values.
//
// The file is written in the declaration language itself, one NAME='value'
// assignment per flag, where NAME is the flag name upper-cased with hyphens
// turned into underscores.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// VariableName returns the configuration variable that sets a flag.
func VariableName(flag string) string {
	return strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	if err := i.writeConfig(file, ktx); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// writeConfig writes a declaration for each visible top-level flag that has
// a value.
func (i *Init) writeConfig(w io.Writer, ktx *kong.Context) error {
	if _, err := fmt.Fprintf(w, "# %s configuration\n", pkg.Name); err != nil {
		return err
	}

	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := flagValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		if _, err := fmt.Fprintf(w, "%s=%s\n", VariableName(flag.Name), lang.Quote(val)); err != nil {
			return err
		}
	}

	return nil
}

// flagValue renders a parsed flag value the way kong reads it back. It
// reports false for values not worth writing.
func flagValue(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false

	case string:
		return v, v != ""

	case []string:
		return strings.Join(v, ","), len(v) > 0

	case fmt.Stringer:
		return v.String(), true

	default:
		return fmt.Sprint(v), true
	}
}
