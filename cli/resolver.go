package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/abmeta/cli/cmd"
	"github.com/ardnew/abmeta/lang"
	"github.com/ardnew/abmeta/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written in the declaration language, as produced by the init command:
//
//	# abmeta configuration
//	LOG_LEVEL='debug'
//	LOG_FORMAT='text'
//	TREE='/home/user/src/abbs-tree'
//
// Each variable sets the flag whose name, upper-cased with hyphens turned
// into underscores, matches it. Command-line flags override config file
// values.
//
// A file that fails to evaluate is logged and treated as empty.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		vars := lang.Context{}

		if err := lang.Parse(ctx, string(data), vars); err != nil {
			log.WarnContext(ctx, "ignoring configuration", slog.Any("error", err))

			return config{}, nil
		}

		return config(vars), nil
	}
}

// config implements [kong.Resolver] over evaluated configuration variables.
type config lang.Context

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. Flags without a variable resolve to
// nil, which leaves them to their defaults.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[cmd.VariableName(flag.Name)]; ok {
		return v, nil
	}

	return nil, nil //nolint:nilnil
}
