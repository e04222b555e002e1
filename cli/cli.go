package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/abmeta/cli/cmd"
	"github.com/ardnew/abmeta/pkg"
)

// CLI is the top-level command-line interface for abmeta.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Eval    cmd.Eval    `cmd:"" default:"withargs" help:"Evaluate declaration files"`
	Lint    cmd.Lint    `cmd:""                    help:"Check that declaration files evaluate"`
	Repl    cmd.Repl    `cmd:""                    help:"Evaluate declarations interactively"`
	Tree    cmd.Tree    `cmd:""                    help:"List the packages of a tree"`
	Dump    cmd.Dump    `cmd:""                    help:"Dump the variables of every package of a tree"`
	Cycles  cmd.Cycles  `cmd:""                    help:"Report dependency cycles in a tree"`
	Deps    cmd.Deps    `cmd:""                    help:"Resolve the dependency closure of packages"`
	SrcInfo cmd.SrcInfo `cmd:""                    help:"Print the package described by a JSON .SRCINFO"`
	Index   cmd.Index   `cmd:""                    help:"Maintain a package index database"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Version cmd.Version `cmd:""                    help:"Print version information"`
}

// Run executes the abmeta CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	paths := userLayout()
	if err := paths.mkdirAll(); err != nil {
		return err
	}

	configFilePath := paths.configFile()

	vars := paths.vars().
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing so that parse errors are logged the
	// way the user asked, wherever the flags appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx, ktx.Command())()

	return ktx.Run(ctx, &cli)
}
