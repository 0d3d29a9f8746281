package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/konf/cli/cmd"
	"github.com/ardnew/konf/log"
	"github.com/ardnew/konf/pkg"
)

// CLI is the top-level command-line interface for konf.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Lang  langConfig  `embed:"" group:"lang"`

	Source  []string         `help:"Input source file(s) or '-' for stdin" name:"source" short:"s" type:"existingfile"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Eval  cmd.Eval  `cmd:"" default:"withargs" help:"Evaluate a konf program"`
	Check cmd.Check `cmd:""                    help:"Validate a konf program"`
	Query cmd.Query `cmd:""                    help:"Query evaluated constants with an expr-lang expression"`
	Fmt   cmd.Fmt   `cmd:""                    help:"Format a konf program"`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session"`
	Init  cmd.Init  `cmd:""                    help:"Initialize configuration file"`
}

// Option configures [Run].
type Option func(*[]kong.Option)

// WithKongOptions appends options to the kong parser. It exists for
// redirecting output and exit handling in tests.
func WithKongOptions(opts ...kong.Option) Option {
	return func(o *[]kong.Option) { *o = append(*o, opts...) }
}

// Run executes the konf CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args []string,
	opts ...Option,
) (err error) {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Lang.vars())

	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	// Logging flags apply before parsing so that configuration and parse
	// errors are reported in the requested format.
	cli.Log.scan(args)

	kopts := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Lang.group()},
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
	}

	for _, opt := range opts {
		opt(&kopts)
	}

	parser, err := kong.New(&cli, kopts...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Flags that do not go through a TextUnmarshaler, such as the time
	// layout, take effect here.
	cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithOptions(ctx, cli.Lang.options()...)

	log.TraceContext(ctx, "run",
		slog.String("command", ktx.Command()),
		slog.Int("source_count", len(cli.Source)),
	)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	// Commands receive ctx from the singleton provider, which reads the
	// variable updated above.
	return ktx.Run()
}
