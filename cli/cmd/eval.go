package cmd

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ardnew/konf/cli/cmd/repl"
	"github.com/ardnew/konf/lang"
	"github.com/ardnew/konf/log"
)

// Eval evaluates a konf program and prints the resulting constants.
type Eval struct {
	Format string `default:"json" enum:"json,yaml,native,text" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                                  help:"Indent width for json and yaml output." short:"i"`

	Text string `arg:"" help:"Program text. Defaults to --source files, then stdin." name:"text" optional:""`
}

// Run executes the eval command.
//
// With no text, no --source files and a terminal on stdin, Run starts the
// interactive REPL instead.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if strings.TrimSpace(e.Text) == "" &&
		sourceFilesFrom(ctx) == nil &&
		stdinIsTerminal(ctx) {
		log.DebugContext(ctx, "stdin is a terminal, starting repl")

		return runREPL(ctx)
	}

	src, err := input(ctx, e.Text)
	if err != nil {
		return err
	}

	table, err := evaluate(ctx, src)
	if err != nil {
		return err
	}

	return writeTable(ctx, stdout(ctx), table, e.Format, e.Indent)
}

// evaluate runs the program and, on failure, prints the offending source
// line to stderr.
func evaluate(ctx context.Context, src string) (*lang.Table, error) {
	table, err := lang.EvaluateConfig(ctx, src, optionsFrom(ctx)...)
	if err != nil {
		report(ctx, src, err)

		return nil, ErrEvaluate.Wrap(err)
	}

	log.DebugContext(ctx, "evaluated",
		slog.Int("constant_count", table.Len()),
		slog.Int("source_length", len(src)),
	)

	return table, nil
}

// report writes a caret snippet locating err in src, if it has a position.
func report(ctx context.Context, src string, err error) {
	if snippet := lang.Snippet(src, err); snippet != "" {
		_, _ = io.WriteString(stderr(ctx), snippet)
	}
}

func writeTable(
	ctx context.Context,
	w io.Writer,
	table *lang.Table,
	format string,
	indent int,
) error {
	var err error

	switch format {
	case "json":
		err = table.FormatJSON(ctx, w, indent)

	case "yaml":
		err = table.FormatYAML(ctx, w, indent)

	case "native":
		err = table.Format(ctx, w)

	case "text":
		err = table.FormatText(ctx, w)

	default:
		return ErrUnknownFormat.With(slog.String("format", format))
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", format))
	}

	return nil
}

// runREPL starts an interactive session using the history file in the
// cache directory.
func runREPL(ctx context.Context) error {
	var history string

	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			history = filepath.Join(dir, repl.HistoryFile)
		}
	}

	return repl.Run(ctx,
		repl.WithOptions(optionsFrom(ctx)...),
		repl.WithHistory(history),
		repl.WithInput(stdinFrom(ctx)),
		repl.WithOutput(stdout(ctx)),
	)
}

// Repl starts the interactive session.
type Repl struct{}

// Run executes the repl command.
func (*Repl) Run(ctx context.Context) error { return runREPL(ctx) }

// Check validates a konf program without printing its constants.
type Check struct {
	Quiet bool `help:"Print nothing on success." short:"q"`

	Text string `arg:"" help:"Program text. Defaults to --source files, then stdin." name:"text" optional:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := input(ctx, c.Text)
	if err != nil {
		return err
	}

	table, err := evaluate(ctx, src)
	if err != nil {
		return err
	}

	if c.Quiet {
		return nil
	}

	_, err = io.WriteString(stdout(ctx),
		"ok: "+pluralize(table.Len(), "constant")+"\n")

	return err
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	return strconv.Itoa(n) + " " + noun + "s"
}
