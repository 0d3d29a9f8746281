package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/konf/log"
)

// Query evaluates a konf program and runs an expr-lang expression over its
// constants.
type Query struct {
	Format string `default:"json" enum:"json,yaml" help:"Output format for non-string results (${enum})." short:"f"`

	Expr string `arg:"" help:"expr-lang expression, e.g. 'oct(a * b)'." name:"expr"`
	Text string `arg:"" help:"Program text. Defaults to --source files, then stdin." name:"text" optional:""`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := input(ctx, q.Text)
	if err != nil {
		return err
	}

	table, err := evaluate(ctx, src)
	if err != nil {
		return err
	}

	result, err := table.Query(ctx, q.Expr)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "query",
		slog.String("expr", q.Expr),
		slog.String("result_type", fmt.Sprintf("%T", result)),
	)

	return writeResult(stdout(ctx), result, q.Format)
}

// writeResult prints strings verbatim and everything else in format.
func writeResult(w io.Writer, result any, format string) error {
	if s, ok := result.(string); ok {
		_, err := fmt.Fprintln(w, s)

		return err
	}

	var (
		data []byte
		err  error
	)

	switch format {
	case "yaml":
		data, err = yaml.Marshal(result)

	default:
		data, err = json.Marshal(result)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", format))
	}

	_, err = fmt.Fprintln(w, strings.TrimRight(string(data), "\n"))

	return err
}
