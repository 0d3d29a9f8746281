package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/ardnew/konf/lang"
)

// Fmt parses a konf program and prints it in the chosen representation.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical konf syntax (default)."`
	AST    AST    `cmd:""                    help:"Print the abstract syntax tree."`
	Tokens Tokens `cmd:""                    help:"Print the token stream."`
}

// Native formats input as canonical konf syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width for nested arrays (0 for one line)." short:"i"`

	Text string `arg:"" help:"Program text. Defaults to --source files, then stdin." name:"text" optional:""`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ast, _, err := parse(ctx, f.Text, "native")
	if err != nil {
		return err
	}

	return ast.Format(ctx, stdout(ctx), f.Indent)
}

// AST prints the abstract syntax tree of the input.
type AST struct {
	Text string `arg:"" help:"Program text. Defaults to --source files, then stdin." name:"text" optional:""`
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ast, _, err := parse(ctx, a.Text, "ast")
	if err != nil {
		return err
	}

	return ast.Print(ctx, stdout(ctx))
}

// Tokens prints one line per token: position, kind and text.
type Tokens struct {
	Text string `arg:"" help:"Program text. Defaults to --source files, then stdin." name:"text" optional:""`
}

// Run executes the fmt tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := input(ctx, t.Text)
	if err != nil {
		return err
	}

	toks, err := lang.Lex(src)
	if err != nil {
		report(ctx, src, err)

		return lang.WrapError(err).With(slog.String("format", "tokens"))
	}

	return writeTokens(stdout(ctx), toks)
}

func writeTokens(w io.Writer, toks []lang.Token) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, tok := range toks {
		text := tok.Text
		if tok.Kind == lang.TokenEOF {
			text = ""
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", tok.Pos, tok.Kind, text); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// parse reads the input selected by text and parses it, reporting a caret
// snippet on failure.
func parse(
	ctx context.Context,
	text, format string,
) (*lang.AST, string, error) {
	src, err := input(ctx, text)
	if err != nil {
		return nil, "", err
	}

	ast, err := lang.ParseSource(ctx, src, optionsFrom(ctx)...)
	if err != nil {
		report(ctx, src, err)

		return nil, src, lang.WrapError(err).With(slog.String("format", format))
	}

	return ast, src, nil
}
