package repl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ardnew/konf/lang"
)

// queryPrefix marks input as an expr-lang query rather than konf source.
const queryPrefix = "="

// inputKind classifies a line entered in eval mode.
type inputKind int

const (
	kindValue     inputKind = iota // a bare konf value, e.g. ^(a + 0o1)
	kindStatement                  // one or more (define …); statements
	kindQuery                      // =expr
)

func classify(input string) inputKind {
	switch {
	case strings.HasPrefix(input, queryPrefix):
		return kindQuery
	case strings.HasPrefix(input, "("):
		return kindStatement
	default:
		return kindValue
	}
}

// execute runs one line of eval-mode input against the session and returns
// the text to display.
func execute(ctx context.Context, s *lang.Session, input string) (string, error) {
	switch classify(input) {
	case kindQuery:
		result, err := s.Query(ctx, strings.TrimPrefix(input, queryPrefix))
		if err != nil {
			return "", err
		}

		return formatQueryResult(result), nil

	case kindStatement:
		before := s.Table() // Define replaces the table, never mutates it

		table, err := s.Define(ctx, input)
		if err != nil {
			return "", err
		}

		return formatChanges(before, table), nil

	default:
		v, err := s.Eval(ctx, input)
		if err != nil {
			return "", err
		}

		return formatValue(v), nil
	}
}

// formatValue shows v in konf syntax, followed by its decimal rendering when
// that differs.
func formatValue(v lang.Value) string {
	oct, dec := v.Octal(), v.String()
	if oct == dec {
		return oct
	}

	return oct + "  " + hintStyle.Render("# "+dec)
}

// formatChanges lists the constants of after that are new or changed
// relative to before.
func formatChanges(before, after *lang.Table) string {
	var lines []string

	for name, v := range after.All() {
		if old, ok := before.Lookup(name); ok && old.Equal(v) {
			continue
		}

		lines = append(lines, name+" = "+formatValue(v))
	}

	if len(lines) == 0 {
		return hintStyle.Render("(no changes)")
	}

	return strings.Join(lines, "\n")
}

func formatQueryResult(result any) string {
	switch r := result.(type) {
	case nil:
		return "nil"

	case string:
		return r

	case fmt.Stringer:
		return r.String()
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprint(result)
	}

	return string(data)
}

// formatError renders err with a caret snippet locating it in input.
func formatError(input string, err error) string {
	msg := errorStyle.Render("error: " + err.Error())

	if classify(input) == kindQuery {
		return msg
	}

	if snippet := lang.Snippet(input, err); snippet != "" {
		return msg + "\n" + strings.TrimRight(snippet, "\n")
	}

	return msg
}
