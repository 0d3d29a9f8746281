package lang

import (
	"context"
	"log/slog"
	"strings"
)

// Session evaluates a konf program incrementally.
//
// Each successful call to [Session.Define] extends the session's table with
// new declarations. A failed call leaves the session unchanged. A Session
// is not safe for concurrent use.
type Session struct {
	opts   []Option
	source []string
	table  *Table
}

// NewSession returns an empty session. The options apply to every parse and
// evaluation performed by the session.
func NewSession(opts ...Option) *Session {
	return &Session{opts: opts, table: newTable()}
}

// Define parses text as one or more statements and evaluates them against
// the constants already defined in the session.
func (s *Session) Define(ctx context.Context, text string) (*Table, error) {
	ast, err := ParseSource(ctx, text, s.opts...)
	if err != nil {
		return nil, err
	}

	table, err := ast.evaluateInto(ctx, s.table.clone())
	if err != nil {
		return nil, err
	}

	ast.logger.TraceContext(ctx, "session define",
		slog.Int("declaration_count", len(ast.Declarations)),
		slog.Int("constant_count", table.Len()))

	s.source = append(s.source, strings.TrimSpace(text))
	s.table = table

	return table, nil
}

// Eval parses text as a single value expression and evaluates it against
// the constants defined in the session.
func (s *Session) Eval(ctx context.Context, text string) (Value, error) {
	n, err := ParseValue(text, s.opts...)
	if err != nil {
		return Value{}, err
	}

	return EvaluateNode(ctx, s.table, n, s.opts...)
}

// Query runs an expr-lang expression over the session's constants.
// See [Table.Query].
func (s *Session) Query(ctx context.Context, text string) (any, error) {
	return s.table.Query(ctx, text)
}

// Table returns the constants defined so far.
func (s *Session) Table() *Table { return s.table }

// Source returns the accumulated statements accepted by the session.
func (s *Session) Source() string { return strings.Join(s.source, "\n") }

// Reset discards all definitions.
func (s *Session) Reset() {
	s.source = nil
	s.table = newTable()
}
