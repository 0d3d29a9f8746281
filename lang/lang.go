package lang

import (
	"context"
	"io"
	"log/slog"
)

// EvaluateConfig parses and evaluates a complete konf program, returning the
// constants it declares in declaration order.
//
// The error, if any, matches one of [ErrLex], [ErrParse],
// [ErrUndefinedReference], [ErrType], [ErrArithmetic] or, depending on opts,
// [ErrMaxDepthExceeded] or [ErrRedefinition].
func EvaluateConfig(ctx context.Context, text string, opts ...Option) (*Table, error) {
	ast, err := ParseSource(ctx, text, opts...)
	if err != nil {
		return nil, err
	}

	return ast.Evaluate(ctx)
}

// EvaluateReader is like [EvaluateConfig] but reads the program from r.
func EvaluateReader(ctx context.Context, r io.Reader, opts ...Option) (*Table, error) {
	ast, err := ParseReader(ctx, r, opts...)
	if err != nil {
		return nil, err
	}

	ast.logger.DebugContext(ctx, "evaluate",
		slog.Int("declaration_count", len(ast.Declarations)))

	return ast.Evaluate(ctx)
}
