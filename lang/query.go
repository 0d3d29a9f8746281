package lang

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Query evaluates an expr-lang expression with the constants of t in scope
// as variables. Integers that fit in int64 are plain ints and arrays are
// []any, so expressions such as
//
//	threads / cores
//	len(memory) > 2 && memory[0] == 256
//	oct(total)
//
// work as expected. The result is returned as produced by expr-lang.
//
// Besides the expr-lang builtins, the following functions are available:
//
//	oct(n)   the konf octal literal for integer n, e.g. "0o10"
//	dec(s)   the integer value of a konf octal literal string
func (t *Table) Query(ctx context.Context, source string) (any, error) {
	if err := context.Cause(ctx); err != nil {
		return nil, err
	}

	env := make(map[string]any, t.Len())
	for name, v := range t.All() {
		env[name] = queryValue(v)
	}

	program, err := expr.Compile(source,
		expr.Env(env),
		expr.Function("oct", octFunc),
		expr.Function("dec", decFunc),
	)
	if err != nil {
		return nil, ErrQuery.Wrap(err).
			With(slog.String("source", source))
	}

	out, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrQuery.Wrap(err).
			With(slog.String("source", source))
	}

	return out, nil
}

// queryValue converts v for use in expr-lang, which computes with int.
func queryValue(v Value) any {
	switch {
	case v.IsArray():
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = queryValue(e)
		}

		return out

	case v.fitsInt():
		n, _ := v.Int64()

		return int(n)
	}

	return v.Native()
}

func octFunc(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("oct: want 1 argument, got %d", len(params))
	}

	switch n := params[0].(type) {
	case int:
		return octal(big.NewInt(int64(n))), nil
	case int64:
		return octal(big.NewInt(n)), nil
	case *big.Int:
		return octal(n), nil
	default:
		return nil, fmt.Errorf("oct: want integer, got %T", params[0])
	}
}

func decFunc(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("dec: want 1 argument, got %d", len(params))
	}

	s, ok := params[0].(string)
	if !ok {
		return nil, fmt.Errorf("dec: want string, got %T", params[0])
	}

	toks, err := Lex(s)
	if err != nil || len(toks) != 2 || toks[0].Kind != TokenNumber {
		return nil, fmt.Errorf("dec: %q is not an octal literal", s)
	}

	n := toks[0].Number()
	if !n.IsInt64() {
		return n, nil
	}

	return int(n.Int64()), nil
}
