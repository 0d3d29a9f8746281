package lang

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/ardnew/konf/log"
)

// Evaluate resolves every declaration of ast in source order and returns the
// resulting constant table.
//
// Each declaration sees only the names bound by declarations before it.
// Evaluation stops at the first error; no partial table is returned.
// Options given here override those the AST was parsed with for this call
// only.
func (ast *AST) Evaluate(ctx context.Context, opts ...Option) (*Table, error) {
	return ast.withOptions(opts...).evaluateInto(ctx, newTable())
}

// evaluateInto extends table with the declarations of ast.
func (ast *AST) evaluateInto(ctx context.Context, table *Table) (*Table, error) {
	ec := &evalContext{
		ctx:    ctx,
		table:  table,
		opts:   ast.opts,
		logger: ast.logger,
	}

	for _, d := range ast.Declarations {
		if err := context.Cause(ctx); err != nil {
			return nil, err
		}

		v, err := ec.evaluate(d.Value)
		if err != nil {
			return nil, err
		}

		if ec.opts.noRedefine {
			if _, ok := table.Lookup(d.Name()); ok {
				return nil, ErrRedefinition.WithPosition(d.Identifier.Pos).
					With(slog.String("name", d.Name()))
			}
		}

		if table.define(d.Name(), v) {
			ec.logger.DebugContext(ctx, "constant redefined",
				slog.String("name", d.Name()),
				slog.Any("pos", d.Identifier.Pos))
		}

		ec.logger.TraceContext(ctx, "evaluate declaration",
			slog.String("name", d.Name()),
			slog.String("type", v.Type.String()))
	}

	return table, nil
}

// EvaluateNode evaluates a single value expression against the bindings of
// table, which is not modified.
func EvaluateNode(
	ctx context.Context,
	table *Table,
	n *Node,
	opts ...Option,
) (Value, error) {
	var ast AST

	applyDefaults(&ast)
	applyOptions(&ast, opts...)

	if table == nil {
		table = newTable()
	}

	ec := &evalContext{
		ctx:    ctx,
		table:  table,
		opts:   ast.opts,
		logger: ast.logger,
	}

	return ec.evaluate(n)
}

// evalContext holds state during evaluation.
type evalContext struct {
	ctx    context.Context
	table  *Table
	opts   optionsKey
	logger log.Logger
}

// evaluate dispatches on the node type.
func (ec *evalContext) evaluate(n *Node) (Value, error) {
	switch n.Type {
	case NodeNumber:
		return ec.evaluateNumber(n)

	case NodeRef:
		return ec.evaluateRef(n)

	case NodeArray:
		return ec.evaluateArray(n)

	case NodeExpr:
		return ec.evaluate(n.Items[0])

	case NodeAdd, NodeSub, NodeMul:
		return ec.evaluateBinary(n)

	case NodeMax:
		return ec.evaluateMax(n)

	case NodePow:
		return ec.evaluatePow(n)

	default:
		return Value{}, ErrType.WithPosition(n.Token.Pos).
			With(slog.String("node", n.Type.String()))
	}
}

func (ec *evalContext) evaluateNumber(n *Node) (Value, error) {
	num := n.Token.Number()
	if num == nil {
		return Value{}, ErrLex.WithPosition(n.Token.Pos).
			With(slog.String("reason", "malformed octal literal")).
			With(slog.String("found", n.Token.Text))
	}

	return ec.checkBits(n, Value{Type: TypeInteger, Int: num})
}

func (ec *evalContext) evaluateRef(n *Node) (Value, error) {
	v, ok := ec.table.Lookup(n.Token.Text)
	if !ok {
		return Value{}, ErrUndefinedReference.WithPosition(n.Token.Pos).
			With(slog.String("name", n.Token.Text))
	}

	return v, nil
}

func (ec *evalContext) evaluateArray(n *Node) (Value, error) {
	elems := make([]Value, len(n.Items))

	for i, item := range n.Items {
		v, err := ec.evaluate(item)
		if err != nil {
			return Value{}, err
		}

		elems[i] = v
	}

	return Value{Type: TypeArray, Elems: elems}, nil
}

// operands evaluates both operands of a binary or call node, requiring each
// to be an integer.
func (ec *evalContext) operands(n *Node) (x, y *big.Int, err error) {
	var vals [2]*big.Int

	for i, item := range n.Items[:2] {
		v, err := ec.evaluate(item)
		if err != nil {
			return nil, nil, err
		}

		if !v.IsInteger() {
			return nil, nil, ErrType.WithPosition(item.Token.Pos).
				With(slog.String("operator", n.Token.Text)).
				With(slog.String("expected", TypeInteger.String())).
				With(slog.String("found", v.Type.String()))
		}

		vals[i] = v.Int
	}

	return vals[0], vals[1], nil
}

func (ec *evalContext) evaluateBinary(n *Node) (Value, error) {
	x, y, err := ec.operands(n)
	if err != nil {
		return Value{}, err
	}

	z := new(big.Int)

	switch n.Type {
	case NodeAdd:
		z.Add(x, y)
	case NodeSub:
		z.Sub(x, y)
	case NodeMul:
		if bits := ec.opts.maxBits; bits > 0 && x.BitLen()+y.BitLen() > bits+1 {
			return Value{}, ec.overflow(n)
		}

		z.Mul(x, y)
	}

	return ec.checkBits(n, Value{Type: TypeInteger, Int: z})
}

func (ec *evalContext) evaluateMax(n *Node) (Value, error) {
	x, y, err := ec.operands(n)
	if err != nil {
		return Value{}, err
	}

	if x.Cmp(y) >= 0 {
		return Value{Type: TypeInteger, Int: x}, nil
	}

	return Value{Type: TypeInteger, Int: y}, nil
}

func (ec *evalContext) evaluatePow(n *Node) (Value, error) {
	x, y, err := ec.operands(n)
	if err != nil {
		return Value{}, err
	}

	if y.Sign() < 0 {
		return Value{}, ErrArithmetic.WithPosition(n.Token.Pos).
			With(slog.String("reason", "negative exponent")).
			With(slog.String("exponent", y.String()))
	}

	// Bases 0, 1 and -1 never grow. For |x| >= 2 the result has more than
	// y*(bitlen(x)-1) bits.
	if bits := ec.opts.maxBits; bits > 0 && x.BitLen() > 1 {
		low := new(big.Int).Mul(y, big.NewInt(int64(x.BitLen()-1)))
		if low.Cmp(big.NewInt(int64(bits))) >= 0 {
			return Value{}, ec.overflow(n)
		}
	}

	return ec.checkBits(n, Value{Type: TypeInteger, Int: new(big.Int).Exp(x, y, nil)})
}

// checkBits fails if v is an integer wider than the configured limit.
func (ec *evalContext) checkBits(n *Node, v Value) (Value, error) {
	if bits := ec.opts.maxBits; bits > 0 && v.Int.BitLen() > bits {
		return Value{}, ec.overflow(n)
	}

	return v, nil
}

func (ec *evalContext) overflow(n *Node) *Error {
	return ErrArithmetic.WithPosition(n.Token.Pos).
		With(slog.String("reason", "overflow")).
		With(slog.String("operator", n.Token.Text)).
		With(slog.Int("max_bits", ec.opts.maxBits))
}
