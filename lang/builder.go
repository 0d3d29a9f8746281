package lang

import (
	"log/slog"
	"math/big"
)

// NewAST returns an empty AST configured with opts, ready for [AST.Define].
func NewAST(opts ...Option) *AST {
	ast := new(AST)

	applyDefaults(ast)
	applyOptions(ast, opts...)

	return ast
}

// Define appends a declaration binding name to value and returns it.
// The name must be a valid identifier.
func (ast *AST) Define(name string, value *Node) (*Declaration, error) {
	if !IsIdentifier(name) || (ast.opts.reserved && isKeyword(name)) {
		return nil, ErrParse.
			With(slog.String("expected", TokenIdent.String())).
			With(slog.String("found", name))
	}

	d := &Declaration{
		Identifier: Token{Kind: TokenIdent, Text: name},
		Value:      value,
	}
	ast.Declarations = append(ast.Declarations, d)

	return d, nil
}

// IsIdentifier reports whether s is a valid constant name.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if !isIdentByte(s[i]) {
			return false
		}
	}

	return true
}

// Number returns a literal node for a non-negative integer.
func Number(n uint64) *Node {
	return BigNumber(new(big.Int).SetUint64(n))
}

// BigNumber returns a node evaluating to n. A negative n is expressed as a
// subtraction from zero since the language has no negative literals.
func BigNumber(n *big.Int) *Node {
	if n.Sign() < 0 {
		return Group(Sub(BigNumber(new(big.Int)), BigNumber(new(big.Int).Neg(n))))
	}

	return &Node{
		Type:  NodeNumber,
		Token: Token{Kind: TokenNumber, Text: "0o" + n.Text(8)},
	}
}

// Ref returns a reference to the constant name.
func Ref(name string) *Node {
	return &Node{Type: NodeRef, Token: Token{Kind: TokenIdent, Text: name}}
}

// List returns an array node of items.
func List(items ...*Node) *Node {
	if items == nil {
		items = []*Node{}
	}

	return &Node{
		Type:  NodeArray,
		Token: Token{Kind: TokenLBracket, Text: "["},
		Items: items,
	}
}

// Group wraps an operator node in a caret expression.
func Group(body *Node) *Node {
	return &Node{
		Type:  NodeExpr,
		Token: Token{Kind: TokenCaret, Text: "^"},
		Items: []*Node{body},
	}
}

// Add returns the node x + y.
func Add(x, y *Node) *Node { return binary(NodeAdd, TokenPlus, x, y) }

// Sub returns the node x - y.
func Sub(x, y *Node) *Node { return binary(NodeSub, TokenMinus, x, y) }

// Mul returns the node x * y.
func Mul(x, y *Node) *Node { return binary(NodeMul, TokenStar, x, y) }

// Max returns the node max(x, y).
func Max(x, y *Node) *Node { return call(NodeMax, KeywordMax, x, y) }

// Pow returns the node pow(x, y).
func Pow(x, y *Node) *Node { return call(NodePow, KeywordPow, x, y) }

func binary(typ NodeType, kind TokenKind, x, y *Node) *Node {
	return &Node{
		Type:  typ,
		Token: Token{Kind: kind, Text: kind.String()},
		Items: []*Node{x, y},
	}
}

func call(typ NodeType, keyword string, x, y *Node) *Node {
	return &Node{
		Type:  typ,
		Token: Token{Kind: TokenIdent, Text: keyword},
		Items: []*Node{x, y},
	}
}

// Literal returns a node that evaluates to v.
func Literal(v Value) *Node {
	if v.IsArray() {
		items := make([]*Node, len(v.Elems))
		for i, e := range v.Elems {
			items[i] = Literal(e)
		}

		return List(items...)
	}

	if v.Int == nil {
		return Number(0)
	}

	return BigNumber(v.Int)
}
