package lang

import (
	"context"
	"io"
	"iter"
	"strings"

	"github.com/ardnew/konf/log"
)

// AST represents a parsed konf program: an ordered list of declarations.
type AST struct {
	Declarations []*Declaration
	opts         optionsKey // configuration options
	logger       log.Logger // structured logger (outside optionsKey, doesn't affect cache)
}

// Declaration binds an identifier to an unevaluated value expression:
//
//	(define Identifier Value);
type Declaration struct {
	Identifier Token
	Value      *Node
}

// Name returns the declared identifier.
func (d *Declaration) Name() string { return d.Identifier.Text }

// Node is a value expression in the syntax tree.
//
// The meaning of Token and Items depends on Type:
//
//	NodeNumber  Token is the literal; no Items
//	NodeRef     Token is the identifier; no Items
//	NodeArray   Token is '['; Items are the elements
//	NodeExpr    Token is '^'; Items[0] is the body
//	NodeAdd     Token is the operator; Items are the two operands
//	NodeSub     (same as NodeAdd)
//	NodeMul     (same as NodeAdd)
//	NodeMax     Token is the keyword; Items are the two arguments
//	NodePow     (same as NodeMax)
type Node struct {
	Type  NodeType
	Token Token
	Items []*Node
}

// NodeType indicates the kind of a [Node].
type NodeType int

const (
	NodeNumber NodeType = iota
	NodeRef
	NodeArray
	NodeExpr
	NodeAdd
	NodeSub
	NodeMul
	NodeMax
	NodePow
)

// String returns the human-readable name of a NodeType.
func (t NodeType) String() string {
	switch t {
	case NodeNumber:
		return "Number"
	case NodeRef:
		return "Ref"
	case NodeArray:
		return "Array"
	case NodeExpr:
		return "Expr"
	case NodeAdd:
		return "Add"
	case NodeSub:
		return "Sub"
	case NodeMul:
		return "Mul"
	case NodeMax:
		return "Max"
	case NodePow:
		return "Pow"
	default:
		return "Unknown"
	}
}

// binaryNode maps operator tokens to their node type.
var binaryNode = map[TokenKind]NodeType{
	TokenPlus:  NodeAdd,
	TokenMinus: NodeSub,
	TokenStar:  NodeMul,
}

// GetDeclaration returns the last declaration of name, which is the one
// whose value is bound after evaluation.
func (ast *AST) GetDeclaration(name string) (*Declaration, bool) {
	for i := len(ast.Declarations) - 1; i >= 0; i-- {
		if ast.Declarations[i].Name() == name {
			return ast.Declarations[i], true
		}
	}

	return nil, false
}

// All returns an iterator over all declarations in source order.
func (ast *AST) All() iter.Seq[*Declaration] {
	return func(yield func(*Declaration) bool) {
		for _, d := range ast.Declarations {
			if !yield(d) {
				return
			}
		}
	}
}

// DefaultMaxDepth is the default limit on nesting of arrays, caret
// expressions and calls.
const DefaultMaxDepth = 1000

// DefaultMaxBits is the default limit on the bit length of any integer
// produced by evaluation. Zero disables the limit.
const DefaultMaxBits = 1 << 16

// optionsKey contains the options that affect parsing and evaluation.
type optionsKey struct {
	maxDepth   int
	maxBits    int
	reserved   bool
	noRedefine bool
}

// Option configures parsing and evaluation.
type Option func(*AST)

// WithMaxDepth sets the maximum nesting depth of value expressions.
func WithMaxDepth(depth int) Option {
	return func(ast *AST) {
		ast.opts.maxDepth = depth
	}
}

// WithMaxBits sets the maximum bit length of evaluated integers.
// A value of zero or less removes the limit.
func WithMaxBits(bits int) Option {
	return func(ast *AST) {
		ast.opts.maxBits = max(bits, 0)
	}
}

// WithReservedKeywords controls whether define, max and pow are rejected as
// constant names and references.
func WithReservedKeywords(reserved bool) Option {
	return func(ast *AST) {
		ast.opts.reserved = reserved
	}
}

// WithForbidRedefinition controls whether declaring a name twice is an
// error. By default the later declaration replaces the earlier value.
func WithForbidRedefinition(forbid bool) Option {
	return func(ast *AST) {
		ast.opts.noRedefine = forbid
	}
}

// WithLogger sets the logger for tracing parse and evaluation.
func WithLogger(logger log.Logger) Option {
	return func(ast *AST) {
		ast.logger = logger
	}
}

func applyDefaults(ast *AST) {
	ast.opts.maxDepth = DefaultMaxDepth
	ast.opts.maxBits = DefaultMaxBits
}

func applyOptions(ast *AST, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(ast)
		}
	}
}

// withOptions returns a shallow copy of ast with opts applied.
func (ast *AST) withOptions(opts ...Option) *AST {
	c := *ast
	applyOptions(&c, opts...)

	return &c
}

func writer(w io.Writer) func(eol string, item ...string) error {
	return func(eol string, item ...string) error {
		_, err := io.WriteString(w, strings.Join(item, ": ")+eol)

		return err
	}
}

// Print writes an indented tree representation of the AST.
func (ast *AST) Print(ctx context.Context, w io.Writer) error {
	for _, d := range ast.Declarations {
		if err := d.Print(ctx, w, 0); err != nil {
			return err
		}
	}

	return nil
}

// Print writes a tree representation of the declaration.
func (d *Declaration) Print(ctx context.Context, w io.Writer, indent int) error {
	prefix := strings.Repeat("  ", indent)
	put := writer(w)

	if err := put("\n", prefix+"Define", d.Name()+" @"+d.Identifier.Pos.String()); err != nil {
		return err
	}

	return d.Value.Print(ctx, w, indent+1)
}

// Print writes a tree representation of the node and its children.
func (n *Node) Print(ctx context.Context, w io.Writer, indent int) error {
	prefix := strings.Repeat("  ", indent)
	put := writer(w)

	var err error

	switch n.Type {
	case NodeNumber, NodeRef:
		err = put("\n", prefix+n.Type.String(), n.Token.Text)

	case NodeArray:
		if len(n.Items) == 0 {
			return put("\n", prefix+n.Type.String(), "(empty)")
		}

		err = put("\n", prefix+n.Type.String())

	default:
		err = put("\n", prefix+n.Type.String())
	}

	if err != nil {
		return err
	}

	for _, item := range n.Items {
		if err := item.Print(ctx, w, indent+1); err != nil {
			return err
		}
	}

	return nil
}
