package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the AST in canonical konf syntax.
//
// With indent 0 all declarations are written on a single line. Otherwise
// each declaration is written on its own line, and arrays containing nested
// arrays or expressions are broken across lines indented by indent spaces
// per level.
func (ast *AST) Format(_ context.Context, w io.Writer, indent int) error {
	var b strings.Builder

	for i, d := range ast.Declarations {
		if i > 0 {
			if indent > 0 {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}

		b.WriteString("(" + KeywordDefine + " ")
		b.WriteString(d.Name())
		b.WriteByte(' ')
		formatValue(&b, d.Value, indent, 0)
		b.WriteString(");")
	}

	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())

	return err
}

// String returns the node in canonical konf syntax.
func (n *Node) String() string {
	var b strings.Builder

	formatValue(&b, n, 0, 0)

	return b.String()
}

// formatValue writes n in value position.
func formatValue(b *strings.Builder, n *Node, indent, depth int) {
	switch n.Type {
	case NodeNumber:
		if num := n.Token.Number(); num != nil {
			b.WriteString("0o" + num.Text(8))
		} else {
			b.WriteString(n.Token.Text)
		}

	case NodeRef:
		b.WriteString(n.Token.Text)

	case NodeArray:
		formatArray(b, n, indent, depth)

	case NodeExpr:
		b.WriteString("^(")
		formatBody(b, n.Items[0], indent, depth)
		b.WriteByte(')')

	default:
		// An operator outside a caret expression, as produced by a Builder.
		b.WriteString("^(")
		formatBody(b, n, indent, depth)
		b.WriteByte(')')
	}
}

// formatBody writes n in operand position inside a caret expression.
func formatBody(b *strings.Builder, n *Node, indent, depth int) {
	switch n.Type {
	case NodeAdd, NodeSub, NodeMul:
		formatBody(b, n.Items[0], indent, depth)
		b.WriteString(" " + n.Token.Text + " ")

		// Operators associate to the left, so a compound right operand
		// needs its own caret group.
		if rhs := n.Items[1]; isBinary(rhs) {
			formatValue(b, rhs, indent, depth)
		} else {
			formatBody(b, rhs, indent, depth)
		}

	case NodeMax, NodePow:
		b.WriteString(n.Token.Text + "(")
		formatBody(b, n.Items[0], indent, depth)
		b.WriteString(", ")
		formatBody(b, n.Items[1], indent, depth)
		b.WriteByte(')')

	default:
		formatValue(b, n, indent, depth)
	}
}

func formatArray(b *strings.Builder, n *Node, indent, depth int) {
	if len(n.Items) == 0 {
		b.WriteString("[]")

		return
	}

	multiline := false

	if indent > 0 {
		for _, item := range n.Items {
			if item.Type != NodeNumber && item.Type != NodeRef {
				multiline = true

				break
			}
		}
	}

	if !multiline {
		b.WriteByte('[')

		for i, item := range n.Items {
			if i > 0 {
				b.WriteString(", ")
			}

			formatValue(b, item, indent, depth+1)
		}

		b.WriteByte(']')

		return
	}

	pad := strings.Repeat(" ", indent*(depth+1))

	b.WriteString("[\n")

	for i, item := range n.Items {
		b.WriteString(pad)
		formatValue(b, item, indent, depth+1)

		if i < len(n.Items)-1 {
			b.WriteByte(',')
		}

		b.WriteByte('\n')
	}

	b.WriteString(strings.Repeat(" ", indent*depth))
	b.WriteByte(']')
}

func isBinary(n *Node) bool {
	switch n.Type {
	case NodeAdd, NodeSub, NodeMul:
		return true
	}

	return false
}

// Format writes t as konf source that evaluates back to t.
func (t *Table) Format(_ context.Context, w io.Writer) error {
	var b strings.Builder

	for name, v := range t.All() {
		b.WriteString("(" + KeywordDefine + " ")
		b.WriteString(name)
		b.WriteByte(' ')
		b.WriteString(v.Octal())
		b.WriteString(");\n")
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// FormatJSON writes t as a JSON object in declaration order.
// A positive indent pretty-prints with that many spaces per level.
func (t *Table) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(t, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(t)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes t as a YAML mapping in declaration order.
// An indent of zero selects flow style.
func (t *Table) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, t, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// FormatText writes one "name = value" line per binding with decimal
// integers.
func (t *Table) FormatText(_ context.Context, w io.Writer) error {
	var b strings.Builder

	for name, v := range t.All() {
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(v.String())
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}
