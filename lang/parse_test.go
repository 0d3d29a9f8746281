package lang

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseString_Declarations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string // declared names
	}{
		{
			name:  "single",
			input: `(define a 0o10);`,
			want:  []string{"a"},
		},
		{
			name:  "multiple",
			input: `(define a 0o10); (define b 0o4); (define c ^(a+b));`,
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "newlines",
			input: "(define a 0o1);\n\n(define b\n  [0o1,\n   0o2]);\n",
			want:  []string{"a", "b"},
		},
		{
			name:  "keyword names",
			input: `(define max 0o1); (define pow ^(max + 0o1)); (define define pow);`,
			want:  []string{"max", "pow", "define"},
		},
		{
			name:  "redefinition",
			input: `(define a 0o1); (define a 0o2);`,
			want:  []string{"a", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			var got []string
			for d := range ast.All() {
				got = append(got, d.Name())
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// tree renders a node as a compact s-expression for comparisons.
func tree(n *Node) string {
	switch n.Type {
	case NodeNumber, NodeRef:
		return n.Token.Text
	}

	parts := []string{n.Type.String()}
	for _, item := range n.Items {
		parts = append(parts, tree(item))
	}

	return "(" + strings.Join(parts, " ") + ")"
}

func TestParseString_Structure(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"number", "0o17", "0o17"},
		{"reference", "abc", "abc"},
		{"empty array", "[]", "(Array)"},
		{"nested array", "[0o1, [0o2, []], a]", "(Array 0o1 (Array 0o2 (Array)) a)"},
		{"single operand", "^(a)", "(Expr a)"},
		{"left associative", "^(a + b * c - d)", "(Expr (Sub (Mul (Add a b) c) d))"},
		{"max call", "^(max(a, b))", "(Expr (Max a b))"},
		{"pow call", "^(pow(a, 0o3))", "(Expr (Pow a 0o3))"},
		{"call with chains", "^(max(a + b, c * d) + e)", "(Expr (Add (Max (Add a b) (Mul c d)) e))"},
		{"nested caret", "^(a + ^(b * c))", "(Expr (Add a (Expr (Mul b c))))"},
		{"array in expression", "^([a] + b)", "(Expr (Add (Array a) b))"},
		{"max as reference", "^(max + 0o1)", "(Expr (Add max 0o1))"},
		{"pow as reference in call", "^(pow(pow, max))", "(Expr (Pow pow max))"},
		{"expression in array", "[^(a + b)]", "(Array (Expr (Add a b)))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast, err := ParseString(t.Context(), "(define x "+tt.value+");")
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := tree(ast.Declarations[0].Value); got != tt.want {
				t.Errorf("tree = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		line     int
		column   int
		expected string
	}{
		{"empty input", "", 1, 1, "("},
		{"whitespace input", "  \n ", 2, 2, "("},
		{"missing semicolon", "(define a 0o10) (define b 0o4);", 1, 17, ";"},
		{"missing define", "(a 0o1);", 1, 2, "define"},
		{"misspelled define", "(defne a 0o1);", 1, 2, "define"},
		{"missing name", "(define 0o1);", 1, 9, "identifier"},
		{"missing value", "(define a);", 1, 10, "value"},
		{"missing close paren", "(define a 0o1;", 1, 14, ")"},
		{"trailing garbage", "(define a 0o1); 0o2", 1, 17, "("},
		{"unclosed array", "(define a [0o1, 0o2);", 1, 20, `"," or "]"`},
		{"trailing comma", "(define a [0o1,]);", 1, 16, "value"},
		{"caret without group", "(define a ^0o1);", 1, 12, "("},
		{"empty expression", "(define a ^());", 1, 13, "value"},
		{"dangling operator", "(define a ^(0o1 +));", 1, 18, "value"},
		{"max one argument", "(define a ^(max(0o1)));", 1, 20, ","},
		{"pow three arguments", "(define a ^(pow(0o1, 0o2, 0o3)));", 1, 25, ")"},
		{"call outside expression", "(define a max(0o1, 0o2));", 1, 14, ")"},
		{"bare parenthesis group", "(define a ^((0o1)));", 1, 13, "value"},
		{"two statements one semicolon", "(define a 0o1) ;; ", 1, 17, "("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(t.Context(), tt.input)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("error = %v, want ErrParse", err)
			}

			var pe *Error
			if !errors.As(err, &pe) {
				t.Fatalf("error is not *Error: %T", err)
			}

			pos, _ := pe.Position()
			if pos.Line != tt.line || pos.Column != tt.column {
				t.Errorf("position = %s, want %d:%d", pos, tt.line, tt.column)
			}

			if v, ok := pe.Attr("expected"); !ok || v.String() != tt.expected {
				t.Errorf("expected = %q, want %q", v.String(), tt.expected)
			}
		})
	}
}

func TestParseString_ReservedKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"ordinary names", `(define a 0o1); (define b ^(max(a, 0o2)));`, true},
		{"max as name", `(define max 0o1);`, false},
		{"pow as reference", `(define a pow);`, false},
		{"define as name", `(define define 0o1);`, false},
		{"max without call", `(define a ^(max + 0o1));`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(t.Context(), tt.input, WithReservedKeywords(true))
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !tt.ok && !errors.Is(err, ErrParse) {
				t.Fatalf("error = %v, want ErrParse", err)
			}
		})
	}
}

func TestParseString_MaxDepth(t *testing.T) {
	deep := strings.Repeat("[", 20) + strings.Repeat("]", 20)

	_, err := ParseString(t.Context(), "(define a "+deep+");", WithMaxDepth(10))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("error = %v, want ErrMaxDepthExceeded", err)
	}

	_, err = ParseString(t.Context(), "(define a "+deep+");", WithMaxDepth(20))
	if err != nil {
		t.Fatalf("unexpected error at depth limit: %v", err)
	}

	exprs := strings.Repeat("^(", 20) + "0o1" + strings.Repeat(")", 20)

	_, err = ParseString(t.Context(), "(define a "+exprs+");", WithMaxDepth(10))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("error = %v, want ErrMaxDepthExceeded", err)
	}
}

func TestParseValue(t *testing.T) {
	n, err := ParseValue("^(pow(a, 0o2) - 0o1)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if got, want := tree(n), "(Expr (Sub (Pow a 0o2) 0o1))"; got != want {
		t.Errorf("tree = %s, want %s", got, want)
	}

	_, err = ParseValue("0o1 0o2")
	if !errors.Is(err, ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestAST_Print(t *testing.T) {
	ast, err := ParseString(t.Context(), "(define a [0o1, ^(b + 0o2)]);\n(define e []);")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := ast.Print(t.Context(), &buf); err != nil {
		t.Fatalf("print error: %v", err)
	}

	want := `Define: a @1:9
  Array
    Number: 0o1
    Expr
      Add
        Ref: b
        Number: 0o2
Define: e @2:9
  Array: (empty)
`

	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Print mismatch (-want +got):\n%s", diff)
	}
}

func TestAST_GetDeclaration(t *testing.T) {
	ast, err := ParseString(t.Context(), "(define a 0o1); (define b 0o2); (define a 0o3);")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	d, ok := ast.GetDeclaration("a")
	if !ok {
		t.Fatal("declaration a not found")
	}

	if d.Value.Token.Text != "0o3" {
		t.Errorf("GetDeclaration(a) = %s, want the last declaration", d.Value.Token.Text)
	}

	if _, ok := ast.GetDeclaration("z"); ok {
		t.Error("GetDeclaration(z) found a declaration")
	}
}
