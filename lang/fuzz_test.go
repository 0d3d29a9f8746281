package lang

import (
	"bytes"
	"errors"
	"testing"
)

// FuzzLex checks that the lexer never panics and that every token lies
// within the input.
func FuzzLex(f *testing.F) {
	f.Add("(define a 0o10);")
	f.Add("^(a + b * max(c, pow(d, 0o2)))")
	f.Add("[0o1, [], [0o2, [0o3]]]")
	f.Add("0o")
	f.Add("0o78")
	f.Add("\n\t(define\rb 0O7);")
	f.Add("#")

	f.Fuzz(func(t *testing.T, input string) {
		toks, err := Lex(input)
		if err != nil {
			if !errors.Is(err, ErrLex) {
				t.Fatalf("Lex(%q) returned %v, want ErrLex", input, err)
			}

			return
		}

		if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEOF {
			t.Fatalf("Lex(%q) not terminated by EOF", input)
		}

		prev := -1

		for _, tok := range toks {
			if tok.Pos.Offset < prev || tok.Pos.Offset > len(input) {
				t.Fatalf("Lex(%q) token %v at offset %d out of order", input, tok.Kind, tok.Pos.Offset)
			}

			if tok.Pos.Offset+len(tok.Text) > len(input) {
				t.Fatalf("Lex(%q) token %q overruns input", input, tok.Text)
			}

			if tok.Kind == TokenNumber && tok.Number() == nil {
				t.Fatalf("Lex(%q) produced undecodable number %q", input, tok.Text)
			}

			prev = tok.Pos.Offset
		}
	})
}

// FuzzParse checks that any program that parses can be formatted and parsed
// again to an equivalent program.
func FuzzParse(f *testing.F) {
	f.Add("(define a 0o10); (define b 0o4); (define c ^(a+b));")
	f.Add("(define x 0o2); (define y ^(pow(x,0o3)));")
	f.Add("(define m [0o1,0o2,0o3]);")
	f.Add("(define a ^(max(0o5,0o3)));")
	f.Add("(define a ^(a + ^(b - c) * [d]));")
	f.Add("(define max 0o1); (define b ^(max(max, max)));")

	f.Fuzz(func(t *testing.T, input string) {
		ast, err := ParseString(t.Context(), input, WithMaxDepth(64))
		if err != nil {
			return
		}

		var first bytes.Buffer
		if err := ast.Format(t.Context(), &first, 0); err != nil {
			t.Fatal(err)
		}

		again, err := ParseString(t.Context(), first.String(), WithMaxDepth(128))
		if err != nil {
			t.Fatalf("formatted %q does not parse: %v", first.String(), err)
		}

		var second bytes.Buffer
		if err := again.Format(t.Context(), &second, 0); err != nil {
			t.Fatal(err)
		}

		if first.String() != second.String() {
			t.Fatalf("format not stable:\n%s\n%s", first.String(), second.String())
		}

		// Evaluation may fail, but only with a language error.
		if _, err := ast.Evaluate(t.Context(), WithMaxBits(4096)); err != nil {
			switch {
			case errors.Is(err, ErrUndefinedReference),
				errors.Is(err, ErrType),
				errors.Is(err, ErrArithmetic):
			default:
				t.Fatalf("Evaluate(%q) returned unexpected error %v", input, err)
			}
		}
	})
}
