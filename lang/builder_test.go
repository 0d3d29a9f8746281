package lang

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAST_Define(t *testing.T) {
	ast := NewAST()

	steps := []struct {
		name  string
		value *Node
	}{
		{"cores", Number(8)},
		{"threads", Mul(Ref("cores"), Number(2))},
		{"memory", List(Number(256), Group(Pow(Number(2), Number(9))))},
		{"offset", BigNumber(big.NewInt(-3))},
		{"empty", List()},
	}

	for _, s := range steps {
		if _, err := ast.Define(s.name, s.value); err != nil {
			t.Fatalf("Define(%q) error: %v", s.name, err)
		}
	}

	var buf bytes.Buffer
	if err := ast.Format(t.Context(), &buf, 0); err != nil {
		t.Fatal(err)
	}

	want := "(define cores 0o10); (define threads ^(cores * 0o2)); " +
		"(define memory [0o400, ^(pow(0o2, 0o11))]); " +
		"(define offset ^(0o0 - 0o3)); (define empty []);\n"

	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Format mismatch (-want +got):\n%s", diff)
	}

	table, err := ast.Evaluate(t.Context())
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	wantEntries := entries(
		"cores", Integer(8),
		"threads", Integer(16),
		"memory", Array(Integer(256), Integer(512)),
		"offset", Integer(-3),
		"empty", Array(),
	)

	if diff := cmp.Diff(wantEntries, table.Entries()); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestAST_Define_InvalidName(t *testing.T) {
	for _, name := range []string{"", "Cores", "a1", "a_b", "é"} {
		if _, err := NewAST().Define(name, Number(1)); !errors.Is(err, ErrParse) {
			t.Errorf("Define(%q) error = %v, want ErrParse", name, err)
		}
	}

	if _, err := NewAST().Define("max", Number(1)); err != nil {
		t.Errorf("Define(max) error = %v, want nil", err)
	}

	_, err := NewAST(WithReservedKeywords(true)).Define("max", Number(1))
	if !errors.Is(err, ErrParse) {
		t.Errorf("reserved Define(max) error = %v, want ErrParse", err)
	}
}

func TestLiteral(t *testing.T) {
	values := []Value{
		Integer(0),
		Integer(-64),
		Array(),
		Array(Integer(1), Array(Integer(-2)), BigInteger(new(big.Int).Lsh(big.NewInt(1), 90))),
	}

	for _, v := range values {
		t.Run(v.String(), func(t *testing.T) {
			got, err := EvaluateNode(t.Context(), nil, Literal(v))
			if err != nil {
				t.Fatalf("evaluate error: %v", err)
			}

			if !got.Equal(v) {
				t.Errorf("Literal(%s) evaluated to %s", v, got)
			}
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := map[string]bool{
		"a":       true,
		"cores":   true,
		"define":  true,
		"":        false,
		"A":       false,
		"a-b":     false,
		"abc123":  false,
		" a":      false,
		"unicodé": false,
	}

	for s, want := range tests {
		if got := IsIdentifier(s); got != want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}
