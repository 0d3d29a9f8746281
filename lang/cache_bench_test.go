package lang

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func benchSource(n int) string {
	var b strings.Builder

	b.WriteString("(define a 0o1);\n")

	for i := range n {
		fmt.Fprintf(&b, "(define a ^(max(a, 0o%o) + 0o1));\n", i)
		fmt.Fprintf(&b, "(define b [a, ^(a * 0o2), [0o%o]]);\n", i)
	}

	return b.String()
}

// BenchmarkParseString measures uncached parsing.
func BenchmarkParseString(b *testing.B) {
	src := benchSource(100)
	ctx := context.Background()

	for b.Loop() {
		if _, err := ParseString(ctx, src); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParseSource measures parsing with a warm cache.
func BenchmarkParseSource(b *testing.B) {
	src := benchSource(100)
	ctx := context.Background()

	ClearCache()

	if _, err := ParseSource(ctx, src); err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err := ParseSource(ctx, src); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLex measures tokenization alone.
func BenchmarkLex(b *testing.B) {
	src := benchSource(100)

	b.SetBytes(int64(len(src)))

	for b.Loop() {
		if _, err := Lex(src); err != nil {
			b.Fatal(err)
		}
	}
}
