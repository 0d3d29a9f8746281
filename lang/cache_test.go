package lang

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestParseSource_Cached(t *testing.T) {
	ClearCache()

	src := `(define a 0o1); (define b [a]);`

	first, err := ParseSource(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	second, err := ParseSource(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Error("ParseSource returned the same AST twice")
	}

	if first.Declarations[0] != second.Declarations[0] {
		t.Error("declarations not shared between cached parses")
	}

	// Appending to one AST must not leak into another.
	first.Declarations = append(first.Declarations, &Declaration{})

	third, err := ParseSource(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	if len(third.Declarations) != 2 {
		t.Errorf("cached declarations = %d, want 2", len(third.Declarations))
	}
}

func TestParseSource_OptionsKeyed(t *testing.T) {
	ClearCache()

	src := `(define max 0o1);`

	if _, err := ParseSource(t.Context(), src); err != nil {
		t.Fatalf("permissive parse failed: %v", err)
	}

	_, err := ParseSource(t.Context(), src, WithReservedKeywords(true))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("reserved parse error = %v, want ErrParse", err)
	}
}

func TestParseSource_EvaluationOptions(t *testing.T) {
	ClearCache()

	src := `(define a ^(pow(0o2, 0o100)));`

	if _, err := EvaluateConfig(t.Context(), src); err != nil {
		t.Fatalf("default evaluation failed: %v", err)
	}

	_, err := EvaluateConfig(t.Context(), src, WithMaxBits(32))
	if !errors.Is(err, ErrArithmetic) {
		t.Fatalf("error = %v, want ErrArithmetic", err)
	}
}

func TestParseSource_CachesErrors(t *testing.T) {
	ClearCache()

	for range 3 {
		_, err := ParseSource(t.Context(), `(define a 0o1)`)
		if !errors.Is(err, ErrParse) {
			t.Fatalf("error = %v, want ErrParse", err)
		}
	}
}

func TestParseSource_Concurrent(t *testing.T) {
	ClearCache()

	var wg sync.WaitGroup

	errs := make(chan error, 64)

	for i := range 64 {
		wg.Go(func() {
			src := fmt.Sprintf("(define a 0o%o); (define b ^(a * a));", i%4)

			table, err := EvaluateConfig(t.Context(), src)
			if err != nil {
				errs <- err

				return
			}

			want := Integer(int64((i % 4) * (i % 4)))
			if v, _ := table.Lookup("b"); !v.Equal(want) {
				errs <- fmt.Errorf("b = %s, want %s", v, want)
			}
		})
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestParseReader(t *testing.T) {
	ast, err := ParseReader(t.Context(), strings.NewReader("(define a 0o1);\n"))
	if err != nil {
		t.Fatal(err)
	}

	if len(ast.Declarations) != 1 {
		t.Errorf("declarations = %d, want 1", len(ast.Declarations))
	}

	_, err = ParseReader(t.Context(), failingReader{})
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("error = %v, want ErrReadInput", err)
	}

	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("error %v does not carry its cause", err)
	}
}
