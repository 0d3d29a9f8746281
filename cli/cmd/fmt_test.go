package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/konf/lang"
)

func TestFmtNative(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default subcommand",
			args: []string{"fmt", "(define   a 0o1);(define b [ a,0o2 ]) ;"},
			want: "(define a 0o1);\n(define b [a, 0o2]);\n",
		},
		{
			name: "nested arrays break",
			args: []string{"fmt", "native", "(define m [[0o1, 0o2], [0o3]]);"},
			want: "(define m [\n  [0o1, 0o2],\n  [0o3]\n]);\n",
		},
		{
			name: "one line",
			args: []string{"fmt", "native", "-i", "0", "(define a 0o1); (define m [[0o1], ^(a+a)]);"},
			want: "(define a 0o1); (define m [[0o1], ^(a + a)]);\n",
		},
		{
			name: "expressions keep operands",
			args: []string{"fmt", "native", "(define x ^(max(0o5,pow(0o2,0o3))*0o2));"},
			want: "(define x ^(max(0o5, pow(0o2, 0o3)) * 0o2));\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCommand(t, "", tt.args...)
			if err != nil {
				t.Fatalf("fmt error = %v", err)
			}

			if out != tt.want {
				t.Errorf("stdout = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestFmtNativeRoundTrip(t *testing.T) {
	out, _, err := runCommand(t, rocket, "fmt")
	if err != nil {
		t.Fatal(err)
	}

	want, err := lang.EvaluateConfig(t.Context(), rocket)
	if err != nil {
		t.Fatal(err)
	}

	got, err := lang.EvaluateConfig(t.Context(), out)
	if err != nil {
		t.Fatalf("formatted source does not evaluate: %v\n%s", err, out)
	}

	for name, v := range want.All() {
		if w, ok := got.Lookup(name); !ok || !w.Equal(v) {
			t.Errorf("%s = %v after formatting, want %v", name, w, v)
		}
	}
}

func TestFmtInvalidSyntax(t *testing.T) {
	for _, sub := range []string{"native", "ast"} {
		t.Run(sub, func(t *testing.T) {
			out, stderr, err := runCommand(t, "(define a [0o1);", "fmt", sub)
			if !errors.Is(err, lang.ErrParse) {
				t.Fatalf("fmt %s error = %v, want ErrParse", sub, err)
			}

			if out != "" {
				t.Errorf("stdout = %q, want nothing", out)
			}

			if !strings.Contains(stderr, "  1 | (define a [0o1);") {
				t.Errorf("stderr = %q, want snippet", stderr)
			}
		})
	}
}

func TestFmtAST(t *testing.T) {
	out, _, err := runCommand(t, "", "fmt", "ast", "(define a ^(b + 0o1));")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Define", "Expr", "Add", "Ref", "Number"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout = %q, missing %q", out, want)
		}
	}

	// The tree is syntax only; references are not resolved.
	if strings.Index(out, "Add") > strings.Index(out, "Ref") {
		t.Errorf("stdout = %q, want operator before operands", out)
	}
}

func TestFmtTokens(t *testing.T) {
	out, _, err := runCommand(t, "", "fmt", "tokens", "(define a 0o7);")
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}

	for i, want := range []string{"1:1", "1:2", "1:9", "1:11", "1:14", "1:15", "1:16"} {
		if !strings.HasPrefix(lines[i], want+" ") {
			t.Errorf("line %d = %q, want position %s", i, lines[i], want)
		}
	}

	if !strings.Contains(lines[3], "0o7") {
		t.Errorf("line 3 = %q, want number text", lines[3])
	}

	if _, _, err := runCommand(t, "", "fmt", "tokens", "(define a 0o9);"); !errors.Is(err, lang.ErrLex) {
		t.Errorf("fmt tokens error = %v, want ErrLex", err)
	}
}
