package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/konf/lang"
)

const rocket = `(define stages 0o3);
(define thrust [0o1750, 0o1130, 0o144]);
(define total ^(pow(stages, 0o2) * 0o2));
`

func TestEvalFormats(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "json default",
			args: []string{"(define a 0o10); (define b [a, 0o1]);"},
			want: "{\n  \"a\": 8,\n  \"b\": [\n    8,\n    1\n  ]\n}\n",
		},
		{
			name: "json compact",
			args: []string{"eval", "-i", "0", "(define a 0o10); (define b [a, 0o1]);"},
			want: "{\"a\":8,\"b\":[8,1]}\n",
		},
		{
			name: "text",
			args: []string{"eval", "-f", "text", "(define a 0o10); (define b [a, 0o1]);"},
			want: "a = 8\nb = [8, 1]\n",
		},
		{
			name: "native",
			args: []string{"eval", "-f", "native", "(define a ^(0o7 + 0o1));"},
			want: "(define a 0o10);\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCommand(t, "", tt.args...)
			if err != nil {
				t.Fatalf("eval error = %v", err)
			}

			if out != tt.want {
				t.Errorf("stdout = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestEvalYAML(t *testing.T) {
	out, _, err := runCommand(t, rocket, "eval", "--format", "yaml")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"stages: 3", "total: 18", "- 1000"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout = %q, missing %q", out, want)
		}
	}

	if strings.Index(out, "stages") > strings.Index(out, "total") {
		t.Errorf("stdout = %q, want declaration order", out)
	}
}

func TestEvalStdin(t *testing.T) {
	out, _, err := runCommand(t, rocket, "eval", "-f", "text")
	if err != nil {
		t.Fatal(err)
	}

	if want := "stages = 3\nthrust = [1000, 600, 100]\ntotal = 18\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    error
		snippet string
	}{
		{"lex", "(define a 0o8);", lang.ErrLex, "  1 | (define a 0o8);"},
		{"parse", "(define a 0o1)", lang.ErrParse, ""},
		{"empty", "", lang.ErrParse, ""},
		{"undefined", "(define a ^(b + 0o1));", lang.ErrUndefinedReference, "  1 | (define a ^(b + 0o1));"},
		{"type", "(define a [0o1]);\n(define b ^(a * 0o2));", lang.ErrType, "  2 | (define b ^(a * 0o2));"},
		{"arithmetic", "(define a ^(pow(0o2, ^(0o0 - 0o1))));", lang.ErrArithmetic, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stderr, err := runCommand(t, tt.src, "eval")

			if !errors.Is(err, tt.want) || !errors.Is(err, ErrEvaluate) {
				t.Fatalf("eval error = %v, want %v", err, tt.want)
			}

			if out != "" {
				t.Errorf("stdout = %q, want nothing on error", out)
			}

			if tt.snippet != "" && !strings.Contains(stderr, tt.snippet) {
				t.Errorf("stderr = %q, want %q", stderr, tt.snippet)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	out, _, err := runCommand(t, rocket, "check")
	if err != nil {
		t.Fatal(err)
	}

	if out != "ok: 3 constants\n" {
		t.Errorf("stdout = %q", out)
	}

	out, _, err = runCommand(t, "", "check", "-q", "(define a 0o1);")
	if err != nil || out != "" {
		t.Errorf("check -q = %q, %v", out, err)
	}

	out, _, err = runCommand(t, "", "check", "(define a 0o1);")
	if err != nil || out != "ok: 1 constant\n" {
		t.Errorf("check = %q, %v", out, err)
	}

	if _, _, err := runCommand(t, "", "check", "(define a b);"); !errors.Is(err, lang.ErrUndefinedReference) {
		t.Errorf("check error = %v", err)
	}
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"integer", []string{"query", "total / stages"}, "6\n"},
		{"octal helper", []string{"query", "oct(total)"}, "0o22\n"},
		{"decimal helper", []string{"query", "dec('0o777')"}, "511\n"},
		{"array", []string{"query", "map(thrust, # / 100)"}, "[10,6,1]\n"},
		{"bool", []string{"query", "all(thrust, # >= 100)"}, "true\n"},
		{"yaml", []string{"query", "-f", "yaml", "filter(thrust, # > 100)"}, "- 1000\n- 600\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCommand(t, rocket, tt.args...)
			if err != nil {
				t.Fatalf("query error = %v", err)
			}

			if out != tt.want {
				t.Errorf("stdout = %q, want %q", out, tt.want)
			}
		})
	}

	if _, _, err := runCommand(t, rocket, "query", "nope +"); !errors.Is(err, lang.ErrQuery) {
		t.Errorf("query error = %v, want ErrQuery", err)
	}
}

func TestWriteTableUnknownFormat(t *testing.T) {
	table, err := lang.EvaluateConfig(t.Context(), "(define a 0o1);")
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder

	err = writeTable(t.Context(), &b, table, "toml", 2)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("writeTable() error = %v, want ErrUnknownFormat", err)
	}
}

func TestPluralize(t *testing.T) {
	for n, want := range map[int]string{0: "0 items", 1: "1 item", 2: "2 items"} {
		if got := pluralize(n, "item"); got != want {
			t.Errorf("pluralize(%d) = %q, want %q", n, got, want)
		}
	}
}
