package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// testCLI mirrors the shape of the konf command line.
type testCLI struct {
	Source []string `short:"s"`

	MaxDepth int    `default:"1000"`
	Pretty   bool   `default:"true" negatable:""`
	Level    string `default:"info" enum:"debug,info,warn"`
	Label    string `default:"x"`

	Eval  Eval  `cmd:"" default:"withargs"`
	Check Check `cmd:""`
	Query Query `cmd:""`
	Fmt   Fmt   `cmd:""`
	Init  Init  `cmd:""`
}

// runCommand parses args into a testCLI and runs the selected command with
// stdin reading from the given text.
func runCommand(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	return runCommandIn(t, t.TempDir(), stdin, args...)
}

// runCommandIn is runCommand with the configuration and cache directories
// set to dir.
func runCommandIn(t *testing.T, dir, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var (
		cli         testCLI
		out, errOut bytes.Buffer
	)

	ctx := WithStdin(t.Context(), strings.NewReader(stdin))

	parser, err := kong.New(&cli,
		kong.Writers(&out, &errOut),
		kong.Exit(func(int) {}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.Vars{
			ConfigIdentifier: filepath.Join(dir, "config"),
			CacheIdentifier:  dir,
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%q): %v", args, err)
	}

	ctx = WithContext(ctx, ktx)
	ctx = WithSourceFiles(ctx, cli.Source)

	err = ktx.Run()

	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()

	if r == nil {
		t.Fatal("nil reader")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	return string(data)
}

func TestWithSourceFilesEmpty(t *testing.T) {
	for _, sources := range [][]string{nil, {}} {
		if r := sourceFilesFrom(WithSourceFiles(t.Context(), sources)); r != nil {
			t.Errorf("WithSourceFiles(%v) stored %v, want nil", sources, r)
		}
	}
}

func TestWithSourceFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.konf", "first")
	second := writeFile(t, dir, "second.konf", "second")

	link := filepath.Join(dir, "link.konf")
	if err := os.Symlink(first, link); err != nil {
		t.Fatal(err)
	}

	t.Chdir(dir)

	tests := []struct {
		name    string
		sources []string
		stdin   string
		want    string
	}{
		{"single", []string{first}, "", "first"},
		{"in order", []string{second, first}, "", "secondfirst"},
		{"duplicate path", []string{first, first, second}, "", "firstsecond"},
		{"relative and absolute", []string{"first.konf", first}, "", "first"},
		{"symlink", []string{link, first}, "", "first"},
		{"stdin last", []string{"-", first}, "stdin", "firststdin"},
		{"stdin collapsed", []string{"-", "-", "-"}, "once", "once"},
		{"nonexistent skipped", []string{"/nonexistent/a", first, "/nonexistent/b"}, "", "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithStdin(t.Context(), strings.NewReader(tt.stdin))
			r := sourceFilesFrom(WithSourceFiles(ctx, tt.sources))

			if got := readAll(t, r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithSourceFilesAllNonexistent(t *testing.T) {
	ctx := WithSourceFiles(t.Context(), []string{
		"/nonexistent/path/file1.konf",
		"/nonexistent/path/file2.konf",
	})

	if r := sourceFilesFrom(ctx); r != nil {
		t.Error("WithSourceFiles should store nil when no file exists")
	}
}

func TestSourceFilesStdin(t *testing.T) {
	stdin := strings.NewReader("x")

	src := buildSourceFiles([]string{"-"}, stdin)
	if src == nil || src.Stdin() != stdin || src.IsZero() {
		t.Errorf("buildSourceFiles(-) = %v", src)
	}

	dir := t.TempDir()

	src = buildSourceFiles([]string{writeFile(t, dir, "a", "a")}, stdin)
	if src == nil {
		t.Fatal("buildSourceFiles(a) = nil")
	}

	if src.Stdin() != nil {
		t.Errorf("buildSourceFiles(a).Stdin() = %v, want nil", src.Stdin())
	}

	var b strings.Builder
	if _, err := src.WriteTo(&b); err != nil || b.String() != "a" {
		t.Errorf("WriteTo() = %q, %v", b.String(), err)
	}
}

func TestInput(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.konf", "from file")

	tests := []struct {
		name    string
		text    string
		sources []string
		stdin   string
		want    string
	}{
		{"inline text wins", "inline", []string{file}, "stdin", "inline"},
		{"sources before stdin", "", []string{file}, "stdin", "from file"},
		{"stdin fallback", "", nil, "stdin", "stdin"},
		{"blank text ignored", "  \n", nil, "stdin", "stdin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithStdin(t.Context(), strings.NewReader(tt.stdin))
			ctx = WithSourceFiles(ctx, tt.sources)

			got, err := input(ctx, tt.text)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("input() = %q, want %q", got, tt.want)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestInputReadError(t *testing.T) {
	ctx := WithStdin(t.Context(), failingReader{})

	_, err := input(ctx, "")
	if !errors.Is(err, ErrReadSource) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("input() error = %v, want ErrReadSource wrapping the read error", err)
	}
}

func TestStdinIsTerminal(t *testing.T) {
	if stdinIsTerminal(WithStdin(t.Context(), strings.NewReader(""))) {
		t.Error("a strings.Reader is not a terminal")
	}
}

func TestWritersDefault(t *testing.T) {
	if stdout(t.Context()) != os.Stdout || stderr(t.Context()) != os.Stderr {
		t.Error("writers without a kong context should be os.Stdout and os.Stderr")
	}
}
