package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/konf/lang"
)

type (
	contextKey     struct{}
	sourceFilesKey struct{}
	optionsKey     struct{}
	stdinKey       struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithOptions returns a new context.Context carrying the language options
// every command passes to the lang package.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts
}

// WithStdin returns a new context.Context that reads standard input from r
// instead of [os.Stdin]. It must be applied before [WithSourceFiles].
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdinIsTerminal reports whether standard input is an interactive terminal.
func stdinIsTerminal(ctx context.Context) bool {
	f, ok := stdinFrom(ctx).(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// stdout returns the writer for command output.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the writer for diagnostics.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// SourceFiles reads the concatenated content of the --source files.
type SourceFiles interface {
	IsZero() bool
	Stdin() io.Reader
	io.Reader
	io.WriterTo
}

type sourceFiles struct {
	read  []io.Reader
	stdin io.Reader
	multi io.Reader
}

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && s.stdin == nil }

// Stdin returns standard input if it was included as a source, or nil
// otherwise.
func (s *sourceFiles) Stdin() io.Reader { return s.stdin }

func (s *sourceFiles) reader() io.Reader {
	if s.multi == nil {
		readers := s.read
		if s.stdin != nil {
			readers = append(readers[:len(readers):len(readers)], s.stdin)
		}

		s.multi = io.MultiReader(readers...)
	}

	return s.multi
}

// Read implements io.Reader by reading from all source files in order,
// followed by stdin if present.
func (s *sourceFiles) Read(p []byte) (int, error) { return s.reader().Read(p) }

// WriteTo implements io.WriterTo by copying all source files to w in order,
// followed by stdin if present.
func (s *sourceFiles) WriteTo(w io.Writer) (int64, error) {
	return io.Copy(w, s.reader())
}

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing a [SourceFiles]
// that reads the given files.
//
// Files are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" collapse into a single stdin reader placed
// after the regular files. Files that cannot be opened are skipped.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{},
		buildSourceFiles(sources, stdinFrom(ctx)))
}

func buildSourceFiles(sources []string, stdin io.Reader) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	var (
		stdinKey  fileKey
		stdinFile bool
	)

	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			stdinKey, stdinFile = makeFileKey(info)
		}
	}

	hasStdin := false

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		key, reader, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		// A named path to the stdin device is stdin itself.
		if stdinFile && key == stdinKey {
			hasStdin = true

			continue
		}

		srcs.read = append(srcs.read, reader)
	}

	if hasStdin {
		srcs.stdin = stdin
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path unless a file with the same
// device and inode was already seen.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (fileKey, io.Reader, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return fileKey{}, nil, false
	}

	if _, exists := seen[key]; exists {
		return key, nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return key, nil, false
	}

	return key, file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// It returns false if Sys() is not a *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// input selects the program text for a command: inline text when given,
// otherwise the --source files, otherwise standard input.
func input(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	var r io.Reader = stdinFrom(ctx)

	name := "stdin"

	if src := sourceFilesFrom(ctx); src != nil {
		r, name = src, "source"
	}

	var b strings.Builder

	if _, err := io.Copy(&b, r); err != nil {
		return "", ErrReadSource.Wrap(err).With(slog.String("from", name))
	}

	return b.String(), nil
}
