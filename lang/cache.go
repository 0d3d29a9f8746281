package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parse results keyed by the hash of the source text
// combined with the hash of the parse-affecting options.
//
// Only immutable parse results are cached. Evaluation always starts from an
// empty table, so cached entries never carry state between evaluations.
var globalCache sync.Map

// state tracks the parse result of one source.
type state struct {
	once  sync.Once
	decls []*Declaration
	err   error
}

// hashOptions encodes the options that influence parsing using gob and
// hashes them with xxh3. Evaluation-only options are excluded so that a
// single parse result serves every evaluation configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(opts.maxDepth)
	_ = enc.Encode(opts.reserved)

	return xxh3.Hash(buf.Bytes())
}

// ParseReader reads all of r and parses it with [ParseSource].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*AST, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseSource(ctx, string(data), opts...)
}

// ParseSource parses source like [ParseString], reusing the result of any
// earlier parse of the same text with equivalent options.
func ParseSource(
	ctx context.Context,
	source string,
	opts ...Option,
) (*AST, error) {
	ast := new(AST)

	applyDefaults(ast)
	applyOptions(ast, opts...)

	sourceHash := xxh3.HashString(source)
	optsHash := hashOptions(ast.opts)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, cacheHit := globalCache.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid cache entry type"))
	}

	ast.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		parsed, err := ParseString(ctx, source, opts...)
		if err != nil {
			entry.err = err

			return
		}

		entry.decls = parsed.Declarations
	})

	if entry.err != nil {
		return nil, entry.err
	}

	// Clipped so that appending to one AST never writes into another.
	ast.Declarations = slices.Clip(entry.decls)

	return ast, nil
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
