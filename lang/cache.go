package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// programCache maps a cacheKey to the *cacheEntry holding the parse result
// of one source text. Programs are never modified after parsing, so a cached
// tree may be executed by many interpreters at once.
//
//nolint:gochecknoglobals
var programCache sync.Map

// cacheKey identifies a source text and the options that affect parsing.
type cacheKey struct {
	hash     uint64
	maxDepth int
}

// cacheEntry holds the parse result of one source text.
type cacheEntry struct {
	once    sync.Once
	source  string
	program *Program
	err     error
}

// ParseString lexes and parses source, returning the program together with
// the concatenated lexer and parser [Diagnostics]. Results are cached by
// content, so parsing the same text again returns the same *Program.
func ParseString(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	key := cacheKey{hash: xxh3.HashString(source), maxDepth: o.maxDepth}

	value, hit := programCache.LoadOrStore(key, &cacheEntry{source: source})

	entry, ok := value.(*cacheEntry)
	if !ok || entry.source != source {
		// Hash collision: parse without caching.
		o.logger.TraceContext(ctx, "cache bypass",
			slog.String("source_hash", strconv.FormatUint(key.hash, 16)),
		)

		return compile(source, opts...)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(key.hash, 16)),
		slog.Int("max_depth", key.maxDepth),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.program, entry.err = compile(source, opts...)
	})

	return entry.program, entry.err
}

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	// Wrap reader with async read-ahead so that reading overlaps with the
	// consumer when r is slow, such as a pipe.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)
	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseString(ctx, string(data), opts...)
}

// ClearCache removes every cached parse result.
func ClearCache() {
	programCache.Clear()
}
