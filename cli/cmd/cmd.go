package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
	"github.com/ardnew/lox/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

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

type streamsKey struct{}

// Streams holds the standard streams used by a command. Nil fields default
// to the process's stdin, stdout and stderr.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context whose commands use s instead of
// the process's standard streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SessionFlags are the flags shared by every command that executes code.
type SessionFlags struct {
	Define   []lang.Define `help:"Predefine a global as NAME=EXPR, evaluated with expr-lang" placeholder:"NAME=EXPR" sep:"none" short:"D"`
	MaxDepth int           `default:"256"                                                    help:"Maximum syntactic nesting depth"`
}

// options evaluates the defines and returns the interpreter options they
// and the other flags select.
func (f *SessionFlags) options(ctx context.Context) ([]lang.Option, error) {
	logger := log.Default()

	globals, err := lang.EvalDefines(ctx, f.Define, lang.WithLogger(logger))
	if err != nil {
		return nil, ErrDefine.Wrap(err)
	}

	return []lang.Option{
		lang.WithLogger(logger),
		lang.WithMaxDepth(f.MaxDepth),
		lang.WithGlobals(globals),
	}, nil
}

// source is one named script input.
type source struct {
	io.ReadCloser

	name string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSources opens the given script paths in order.
//
// Paths naming the same file, through symlinks or relative paths, are opened
// once. All occurrences of "-", and any path resolving to the file open on
// stdin, are replaced with a single stdin source placed last so it reads
// after all regular files. The returned sources must be closed with
// [closeSources] even when an error is returned.
func openSources(paths []string, stdin io.Reader) ([]source, error) {
	srcs := make([]source, 0, len(paths))
	seen := make(map[fileKey]struct{})
	hasStdin := false

	var stdinKey fileKey

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(info)
	}

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		file, key, err := openUniqueFile(path, seen)

		switch {
		case err != nil:
			return srcs, ErrOpenSource.Wrap(err).With(slog.String("file", path))
		case key == stdinKey && key != (fileKey{}):
			hasStdin = true

			if file != nil {
				_ = file.Close()
			}
		case file != nil:
			srcs = append(srcs, source{ReadCloser: file, name: path})
		}
	}

	if hasStdin {
		srcs = append(srcs, source{ReadCloser: io.NopCloser(stdin), name: stdinSource})
	}

	return srcs, nil
}

// closeSources closes every source, returning the joined errors.
func closeSources(srcs []source) error {
	errs := make([]error, 0, len(srcs))

	for _, src := range srcs {
		errs = append(errs, src.Close())
	}

	return errors.Join(errs...)
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// A duplicate yields a nil file and a nil error.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	// Get file info to extract device and inode.
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// readSource reads all of the single script named by path.
func readSource(path string, stdin io.Reader) (string, error) {
	srcs, err := openSources([]string{path}, stdin)
	defer func() { _ = closeSources(srcs) }()

	if err != nil {
		return "", err
	}

	var data []byte

	for _, src := range srcs {
		b, err := io.ReadAll(src)
		if err != nil {
			return "", pkg.ErrReadInput.Wrapf("%s: %w", src.name, err)
		}

		data = append(data, b...)
	}

	return string(data), nil
}
