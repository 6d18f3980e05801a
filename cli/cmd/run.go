package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
	"github.com/ardnew/lox/pkg"
)

// watchDelay is how long a watched script must stay unchanged before it is
// run again. Editors often write a file in several steps.
const watchDelay = 100 * time.Millisecond

// Run executes lox scripts.
type Run struct {
	SessionFlags `embed:""`

	Watch bool `help:"Run again whenever a script changes" short:"w"`

	Files []string `arg:"" help:"Script files, or '-' for stdin. With none, read stdin or start a REPL on a terminal." name:"file" optional:""`
}

// Run executes the run command.
//
// The scripts run in order in one session, so globals defined by one are
// visible to the next. Execution stops at the first script with errors.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)

	files := r.Files
	if len(files) == 0 {
		if isTerminal(streams.In) {
			return (&Repl{SessionFlags: r.SessionFlags}).Run(ctx)
		}

		files = []string{stdinSource}
	}

	opts, err := r.options(ctx)
	if err != nil {
		return err
	}

	if !r.Watch {
		return runFiles(ctx, lang.NewSession(streams.Out, opts...), files, opts)
	}

	return r.watch(ctx, files, opts)
}

// runFiles parses and executes each file in session.
func runFiles(
	ctx context.Context,
	session *lang.Session,
	files []string,
	opts []lang.Option,
) (err error) {
	srcs, err := openSources(files, streamsFrom(ctx).In)

	defer func() {
		if cerr := closeSources(srcs); err == nil {
			err = cerr
		}
	}()

	if err != nil {
		return err
	}

	for _, src := range srcs {
		log.DebugContext(ctx, "run script", slog.String("file", src.name))

		program, err := lang.ParseReader(ctx, src, opts...)
		if err == nil {
			err = session.Execute(ctx, program)
		}

		if err != nil {
			return ErrRunScript.Wrap(err).With(slog.String("file", src.name))
		}
	}

	return nil
}

// watch runs files once and again each time one of them changes, until ctx
// is canceled. Each run starts with a fresh session. Errors from a run are
// reported on the error stream and do not stop watching.
func (r *Run) watch(ctx context.Context, files []string, opts []lang.Option) error {
	if slices.Contains(files, stdinSource) {
		return pkg.ErrWatch.Wrapf("cannot watch standard input")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return pkg.ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	// Watch the parent directories, since editors often replace a file by
	// renaming a new one over it.
	watched := make(map[string]bool, len(files))

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return pkg.ErrWatch.Wrap(err)
		}

		watched[abs] = true

		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return pkg.ErrWatch.Wrapf("%s: %w", file, err)
		}
	}

	streams := streamsFrom(ctx)

	runOnce := func() {
		err := runFiles(ctx, lang.NewSession(streams.Out, opts...), files, opts)
		if err != nil {
			_, _ = fmt.Fprintln(streams.Err, err)
		}
	}

	runOnce()

	timer := time.NewTimer(watchDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !watched[ev.Name] ||
				!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}

			log.DebugContext(ctx, "script changed",
				slog.String("file", ev.Name),
				slog.String("op", ev.Op.String()),
			)

			timer.Reset(watchDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.String("error", err.Error()))

		case <-timer.C:
			runOnce()
		}
	}
}
