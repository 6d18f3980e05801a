package cmd

import (
	"context"
	"path/filepath"

	"github.com/ardnew/lox/cli/cmd/repl"
	"github.com/ardnew/lox/log"
)

// Repl starts an interactive session.
type Repl struct {
	SessionFlags `embed:""`

	NoHistory bool `help:"Do not load or save input history"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts, err := r.options(ctx)
	if err != nil {
		return err
	}

	var history string

	if !r.NoHistory {
		if ktx := kongContextFrom(ctx); ktx != nil {
			if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
				history = filepath.Join(dir, "history")
			}
		}
	}

	streams := streamsFrom(ctx)

	return repl.Run(ctx,
		repl.WithInput(streams.In),
		repl.WithOutput(streams.Out),
		repl.WithErrorOutput(streams.Err),
		repl.WithTerminal(isTerminal(streams.In)),
		repl.WithLogger(log.Default()),
		repl.WithHistoryFile(history),
		repl.WithSessionOptions(opts...),
	)
}
