package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/lox/lang"
)

// Eval evaluates a single expression and prints its value.
type Eval struct {
	SessionFlags `embed:""`

	Expression string `arg:"" help:"Expression to evaluate, such as '1 + 2 * 3'" name:"expression"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	opts, err := e.options(ctx)
	if err != nil {
		return err
	}

	streams := streamsFrom(ctx)

	value, err := lang.NewSession(streams.Out, opts...).Evaluate(ctx, e.Expression)
	if err != nil {
		return ErrEvaluate.Wrap(err).
			With(slog.String("expression", e.Expression))
	}

	_, err = fmt.Fprintln(streams.Out, value)

	return err
}
