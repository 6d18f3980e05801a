package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardnew/lox/cli"
	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
)

// Exit codes follow the sysexits convention used by other Lox interpreters.
const (
	exitFailure  = 1
	exitDataErr  = 65 // lexer or parser diagnostics
	exitSoftware = 70 // runtime error
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil {
		os.Exit(report(err))
	}
}

// report prints err and returns the process exit code for it. Diagnostics
// are printed one per line as they would appear to a script author; other
// errors are logged.
func report(err error) int {
	var diags lang.Diagnostics
	if !errors.As(err, &diags) {
		log.Error(
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()

		return exitFailure
	}

	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d)
	}

	switch diags.Stage() {
	case lang.StageLex, lang.StageParse:
		return exitDataErr
	case lang.StageRuntime:
		return exitSoftware
	default:
		return exitFailure
	}
}
