package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
)

// evaluator runs prompt input against one session and captures what the
// input prints.
type evaluator struct {
	session *lang.Session
	printed *bytes.Buffer
	logger  log.Logger
}

// outcome is the result of one line of input.
type outcome struct {
	value   lang.Value // value of a bare expression, or nil
	err     error
	printed string // print output without the final newline
}

func newEvaluator(logger log.Logger, opts ...lang.Option) *evaluator {
	var buf bytes.Buffer

	return &evaluator{
		session: lang.NewSession(&buf, opts...),
		printed: &buf,
		logger:  logger,
	}
}

// eval runs one line of input. A line holding a single expression is
// evaluated and its value returned; anything else runs as statements, with
// the final semicolon optional.
func (e *evaluator) eval(ctx context.Context, input string) outcome {
	e.printed.Reset()

	var o outcome

	if lang.IsExpression(input) {
		o.value, o.err = e.session.Evaluate(ctx, input)
	} else {
		o.err = e.session.Run(ctx, terminate(input))
	}

	o.printed = strings.TrimSuffix(e.printed.String(), "\n")

	e.logger.TraceContext(ctx, "repl eval",
		slog.String("input", input),
		slog.Bool("expression", o.value != nil),
		slog.Bool("error", o.err != nil),
	)

	return o
}

// execute runs a parsed program, such as one composed in the editor.
func (e *evaluator) execute(ctx context.Context, program *lang.Program) outcome {
	e.printed.Reset()

	err := e.session.Execute(ctx, program)

	return outcome{
		err:     err,
		printed: strings.TrimSuffix(e.printed.String(), "\n"),
	}
}

// reset discards every binding made at the prompt.
func (e *evaluator) reset() { e.session.Reset() }

// names returns the names bound in the session.
func (e *evaluator) names() []string { return e.session.Names() }

// lookup returns the value bound to name.
func (e *evaluator) lookup(name string) (lang.Value, bool) {
	return e.session.Lookup(name)
}

// list renders one line per binding using render.
func (e *evaluator) list(render func(name, preview string) string) string {
	var b strings.Builder

	for _, name := range e.names() {
		v, _ := e.lookup(name)
		b.WriteString(render(name, preview(v)))
		b.WriteByte('\n')
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// terminate appends the semicolon a statement typed at the prompt may omit.
func terminate(input string) string {
	s := strings.TrimSpace(input)
	if s == "" || strings.HasSuffix(s, ";") || strings.HasSuffix(s, "}") {
		return input
	}

	return s + ";"
}

// maxPreview is the display width of a value preview.
const maxPreview = 40

// preview formats "type = value" for display, shortening long text.
func preview(v lang.Value) string {
	if v == nil {
		return ""
	}

	s := v.String()
	if _, ok := v.(lang.Text); ok {
		s = fmt.Sprintf("%q", s)
	}

	if utf8.RuneCountInString(s) > maxPreview {
		s = truncate(s, maxPreview-3) + "..."
	}

	return v.Type().String() + " = " + s
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	i := 0
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}

	return s[:i]
}

// command names a control command.
type command string

const (
	cmdHelp  command = "help"
	cmdList  command = "list"
	cmdEdit  command = "edit"
	cmdClear command = "clear"
	cmdReset command = "reset"
	cmdQuit  command = "quit"
)

// commands are the control commands, in help order.
var commands = []command{cmdHelp, cmdList, cmdEdit, cmdClear, cmdReset, cmdQuit}

// commandNames returns the names of commands for completion.
func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = string(c)
	}

	return names
}

// parseCommand resolves a command or one of its aliases.
func parseCommand(name string) (command, bool) {
	switch strings.ToLower(name) {
	case "h", "?", "help":
		return cmdHelp, true
	case "l", "ls", "list":
		return cmdList, true
	case "e", "edit":
		return cmdEdit, true
	case "c", "clear":
		return cmdClear, true
	case "r", "reset":
		return cmdReset, true
	case "q", "quit", "exit":
		return cmdQuit, true
	default:
		return "", false
	}
}
