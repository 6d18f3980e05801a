package lang

import (
	"context"
	"errors"
	"io"
)

// Run lexes, parses and executes source in a fresh interpreter, writing
// print output to out.
//
// Lexer and parser diagnostics are collected together and prevent
// execution. Execution stops at the first runtime error. A non-nil result
// is always [Diagnostics], except that a done ctx yields [Diagnostics]
// holding ctx.Err().
func Run(ctx context.Context, source string, out io.Writer, opts ...Option) error {
	return NewSession(out, opts...).Run(ctx, source)
}

// Session runs many sources against one interpreter, so that bindings made
// by one run are visible to the next, as in an interactive prompt.
//
// A Session is not safe for concurrent use.
type Session struct {
	interp *Interpreter
	out    io.Writer
	opts   []Option
}

// NewSession returns a session whose print output goes to out.
func NewSession(out io.Writer, opts ...Option) *Session {
	return &Session{
		interp: NewInterpreter(out, opts...),
		out:    out,
		opts:   opts,
	}
}

// Run parses source and, when it has no lexer or parser diagnostics,
// executes it in the session's environment.
func (s *Session) Run(ctx context.Context, source string) error {
	program, err := ParseString(ctx, source, s.opts...)
	if err != nil {
		return err
	}

	return s.Execute(ctx, program)
}

// Execute runs a program parsed by [ParseString] or [ParseReader] in the
// session's environment. Runtime errors are returned as [Diagnostics].
func (s *Session) Execute(ctx context.Context, program *Program) error {
	if err := s.interp.Execute(ctx, program.Statements); err != nil {
		return wrapRuntime(err)
	}

	return nil
}

// Evaluate parses source as a single expression and returns its value.
func (s *Session) Evaluate(ctx context.Context, source string) (Value, error) {
	tokens, lexErr := Scan(source)

	expr, parseErr := ParseExpression(tokens, s.opts...)
	if diags := joinDiagnostics(lexErr, parseErr); diags != nil {
		return nil, diags
	}

	v, err := s.interp.Evaluate(ctx, expr)
	if err != nil {
		return nil, wrapRuntime(err)
	}

	return v, nil
}

// Names returns the sorted names visible in the session's active scope.
func (s *Session) Names() []string { return s.interp.Environment().Names() }

// Lookup returns the value bound to name.
func (s *Session) Lookup(name string) (Value, bool) {
	return s.interp.Environment().Get(name)
}

// Reset discards every binding made by earlier runs. Globals given as
// options are defined again.
func (s *Session) Reset() {
	s.interp = NewInterpreter(s.out, s.opts...)
}

// IsExpression reports whether source is exactly one expression with no
// lexer or parser diagnostics, such as a line typed at a prompt without a
// trailing semicolon.
func IsExpression(source string) bool {
	tokens, err := Scan(source)
	if err != nil {
		return false
	}

	_, err = ParseExpression(tokens)

	return err == nil
}

// compile lexes and parses source, concatenating the diagnostics of both
// stages.
func compile(source string, opts ...Option) (*Program, error) {
	tokens, lexErr := Scan(source)
	program, parseErr := Parse(tokens, opts...)

	if diags := joinDiagnostics(lexErr, parseErr); diags != nil {
		return program, diags
	}

	return program, nil
}

func joinDiagnostics(errs ...error) error {
	var diags Diagnostics

	for _, err := range errs {
		var d Diagnostics

		switch {
		case err == nil:
		case errors.As(err, &d):
			diags = append(diags, d...)
		default:
			diags = append(diags, err)
		}
	}

	return diags.orNil()
}

func wrapRuntime(err error) error {
	var d Diagnostics
	if errors.As(err, &d) {
		return d
	}

	return Diagnostics{err}
}
