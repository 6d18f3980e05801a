package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrUnexpectedCharacter = NewError("unexpected character")
	ErrUnterminatedString  = NewError("unterminated string")
	ErrExpectExpression    = NewError("expect expression")
	ErrExpectToken         = NewError("expect token")
	ErrInvalidAssignTarget = NewError("invalid assignment target")
	ErrUndefinedVariable   = NewError("undefined variable")
	ErrOperandType         = NewError("invalid operand type")
	ErrMaxDepthExceeded    = NewError("maximum nesting depth exceeded")
	ErrReadInput           = NewError("failed to read input")
	ErrExprCompile         = NewError("expression compilation failed")
	ErrExprEvaluate        = NewError("expression evaluation failed")
	ErrInvalidValueType    = NewError("invalid value type")
	ErrInvalidDefine       = NewError("invalid define")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg    string
	err    error       // Wrapped error (for errors.Unwrap)
	origin *Error      // Sentinel this error was derived from
	attrs  []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from by
// [Error.Wrap] or [Error.With].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t != nil && e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.origin != nil {
		return e.origin
	}

	return e
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:    e.msg,
		err:    err,
		origin: e.root(),
		attrs:  e.attrs, // Share attrs
	}
}

// Wrapf is shorthand for Wrap(fmt.Errorf(format, args...)).
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:    e.msg,
		err:    e.err,
		origin: e.root(),
		attrs:  newAttrs,
	}
}

// Stage identifies the pipeline stage that produced a diagnostic.
type Stage int

const (
	StageNone Stage = iota
	StageLex
	StageParse
	StageRuntime
)

// String returns the lowercase stage name.
func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageRuntime:
		return "runtime"
	default:
		return "none"
	}
}

// LexError reports a problem found while scanning source text.
type LexError struct {
	Line int
	Char rune // Offending character; zero for unterminated strings
	Err  error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("[line %d] Error: %v", e.Line, e.Err)
}

func (e *LexError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("stage", StageLex.String()),
		slog.Int("line", e.Line),
		slog.Any("error", e.Err),
	)
}

// ParseError reports an unexpected token at a grammar position.
type ParseError struct {
	Token Token
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token.Kind == KindEOF {
		return fmt.Sprintf("[line %d] Error at end: %v", e.Token.Line, e.Err)
	}

	return fmt.Sprintf(
		"[line %d] Error at '%s': %v", e.Token.Line, e.Token.Lexeme, e.Err,
	)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("stage", StageParse.String()),
		slog.Int("line", e.Token.Line),
		slog.String("token", e.Token.Lexeme),
		slog.Any("error", e.Err),
	)
}

// RuntimeError reports a failure while evaluating a statement. Token is the
// operator or name the failure is attributed to.
type RuntimeError struct {
	Token Token
	Err   error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf(
		"[line %d] Error at '%s': %v", e.Token.Line, e.Token.Lexeme, e.Err,
	)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *RuntimeError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("stage", StageRuntime.String()),
		slog.Int("line", e.Token.Line),
		slog.String("token", e.Token.Lexeme),
		slog.Any("error", e.Err),
	)
}

// Diagnostics is an ordered collection of errors from one pipeline run.
// A nil Diagnostics means no errors.
type Diagnostics []error

// Error returns one line per diagnostic.
func (d Diagnostics) Error() string {
	lines := make([]string, len(d))
	for i, err := range d {
		lines[i] = err.Error()
	}

	return strings.Join(lines, "\n")
}

// Unwrap exposes every diagnostic to errors.Is and errors.As.
func (d Diagnostics) Unwrap() []error { return d }

// LogValue implements slog.LogValuer.
func (d Diagnostics) LogValue() slog.Value {
	attrs := make([]slog.Attr, len(d))
	for i, err := range d {
		attrs[i] = slog.Any(fmt.Sprint(i), err)
	}

	return slog.GroupValue(attrs...)
}

// Stage returns the stage of the first diagnostic, or [StageNone] when the
// first entry is not a lexer, parser or runtime error.
func (d Diagnostics) Stage() Stage {
	if len(d) == 0 {
		return StageNone
	}

	return StageOf(d[0])
}

// StageOf returns the pipeline stage that produced err.
func StageOf(err error) Stage {
	var (
		lex *LexError
		par *ParseError
		run *RuntimeError
	)

	switch {
	case errors.As(err, &lex):
		return StageLex
	case errors.As(err, &par):
		return StageParse
	case errors.As(err, &run):
		return StageRuntime
	default:
		return StageNone
	}
}

// orNil returns d as an error, or nil when d is empty, so that an empty
// Diagnostics never becomes a non-nil error interface.
func (d Diagnostics) orNil() error {
	if len(d) == 0 {
		return nil
	}

	return d
}
