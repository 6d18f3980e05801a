package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message only", NewError("boom"), "boom"},
		{"wrapped", NewError("boom").Wrap(errors.New("cause")), "boom: cause"},
		{"wrapped format", NewError("boom").Wrapf("at %d", 3), "boom: at 3"},
		{"standard error", WrapError(errors.New("plain")), "plain"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	cause := errors.New("cause")
	wrapped := ErrUndefinedVariable.Wrap(cause).With(slog.String("name", "x"))

	if !errors.Is(wrapped, ErrUndefinedVariable) {
		t.Error("wrapped error does not match its sentinel")
	}

	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error does not match its cause")
	}

	if errors.Is(wrapped, ErrOperandType) {
		t.Error("wrapped error matches an unrelated sentinel")
	}

	if errors.Is(ErrOperandType, wrapped) {
		t.Error("sentinel matches an error derived from another sentinel")
	}

	outer := fmt.Errorf("context: %w", wrapped)
	if !errors.Is(outer, ErrUndefinedVariable) {
		t.Error("fmt wrapping hides the sentinel")
	}
}

func TestError_WithDoesNotModify(t *testing.T) {
	base := NewError("base").With(slog.Int("a", 1))
	_ = base.With(slog.Int("b", 2))

	if got := base.LogValue().Group(); len(got) != 2 {
		t.Errorf("base attrs = %v, want error and a", got)
	}
}

func TestWrapError_KeepsError(t *testing.T) {
	e := ErrReadInput.Wrapf("x")

	if WrapError(e) != e {
		t.Error("WrapError re-wrapped an *Error")
	}

	if WrapError(fmt.Errorf("outer: %w", e)) != e {
		t.Error("WrapError did not find the wrapped *Error")
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrExprCompile.Wrap(errors.New("bad")).With(slog.String("name", "x"))

	attrs := map[string]string{}
	for _, a := range err.LogValue().Group() {
		attrs[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error": "expression compilation failed",
		"cause": "bad",
		"name":  "x",
	}

	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %s = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	var empty Diagnostics

	if empty.orNil() != nil {
		t.Error("empty diagnostics is a non-nil error")
	}

	if empty.Stage() != StageNone {
		t.Errorf("empty stage = %v", empty.Stage())
	}

	diags := Diagnostics{
		&LexError{Line: 1, Char: '@', Err: ErrUnexpectedCharacter.Wrapf("%q", '@')},
		&ParseError{Token: Token{Kind: KindEOF, Line: 2}, Err: ErrExpectExpression},
	}

	want := "[line 1] Error: unexpected character: '@'\n[line 2] Error at end: expect expression"
	if diags.Error() != want {
		t.Errorf("Error() = %q, want %q", diags.Error(), want)
	}

	if diags.Stage() != StageLex {
		t.Errorf("Stage() = %v, want lex", diags.Stage())
	}

	if !errors.Is(diags, ErrExpectExpression) {
		t.Error("diagnostics do not expose the parse error")
	}

	if got := len(diags.LogValue().Group()); got != 2 {
		t.Errorf("LogValue has %d attrs, want 2", got)
	}
}

func TestStageOf(t *testing.T) {
	tests := []struct {
		err  error
		want Stage
	}{
		{&LexError{}, StageLex},
		{&ParseError{}, StageParse},
		{&RuntimeError{}, StageRuntime},
		{fmt.Errorf("wrapped: %w", &RuntimeError{}), StageRuntime},
		{errors.New("other"), StageNone},
		{nil, StageNone},
	}

	for _, tt := range tests {
		if got := StageOf(tt.err); got != tt.want {
			t.Errorf("StageOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}

	if Stage(42).String() != "none" {
		t.Errorf("unknown stage = %q", Stage(42).String())
	}
}
