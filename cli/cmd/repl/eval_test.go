package repl

import (
	"errors"
	"strings"
	"unicode/utf8"
	"testing"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/log"
)

func TestEvaluator_Eval(t *testing.T) {
	ev := newEvaluator(log.Logger{})

	tests := []struct {
		input   string
		printed string
		value   lang.Value
		wantErr error
	}{
		{input: "var a = 1", value: nil},
		{input: "a + 1", value: lang.Number(2)},
		{input: "a = 5", value: lang.Number(5)},
		{input: "print a", printed: "5"},
		{input: "print a; print a * 2;", printed: "5\n10"},
		{input: "{ var b = 2; print a + b; }", printed: "7"},
		{input: `"lo" + "x"`, value: lang.Text("lox")},
		{input: "nope", wantErr: lang.ErrUndefinedVariable},
		{input: "print 1; print nope;", printed: "1", wantErr: lang.ErrUndefinedVariable},
		{input: "1 +", wantErr: lang.ErrExpectExpression},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			o := ev.eval(t.Context(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(o.err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", o.err, tt.wantErr)
				}
			} else if o.err != nil {
				t.Fatalf("unexpected error: %v", o.err)
			}

			if o.printed != tt.printed {
				t.Errorf("printed = %q, want %q", o.printed, tt.printed)
			}

			if o.value != tt.value {
				t.Errorf("value = %v, want %v", o.value, tt.value)
			}
		})
	}
}

func TestEvaluator_ExecuteAndReset(t *testing.T) {
	ev := newEvaluator(log.Logger{},
		lang.WithGlobals(map[string]lang.Value{"g": lang.Number(1)}),
	)

	program, err := lang.ParseString(t.Context(), "var x = g + 1; print x;")
	if err != nil {
		t.Fatal(err)
	}

	if o := ev.execute(t.Context(), program); o.err != nil || o.printed != "2" {
		t.Fatalf("execute = %+v", o)
	}

	if got := ev.list(plainBinding); got != "  g: number = 1\n  x: number = 2" {
		t.Errorf("list = %q", got)
	}

	ev.reset()

	if _, ok := ev.lookup("x"); ok {
		t.Error("x survived reset")
	}

	if v, ok := ev.lookup("g"); !ok || v != lang.Number(1) {
		t.Errorf("g = %v, %v after reset", v, ok)
	}
}

func TestTerminate(t *testing.T) {
	tests := map[string]string{
		"print 1":        "print 1;",
		"print 1;":       "print 1;",
		"{ print 1; }":   "{ print 1; }",
		"  var a = 1  ":  "var a = 1;",
		"":               "",
	}

	for input, want := range tests {
		if got := terminate(input); got != want {
			t.Errorf("terminate(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("x", 60)

	tests := []struct {
		v    lang.Value
		want string
	}{
		{nil, ""},
		{lang.Number(1.5), "number = 1.5"},
		{lang.Bool(true), "bool = true"},
		{lang.Nil{}, "nil = nil"},
		{lang.Text("hi"), `string = "hi"`},
		{lang.Text(long), `string = "` + strings.Repeat("x", 36) + "..."},
		{lang.Text(strings.Repeat("é", 60)), `string = "` + strings.Repeat("é", 36) + "..."},
		{lang.Text(strings.Repeat("é", 38)), `string = "` + strings.Repeat("é", 38) + `"`},
	}

	for _, tt := range tests {
		got := preview(tt.v)
		if got != tt.want {
			t.Errorf("preview(%v) = %q, want %q", tt.v, got, tt.want)
		}

		if !utf8.ValidString(got) {
			t.Errorf("preview(%v) is not valid UTF-8: %q", tt.v, got)
		}
	}
}

func TestParseCommand(t *testing.T) {
	tests := map[string]command{
		"help": cmdHelp, "?": cmdHelp, "L": cmdList, "edit": cmdEdit,
		"c": cmdClear, "reset": cmdReset, "exit": cmdQuit, "q": cmdQuit,
	}

	for name, want := range tests {
		if got, ok := parseCommand(name); !ok || got != want {
			t.Errorf("parseCommand(%q) = %q, %v; want %q", name, got, ok, want)
		}
	}

	if _, ok := parseCommand("nope"); ok {
		t.Error("parseCommand(nope) succeeded")
	}

	if got := commandNames(); len(got) != len(commands) || got[0] != "help" {
		t.Errorf("commandNames() = %v", got)
	}
}
