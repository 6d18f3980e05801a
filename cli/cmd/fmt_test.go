package cmd

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lox/lang"
)

const fmtSource = "var a=1;{print -a;}\n"

func TestFmtSourceRun(t *testing.T) {
	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{name: "indent_2", indent: 2, want: "var a = 1;\n{\n  print -a;\n}\n"},
		{name: "indent_4", indent: 4, want: "var a = 1;\n{\n    print -a;\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, _ := testStreams(t, fmtSource)

			f := SourceFmt{FmtInput: FmtInput{MaxDepth: 256, Source: "-"}, Indent: tt.indent}
			if err := f.Run(ctx); err != nil {
				t.Fatal(err)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestFmtSourceRun_File(t *testing.T) {
	path := writeScript(t, t.TempDir(), "a.lox", "print 1+2;")

	ctx, out, _ := testStreams(t, "")

	f := SourceFmt{FmtInput: FmtInput{MaxDepth: 256, Source: path}, Indent: 2}
	if err := f.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if want := "print 1 + 2;\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestSExprRun(t *testing.T) {
	ctx, out, _ := testStreams(t, "var a = 1; print a;")

	if err := (&SExpr{FmtInput{MaxDepth: 256, Source: "-"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if want := "(var a 1)\n(print a)\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestFmtStructuredRun(t *testing.T) {
	tests := []struct {
		name      string
		unmarshal func([]byte, any) error
	}{
		{name: "json", unmarshal: json.Unmarshal},
		{name: "yaml", unmarshal: yaml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, _ := testStreams(t, fmtSource)

			in := FmtInput{MaxDepth: 256, Source: "-"}

			var err error
			if tt.name == "json" {
				err = (&JSON{FmtInput: in, Indent: 2}).Run(ctx)
			} else {
				err = (&YAML{FmtInput: in, Indent: 2}).Run(ctx)
			}

			if err != nil {
				t.Fatal(err)
			}

			var statements []map[string]any
			if err := tt.unmarshal(out.Bytes(), &statements); err != nil {
				t.Fatalf("invalid %s: %v\n%s", tt.name, err, out.String())
			}

			if len(statements) != 2 {
				t.Fatalf("got %d statements, want 2", len(statements))
			}

			if statements[0]["node"] != "var" || statements[1]["node"] != "block" {
				t.Errorf("statements = %v", statements)
			}
		})
	}
}

func TestFmtRun_ParseError(t *testing.T) {
	ctx, out, _ := testStreams(t, "print 1 +;")

	err := (&SourceFmt{FmtInput: FmtInput{MaxDepth: 256, Source: "-"}, Indent: 2}).Run(ctx)

	if !errors.Is(err, ErrParse) || !errors.Is(err, lang.ErrExpectExpression) {
		t.Fatalf("Run() error = %v, want %v", err, lang.ErrExpectExpression)
	}

	if out.Len() != 0 {
		t.Errorf("output = %q, want none", out.String())
	}
}

func TestFmtRun_MaxDepth(t *testing.T) {
	ctx, _, _ := testStreams(t, "print ((((1))));")

	err := (&SExpr{FmtInput{MaxDepth: 2, Source: "-"}}).Run(ctx)
	if !errors.Is(err, lang.ErrMaxDepthExceeded) {
		t.Errorf("Run() error = %v, want %v", err, lang.ErrMaxDepthExceeded)
	}
}
