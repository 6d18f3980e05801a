package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lox/lang"
	"github.com/ardnew/lox/pkg"
)

func TestTokensRun_Text(t *testing.T) {
	ctx, out, _ := testStreams(t, "var n = 1;")

	if err := (&Tokens{Format: "text", Source: "-"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"   1 VAR var",
		"   1 IDENTIFIER n n",
		"   1 EQUAL =",
		"   1 NUMBER 1 1",
		"   1 SEMICOLON ;",
		"   1 EOF ",
		"",
	}, "\n")

	if out.String() != want {
		t.Errorf("output =\n%q\nwant:\n%q", out.String(), want)
	}
}

func TestTokensRun_Structured(t *testing.T) {
	tests := []struct {
		format    string
		unmarshal func([]byte, any) error
	}{
		{format: "json", unmarshal: json.Unmarshal},
		{format: "yaml", unmarshal: yaml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			ctx, out, _ := testStreams(t, "print \"hi\";\n")

			if err := (&Tokens{Format: tt.format, Indent: 2, Source: "-"}).Run(ctx); err != nil {
				t.Fatal(err)
			}

			var tokens []map[string]any
			if err := tt.unmarshal(out.Bytes(), &tokens); err != nil {
				t.Fatalf("invalid %s: %v\n%s", tt.format, err, out.String())
			}

			// print, string, semicolon, EOF
			if len(tokens) != 4 {
				t.Fatalf("got %d tokens, want 4:\n%s", len(tokens), out.String())
			}
		})
	}
}

func TestTokensRun_LexError(t *testing.T) {
	ctx, out, _ := testStreams(t, "var a = 1;\n@\n")

	err := (&Tokens{Format: "text", Source: "-"}).Run(ctx)

	if !errors.Is(err, ErrScan) || !errors.Is(err, lang.ErrUnexpectedCharacter) {
		t.Fatalf("Run() error = %v, want %v", err, lang.ErrUnexpectedCharacter)
	}

	var diags lang.Diagnostics
	if !errors.As(err, &diags) || diags.Stage() != lang.StageLex {
		t.Errorf("Run() error = %v, want lexer diagnostics", err)
	}

	// Tokens scanned around the error are still printed.
	if !strings.Contains(out.String(), "SEMICOLON") || !strings.Contains(out.String(), "EOF") {
		t.Errorf("output = %q, want the scanned tokens", out.String())
	}
}

func TestTokensRun_InvalidFormat(t *testing.T) {
	ctx, _, _ := testStreams(t, "1;")

	err := (&Tokens{Format: "xml", Source: "-"}).Run(ctx)
	if !errors.Is(err, pkg.ErrInvalidFormat) {
		t.Errorf("Run() error = %v, want %v", err, pkg.ErrInvalidFormat)
	}
}
