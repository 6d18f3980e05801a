package lang

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"testing"
)

func formatSource(t *testing.T, source string) string {
	t.Helper()

	program, err := Parse(mustScan(t, source))
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}

	var buf bytes.Buffer
	if err := program.Format(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	return buf.String()
}

func TestFormatExpr(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"((1))", "(1)"},
		{"-(1 + 2)", "-(1 + 2)"},
		{"- -1", "--1"},
		{"!(a)", "!(a)"},
		{"a = b = 1", "(a = b = 1)"},
		{"(a = 1) + 2", "((a = 1) + 2)"},
		{`"s" + 1.50`, `("s" + 1.5)`},
		{"nil != true", "(nil != true)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FormatExpr(parseExpr(t, tt.input)); got != tt.want {
				t.Errorf("FormatExpr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatExpr_InfiniteLiteral(t *testing.T) {
	tests := []struct {
		value Number
		want  string
	}{
		{Number(math.Inf(1)), overflowDigits},
		{Number(math.Inf(-1)), "-" + overflowDigits},
		{Number(math.MaxFloat64), strconv.FormatFloat(math.MaxFloat64, 'f', -1, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.value.String(), func(t *testing.T) {
			got := FormatExpr(&Literal{Value: tt.value})
			if got != tt.want {
				t.Fatalf("FormatExpr() = %q, want %q", got, tt.want)
			}

			back := parseExpr(t, got)
			if v := evalLiteral(back); v != tt.value {
				t.Errorf("reparsed value = %v, want %v", v, tt.value)
			}
		})
	}
}

// evalLiteral folds a literal or a negated literal back to its number.
func evalLiteral(e Expr) Value {
	switch e := e.(type) {
	case *Literal:
		return e.Value
	case *Unary:
		if n, ok := evalLiteral(e.Right).(Number); ok {
			return -n
		}
	}

	return nil
}

func TestFormatExpr_FixedPoint(t *testing.T) {
	inputs := []string{
		"1 + 2 * 3 - 4 / 5",
		"((1 + 2)) * ((3))",
		"a = (b = c) == !-d",
		"-(-(1))",
		"!(a == b) != (c < d)",
		`("a" + "b") + "c"`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := FormatExpr(parseExpr(t, input))
			twice := FormatExpr(parseExpr(t, once))

			if once != twice {
				t.Errorf("not a fixed point:\n once: %s\ntwice: %s", once, twice)
			}
		})
	}
}

func TestProgram_Format(t *testing.T) {
	source := "var a=1;{var b=a+2*3;print (b);{}}a=a-1;"
	want := strings.Join([]string{
		"var a = 1;",
		"{",
		"  var b = a + (2 * 3);",
		"  print b;",
		"  {",
		"  }",
		"}",
		"a = a - 1;",
		"",
	}, "\n")

	if got := formatSource(t, source); got != want {
		t.Errorf("Format() =\n%s\nwant:\n%s", got, want)
	}
}

func TestProgram_FormatRoundTrip(t *testing.T) {
	sources := []string{
		"print 1 + 2 * 3;",
		"var a; var b = a = 2; print (a) + b;",
		"var x = 1; { var x = (x + 1) * 2; print x; } print x;",
		`print "a" + ("b" + "c");`,
		"print !nil == !!false;",
		"print -(1 - 3) / 4;",
		"var a = 1; (a) == 1; print a = a + 1;",
		"print 1" + strings.Repeat("0", 400) + ";",
		"var big = -1" + strings.Repeat("0", 320) + "; print big * 2;",
	}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			first := formatSource(t, source)
			second := formatSource(t, first)

			if first != second {
				t.Errorf("format is not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
			}

			var want, got bytes.Buffer

			if err := Run(t.Context(), source, &want); err != nil {
				t.Fatal(err)
			}

			if err := Run(t.Context(), first, &got); err != nil {
				t.Fatalf("formatted source fails: %v\n%s", err, first)
			}

			if got.String() != want.String() {
				t.Errorf("formatted output = %q, want %q", got.String(), want.String())
			}
		})
	}
}

func TestProgram_FormatSExpr(t *testing.T) {
	program, err := Parse(mustScan(t, "var a = 1; print a;"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := program.FormatSExpr(t.Context(), &buf); err != nil {
		t.Fatal(err)
	}

	if want := "(var a 1)\n(print a)\n"; buf.String() != want {
		t.Errorf("FormatSExpr() = %q, want %q", buf.String(), want)
	}
}

func TestProgram_FormatJSON(t *testing.T) {
	program, err := Parse(mustScan(t, "var a = 1;\n{ print -a; }"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := program.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if len(decoded) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(decoded))
	}

	if decoded[0]["node"] != "var" || decoded[0]["name"] != "a" {
		t.Errorf("first statement = %v", decoded[0])
	}

	init, _ := decoded[0]["initializer"].(map[string]any)
	if init["value"] != 1.0 || init["type"] != "number" {
		t.Errorf("initializer = %v", init)
	}

	body, _ := decoded[1]["statements"].([]any)
	if len(body) != 1 {
		t.Fatalf("block body = %v", decoded[1])
	}

	st, _ := body[0].(map[string]any)
	expr, _ := st["expression"].(map[string]any)

	if expr["node"] != "unary" || expr["operator"] != "-" || expr["line"] != 2.0 {
		t.Errorf("print expression = %v", expr)
	}
}

func TestProgram_FormatYAML(t *testing.T) {
	program, err := Parse(mustScan(t, `print "hi";`))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := program.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"node: print", "node: literal", "type: string", "value: hi"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("YAML missing %q:\n%s", want, buf.String())
		}
	}
}

func TestFormatTokens(t *testing.T) {
	tokens := mustScan(t, "var n = 1;")

	var text bytes.Buffer
	if err := FormatTokensText(&text, tokens); err != nil {
		t.Fatal(err)
	}

	wantText := strings.Join([]string{
		"   1 VAR var",
		"   1 IDENTIFIER n n",
		"   1 EQUAL =",
		"   1 NUMBER 1 1",
		"   1 SEMICOLON ;",
		"   1 EOF ",
		"",
	}, "\n")
	if text.String() != wantText {
		t.Errorf("FormatTokensText() =\n%q\nwant:\n%q", text.String(), wantText)
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, tokens, 0); err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}

	if len(decoded) != len(tokens) {
		t.Fatalf("decoded %d tokens, want %d", len(decoded), len(tokens))
	}

	if decoded[3]["kind"] != "NUMBER" || decoded[3]["literal"] != 1.0 {
		t.Errorf("number token = %v", decoded[3])
	}

	if _, ok := decoded[0]["literal"]; ok {
		t.Errorf("keyword token has literal: %v", decoded[0])
	}

	var yml bytes.Buffer
	if err := FormatTokensYAML(&yml, tokens, 0); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(yml.String(), "kind: SEMICOLON") {
		t.Errorf("YAML missing semicolon token:\n%s", yml.String())
	}
}
