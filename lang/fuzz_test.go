package lang

import (
	"bytes"
	"testing"
)

func FuzzScan(f *testing.F) {
	for _, seed := range []string{
		"", "print 1;", `"unterminated`, "1.5.6", "// comment\n@#", "var a = b = c;",
		"\x00\xff", "{{{}}}",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, source string) {
		tokens, _ := Scan(source)

		if len(tokens) == 0 || tokens[len(tokens)-1].Kind != KindEOF {
			t.Fatalf("tokens of %q do not end with EOF", source)
		}

		for i, tok := range tokens[:len(tokens)-1] {
			if tok.Kind == KindEOF {
				t.Fatalf("EOF at index %d of %d", i, len(tokens))
			}
		}
	})
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"print 1 + 2 * 3;", "var a; { a = 1; }", "((((", "1 = 2;", "print", "}}}",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, source string) {
		tokens, _ := Scan(source)

		program, err := Parse(tokens)
		if program == nil {
			t.Fatal("Parse returned a nil program")
		}

		if err != nil {
			return
		}

		var buf bytes.Buffer
		if err := program.Format(t.Context(), &buf, 2); err != nil {
			t.Fatal(err)
		}

		first := buf.String()

		// Formatting parenthesizes every binary operation, so a long flat
		// chain nests deeper in the output than in the input.
		reparsed, err := Parse(mustScan(t, first), WithMaxDepth(len(first)+1))
		if err != nil {
			t.Fatalf("formatted source does not parse: %v\n%s", err, first)
		}

		buf.Reset()

		if err := reparsed.Format(t.Context(), &buf, 2); err != nil {
			t.Fatal(err)
		}

		if buf.String() != first {
			t.Fatalf("format is not idempotent:\n%s\n---\n%s", first, buf.String())
		}
	})
}
