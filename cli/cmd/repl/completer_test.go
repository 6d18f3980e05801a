package repl

import (
	"slices"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "(fo", 3, "fo", 1, 3},
		{"after_bang", "!fo", 3, "fo", 1, 3},
		{"after_comparison", "a >= fo", 7, "fo", 5, 7},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "var my_var", 10, "my_var", 4, 10},
		{"digits", "x1 = x2", 7, "x2", 5, 7},
		// Hyphens are operators, not part of identifiers.
		{"hyphen", "a-b", 3, "b", 2, 3},
		{"semicolon", "print a;", 7, "a", 6, 7},
		{"cursor_past_end", "abc", 10, "abc", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   bool
	}{
		{`print "ab`, 9, true},
		{`print "ab" + c`, 13, false},
		{`"a" + "b`, 8, true},
		{`x`, 5, false},
	}

	for _, tt := range tests {
		if got := inString(tt.input, tt.offset); got != tt.want {
			t.Errorf("inString(%q, %d) = %v, want %v", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestEvalCandidates(t *testing.T) {
	got := evalCandidates([]string{"alpha", "print", "zeta"})

	for _, want := range []string{"var", "print", "nil", "alpha", "zeta"} {
		if !slices.Contains(got, want) {
			t.Errorf("candidates missing %q: %v", want, got)
		}
	}

	count := 0

	for _, c := range got {
		if c == "print" {
			count++
		}
	}

	if count != 1 {
		t.Errorf("print appears %d times", count)
	}
}

func TestIsKeyword(t *testing.T) {
	for name, want := range map[string]bool{
		"var": true, "print": true, "true": true, "nil": true,
		"vars": false, "x": false, "": false,
	} {
		if got := isKeyword(name); got != want {
			t.Errorf("isKeyword(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestComputeMatches(t *testing.T) {
	m := testModel(t)
	m.eval.eval(t.Context(), "var counter = 1")
	m.eval.eval(t.Context(), "var total = 2")

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  []string
		empty bool
	}{
		{name: "bound name", input: "print cou", want: []string{"counter"}},
		{name: "keyword", input: "pri", want: []string{"print"}},
		{name: "empty word", input: "print ", empty: true},
		{name: "number", input: "print 12", empty: true},
		{name: "inside string", input: `print "cou`, empty: true},
		{name: "command", mode: modeCtrl, input: "res", want: []string{"reset"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _, _ := m.computeMatches()

			if tt.empty {
				if len(matches) != 0 {
					t.Errorf("matches = %v, want none", matches)
				}

				return
			}

			var got []string
			for _, match := range matches {
				got = append(got, match.Str)
			}

			for _, want := range tt.want {
				if !slices.Contains(got, want) {
					t.Errorf("matches %v missing %q", got, want)
				}
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("r")
	m.input.SetCursor(1)

	matches, _, _, _ := m.computeMatches()
	if len(matches) == 0 {
		t.Fatal("expected matches for 'r'")
	}

	if bar := renderCandidateBar(matches, -1, false, 0); bar != "" {
		t.Errorf("zero width bar = %q, want empty", bar)
	}

	if bar := renderCandidateBar(nil, -1, false, 80); bar != "" {
		t.Errorf("empty matches bar = %q, want empty", bar)
	}

	if bar := renderCandidateBar(matches, 0, true, 80); bar == "" {
		t.Error("bar is empty")
	}
}
