package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lox/lang"
)

// isWordBoundary returns true if the rune cannot be part of an identifier.
// Identifiers hold ASCII letters, digits and underscores only, so operators,
// punctuation, whitespace and the hyphen all delimit words.
func isWordBoundary(r rune) bool {
	switch {
	case r == '_',
		r >= 'a' && r <= 'z',
		r >= 'A' && r <= 'Z',
		r >= '0' && r <= '9':
		return false
	}

	return true
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// an operator, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// inString reports whether offset lies inside a string literal of input.
// Lox strings have no escapes, so quotes simply alternate.
func inString(input string, offset int) bool {
	if offset > len(input) {
		offset = len(input)
	}

	return strings.Count(input[:offset], `"`)%2 == 1
}

// evalCandidates returns the completions for lox input: keywords and the
// names bound in the session, without duplicates.
func evalCandidates(names []string) []string {
	candidates := slices.Collect(lang.Keywords())

	for _, name := range names {
		if !slices.Contains(candidates, name) {
			candidates = append(candidates, name)
		}
	}

	return candidates
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word, a word inside a string literal or a number
// yields no matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	if word == "" || word[0] >= '0' && word[0] <= '9' {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = commandNames()
	} else {
		if inString(input, wordStart) {
			return nil, nil, wordStart, wordEnd
		}

		candidates = evalCandidates(m.eval.names())
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Keywords are rendered in the keyword style.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	if isKeyword(match.Str) {
		baseStyle = keywordStyle
	}

	highlightStyle := baseStyle.Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedStyle.Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	return b.String()
}

// isKeyword reports whether name is a reserved word.
func isKeyword(name string) bool {
	for kw := range lang.Keywords() {
		if kw == name {
			return true
		}
	}

	return false
}
