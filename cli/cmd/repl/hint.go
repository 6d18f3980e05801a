package repl

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	hintNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	hintTypeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// identifierHint describes the identifier under the cursor: a keyword, or a
// name bound in the session with its type and value. It returns "" when the
// cursor is not on a known identifier.
func identifierHint(ev *evaluator, input string, cursor int) string {
	word, start, _ := wordBounds(input, cursor)
	if word == "" || inString(input, start) {
		return ""
	}

	if isKeyword(word) {
		return hintNameStyle.Render(word) + hintTypeStyle.Render(" keyword")
	}

	v, ok := ev.lookup(word)
	if !ok {
		return ""
	}

	return hintNameStyle.Render(word) + hintTypeStyle.Render(": "+preview(v))
}
