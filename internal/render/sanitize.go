package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// PlainText makes server-supplied text safe to place on a terminal: escape
// sequences are stripped and the remaining control characters dropped, so
// the text can never restyle or move the cursor. Newlines and tabs survive.
func PlainText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = ansi.Strip(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r):
		case unicode.Is(unicode.Cf, r) && r != '\u200d':
			// bidi overrides and other invisible format characters
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SingleLine is PlainText with all whitespace runs collapsed to one space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(PlainText(s)), " ")
}
