package goldmark

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize makes server-supplied text safe to print to a terminal. Escape
// sequences are stripped, CRLF and lone CR become LF, and every other control
// character except tab is dropped.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\r':
			b.WriteByte('\n')
		case r == '\t' || r == '\n':
			b.WriteRune(r)
		case r <= 0x1F || r == 0x7F:
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
