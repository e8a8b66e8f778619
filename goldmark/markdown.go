// Package goldmark renders streamed markdown text to ANSI-styled terminal
// output using goldmark for parsing and lipgloss for styling.
package goldmark

import "github.com/fwojciec/trickle"

// Render parses markdown source and returns ANSI-styled terminal output.
// The source is passed through Sanitize first. Paragraphs and list items are
// word-wrapped to width. A width of zero or less falls back to 80 columns.
func Render(source string, width int, theme trickle.Theme) string {
	source = Sanitize(source)
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme, width)
	return r.render([]byte(source))
}
