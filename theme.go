package trickle

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	Text    int // Streamed text
	Error   int // Failure text
	Success int // Completion indicator
	Muted   int // Status bar, placeholders
	Accent  int // Title, headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Text:    -1,
		Error:   1,
		Success: 2,
		Muted:   8,
		Accent:  5,
	}
}
