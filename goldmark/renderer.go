package goldmark

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/trickle"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type renderer struct {
	width int

	text      lipgloss.Style
	bold      lipgloss.Style
	italic    lipgloss.Style
	heading   lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
}

func newRenderer(theme trickle.Theme, width int) *renderer {
	return &renderer{
		width:     width,
		text:      lipgloss.NewStyle().Foreground(ansiColor(theme.Text)),
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		heading:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *renderer) render(source []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if s := r.block(n, source); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// block renders one block-level node without a trailing newline.
func (r *renderer) block(node ast.Node, source []byte) string {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return r.wrap(r.text.Render(r.inline(n, source)), r.width)

	case *ast.Heading:
		return r.wrap(r.heading.Render(r.inline(n, source)), r.width)

	case *ast.List:
		return r.list(n, source, 0)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var lines []string
		gutter := r.muted.Render("│") + " "
		segs := n.Lines()
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			lines = append(lines, gutter+strings.TrimRight(string(seg.Value(source)), "\n"))
		}
		return strings.Join(lines, "\n")

	case *ast.ThematicBreak:
		return r.muted.Render(strings.Repeat("─", min(r.width, 40)))

	default:
		// Blockquotes and HTML: render children as plain blocks.
		var parts []string
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if s := r.block(c, source); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	}
}

func (r *renderer) list(node *ast.List, source []byte, depth int) string {
	var lines []string
	num := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		marker := "• "
		if node.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		prefix := strings.Repeat("  ", depth) + marker
		continuation := strings.Repeat(" ", lipgloss.Width(prefix))

		first := true
		for ic := c.FirstChild(); ic != nil; ic = ic.NextSibling() {
			if sub, ok := ic.(*ast.List); ok {
				lines = append(lines, r.list(sub, source, depth+1))
				continue
			}
			content := r.wrap(r.text.Render(r.inline(ic, source)), max(r.width-lipgloss.Width(prefix), 10))
			for _, line := range strings.Split(content, "\n") {
				if first {
					lines = append(lines, prefix+line)
					first = false
				} else {
					lines = append(lines, continuation+line)
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (r *renderer) wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

// inline collects styled inline text from a node's children.
func (r *renderer) inline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.writeInline(c, source, &buf)
	}
	return buf.String()
}

func (r *renderer) writeInline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}
	case *ast.String:
		buf.Write(n.Value)
	case *ast.Emphasis:
		inner := r.inline(n, source)
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(inner))
		} else {
			buf.WriteString(r.bold.Render(inner))
		}
	case *ast.CodeSpan:
		buf.WriteString(r.bold.Render(r.inline(n, source)))
	case *ast.Link:
		buf.WriteString(r.underline.Render(r.inline(n, source)))
		buf.WriteString(" " + r.muted.Render("("+string(n.Destination)+")"))
	case *ast.AutoLink:
		buf.WriteString(r.underline.Render(string(n.URL(source))))
	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.writeInline(c, source, buf)
		}
	}
}
