package telegram

import (
	"regexp"
	"strings"
)

// Inline patterns, applied after HTML escaping. Bold runs before italic so
// ** is consumed before *.
var (
	reCode   = regexp.MustCompile("`([^`]+)`")
	reBold   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic = regexp.MustCompile(`\*(.+?)\*`)
	reLink   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// RenderHTML converts the Markdown subset the response engine emits (bold,
// italic, inline code, fenced code, links) into Telegram's HTML dialect.
func RenderHTML(md string) string {
	var out strings.Builder
	inFence := false

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "```"):
			if inFence {
				out.WriteString("</code></pre>")
			} else {
				out.WriteString("<pre><code>")
			}
			inFence = !inFence
		case inFence:
			out.WriteString(escapeHTML(line))
		default:
			out.WriteString(renderInline(line))
		}
		if i < len(lines)-1 {
			out.WriteString("\n")
		}
	}
	if inFence {
		out.WriteString("</code></pre>")
	}
	return out.String()
}

func renderInline(line string) string {
	line = escapeHTML(line)
	line = reCode.ReplaceAllString(line, "<code>$1</code>")
	line = reBold.ReplaceAllString(line, "<b>$1</b>")
	line = reItalic.ReplaceAllString(line, "<i>$1</i>")
	line = reLink.ReplaceAllString(line, `<a href="$2">$1</a>`)
	return line
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
