package render

import "strings"

// HTMLEscape performs minimal entity escaping for text content and
// attribute values: '&', '<', '>', '"', '\''. It is the single escaping
// entry point shared by the renderer, the page shell, and the directory
// lister, so that escaping behavior never drifts between call sites.
func HTMLEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
