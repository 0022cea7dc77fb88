package render

import (
	"strings"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// fencedCodeRenderer fully replaces goldmark's default fenced-code-block
// rendering so that Mermaid blocks can be rewritten into SSR placeholders in
// the same pass, rather than mutating the AST with a node the rest of the
// renderer doesn't know how to hold. It falls through to a normal
// <pre><code class="language-X"> rendering for every other language.
type fencedCodeRenderer struct{}

func (r *fencedCodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *fencedCodeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, n gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	node := n.(*gast.FencedCodeBlock)

	lang := ""
	if info := node.Info; info != nil {
		value := string(info.Segment.Value(source))
		if fields := strings.Fields(value); len(fields) > 0 {
			lang = fields[0]
		}
	}

	var text strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		text.Write(line.Value(source))
	}

	if isMermaidInfo(lang) {
		_, _ = w.WriteString(`<pre class="mermaid">`)
		_, _ = w.WriteString(HTMLEscape(text.String()))
		_, _ = w.WriteString("</pre>\n")
		return gast.WalkSkipChildren, nil
	}

	_, _ = w.WriteString("<pre><code")
	if lang != "" {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.WriteString(HTMLEscape(lang))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(">")
	_, _ = w.Write(util.EscapeHTML([]byte(text.String())))
	_, _ = w.WriteString("</code></pre>\n")
	return gast.WalkSkipChildren, nil
}

// isMermaidInfo reports whether a fenced code block's language token denotes
// Mermaid, matching case-insensitively on the first whitespace-delimited
// token of the info string.
func isMermaidInfo(lang string) bool {
	return strings.EqualFold(lang, "mermaid")
}
