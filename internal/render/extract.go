package render

import (
	"path"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"mdmd/internal/urlkey"
)

// OutboundRef is one local link discovered while indexing a document.
type OutboundRef struct {
	// URLPath is the target's URL-key, already run through urlkey.Key.
	URLPath  string
	Fragment string
	Snippet  string
}

// snippetWindow is the number of bytes of context captured on each side of
// a link's byte range before whitespace-collapsing and truncation.
const snippetWindow = 80

// maxSnippetLen is the truncation cap applied after whitespace-collapsing.
const maxSnippetLen = 200

// ExtractForIndex parses src once and returns the document's first H1 text
// (if any) and every local outbound link, using the same link filter and
// resolution rules as Render. Targets outside canonicalRoot are silently
// dropped, matching the request-time resolver's own containment check.
func ExtractForIndex(src []byte, sourcePath, canonicalRoot string) (title string, refs []OutboundRef) {
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)
	fileDir := path.Dir(sourcePath)

	titleFound := false
	_ = gast.Walk(root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		if h, ok := n.(*gast.Heading); ok {
			if !titleFound && h.Level == 1 {
				title = flattenHeadingText(h, src)
				titleFound = true
			}
			return gast.WalkContinue, nil
		}
		link, ok := n.(*gast.Link)
		if !ok {
			return gast.WalkContinue, nil
		}
		if ref, ok := extractOutbound(link, src, fileDir, canonicalRoot); ok {
			refs = append(refs, ref)
		}
		return gast.WalkContinue, nil
	})
	return title, refs
}

func extractOutbound(link *gast.Link, src []byte, fileDir, canonicalRoot string) (OutboundRef, bool) {
	url := string(link.Destination)
	if !IsRewritableLocal(url) {
		return OutboundRef{}, false
	}
	base, suffix := SplitURLSuffix(url)
	if base == "" {
		return OutboundRef{}, false
	}

	var fragment string
	if strings.HasPrefix(suffix, "#") {
		fragment = suffix[1:]
	} else if idx := strings.IndexByte(suffix, '#'); idx != -1 {
		fragment = suffix[idx+1:]
	}

	resolved := ResolveRelativePath(fileDir, base)
	rel, ok := RootRelative(resolved, canonicalRoot)
	if !ok {
		return OutboundRef{}, false
	}

	start, end, haveRange := linkByteRange(link)
	var snippet string
	if haveRange {
		snippet = buildSnippet(src, start, end)
	}

	return OutboundRef{
		URLPath:  urlkey.Key(rel),
		Fragment: fragment,
		Snippet:  snippet,
	}, true
}

// linkByteRange computes the minimal source byte range spanned by a link
// node's text descendants. Goldmark doesn't expose a whole-node byte range
// for inline nodes directly, so this walks the link's text/code-span
// children and takes their min start / max stop.
func linkByteRange(link *gast.Link) (start, end int, ok bool) {
	start, end = -1, -1
	_ = gast.Walk(link, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		var seg text.Segment
		switch v := n.(type) {
		case *gast.Text:
			seg = v.Segment
		default:
			return gast.WalkContinue, nil
		}
		if start == -1 || seg.Start < start {
			start = seg.Start
		}
		if end == -1 || seg.Stop > end {
			end = seg.Stop
		}
		return gast.WalkContinue, nil
	})
	if start == -1 {
		return 0, 0, false
	}
	return start, end, true
}

// buildSnippet takes roughly snippetWindow bytes of source before and after
// [start, end), adjusted to the nearest valid UTF-8 rune boundary, collapses
// whitespace, and truncates to maxSnippetLen runes.
func buildSnippet(src []byte, start, end int) string {
	wStart := start - snippetWindow
	if wStart < 0 {
		wStart = 0
	}
	for wStart > 0 && !utf8Boundary(src, wStart) {
		wStart--
	}
	wEnd := end + snippetWindow
	if wEnd > len(src) {
		wEnd = len(src)
	}
	for wEnd < len(src) && !utf8Boundary(src, wEnd) {
		wEnd++
	}

	window := string(src[wStart:wEnd])
	collapsed := strings.Join(strings.Fields(window), " ")
	if len(collapsed) > maxSnippetLen {
		collapsed = truncateRunes(collapsed, maxSnippetLen)
	}
	return collapsed
}

// utf8Boundary reports whether byte index i in s falls on a rune boundary
// (true trivially at 0 and len(s), or when the byte is not a continuation
// byte of a multi-byte UTF-8 sequence).
func utf8Boundary(s []byte, i int) bool {
	if i <= 0 || i >= len(s) {
		return true
	}
	return s[i]&0xC0 != 0x80
}

func truncateRunes(s string, maxLen int) string {
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i]
		}
		n++
	}
	return s
}
