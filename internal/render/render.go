// Package render converts markdown source to HTML from a single parse of the
// document: link rewriting and heading/anchor extraction walk that one AST
// before HTML emission, and Mermaid fenced code blocks are rewritten by a
// custom node renderer during emission.
package render

import (
	"bytes"
	"path"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Heading is one entry in a document's table of contents.
type Heading struct {
	Level    int
	Text     string
	AnchorID string
}

// md is configured with GFM extensions (tables, strikethrough, task lists,
// autolinks) and no raw-HTML passthrough: the renderer option enabling raw
// HTML output (html.WithUnsafe) is simply never set, so goldmark's default
// (omit raw HTML) applies.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(util.Prioritized(&fencedCodeRenderer{}, 0)),
	),
)

// Render converts markdown source to an HTML fragment and the ordered list
// of heading entries for TOC construction. sourcePath is the absolute path
// of the document (its directory anchors relative link resolution);
// canonicalRoot bounds local link rewriting.
func Render(src []byte, sourcePath, canonicalRoot string) (htmlFragment string, headings []Heading) {
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	fileDir := path.Dir(sourcePath)
	rewriteLocalLinks(root, src, fileDir, canonicalRoot)
	headings = collectHeadings(root, src)

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, src, root); err != nil {
		return "", headings
	}
	return injectHeadingIDs(buf.String(), headings), headings
}

// rewriteLocalLinks mutates Link and Image node destinations in place,
// replacing local relative URLs with root-relative hrefs.
func rewriteLocalLinks(root gast.Node, src []byte, fileDir, canonicalRoot string) {
	_ = gast.Walk(root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *gast.Link:
			if newURL, ok := RewriteURL(string(v.Destination), fileDir, canonicalRoot); ok {
				v.Destination = []byte(newURL)
			}
		case *gast.Image:
			if newURL, ok := RewriteURL(string(v.Destination), fileDir, canonicalRoot); ok {
				v.Destination = []byte(newURL)
			}
		}
		return gast.WalkContinue, nil
	})
}

// collectHeadings walks the document in order, flattening each heading's
// text and assigning a deduplicated anchor slug.
func collectHeadings(root gast.Node, src []byte) []Heading {
	var headings []Heading
	counter := newSlugCounter()
	_ = gast.Walk(root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		h, ok := n.(*gast.Heading)
		if !ok {
			return gast.WalkContinue, nil
		}
		text := flattenHeadingText(h, src)
		base := Slugify(text)
		headings = append(headings, Heading{
			Level:    h.Level,
			Text:     text,
			AnchorID: counter.next(base),
		})
		return gast.WalkSkipChildren, nil
	})
	return headings
}

// flattenHeadingText concatenates a heading's plain text and code-span
// content, converting soft/hard breaks to spaces.
func flattenHeadingText(n gast.Node, src []byte) string {
	var b bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeInlineText(&b, c, src)
	}
	return b.String()
}

func writeInlineText(b *bytes.Buffer, n gast.Node, src []byte) {
	switch v := n.(type) {
	case *gast.Text:
		b.Write(v.Segment.Value(src))
		if v.SoftLineBreak() || v.HardLineBreak() {
			b.WriteByte(' ')
		}
	case *gast.String:
		b.Write(v.Value)
	case *gast.CodeSpan:
		for c := v.FirstChild(); c != nil; c = c.NextSibling() {
			writeInlineText(b, c, src)
		}
	case *gast.AutoLink:
		b.Write(v.Label(src))
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			writeInlineText(b, c, src)
		}
	}
}

// injectHeadingIDs performs first-occurrence string replacement of each
// "<hN>" open tag with "<hN id=\"slug\">", in document order. This is safe
// because raw HTML passthrough is disabled, so every "<hN>" in the rendered
// output originates from a genuine heading node.
func injectHeadingIDs(html string, headings []Heading) string {
	for _, h := range headings {
		open := "<h" + itoaLevel(h.Level) + ">"
		withID := "<h" + itoaLevel(h.Level) + " id=\"" + h.AnchorID + "\">"
		html = replaceFirst(html, open, withID)
	}
	return html
}

func itoaLevel(level int) string {
	return strconv.Itoa(level)
}

func replaceFirst(s, old, new string) string {
	return strings.Replace(s, old, new, 1)
}
