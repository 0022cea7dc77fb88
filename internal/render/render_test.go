package render

import (
	"strings"
	"testing"
)

// renderDoc is a small helper: sourcePath is always under /root/docs so that
// "../"-relative links land inside /root (canonicalRoot).
func renderDoc(src string) (string, []Heading) {
	return Render([]byte(src), "/root/docs/page.md", "/root")
}

func TestRenderBasicMarkdown(t *testing.T) {
	html, _ := renderDoc("# Title\n\nSome *emphasis* and **strong** text with `code`.\n")
	for _, want := range []string{"<h1", "<em>emphasis</em>", "<strong>strong</strong>", "<code>code</code>"} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q: %s", want, html)
		}
	}
}

func TestRenderGFMTable(t *testing.T) {
	src := "| a | b |\n| - | - |\n| 1 | 2 |\n"
	html, _ := renderDoc(src)
	if !strings.Contains(html, "<table>") {
		t.Errorf("expected GFM table rendering, got: %s", html)
	}
}

func TestRenderHeadingAnchorsAreInjected(t *testing.T) {
	html, headings := renderDoc("# Hello World\n")
	if len(headings) != 1 {
		t.Fatalf("got %d headings, want 1", len(headings))
	}
	if headings[0].AnchorID != "hello-world" {
		t.Fatalf("AnchorID = %q, want hello-world", headings[0].AnchorID)
	}
	if !strings.Contains(html, `<h1 id="hello-world">`) {
		t.Errorf("expected id injection, got: %s", html)
	}
}

func TestRenderDuplicateHeadingsDeduped(t *testing.T) {
	_, headings := renderDoc("# Foo\n\n## Foo\n\n### Foo\n")
	want := []string{"foo", "foo-1", "foo-2"}
	if len(headings) != len(want) {
		t.Fatalf("got %d headings, want %d", len(headings), len(want))
	}
	for i, w := range want {
		if headings[i].AnchorID != w {
			t.Errorf("headings[%d].AnchorID = %q, want %q", i, headings[i].AnchorID, w)
		}
	}
}

func TestRenderMermaidBlockBecomesPlaceholder(t *testing.T) {
	html, _ := renderDoc("```mermaid\ngraph TD;\nA-->B;\n```\n")
	if !strings.Contains(html, `<pre class="mermaid">`) {
		t.Errorf("expected mermaid placeholder, got: %s", html)
	}
	if strings.Contains(html, "<code") {
		t.Errorf("mermaid block should not be wrapped in <code>: %s", html)
	}
}

func TestRenderMermaidIsCaseInsensitive(t *testing.T) {
	html, _ := renderDoc("```MERMAID\ngraph TD;\nA-->B;\n```\n")
	if !strings.Contains(html, `<pre class="mermaid">`) {
		t.Errorf("expected mermaid placeholder for uppercase tag, got: %s", html)
	}
}

func TestRenderNonMermaidFencedBlockEscaped(t *testing.T) {
	html, _ := renderDoc("```go\nfmt.Println(\"<hi>\")\n```\n")
	if !strings.Contains(html, `<code class="language-go">`) {
		t.Errorf("expected language class, got: %s", html)
	}
	if !strings.Contains(html, "&lt;hi&gt;") {
		t.Errorf("expected escaped angle brackets, got: %s", html)
	}
}

func TestRenderLocalLinkRewritten(t *testing.T) {
	html, _ := renderDoc("[see also](other.md)\n")
	if !strings.Contains(html, `href="/docs/other.md"`) {
		t.Errorf("expected rewritten local href, got: %s", html)
	}
}

func TestRenderLocalImageRewritten(t *testing.T) {
	html, _ := renderDoc("![img](img/logo.png)\n")
	if !strings.Contains(html, `src="/docs/img/logo.png"`) {
		t.Errorf("expected rewritten local image src, got: %s", html)
	}
}

func TestRenderExternalImageUntouched(t *testing.T) {
	html, _ := renderDoc("![ext](https://example.com/x.png)\n")
	if !strings.Contains(html, `src="https://example.com/x.png"`) {
		t.Errorf("external image should be untouched, got: %s", html)
	}
}

func TestRenderCrossDirectoryLinkRewritten(t *testing.T) {
	html, _ := renderDoc("[up and over](../sibling/page.md)\n")
	if !strings.Contains(html, `href="/sibling/page.md"`) {
		t.Errorf("expected cross-directory rewritten href, got: %s", html)
	}
}

func TestRenderExternalLinkUntouched(t *testing.T) {
	html, _ := renderDoc("[ext](https://example.com/x)\n")
	if !strings.Contains(html, `href="https://example.com/x"`) {
		t.Errorf("external link should be untouched, got: %s", html)
	}
}

func TestRenderFragmentOnlyLinkUntouched(t *testing.T) {
	html, _ := renderDoc("[jump](#section)\n")
	if !strings.Contains(html, `href="#section"`) {
		t.Errorf("fragment-only link should be untouched, got: %s", html)
	}
}

func TestRenderEmptySource(t *testing.T) {
	html, headings := renderDoc("")
	if html != "" {
		t.Errorf("expected empty HTML for empty source, got: %q", html)
	}
	if len(headings) != 0 {
		t.Errorf("expected no headings for empty source, got: %v", headings)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":      "hello-world",
		"  spaced  out  ":  "spaced-out",
		"under_score-dash": "under-score-dash",
		"C++ & Go!":        "c-go",
		"":                 "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHTMLEscape(t *testing.T) {
	got := HTMLEscape(`<a href="x">'&'</a>`)
	want := `&lt;a href=&quot;x&quot;&gt;&#39;&amp;&#39;&lt;/a&gt;`
	if got != want {
		t.Errorf("HTMLEscape = %q, want %q", got, want)
	}
}
