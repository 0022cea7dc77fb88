// Package pageshell assembles the full HTML document around a rendered
// markdown fragment: title resolution, table of contents, theme toggle,
// backlinks panel, and the Mermaid/asset script tags. Output is built with
// explicit string concatenation rather than html/template so that the exact
// byte-level structure (element order, attribute quoting) is predictable
// without running the program.
package pageshell

import (
	"path/filepath"
	"strconv"
	"strings"

	"mdmd/internal/backlinks"
	"mdmd/internal/render"
)

// mermaidCDNURL is pinned to an exact release so page output never changes
// out from under a running server because of an upstream CDN update.
const mermaidCDNURL = "https://cdn.jsdelivr.net/npm/mermaid@10.9.3/dist/mermaid.min.js"

// themeInitScript runs before CSS paints to avoid a flash of the wrong theme:
// it reads the persisted preference (or the OS preference) out of band of
// the stylesheet load.
const themeInitScript = `<script>(function(){` +
	`var s=localStorage.getItem('mdmd-theme');` +
	`var dark=s==='dark'||(!s&&window.matchMedia('(prefers-color-scheme:dark)').matches);` +
	`if(dark)document.documentElement.setAttribute('data-theme','dark');` +
	`}());</script>`

const iconMoon = `<svg class="icon-moon" xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true"><path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/></svg>`

const iconSun = `<svg class="icon-sun" xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true"><circle cx="12" cy="12" r="5"/><line x1="12" y1="1" x2="12" y2="3"/><line x1="12" y1="21" x2="12" y2="23"/><line x1="4.22" y1="4.22" x2="5.64" y2="5.64"/><line x1="18.36" y1="18.36" x2="19.78" y2="19.78"/><line x1="1" y1="12" x2="3" y2="12"/><line x1="21" y1="12" x2="23" y2="12"/><line x1="4.22" y1="19.78" x2="5.64" y2="18.36"/><line x1="18.36" y1="5.64" x2="19.78" y2="4.22"/></svg>`

// Context carries the per-request data Build needs beyond the
// rendered body itself.
type Context struct {
	// FileMTimeSecs, when non-nil, emits a freshness meta tag consumed by
	// the client-side change-poll script.
	FileMTimeSecs *int64
	// PageURLPath, when non-nil, emits the page's own URL as a meta tag for
	// the same client-side script.
	PageURLPath *string
	// Backlinks are the documents linking to this page, already ordered.
	Backlinks []backlinks.Reference
}

// Build assembles the full HTML document for one rendered document.
func Build(bodyHTML string, headings []render.Heading, filePath string, ctx Context) string {
	title := pageTitle(headings, filePath)
	toc := buildTOC(headings)
	backlinksHTML := buildBacklinksHTML(ctx.Backlinks)

	var mtimeMeta, pathMeta strings.Builder
	if ctx.FileMTimeSecs != nil {
		mtimeMeta.WriteString(`<meta name="mdmd-mtime" content="`)
		mtimeMeta.WriteString(strconv.FormatInt(*ctx.FileMTimeSecs, 10))
		mtimeMeta.WriteString("\">\n")
	}
	if ctx.PageURLPath != nil {
		pathMeta.WriteString(`<meta name="mdmd-path" content="`)
		pathMeta.WriteString(render.HTMLEscape(*ctx.PageURLPath))
		pathMeta.WriteString("\">\n")
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	b.WriteString("<title>")
	b.WriteString(render.HTMLEscape(title))
	b.WriteString(" · mdmd serve</title>\n")
	b.WriteString(mtimeMeta.String())
	b.WriteString(pathMeta.String())
	b.WriteString(themeInitScript)
	b.WriteString("\n")
	b.WriteString("<link rel=\"stylesheet\" href=\"/assets/mdmd.css\">\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString("<button id=\"theme-toggle\" class=\"theme-toggle\" aria-label=\"Toggle dark mode\">")
	b.WriteString(iconMoon)
	b.WriteString(iconSun)
	b.WriteString("</button>\n")
	b.WriteString("<div id=\"mdmd-change-notice\" class=\"change-notice\" hidden>\n")
	b.WriteString("This file has changed on disk.\n")
	b.WriteString("<button class=\"change-notice-reload\" onclick=\"location.reload()\">Load latest</button>\n")
	b.WriteString("</div>\n")
	b.WriteString("<div class=\"layout\">\n")
	b.WriteString("<nav class=\"toc-sidebar\">\n")
	b.WriteString(toc)
	b.WriteString("</nav>\n")
	b.WriteString("<main class=\"content\">\n")
	b.WriteString(bodyHTML)
	b.WriteString(backlinksHTML)
	b.WriteString("</main>\n")
	b.WriteString("</div>\n")
	b.WriteString("<script src=\"")
	b.WriteString(mermaidCDNURL)
	b.WriteString("\"></script>\n")
	b.WriteString("<script src=\"/assets/mdmd.js\"></script>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")
	return b.String()
}

// pageTitle resolves the document title: first H1 text, then the file's
// base name without extension, then a fixed fallback.
func pageTitle(headings []render.Heading, filePath string) string {
	for _, h := range headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	base := filepath.Base(filePath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base != "" && base != "." && base != string(filepath.Separator) {
		return base
	}
	return "Document"
}

func buildTOC(headings []render.Heading) string {
	if len(headings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<ul>\n")
	for _, h := range headings {
		b.WriteString(`<li class="toc-h`)
		b.WriteString(strconv.Itoa(h.Level))
		b.WriteString(`"><a href="#`)
		b.WriteString(h.AnchorID)
		b.WriteString(`">`)
		b.WriteString(render.HTMLEscape(h.Text))
		b.WriteString("</a></li>\n")
	}
	b.WriteString("</ul>\n")
	return b.String()
}

// buildBacklinksHTML renders the backlinks section, or an empty string when
// there are no backlinks (the section is omitted entirely, not shown empty).
func buildBacklinksHTML(refs []backlinks.Reference) string {
	if len(refs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<section class="backlinks-panel" aria-label="Backlinks">` + "\n")
	b.WriteString(`<h2 class="backlinks-header">Backlinks (`)
	b.WriteString(strconv.Itoa(len(refs)))
	b.WriteString(")</h2>\n")
	b.WriteString(`<ul class="backlinks-list">` + "\n")
	for _, ref := range refs {
		href := render.HTMLEscape(ref.SourceURLPath)
		var fragmentSpan string
		if ref.TargetFragment != "" {
			href = href + "#" + render.HTMLEscape(ref.TargetFragment)
			fragmentSpan = `<span class="backlinks-fragment"> ` + "§" + " " + render.HTMLEscape(ref.TargetFragment) + "</span>"
		}
		b.WriteString(`<li class="backlinks-item">` + "\n")
		b.WriteString(`<a class="backlinks-source" href="`)
		b.WriteString(href)
		b.WriteString(`">`)
		b.WriteString(render.HTMLEscape(ref.SourceDisplay))
		b.WriteString("</a>")
		b.WriteString(fragmentSpan)
		b.WriteString("\n")
		b.WriteString(`<p class="backlinks-snippet">`)
		b.WriteString(render.HTMLEscape(ref.Snippet))
		b.WriteString("</p>\n")
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n</section>\n")
	return b.String()
}
