// Package dirlist renders directory index pages and the rich 404 page,
// built with explicit string concatenation for the same byte-exactness
// reasons as internal/pageshell.
package dirlist

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mdmd/internal/mdctx"
	"mdmd/internal/render"
)

// Entry is one listable directory entry.
type Entry struct {
	Name  string
	IsDir bool
}

// ListEntries reads dir, drops dotfiles and out-of-root symlink targets,
// and sorts directories-then-files, each case-insensitively.
func ListEntries(dir string, ctx *mdctx.Context) ([]Entry, error) {
	raw, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(raw))
	for _, d := range raw {
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		isDir := d.IsDir()
		if d.Type()&os.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(filepath.Join(dir, name))
			if err != nil || !ctx.Contains(target) {
				continue
			}
			if info, err := os.Stat(target); err == nil {
				isDir = info.IsDir()
			}
		}
		entries = append(entries, Entry{Name: name, IsDir: isDir})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return entries, nil
}

// PercentEncodeSegment encodes one path segment: ALPHA/DIGIT/-/_/.~ pass
// through unchanged; every other byte becomes "%XX" with uppercase hex,
// multi-byte UTF-8 encoded byte by byte.
func PercentEncodeSegment(seg string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0xF])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	default:
		return false
	}
}

// Breadcrumb builds the nav breadcrumb HTML for a root-relative URL prefix
// such as "/docs/guides/".
func Breadcrumb(urlPrefix string) string {
	var b strings.Builder
	b.WriteString(`<nav>`)
	b.WriteString(`<a href="/">/</a>`)
	segments := strings.Split(strings.Trim(urlPrefix, "/"), "/")
	var cumulative strings.Builder
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		cumulative.WriteByte('/')
		cumulative.WriteString(PercentEncodeSegment(seg))
		b.WriteString(`<a href="`)
		b.WriteString(cumulative.String())
		b.WriteString(`/">`)
		b.WriteString(render.HTMLEscape(seg))
		b.WriteString(`</a>`)
	}
	b.WriteString(`</nav>` + "\n")
	return b.String()
}

// buildEntriesList renders the <ul> of entries for a directory index, with
// hrefs under urlPrefix; BuildListing and BuildRich404 wrap it in a page.
func buildEntriesList(urlPrefix string, entries []Entry) string {
	var b strings.Builder
	b.WriteString("<ul>\n")
	prefix := strings.TrimSuffix(urlPrefix, "/")
	for _, e := range entries {
		href := prefix + "/" + PercentEncodeSegment(e.Name)
		if e.IsDir {
			href += "/"
		}
		b.WriteString(`<li><a href="`)
		b.WriteString(href)
		b.WriteString(`">`)
		b.WriteString(render.HTMLEscape(e.Name))
		if e.IsDir {
			b.WriteString("/")
		}
		b.WriteString("</a></li>\n")
	}
	b.WriteString("</ul>\n")
	return b.String()
}

// BuildListing assembles the full HTML document for a directory index.
func BuildListing(urlPrefix string, entries []Entry) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Index of ")
	b.WriteString(render.HTMLEscape(urlPrefix))
	b.WriteString(" · mdmd serve</title>\n")
	b.WriteString("<link rel=\"stylesheet\" href=\"/assets/mdmd.css\">\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(Breadcrumb(urlPrefix))
	b.WriteString("<h1>Index of ")
	b.WriteString(render.HTMLEscape(urlPrefix))
	b.WriteString("</h1>\n")
	b.WriteString(buildEntriesList(urlPrefix, entries))
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// NearestAncestorDir walks upward from startDir (inclusive) looking for the
// first existing directory whose canonical form lies within
// ctx.CanonicalRoot, falling back to ctx.CanonicalRoot itself.
func NearestAncestorDir(startDir string, ctx *mdctx.Context) string {
	dir := startDir
	for {
		if canonical, err := filepath.EvalSymlinks(dir); err == nil {
			if info, err := os.Stat(canonical); err == nil && info.IsDir() && ctx.Contains(canonical) {
				return canonical
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ctx.CanonicalRoot
}

// BuildRich404 assembles the rich 404 page: the requested path, links to
// root and the entry document, and a mini listing of the nearest existing
// ancestor directory.
func BuildRich404(requestedPath string, ctx *mdctx.Context) string {
	ancestor := NearestAncestorDir(filepath.Dir(filepath.Join(ctx.CanonicalRoot, filepath.FromSlash(strings.TrimPrefix(requestedPath, "/")))), ctx)
	ancestorRel, _ := filepath.Rel(ctx.CanonicalRoot, ancestor)
	ancestorRel = filepath.ToSlash(ancestorRel)
	var ancestorURLPrefix string
	if ancestorRel == "." {
		ancestorURLPrefix = "/"
	} else {
		segs := strings.Split(ancestorRel, "/")
		for i, s := range segs {
			segs[i] = PercentEncodeSegment(s)
		}
		ancestorURLPrefix = "/" + strings.Join(segs, "/") + "/"
	}

	entries, _ := ListEntries(ancestor, ctx)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Not Found · mdmd serve</title>\n")
	b.WriteString("<link rel=\"stylesheet\" href=\"/assets/mdmd.css\">\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<h1>Not Found</h1>\n")
	b.WriteString("<p>No document at <code>")
	b.WriteString(render.HTMLEscape(requestedPath))
	b.WriteString("</code>.</p>\n")
	b.WriteString(`<p><a href="/">Go to root</a></p>` + "\n")
	if ctx.EntryURLPath != "" {
		b.WriteString(`<p><a href="`)
		b.WriteString(ctx.EntryURLPath)
		b.WriteString(`">Go to entry document</a></p>` + "\n")
	}
	b.WriteString("<h2>Nearest directory: ")
	b.WriteString(render.HTMLEscape(ancestorURLPrefix))
	b.WriteString("</h2>\n")
	b.WriteString(buildEntriesList(ancestorURLPrefix, entries))
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
