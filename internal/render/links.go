package render

import "strings"

// SplitURLSuffix splits url at the first '?' or '#', whichever comes first.
// The suffix (including the delimiter) is preserved verbatim on the
// rewritten URL; it is empty when neither character is present.
func SplitURLSuffix(url string) (base, suffix string) {
	idx := strings.IndexAny(url, "?#")
	if idx == -1 {
		return url, ""
	}
	return url[:idx], url[idx:]
}

// IsRewritableLocal reports whether url is a candidate for local link
// rewriting: not an absolute http(s) URL, not protocol-relative, not a
// mailto link, not a bare fragment, and not already root-absolute.
func IsRewritableLocal(url string) bool {
	switch {
	case url == "":
		return false
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return false
	case strings.HasPrefix(url, "//"):
		return false
	case strings.HasPrefix(url, "mailto:"):
		return false
	case strings.HasPrefix(url, "#"):
		return false
	case strings.HasPrefix(url, "/"):
		return false
	default:
		return true
	}
}

// ResolveRelativePath resolves the '/'-separated relative path rel against
// fileDir (an absolute, '/'-separated directory path), processing '.' and
// '..' components without touching the filesystem. '..' beyond the root is
// clamped (stays at root), matching the original implementation's behavior
// of a no-op pop at the top of the stack.
func ResolveRelativePath(fileDir, rel string) string {
	stack := splitClean(fileDir)
	for _, part := range strings.Split(rel, "/") {
		switch part {
		case "", ".":
			// ignore
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, part)
		}
	}
	if len(stack) == 0 {
		return "/"
	}
	return "/" + strings.Join(stack, "/")
}

func splitClean(p string) []string {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RootRelative strips canonicalRoot from resolved (both absolute,
// '/'-separated paths), returning the remainder without a leading slash.
// ok is false when resolved does not lie within canonicalRoot.
func RootRelative(resolved, canonicalRoot string) (rel string, ok bool) {
	if resolved == canonicalRoot {
		return "", true
	}
	prefix := canonicalRoot
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if !strings.HasPrefix(resolved, prefix) {
		return "", false
	}
	return resolved[len(prefix):], true
}

// RewriteURL rewrites a single link/image URL to a root-relative href.
// Returns ("", false) when the URL should be left unchanged: it is external,
// absolute, fragment-only, or its resolved target escapes canonicalRoot (the
// request-time resolver will 404 it instead).
func RewriteURL(url, fileDir, canonicalRoot string) (string, bool) {
	if !IsRewritableLocal(url) {
		return "", false
	}
	base, suffix := SplitURLSuffix(url)
	if base == "" {
		return "", false
	}
	resolved := ResolveRelativePath(fileDir, base)
	rel, ok := RootRelative(resolved, canonicalRoot)
	if !ok {
		return "", false
	}
	return "/" + rel + suffix, true
}
