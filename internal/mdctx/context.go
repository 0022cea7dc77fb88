// Package mdctx holds the process-wide Serve Context shared read-only by
// every request handler. It exists as its own package so that internal/serve,
// internal/dirlist, and internal/startup can all depend on the same struct
// without an import cycle.
package mdctx

import (
	"os"
	"strings"
	"time"

	"mdmd/internal/backlinks"
)

// Context is assembled once at startup and never mutated afterward. Readers
// across goroutines need no synchronization.
type Context struct {
	// ServeRoot is the directory that bounds every resolvable request.
	ServeRoot string
	// CanonicalRoot is ServeRoot with all symlinks resolved; the sole
	// containment boundary used by the Path Resolver.
	CanonicalRoot string
	// EntryFile is the absolute path of the selected entry document.
	EntryFile string
	// EntryURLPath is EntryFile expressed as a root-relative, percent-encoded
	// URL path (e.g. "/README.md", or "/" when the entry is the root itself).
	EntryURLPath string

	// CSSETag and JSETag are precomputed strong ETags for the two embedded
	// static assets. They never change for the lifetime of the process.
	CSSETag string
	JSETag  string
	// AssetMTime is used as the Last-Modified value for both embedded assets.
	AssetMTime time.Time

	// Backlinks is the inverted index built once at startup.
	Backlinks backlinks.Index

	// Verbose gates diagnostic stderr logging.
	Verbose bool
}

// Contains reports whether canonical (an already-canonicalized absolute path)
// lies within c.CanonicalRoot, inclusive. This is the sole defense against
// in-tree symlinks that target out-of-tree files.
func (c *Context) Contains(canonical string) bool {
	if canonical == c.CanonicalRoot {
		return true
	}
	prefix := c.CanonicalRoot
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(canonical, prefix)
}
