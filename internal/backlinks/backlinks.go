// Package backlinks builds the startup inverted-links index: for every
// markdown document under the serve root, which other documents link to it.
package backlinks

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mdmd/internal/render"
	"mdmd/internal/urlkey"
)

// Reference describes one inbound link to a document ("a backlink").
type Reference struct {
	// SourceURLPath is the root-relative URL of the linking document.
	SourceURLPath string
	// SourceDisplay is the linking document's first H1 text, or its relative
	// path when it has no H1.
	SourceDisplay string
	// Snippet is up to 200 whitespace-collapsed characters of plain-text
	// context surrounding the link.
	Snippet string
	// TargetFragment is the optional URL fragment (without '#') from the
	// original link.
	TargetFragment string
}

// Index maps a URL-key (always leading slash) to the ordered backlinks
// pointing at it. It is built once at startup and never mutated afterward.
type Index map[string][]Reference

// Key converts a root-relative path (no leading slash, forward-slash
// separators, "" for the root) to its canonical URL-key form. Both the
// indexer and the request handler MUST call this function (or, from
// internal/render, urlkey.Key directly) so the two cannot drift apart.
func Key(rel string) string {
	return urlkey.Key(rel)
}

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".jj":          true,
}

// Build walks canonicalRoot, extracts outbound local links from every
// ".md"/".markdown" file, and inverts them into a backlinks Index. Per-file
// and per-directory errors are logged and skipped; the walk never aborts.
func Build(canonicalRoot string, verbose bool) Index {
	index := make(Index)
	filesScanned := 0
	edgesRecorded := 0

	// seenTargets (built per source document below) tracks which targets that
	// source has already produced an edge to (one edge per source/target
	// pair, first wins).
	err := filepath.WalkDir(canonicalRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if verbose {
				slog.Warn("backlinks: directory read error", "path", path, "err", err)
			}
			return nil
		}
		if d.IsDir() {
			if path != canonicalRoot && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.TrimPrefix(filepath.Ext(d.Name()), ".")
		if ext != "md" && ext != "markdown" {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			if verbose {
				slog.Warn("backlinks: file read error", "path", path, "err", err)
			}
			return nil
		}

		rel, err := filepath.Rel(canonicalRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		sourceURLPath := Key(rel)

		title, outbound := render.ExtractForIndex(src, path, canonicalRoot)

		sourceDisplay := title
		if sourceDisplay == "" {
			sourceDisplay = rel
		}

		seenTargets := make(map[string]bool, len(outbound))
		for _, ob := range outbound {
			if ob.URLPath == sourceURLPath {
				continue // self-link
			}
			if seenTargets[ob.URLPath] {
				continue // one edge per source/target pair, first wins
			}
			seenTargets[ob.URLPath] = true

			index[ob.URLPath] = append(index[ob.URLPath], Reference{
				SourceURLPath:  sourceURLPath,
				SourceDisplay:  sourceDisplay,
				Snippet:        ob.Snippet,
				TargetFragment: ob.Fragment,
			})
			edgesRecorded++
		}
		filesScanned++
		return nil
	})
	if err != nil && verbose {
		slog.Warn("backlinks: walk aborted early", "err", err)
	}

	if verbose {
		slog.Info("backlinks: index built", "files", filesScanned, "edges", edgesRecorded)
	}
	fmt.Println("backlinks index built; static until restart")

	return index
}
