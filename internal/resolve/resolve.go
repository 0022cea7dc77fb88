// Package resolve implements the secure path-resolution pipeline: turning a
// request URL path into a filesystem path inside the serve root, with
// percent-decoding, traversal rejection, fallback candidates, and a
// symlink-safe containment re-check.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"mdmd/internal/mdctx"
)

// MaxFileSize is the largest file the server will read and serve (16 MiB).
const MaxFileSize = 16 * 1024 * 1024

// Branch names a resolution's success path, used only for diagnostics.
type Branch string

const (
	BranchExact         Branch = "exact"
	BranchReadme        Branch = "readme"
	BranchIndex         Branch = "index"
	BranchExtensionless Branch = "extensionless"
)

// Outcome is the result of resolving one request path.
type Outcome struct {
	// Kind classifies the outcome; exactly one of the following sets of
	// fields is meaningful per Kind.
	Kind OutcomeKind

	// Path (Kind == Resolved): the canonical absolute filesystem path.
	// (Kind == IsDirectory): the directory's candidate path under ServeRoot,
	// not canonicalized.
	Path string
	// Size and ModTime (Kind == Resolved): stat results, already
	// size-guarded.
	Size    int64
	ModTime int64 // Unix seconds
	Branch  Branch

	// NormalizedDisplay is the normalized request path, for diagnostics and
	// for NotFoundAt/IsDirectory routing.
	NormalizedDisplay string

	// DeniedReason (Kind == Denied): a short diagnostic slug, never shown to
	// clients.
	DeniedReason string
	// TooLargeSize (Kind == TooLarge): the oversized file's byte length.
	TooLargeSize int64
}

// OutcomeKind enumerates the Path Resolver's possible results.
type OutcomeKind int

const (
	Resolved      OutcomeKind = iota
	RootDirectory             // normalized path is empty; route to the Directory Lister at "/"
	IsDirectory               // candidate is a directory with no README.md/index.md
	NotFoundAt                // no candidate exists
	Denied                    // malformed or disallowed request
	TooLarge                  // file exceeds MaxFileSize
)

// Resolve runs the seven-step pipeline against rawPath (the request's
// undecoded URL path, e.g. r.URL.EscapedPath()) and ctx's serve root.
func Resolve(rawPath string, ctx *mdctx.Context) Outcome {
	// Step 1: percent-decode.
	decoded, err := percentDecode(rawPath)
	if err != nil {
		return Outcome{Kind: Denied, DeniedReason: "invalid-percent-encoding"}
	}

	// Step 2: reject null bytes.
	if strings.ContainsRune(decoded, 0) {
		return Outcome{Kind: Denied, DeniedReason: "null-byte"}
	}

	// Step 3: normalize.
	normalized, ok := normalizePath(decoded)
	if !ok {
		return Outcome{Kind: Denied, DeniedReason: "path-traversal"}
	}
	normDisplay := normalized

	// Step 4: early root case.
	if normalized == "" {
		return Outcome{Kind: RootDirectory, NormalizedDisplay: "/"}
	}

	candidate := filepath.Join(ctx.ServeRoot, filepath.FromSlash(normalized))

	// Step 5: candidate/fallback resolution.
	resolved, branch, isDir := resolveCandidate(candidate)
	if isDir {
		return Outcome{Kind: IsDirectory, Path: candidate, NormalizedDisplay: normDisplay}
	}
	if resolved == "" {
		return Outcome{Kind: NotFoundAt, NormalizedDisplay: normDisplay}
	}

	// Step 6 (R1): canonicalize and re-verify containment.
	canonical, err := filepath.EvalSymlinks(resolved)
	if err != nil {
		return Outcome{Kind: Denied, DeniedReason: "canonicalize-failed"}
	}
	if !ctx.Contains(canonical) {
		return Outcome{Kind: Denied, DeniedReason: "outside-root"}
	}

	// Step 7 (R5): size guard + mtime capture.
	info, err := os.Stat(canonical)
	if err != nil {
		return Outcome{Kind: Denied, DeniedReason: "metadata-failed"}
	}
	if info.Size() > MaxFileSize {
		return Outcome{Kind: TooLarge, NormalizedDisplay: normDisplay, TooLargeSize: info.Size()}
	}

	return Outcome{
		Kind:              Resolved,
		Path:              canonical,
		Size:              info.Size(),
		ModTime:           info.ModTime().Unix(),
		Branch:            branch,
		NormalizedDisplay: normDisplay,
	}
}

// resolveCandidate applies the exact/directory/extensionless fallback
// order. Returns ("", "", true) when candidate is a directory with neither
// README.md nor index.md (IsDirectory outcome).
func resolveCandidate(candidate string) (resolved string, branch Branch, isDir bool) {
	info, err := os.Stat(candidate)
	if err == nil {
		if info.Mode().IsRegular() {
			return candidate, BranchExact, false
		}
		if info.IsDir() {
			readme := filepath.Join(candidate, "README.md")
			if fi, err := os.Stat(readme); err == nil && fi.Mode().IsRegular() {
				return readme, BranchReadme, false
			}
			index := filepath.Join(candidate, "index.md")
			if fi, err := os.Stat(index); err == nil && fi.Mode().IsRegular() {
				return index, BranchIndex, false
			}
			return "", "", true
		}
	}

	if filepath.Ext(candidate) == "" {
		withMd := candidate + ".md"
		if fi, err := os.Stat(withMd); err == nil && fi.Mode().IsRegular() {
			return withMd, BranchExtensionless, false
		}
	}

	return "", "", false
}
