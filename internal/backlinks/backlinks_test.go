package backlinks

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q): %v", name, err)
	}
}

func TestBuildBasicBacklink(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# A\n\nSee [b](b.md).\n")
	writeDoc(t, dir, "b.md", "# B\n")

	idx := Build(dir, false)
	refs := idx[Key("b.md")]
	if len(refs) != 1 {
		t.Fatalf("got %d backlinks for b.md, want 1", len(refs))
	}
	if refs[0].SourceURLPath != Key("a.md") {
		t.Fatalf("SourceURLPath = %q, want %q", refs[0].SourceURLPath, Key("a.md"))
	}
	if refs[0].SourceDisplay != "A" {
		t.Fatalf("SourceDisplay = %q, want A", refs[0].SourceDisplay)
	}
}

func TestBuildSelfLinkExcluded(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# A\n\n[self](a.md)\n")

	idx := Build(dir, false)
	if len(idx[Key("a.md")]) != 0 {
		t.Fatalf("expected self-link to be excluded, got %v", idx[Key("a.md")])
	}
}

func TestBuildDuplicateLinksDedupedToOneEdge(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# A\n\n[one](b.md) and [two](b.md) and [three](b.md#frag)\n")
	writeDoc(t, dir, "b.md", "# B\n")

	idx := Build(dir, false)
	if len(idx[Key("b.md")]) != 1 {
		t.Fatalf("got %d edges from a.md to b.md, want 1", len(idx[Key("b.md")]))
	}
}

func TestBuildSourceDisplayFallsBackToPath(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "untitled.md", "Just a [link](target.md), no heading.\n")
	writeDoc(t, dir, "target.md", "# Target\n")

	idx := Build(dir, false)
	refs := idx[Key("target.md")]
	if len(refs) != 1 {
		t.Fatalf("got %d backlinks, want 1", len(refs))
	}
	if refs[0].SourceDisplay != "untitled.md" {
		t.Fatalf("SourceDisplay = %q, want untitled.md", refs[0].SourceDisplay)
	}
}

func TestBuildSkipsDotDirectories(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, ".git"), 0o755)
	writeDoc(t, filepath.Join(dir, ".git"), "ignored.md", "# Ignored\n\n[x](../a.md)\n")
	writeDoc(t, dir, "a.md", "# A\n")

	idx := Build(dir, false)
	if len(idx[Key("a.md")]) != 0 {
		t.Fatalf("expected .git contents to be skipped, got %v", idx[Key("a.md")])
	}
}

func TestKeyFormat(t *testing.T) {
	if Key("foo/bar.md") != "/foo/bar.md" {
		t.Fatalf("Key = %q, want /foo/bar.md", Key("foo/bar.md"))
	}
	if Key("") != "/" {
		t.Fatalf("Key(\"\") = %q, want /", Key(""))
	}
}
