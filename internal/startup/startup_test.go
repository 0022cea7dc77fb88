package startup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSelectEntryFileFileItself(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "page.md")
	os.WriteFile(entry, []byte("# x"), 0o644)

	got, err := selectEntryFile(entry)
	if err != nil {
		t.Fatalf("selectEntryFile: %v", err)
	}
	if got != entry {
		t.Fatalf("got %q, want %q", got, entry)
	}
}

func TestSelectEntryFileDirectoryPrefersReadme(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "README.md"), []byte("# r"), 0o644)
	os.WriteFile(filepath.Join(dir, "index.md"), []byte("# i"), 0o644)

	got, err := selectEntryFile(dir)
	if err != nil {
		t.Fatalf("selectEntryFile: %v", err)
	}
	if got != filepath.Join(dir, "README.md") {
		t.Fatalf("got %q, want README.md", got)
	}
}

func TestSelectEntryFileDirectoryFallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "index.md"), []byte("# i"), 0o644)

	got, err := selectEntryFile(dir)
	if err != nil {
		t.Fatalf("selectEntryFile: %v", err)
	}
	if got != filepath.Join(dir, "index.md") {
		t.Fatalf("got %q, want index.md", got)
	}
}

func TestSelectEntryFileDirectoryNeitherFails(t *testing.T) {
	dir := t.TempDir()
	if _, err := selectEntryFile(dir); err == nil {
		t.Fatal("expected error when neither README.md nor index.md exists")
	}
}

func TestDeriveEntryURLPathRootIsSlash(t *testing.T) {
	dir := t.TempDir()
	got, err := deriveEntryURLPath(dir, dir)
	if err != nil {
		t.Fatalf("deriveEntryURLPath: %v", err)
	}
	if got != "/" {
		t.Fatalf("got %q, want /", got)
	}
}

func TestDeriveEntryURLPathEncodesSegments(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "my docs", "README.md")
	got, err := deriveEntryURLPath(entry, dir)
	if err != nil {
		t.Fatalf("deriveEntryURLPath: %v", err)
	}
	if got != "/my%20docs/README.md" {
		t.Fatalf("got %q, want /my%%20docs/README.md", got)
	}
}

func TestIsWithin(t *testing.T) {
	if !isWithin("/a/b", "/a") {
		t.Error("expected /a/b within /a")
	}
	if !isWithin("/a", "/a") {
		t.Error("expected root within itself")
	}
	if isWithin("/ab", "/a") {
		t.Error("expected /ab not within /a (prefix must be segment-aligned)")
	}
}

func TestIsHeadedDarwin(t *testing.T) {
	if !isHeaded("darwin", envSnapshot{}) {
		t.Error("expected darwin with no SSH vars to be headed")
	}
	if isHeaded("darwin", envSnapshot{SSHConnection: "1.2.3.4"}) {
		t.Error("expected darwin with SSH_CONNECTION to not be headed")
	}
	if isHeaded("darwin", envSnapshot{SSHTTY: "/dev/ttys0"}) {
		t.Error("expected darwin with SSH_TTY to not be headed")
	}
}

func TestIsHeadedLinux(t *testing.T) {
	if isHeaded("linux", envSnapshot{}) {
		t.Error("expected linux with no DISPLAY to not be headed")
	}
	if !isHeaded("linux", envSnapshot{Display: ":0"}) {
		t.Error("expected linux with DISPLAY to be headed")
	}
	if isHeaded("linux", envSnapshot{Display: ":0", CI: "true"}) {
		t.Error("expected linux with CI set to not be headed even with DISPLAY")
	}
	if isHeaded("linux", envSnapshot{WaylandDisplay: "wayland-0", SSHConnection: "x"}) {
		t.Error("expected linux over SSH to not be headed even with WAYLAND_DISPLAY")
	}
}

func TestIsHeadedOtherPlatformsNeverHeaded(t *testing.T) {
	if isHeaded("windows", envSnapshot{Display: ":0"}) {
		t.Error("expected non-darwin/linux platforms to never be headed")
	}
}

func TestOpenCommandOverride(t *testing.T) {
	t.Setenv("MDMD_OPEN_CMD", "custom-opener")
	if got := openCommand("linux"); got != "custom-opener" {
		t.Fatalf("got %q, want override", got)
	}
}

func TestOpenCommandPerPlatform(t *testing.T) {
	if got := openCommand("darwin"); got != "open" {
		t.Fatalf("darwin: got %q", got)
	}
	if got := openCommand("linux"); got != "xdg-open" {
		t.Fatalf("linux: got %q", got)
	}
	if got := openCommand("windows"); got != "" {
		t.Fatalf("windows: got %q, want empty", got)
	}
}

func TestBindWithRetrySucceeds(t *testing.T) {
	ln, port, err := bindWithRetry("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("bindWithRetry: %v", err)
	}
	defer ln.Close()
	if port == 0 {
		t.Fatalf("expected a nonzero bound port when starting from an ephemeral port")
	}
}
