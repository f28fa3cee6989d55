package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func paths(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestDiscoverMenuFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.menu", `<menu name="Main"/>`)
	writeFile(t, dir, "options/video.XML", `<menu name="Video"/>`)
	// Not a menu extension
	writeFile(t, dir, "readme.txt", "hello")
	// Hidden file should be ignored
	writeFile(t, dir, ".draft.menu", "secret")

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	want := []string{"main.menu", filepath.Join("options", "video.XML")}
	if diff := cmp.Diff(want, paths(entries)); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
	if entries[0].Size != int64(len(`<menu name="Main"/>`)) {
		t.Errorf("size = %d", entries[0].Size)
	}
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.menu", "<menu/>")
	writeFile(t, dir, "node_modules/pkg.menu", "<menu/>")
	writeFile(t, dir, "build/out.xml", "<menu/>")
	writeFile(t, dir, ".hidden/secret.menu", "<menu/>")

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if diff := cmp.Diff([]string{"main.menu"}, paths(entries)); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
}

func TestDiscoverIgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, ".gitignore", "generated/\n")
	writeFile(t, dir, "main.menu", "<menu/>")
	writeFile(t, dir, "generated/auto.menu", "<menu/>")
	writeFile(t, dir, "legacy/old.menu", "<menu/>")
	writeFile(t, dir, "strings/en.xml", "<strings/>")

	entries, err := Files(dir, Options{
		Ignore:  []string{"legacy/"},
		Exclude: []string{"strings/en.xml"},
	})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if diff := cmp.Diff([]string{"main.menu"}, paths(entries)); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.menu", "<menu/>")

	// Create symlink
	err := os.Symlink(filepath.Join(dir, "real.menu"), filepath.Join(dir, "link.menu"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, Options{})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if diff := cmp.Diff([]string{"real.menu"}, paths(entries)); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
