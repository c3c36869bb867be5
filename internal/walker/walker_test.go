package walker

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(files []FileInfo) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.RelPath
	}
	return paths
}

func TestWalkIncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lectures/lec1.txt", []byte("lecture one"))
	writeFile(t, root, "lectures/lec2.md", []byte("lecture two"))
	writeFile(t, root, "lectures/notes.html", []byte("<html></html>"))
	writeFile(t, root, "drafts/secret.txt", []byte("draft"))

	files, err := Walk(Config{
		RootDir: root,
		Include: []string{"**/*.txt", "**/*.md"},
		Exclude: []string{"drafts/**"},
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	got := relPaths(files)
	want := []string{"lectures/lec1.txt", "lectures/lec2.md"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("file[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalkSkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "slides.txt", []byte("plain text"))
	writeFile(t, root, "slides.bin.txt", []byte{0x50, 0x00, 0x44, 0x46})

	files, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got := relPaths(files)
	if len(got) != 1 || got[0] != "slides.txt" {
		t.Errorf("got %v, want only slides.txt", got)
	}
}

func TestWalkSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.txt", []byte("ok"))
	writeFile(t, root, "large.txt", bytes.Repeat([]byte("a"), 2048))

	files, err := Walk(Config{RootDir: root, MaxFileSize: 1024})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got := relPaths(files)
	if len(got) != 1 || got[0] != "small.txt" {
		t.Errorf("got %v, want only small.txt", got)
	}
}

func TestWalkSkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lec.txt", []byte("text"))
	writeFile(t, root, ".git/config.txt", []byte("text"))
	writeFile(t, root, ".classchat/index.txt", []byte("text"))

	files, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	got := relPaths(files)
	if len(got) != 1 || got[0] != "lec.txt" {
		t.Errorf("got %v, want only lec.txt", got)
	}
}

func TestMatchesIncludeEmptyPatternsIncludesAll(t *testing.T) {
	if !MatchesInclude("anything/at/all.txt", nil) {
		t.Error("empty include patterns should match everything")
	}
	if MatchesExclude("anything/at/all.txt", nil) {
		t.Error("empty exclude patterns should match nothing")
	}
}
