package adapter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	m "veilpack.dev/pkg/veilpack/internal/model"
)

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("prunes excluded directories and classifies files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "index.html"), "<html></html>")
		writeTestFile(t, filepath.Join(root, "style.CSS"), "h1{}")

		assets := filepath.Join(root, "assets")
		mustMkdir(t, assets)
		writeTestFile(t, filepath.Join(assets, "app.js"), "x()")
		writeTestBytes(t, filepath.Join(assets, "logo.png"), []byte{0x89, 'P', 'N', 'G'})

		for _, dir := range []string{".git", "__pycache__"} {
			mustMkdir(t, filepath.Join(root, dir))
			writeTestFile(t, filepath.Join(root, dir, "HEAD"), "ref")
		}

		var got []m.FileEntry
		err := adapter.Walk(m.NewSourceTree(m.Path(root)), func(entry m.FileEntry) error {
			got = append(got, entry)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		want := map[string]m.AssetClass{
			filepath.Join("assets", "app.js"):   m.ClassScript,
			filepath.Join("assets", "logo.png"): m.ClassOpaque,
			"index.html":                        m.ClassMarkup,
			"style.CSS":                         m.ClassStylesheet,
		}

		if len(got) != len(want) {
			t.Fatalf("Walk() visited %d files, want %d: %+v", len(got), len(want), got)
		}

		for _, entry := range got {
			class, ok := want[string(entry.RelPath)]
			if !ok {
				t.Fatalf("Walk() visited unexpected file %s", entry.RelPath)
			}

			if entry.Class != class {
				t.Fatalf("Walk() class of %s = %s, want %s", entry.RelPath, entry.Class, class)
			}

			if entry.FullPath != m.Path(filepath.Join(root, string(entry.RelPath))) {
				t.Fatalf("Walk() full path = %s", entry.FullPath)
			}
		}

		if got[0].RelPath != m.Path(filepath.Join("assets", "app.js")) {
			t.Fatalf("Walk() is not lexical, first entry = %s", got[0].RelPath)
		}
	})

	t.Run("skips excluded files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		out := filepath.Join(root, "out.zip")
		writeTestFile(t, out, "old archive")
		writeTestFile(t, filepath.Join(root, "main.js"), "x()")

		var visited []string
		err := adapter.Walk(m.NewSourceTree(m.Path(root), m.Path(out)), func(entry m.FileEntry) error {
			visited = append(visited, string(entry.FullPath))
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		if containsPath(visited, out) {
			t.Fatalf("Walk() visited excluded file %s", out)
		}

		if !containsPath(visited, filepath.Join(root, "main.js")) {
			t.Fatalf("Walk() did not visit main.js")
		}
	})

	t.Run("callback error stops the walk", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "a.js"), "a")
		writeTestFile(t, filepath.Join(root, "b.js"), "b")

		stop := errors.New("stop")
		calls := 0

		err := adapter.Walk(m.NewSourceTree(m.Path(root)), func(m.FileEntry) error {
			calls++
			return stop
		})
		if !errors.Is(err, stop) {
			t.Fatalf("Walk() error = %v, want %v", err, stop)
		}

		if calls != 1 {
			t.Fatalf("Walk() called fn %d times after error, want 1", calls)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		err := adapter.Walk(m.NewSourceTree(m.Path(filepath.Join(t.TempDir(), "missing"))), func(m.FileEntry) error {
			return nil
		})
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("Walk() error = %v, want ErrNotExist", err)
		}
	})
}

func TestDecodeText(t *testing.T) {
	got, err := DecodeText([]byte("héllo ✓"))
	if err != nil {
		t.Fatalf("DecodeText() error = %v", err)
	}

	if got != "héllo ✓" {
		t.Fatalf("DecodeText() = %q", got)
	}

	got, err = DecodeText([]byte{'a', 0xff, 'b', 0xc3})
	if err != nil {
		t.Fatalf("DecodeText() error = %v", err)
	}

	if got != "a\uFFFDb\uFFFD" {
		t.Fatalf("DecodeText() = %q, want replacement characters", got)
	}
}

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "blob.bin")
	want := []byte{0, 1, 2, 0xff}
	writeTestBytes(t, path, want)

	got, err := adapter.ReadFile(m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != string(want) {
		t.Fatalf("ReadFile() = %v, want %v", got, want)
	}
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	dir := t.TempDir()

	info, err := adapter.FileInfo(m.Path(dir))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if !info.IsDir() {
		t.Fatalf("FileInfo() IsDir = false for %s", dir)
	}
}

func TestLocalSourceFSAdapter_WriteFileCreatesParents(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	target := filepath.Join(t.TempDir(), "a", "b", "c.txt")
	if err := adapter.WriteFile(m.Path(target), []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != "data" {
		t.Fatalf("WriteFile() wrote %q", got)
	}
}

func TestLocalSourceFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	base := m.Path("/tmp/project")
	target := m.Path("/tmp/project/sub/dir/file.js")

	rel, err := adapter.RelPath(base, target)
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if string(rel) != filepath.Join("sub", "dir", "file.js") {
		t.Fatalf("RelPath() = %s, want %s", rel, filepath.Join("sub", "dir", "file.js"))
	}

	joined := adapter.JoinPath("/tmp", "project", "sub", "file.js")
	if string(joined) != filepath.Join("/tmp", "project", "sub", "file.js") {
		t.Fatalf("JoinPath() = %s, want %s", joined, filepath.Join("/tmp", "project", "sub", "file.js"))
	}

	abs, err := adapter.AbsPath("relative/out.zip")
	if err != nil {
		t.Fatalf("AbsPath() error = %v", err)
	}

	if !filepath.IsAbs(string(abs)) || !strings.HasSuffix(string(abs), filepath.Join("relative", "out.zip")) {
		t.Fatalf("AbsPath() = %s", abs)
	}

	if _, err := adapter.AbsPath(""); err == nil {
		t.Fatalf("AbsPath(\"\") error = nil")
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	writeTestBytes(t, path, []byte(contents))
}

func writeTestBytes(t *testing.T, path string, contents []byte) {
	t.Helper()
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}
