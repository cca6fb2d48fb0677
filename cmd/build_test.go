package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "veilpack.dev/pkg/veilpack/internal/model"
)

func writeSite(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"index.html": "<html><body><h1>Hello</h1></body></html>",
		"style.css":  "/* theme */ h1 { color: red; }",
		"app.js":     "document.title = 'hi';",
		"logo.png":   "\x89PNG",
		".git/HEAD":  "ref: refs/heads/main",
	}

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root
}

func newTestRoot(sub ...*cobra.Command) (*cobra.Command, *bytes.Buffer) {
	root := newRootCmd()
	configureRootFlags(root)

	for _, c := range sub {
		root.AddCommand(c)
	}

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})

	return root, out
}

func TestBuildCmd_BuildsArchive(t *testing.T) {
	site := writeSite(t)
	outDir := t.TempDir()
	archive := filepath.Join(outDir, "site")

	root, out := newTestRoot(newBuildCmd())
	root.SetArgs([]string{
		"build", site,
		"-o", archive,
		"--seed", "11",
		"--no-tui",
		"--log-file", filepath.Join(outDir, "build.log"),
	})

	require.NoError(t, root.Execute())

	_, err := os.Stat(archive + ".zip")
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "index.html")
	assert.Contains(t, output, "seed 11")

	entries, err := inspector.ListArchive(context.Background(), m.Path(archive+".zip"))
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	logContents, err := os.ReadFile(filepath.Join(outDir, "build.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logContents), "build finished")
}

func TestBuildCmd_FromProjectRootArchivesOnlyProjectFiles(t *testing.T) {
	project := t.TempDir()
	files := map[string]string{
		"index.html": "<html><body>hi</body></html>",
		"style.css":  "h1{color:red}",
		"app.js":     "console.log(1)",
		".git/HEAD":  "ref: refs/heads/main",
	}

	for name, content := range files {
		path := filepath.Join(project, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	useCacheDir(t)
	t.Chdir(project)

	root, _ := newTestRoot(newBuildCmd())
	root.SetArgs([]string{"build", "--no-tui", "-o", "out", "--seed", "5"})
	require.NoError(t, root.Execute())

	entries, err := inspector.ListArchive(context.Background(), m.Path(filepath.Join(project, "out.zip")))
	require.NoError(t, err)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	assert.Equal(t, []string{"app.js", "index.html", "style.css"}, names)

	_, err = os.Stat(defaultLogPath())
	require.NoError(t, err, "log file belongs in the cache dir")

	listing, err := os.ReadDir(project)
	require.NoError(t, err)

	for _, e := range listing {
		assert.NotContains(t, e.Name(), ".log")
	}
}

func TestBuildCmd_MissingRoot(t *testing.T) {
	outDir := t.TempDir()

	root, _ := newTestRoot(newBuildCmd())
	root.SetArgs([]string{
		"build", filepath.Join(outDir, "missing"),
		"-o", filepath.Join(outDir, "out.zip"),
		"--no-tui",
		"--log-file", filepath.Join(outDir, "build.log"),
	})

	require.Error(t, root.Execute())
}

func TestBuildCmd_TooManyArgs(t *testing.T) {
	root, _ := newTestRoot(newBuildCmd())
	root.SetArgs([]string{"build", "a", "b", "--log-file", filepath.Join(t.TempDir(), "x.log")})

	require.Error(t, root.Execute())
}

func TestListAndRevealCmd(t *testing.T) {
	site := writeSite(t)
	work := t.TempDir()
	archive := filepath.Join(work, "site.zip")
	logFile := filepath.Join(work, "veilpack.log")

	root, _ := newTestRoot(newBuildCmd(), newListCmd(), newRevealCmd())
	root.SetArgs([]string{"build", site, "-o", archive, "--no-tui", "--log-file", logFile})
	require.NoError(t, root.Execute())

	root, out := newTestRoot(newBuildCmd(), newListCmd(), newRevealCmd())
	root.SetArgs([]string{"list", archive, "--no-tui", "--log-file", logFile})
	require.NoError(t, root.Execute())

	for _, name := range []string{"app.js", "index.html", "logo.png", "style.css"} {
		assert.Contains(t, out.String(), name)
	}

	dest := filepath.Join(work, "revealed")

	root, out = newTestRoot(newBuildCmd(), newListCmd(), newRevealCmd())
	root.SetArgs([]string{"reveal", archive, "-d", dest, "--log-file", logFile})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "revealed 4 entries")

	html, err := os.ReadFile(filepath.Join(dest, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html><body><h1>Hello</h1></body></html>", string(html))

	css, err := os.ReadFile(filepath.Join(dest, "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "h1 { color: red; }", string(css))

	js, err := os.ReadFile(filepath.Join(dest, "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "document.title = 'hi';", string(js))
}

func TestListCmd_RequiresArchive(t *testing.T) {
	root, _ := newTestRoot(newListCmd())
	root.SetArgs([]string{"list", "--log-file", filepath.Join(t.TempDir(), "x.log")})

	require.Error(t, root.Execute())
}
