package adapter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "veilpack.dev/pkg/veilpack/internal/model"
)

func stageFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root
}

func TestZipArchiveAdapter_WriteAndRead(t *testing.T) {
	ctx := context.Background()
	files := map[string]string{
		"index.html":          "<html>" + strings.Repeat("x", 2000) + "</html>",
		"assets/app.js":       "console.log(1)",
		"assets/img/logo.png": "\x89PNG\x00\x01",
	}

	root := stageFiles(t, files)
	dest := filepath.Join(t.TempDir(), "out.zip")

	a := NewZipArchiveAdapter(nil)

	n, err := a.WriteArchive(ctx, m.Path(root), m.Path(dest))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var names []string
	got := map[string]string{}

	err = a.ReadArchive(ctx, m.Path(dest), func(entry m.ArchiveEntry, content []byte) error {
		names = append(names, entry.Name)
		got[entry.Name] = string(content)

		assert.Equal(t, uint64(len(content)), entry.UncompressedSize)
		assert.Equal(t, m.Classify(entry.Name), entry.Class)

		want, err := Fingerprint(content)
		require.NoError(t, err)
		assert.Equal(t, want, entry.Fingerprint)

		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"assets/app.js", "assets/img/logo.png", "index.html"}, names)
	assert.Equal(t, files, got)
}

func TestZipArchiveAdapter_Compresses(t *testing.T) {
	ctx := context.Background()
	root := stageFiles(t, map[string]string{"big.html": strings.Repeat("<p>repeat</p>", 1000)})
	dest := filepath.Join(t.TempDir(), "out.zip")

	a := NewZipArchiveAdapter(nil)
	_, err := a.WriteArchive(ctx, m.Path(root), m.Path(dest))
	require.NoError(t, err)

	err = a.ReadArchive(ctx, m.Path(dest), func(entry m.ArchiveEntry, _ []byte) error {
		assert.Less(t, entry.CompressedSize, entry.UncompressedSize)
		return nil
	})
	require.NoError(t, err)
}

func TestZipArchiveAdapter_EmptyStaging(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "empty.zip")

	a := NewZipArchiveAdapter(nil)
	n, err := a.WriteArchive(ctx, m.Path(t.TempDir()), m.Path(dest))
	require.NoError(t, err)
	assert.Zero(t, n)

	calls := 0
	require.NoError(t, a.ReadArchive(ctx, m.Path(dest), func(m.ArchiveEntry, []byte) error {
		calls++
		return nil
	}))
	assert.Zero(t, calls)
}

func TestZipArchiveAdapter_UnwritableDestination(t *testing.T) {
	root := stageFiles(t, map[string]string{"a.js": "a"})
	dest := filepath.Join(t.TempDir(), "missing-dir", "out.zip")

	_, err := NewZipArchiveAdapter(nil).WriteArchive(context.Background(), m.Path(root), m.Path(dest))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestZipArchiveAdapter_CanceledRemovesPartialArchive(t *testing.T) {
	root := stageFiles(t, map[string]string{"a.js": "a", "b.js": "b"})
	dest := filepath.Join(t.TempDir(), "out.zip")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewZipArchiveAdapter(nil).WriteArchive(ctx, m.Path(root), m.Path(dest))
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "partial archive must be removed")
}

func TestZipArchiveAdapter_ReadStopsOnCallbackError(t *testing.T) {
	ctx := context.Background()
	root := stageFiles(t, map[string]string{"a.js": "a", "b.js": "b"})
	dest := filepath.Join(t.TempDir(), "out.zip")

	a := NewZipArchiveAdapter(nil)
	_, err := a.WriteArchive(ctx, m.Path(root), m.Path(dest))
	require.NoError(t, err)

	stop := errors.New("stop")
	err = a.ReadArchive(ctx, m.Path(dest), func(m.ArchiveEntry, []byte) error { return stop })
	require.ErrorIs(t, err, stop)
}

func TestZipArchiveAdapter_ReadNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	err := NewZipArchiveAdapter(nil).ReadArchive(context.Background(), m.Path(path), func(m.ArchiveEntry, []byte) error {
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open archive")
}

func TestZipArchiveAdapter_ReadArchiveReportsCorruptEntry(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "corrupt.zip")

	f, err := os.Create(dest)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	w, err := zw.CreateRaw(&zip.FileHeader{
		Name:               "index.html",
		Method:             zip.Store,
		CRC32:              1,
		CompressedSize64:   5,
		UncompressedSize64: 5,
	})
	require.NoError(t, err)

	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	called := false
	err = NewZipArchiveAdapter(nil).ReadArchive(context.Background(), m.Path(dest), func(m.ArchiveEntry, []byte) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, zip.ErrChecksum)
	assert.Contains(t, err.Error(), "index.html")
	assert.False(t, called)
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint([]byte("hello"))
	require.NoError(t, err)
	assert.Len(t, a, 16)

	b, err := Fingerprint([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Fingerprint([]byte("hellp"))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	r, err := FingerprintReader(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, a, r)
}
