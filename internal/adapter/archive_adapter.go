package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	m "veilpack.dev/pkg/veilpack/internal/model"
)

// ArchiveAdapter writes staged build output into a deflate zip and reads it
// back.
type ArchiveAdapter interface {
	// WriteArchive adds every regular file under root to a new archive at
	// dest, named by its forward-slash path relative to root, in lexical
	// order. It returns the number of entries written. A partially written
	// archive is removed on failure.
	WriteArchive(ctx context.Context, root, dest m.Path) (int, error)

	// ReadArchive calls fn for every file entry of the archive at path, in
	// stored order, with the entry's decompressed content.
	ReadArchive(ctx context.Context, path m.Path, fn ArchiveEntryFunc) error
}

// ArchiveEntryFunc receives one archive entry and its content.
type ArchiveEntryFunc func(entry m.ArchiveEntry, content []byte) error

// ZipArchiveAdapter implements ArchiveAdapter with klauspost/compress.
type ZipArchiveAdapter struct {
	level  int
	logger *slog.Logger
}

// NewZipArchiveAdapter creates a ZipArchiveAdapter compressing at the default
// deflate level. A nil logger discards output.
func NewZipArchiveAdapter(logger *slog.Logger) *ZipArchiveAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &ZipArchiveAdapter{level: flate.DefaultCompression, logger: logger}
}

// WriteArchive implements ArchiveAdapter.
func (a *ZipArchiveAdapter) WriteArchive(ctx context.Context, root, dest m.Path) (count int, err error) {
	names, err := stagedNames(string(root))
	if err != nil {
		return 0, fmt.Errorf("scan staging dir: %w", err)
	}

	// #nosec G304 - dest is the user-selected output path
	out, err := os.Create(string(dest))
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}

		if rmErr := os.Remove(string(dest)); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			a.logger.Error("failed to remove partial archive", "path", dest, "error", rmErr)
		}
	}()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, a.level)
	})

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			_ = out.Close()

			return 0, err
		}

		if err := a.addFile(zw, root, name); err != nil {
			_ = zw.Close()
			_ = out.Close()

			return 0, err
		}
	}

	if err := zw.Close(); err != nil {
		_ = out.Close()
		return 0, fmt.Errorf("finish archive: %w", err)
	}

	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close archive: %w", err)
	}

	a.logger.Debug("archive written", "path", dest, "entries", len(names))

	return len(names), nil
}

func (a *ZipArchiveAdapter) addFile(zw *zip.Writer, root m.Path, name string) error {
	path := filepath.Join(string(root), filepath.FromSlash(name))

	// #nosec G304 - path is inside the staging directory
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open staged %s: %w", name, err)
	}

	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat staged %s: %w", name, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("header for %s: %w", name, err)
	}

	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	a.logger.Debug("archived file", "name", name, "size", info.Size())

	return nil
}

// stagedNames lists the forward-slash relative names of every regular file
// under root, sorted.
func stagedNames(root string) ([]string, error) {
	var names []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		names = append(names, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)

	return names, nil
}

// ReadArchive implements ArchiveAdapter.
func (a *ZipArchiveAdapter) ReadArchive(ctx context.Context, path m.Path, fn ArchiveEntryFunc) error {
	zr, err := zip.OpenReader(string(path))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			continue
		}

		content, fingerprint, err := readEntry(f)
		if err != nil {
			return err
		}

		entry := m.ArchiveEntry{
			Name:             f.Name,
			Class:            m.Classify(f.Name),
			CompressedSize:   f.CompressedSize64,
			UncompressedSize: f.UncompressedSize64,
			Fingerprint:      fingerprint,
		}

		if err := fn(entry, content); err != nil {
			return err
		}
	}

	return nil
}

// readEntry returns the content of f and its fingerprint, hashed while the
// entry is inflated.
func readEntry(f *zip.File) ([]byte, string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open entry %s: %w", f.Name, err)
	}

	defer func() { _ = rc.Close() }()

	var content bytes.Buffer

	fingerprint, err := FingerprintReader(io.TeeReader(rc, &content))
	if err != nil {
		return nil, "", fmt.Errorf("read entry %s: %w", f.Name, err)
	}

	return content.Bytes(), fingerprint, nil
}
