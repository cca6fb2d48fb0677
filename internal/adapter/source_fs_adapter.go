// Package adapter contains the filesystem, archive and hashing adapters used
// by the build pipeline.
package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	m "veilpack.dev/pkg/veilpack/internal/model"
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when reading a project and staging its output. It hides direct
// `os` access so the compiler can be tested against fakes.
//
//nolint:interfacebloat // A richer interface keeps compiler logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Walk visits every regular file of tree in lexical order. Excluded
	// directories are pruned before they are listed and excluded files are
	// never reported.
	Walk(tree m.SourceTree, fn WalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// WriteFile writes content to a file, creating parent directories.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// AbsPath returns the cleaned absolute form of path.
	AbsPath(path m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// WalkFunc receives each file found by SourceFSAdapter.Walk. Returning an
// error stops the walk and is returned by Walk.
type WalkFunc func(entry m.FileEntry) error

// LocalSourceFSAdapter implements SourceFSAdapter on the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the compiler.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over regular files under tree.Root. Symbolic links to files
// are reported; links to directories are not followed.
func (a *LocalSourceFSAdapter) Walk(tree m.SourceTree, fn WalkFunc) error {
	root := string(tree.Root)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && tree.SkipsDir(d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if tree.SkipsFile(m.Path(path)) {
			return nil
		}

		rel, err := a.RelPath(tree.Root, m.Path(path))
		if err != nil {
			return err
		}

		return fn(m.FileEntry{
			FullPath: m.Path(path),
			RelPath:  rel,
			Class:    m.Classify(path),
			Size:     info.Size(),
		})
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - path comes from walking the project tree
	return os.ReadFile(string(path))
}

// DecodeText converts raw bytes to UTF-8 text, replacing each invalid byte
// with U+FFFD.
func DecodeText(raw []byte) (string, error) {
	text, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}

	return string(text), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// AbsPath returns the absolute, cleaned form of path.
func (a *LocalSourceFSAdapter) AbsPath(path m.Path) (m.Path, error) {
	if path == "" {
		return "", errors.New("empty path")
	}

	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
