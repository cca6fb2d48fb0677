// Package model defines the data structures shared by the build pipeline.
package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// AssetClass is the classification of a source file, derived from its
// extension.
type AssetClass string

const (
	// ClassMarkup is an HTML document.
	ClassMarkup AssetClass = "markup"
	// ClassStylesheet is a CSS stylesheet.
	ClassStylesheet AssetClass = "stylesheet"
	// ClassScript is a JavaScript file.
	ClassScript AssetClass = "script"
	// ClassOpaque is any other file; it is copied byte-for-byte.
	ClassOpaque AssetClass = "opaque"
)

var classByExtension = map[string]AssetClass{
	".html": ClassMarkup,
	".css":  ClassStylesheet,
	".js":   ClassScript,
}

// Classify returns the class for path based on its extension, compared
// case-insensitively. Leading dots of the base name do not start an
// extension, so ".js" is opaque.
func Classify(path string) AssetClass {
	base := strings.TrimLeft(filepath.Base(path), ".")
	if class, ok := classByExtension[strings.ToLower(filepath.Ext(base))]; ok {
		return class
	}

	return ClassOpaque
}

// IsText reports whether the class is rewritten by the obfuscator.
func (c AssetClass) IsText() bool {
	return c == ClassMarkup || c == ClassStylesheet || c == ClassScript
}

// FileEntry is one file found while walking a SourceTree.
type FileEntry struct {
	// FullPath is the path on disk.
	FullPath Path
	// RelPath is relative to the tree root, using the OS separator.
	RelPath Path
	Class   AssetClass
	Size    int64
}

// SourceTree is the project directory being built together with its fixed
// exclusions.
type SourceTree struct {
	Root          Path
	ExcludedDirs  map[string]struct{}
	ExcludedFiles map[Path]struct{}
}

// DefaultExcludedDirs lists directory names never descended into.
var DefaultExcludedDirs = []string{".git", "__pycache__"}

// NewSourceTree builds a SourceTree for root with the default directory
// exclusions and the given absolute file exclusions.
func NewSourceTree(root Path, excludedFiles ...Path) SourceTree {
	dirs := make(map[string]struct{}, len(DefaultExcludedDirs))
	for _, d := range DefaultExcludedDirs {
		dirs[d] = struct{}{}
	}

	files := make(map[Path]struct{}, len(excludedFiles))
	for _, f := range excludedFiles {
		files[f] = struct{}{}
	}

	return SourceTree{Root: root, ExcludedDirs: dirs, ExcludedFiles: files}
}

// SkipsDir reports whether a directory with the given base name is pruned.
func (t SourceTree) SkipsDir(name string) bool {
	_, ok := t.ExcludedDirs[name]
	return ok
}

// SkipsFile reports whether the file at the absolute path abs is excluded.
func (t SourceTree) SkipsFile(abs Path) bool {
	_, ok := t.ExcludedFiles[abs]
	return ok
}
