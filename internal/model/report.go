package model

import "time"

// FileResult describes how one file was handled during a build.
type FileResult struct {
	RelPath     Path
	Class       AssetClass
	SourceBytes int64
	OutputBytes int64
	// Fingerprint is a 64-bit content hash of the source file, hex encoded.
	Fingerprint string
}

// BuildReport summarizes a completed build.
type BuildReport struct {
	Root     Path
	Archive  Path
	Seed     uint64
	Files    []FileResult
	Duration time.Duration
}

// Count returns the number of files of the given class.
func (r BuildReport) Count(class AssetClass) int {
	n := 0

	for _, f := range r.Files {
		if f.Class == class {
			n++
		}
	}

	return n
}

// BuildStage identifies a step reported to build observers.
type BuildStage int

// Available BuildStage values.
const (
	StageWalking BuildStage = iota
	StageFileProcessed
	StageArchiving
	StageDone
)

// String returns a short label for the stage.
func (s BuildStage) String() string {
	switch s {
	case StageWalking:
		return "walking"
	case StageFileProcessed:
		return "processed"
	case StageArchiving:
		return "archiving"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// BuildEvent is emitted to an optional observer while a build runs.
type BuildEvent struct {
	Stage BuildStage
	File  *FileResult
	Path  Path
}

// ArchiveEntry describes one entry of a built archive.
type ArchiveEntry struct {
	Name             string
	Class            AssetClass
	CompressedSize   uint64
	UncompressedSize uint64
	Fingerprint      string
}
