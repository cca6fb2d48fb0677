package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"veilpack.dev/pkg/veilpack/internal/adapter"
	m "veilpack.dev/pkg/veilpack/internal/model"
)

// ErrUnsafeEntry is returned for archive entries whose name would escape the
// extraction directory.
var ErrUnsafeEntry = errors.New("unsafe archive entry name")

// Inspector reads archives produced by a Compiler.
type Inspector interface {
	// ListArchive returns the entries of the archive at path.
	ListArchive(ctx context.Context, path m.Path) ([]m.ArchiveEntry, error)
	// RevealArchive extracts the archive at path into dest, turning every
	// text artifact back into the text it was built from.
	RevealArchive(ctx context.Context, path, dest m.Path) ([]m.ArchiveEntry, error)
}

type inspector struct {
	fsAdapter      adapter.SourceFSAdapter
	archiveAdapter adapter.ArchiveAdapter
	revealer       Revealer
	logger         *slog.Logger
}

// NewInspector constructs an Inspector. A nil logger discards output.
func NewInspector(fsAdapter adapter.SourceFSAdapter, archiveAdapter adapter.ArchiveAdapter, logger *slog.Logger) Inspector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &inspector{
		fsAdapter:      fsAdapter,
		archiveAdapter: archiveAdapter,
		revealer:       NewRevealer(),
		logger:         logger,
	}
}

func (in *inspector) ListArchive(ctx context.Context, path m.Path) ([]m.ArchiveEntry, error) {
	entries := make([]m.ArchiveEntry, 0)

	err := in.archiveAdapter.ReadArchive(ctx, path, func(entry m.ArchiveEntry, _ []byte) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (in *inspector) RevealArchive(ctx context.Context, path, dest m.Path) ([]m.ArchiveEntry, error) {
	entries := make([]m.ArchiveEntry, 0)

	err := in.archiveAdapter.ReadArchive(ctx, path, func(entry m.ArchiveEntry, content []byte) error {
		local := filepath.FromSlash(entry.Name)
		if !filepath.IsLocal(local) {
			return fmt.Errorf("%w: %q", ErrUnsafeEntry, entry.Name)
		}

		out, err := in.revealEntry(ctx, entry, content)
		if err != nil {
			return err
		}

		target := in.fsAdapter.JoinPath(string(dest), local)
		if err := in.fsAdapter.WriteFile(target, out, stagedFileMode); err != nil {
			return fmt.Errorf("write %s: %w", entry.Name, err)
		}

		in.logger.Debug("revealed entry", "name", entry.Name, "class", entry.Class)
		entries = append(entries, entry)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (in *inspector) revealEntry(ctx context.Context, entry m.ArchiveEntry, content []byte) ([]byte, error) {
	if !entry.Class.IsText() {
		return content, nil
	}

	text, err := adapter.DecodeText(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Name, err)
	}

	source, err := in.revealer.Reveal(ctx, entry.Class, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Name, err)
	}

	return []byte(source), nil
}
