// Package pkg provides small utilities shared by the veilpack commands.
package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// StagingPattern is the os.MkdirTemp pattern for build staging directories.
const StagingPattern = "veilpack_build_*"

// WithStagingDir creates a fresh directory under the OS temp dir, runs fn
// with its path and removes the directory on every exit path, including a
// panic in fn. A removal failure is joined to fn's error.
func WithStagingDir(pattern string, fn func(dir string) error) (err error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		slog.Error("failed to create staging dir", "pattern", pattern, "error", err)
		return fmt.Errorf("create staging dir: %w", err)
	}

	slog.Debug("created staging dir", "path", dir)

	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			slog.Error("failed to remove staging dir", "path", dir, "error", rmErr)
			err = errors.Join(err, fmt.Errorf("remove staging dir: %w", rmErr))

			return
		}

		slog.Debug("removed staging dir", "path", dir)
	}()

	return fn(dir)
}
