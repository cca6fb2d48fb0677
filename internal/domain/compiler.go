package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"veilpack.dev/pkg/veilpack/internal/adapter"
	m "veilpack.dev/pkg/veilpack/internal/model"
	"veilpack.dev/pkg/veilpack/pkg"
)

// ArchiveSuffix is appended to output paths that do not already end with it.
const ArchiveSuffix = ".zip"

// ErrNotDirectory is returned when the project root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// stagedFileMode is the permission of files written to the staging dir.
const stagedFileMode = 0o644

// Compiler turns a project tree into an archive of obfuscated assets.
type Compiler interface {
	Compile(ctx context.Context, args CompileArgs) (m.BuildReport, error)
}

// CompileArgs holds the inputs of one build.
type CompileArgs struct {
	Root   m.Path
	Output m.Path
	// Seed fixes every random choice of the build. Zero draws a random seed.
	Seed uint64
	// Observer, when set, receives progress events in build order.
	Observer func(m.BuildEvent)
}

type compiler struct {
	fsAdapter      adapter.SourceFSAdapter
	archiveAdapter adapter.ArchiveAdapter
	logger         *slog.Logger
}

// NewCompiler constructs a Compiler backed by the provided filesystem and
// archive adapters. A nil logger discards output.
func NewCompiler(fsAdapter adapter.SourceFSAdapter, archiveAdapter adapter.ArchiveAdapter, logger *slog.Logger) Compiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &compiler{
		fsAdapter:      fsAdapter,
		archiveAdapter: archiveAdapter,
		logger:         logger,
	}
}

// NormalizeOutputPath appends ArchiveSuffix unless path already ends with it,
// compared case-insensitively.
func NormalizeOutputPath(path m.Path) m.Path {
	if strings.HasSuffix(strings.ToLower(string(path)), ArchiveSuffix) {
		return path
	}

	return path + ArchiveSuffix
}

func (c *compiler) Compile(ctx context.Context, args CompileArgs) (m.BuildReport, error) {
	started := time.Now()

	if err := ctx.Err(); err != nil {
		return m.BuildReport{}, err
	}

	if c.fsAdapter == nil || c.archiveAdapter == nil {
		return m.BuildReport{}, fmt.Errorf("missing adapters")
	}

	root, err := c.resolveRoot(args.Root)
	if err != nil {
		return m.BuildReport{}, err
	}

	rawOutput, output, err := c.resolveOutput(args.Output)
	if err != nil {
		return m.BuildReport{}, err
	}

	seed := args.Seed
	if seed == 0 {
		// Never zero, so the recorded seed reproduces the build.
		seed = rand.Uint64() | 1
	}

	report := m.BuildReport{Root: root, Archive: output, Seed: seed}
	tree := m.NewSourceTree(root, output, rawOutput)
	obf := NewObfuscator(seed)
	notify := observer(args.Observer)

	c.logger.Info("build started", "root", root, "output", output, "seed", seed)
	notify(m.BuildEvent{Stage: m.StageWalking, Path: root})

	err = pkg.WithStagingDir(pkg.StagingPattern, func(staging string) error {
		walkErr := c.fsAdapter.Walk(tree, func(entry m.FileEntry) error {
			result, err := c.processFile(ctx, obf, m.Path(staging), entry)
			if err != nil {
				return err
			}

			report.Files = append(report.Files, result)
			notify(m.BuildEvent{Stage: m.StageFileProcessed, File: &result, Path: entry.RelPath})

			return nil
		})
		if walkErr != nil {
			return walkErr
		}

		notify(m.BuildEvent{Stage: m.StageArchiving, Path: output})

		if _, err := c.archiveAdapter.WriteArchive(ctx, m.Path(staging), output); err != nil {
			return fmt.Errorf("write archive %s: %w", output, err)
		}

		return nil
	})
	if err != nil {
		c.logger.Error("build failed", "root", root, "error", err)
		return m.BuildReport{}, err
	}

	report.Duration = time.Since(started)

	c.logger.Info("build finished", "archive", output, "files", len(report.Files), "duration", report.Duration)
	notify(m.BuildEvent{Stage: m.StageDone, Path: output})

	return report, nil
}

func (c *compiler) resolveRoot(path m.Path) (m.Path, error) {
	root, err := c.fsAdapter.AbsPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve root %q: %w", path, err)
	}

	info, err := c.fsAdapter.FileInfo(root)
	if err != nil {
		return "", fmt.Errorf("stat root: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	return root, nil
}

// resolveOutput returns the absolute raw and normalized output paths. Both
// are excluded from the walk.
func (c *compiler) resolveOutput(path m.Path) (m.Path, m.Path, error) {
	raw, err := c.fsAdapter.AbsPath(path)
	if err != nil {
		return "", "", fmt.Errorf("resolve output %q: %w", path, err)
	}

	return raw, NormalizeOutputPath(raw), nil
}

func (c *compiler) processFile(ctx context.Context, obf Obfuscator, staging m.Path, entry m.FileEntry) (m.FileResult, error) {
	if err := ctx.Err(); err != nil {
		return m.FileResult{}, err
	}

	raw, err := c.fsAdapter.ReadFile(entry.FullPath)
	if err != nil {
		return m.FileResult{}, fmt.Errorf("read %s: %w", entry.RelPath, err)
	}

	fingerprint, err := adapter.Fingerprint(raw)
	if err != nil {
		return m.FileResult{}, fmt.Errorf("fingerprint %s: %w", entry.RelPath, err)
	}

	out := raw

	if entry.Class.IsText() {
		text, err := adapter.DecodeText(raw)
		if err != nil {
			return m.FileResult{}, fmt.Errorf("%s: %w", entry.RelPath, err)
		}

		art, err := obf.Obfuscate(ctx, entry.Class, text)
		if err != nil {
			return m.FileResult{}, fmt.Errorf("%s: %w", entry.RelPath, err)
		}

		out = []byte(art.Text)

		c.logger.Debug("obfuscated file", "path", entry.RelPath, "class", entry.Class, "chains", art.Chains, "checksum", art.Checksum)
	} else {
		c.logger.Debug("copied file", "path", entry.RelPath)
	}

	target := c.fsAdapter.JoinPath(string(staging), string(entry.RelPath))
	if err := c.fsAdapter.WriteFile(target, out, stagedFileMode); err != nil {
		return m.FileResult{}, fmt.Errorf("stage %s: %w", entry.RelPath, err)
	}

	return m.FileResult{
		RelPath:     entry.RelPath,
		Class:       entry.Class,
		SourceBytes: int64(len(raw)),
		OutputBytes: int64(len(out)),
		Fingerprint: fingerprint,
	}, nil
}

func observer(fn func(m.BuildEvent)) func(m.BuildEvent) {
	if fn == nil {
		return func(m.BuildEvent) {}
	}

	return fn
}
