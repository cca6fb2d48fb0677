// Package controller provides output adapters for displaying build progress
// and archive contents.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "veilpack.dev/pkg/veilpack/internal/model"
)

// UI defines how commands report progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish rendering
	DisplayBuildEvent(ctx context.Context, event m.BuildEvent)
	DisplayBuildReport(ctx context.Context, report m.BuildReport, err error) error
	DisplayArchiveEntries(ctx context.Context, archive m.Path, entries []m.ArchiveEntry) error
}

// NewUI returns a TUI when useTUI is set and the command writes to a
// terminal, and a SimpleUI otherwise.
func NewUI(cmd *cobra.Command, useTUI bool) UI {
	if useTUI && IsTTY(cmd.OutOrStdout()) {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
