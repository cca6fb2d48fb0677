package controller

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "veilpack.dev/pkg/veilpack/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayBuildEvent prints one line per processed file.
func (s *SimpleUI) DisplayBuildEvent(ctx context.Context, event m.BuildEvent) {
	if err := ctx.Err(); err != nil {
		return
	}

	switch event.Stage {
	case m.StageWalking:
		s.printf("Building %s\n", event.Path)
	case m.StageFileProcessed:
		if event.File != nil {
			s.printf("  %-10s %s\n", event.File.Class, event.File.RelPath)
		}
	case m.StageArchiving:
		s.printf("Writing %s\n", event.Path)
	case m.StageDone:
	}
}

// DisplayBuildReport prints the per-file summary of a build or its error.
func (s *SimpleUI) DisplayBuildReport(ctx context.Context, report m.BuildReport, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("build failed: %v\n", err)
		return err
	}

	s.printf("\n%s", renderReportTable(report))
	s.printf("Archive: %s (seed %d, %s)\n", report.Archive, report.Seed, report.Duration.Round(time.Millisecond))

	return nil
}

// DisplayArchiveEntries prints the entries of an archive as a table.
func (s *SimpleUI) DisplayArchiveEntries(ctx context.Context, archive m.Path, entries []m.ArchiveEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s\n\n%s", archive, renderEntriesTable(entries))

	return nil
}

func renderReportTable(report m.BuildReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Class", "Source", "Output", "Fingerprint"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	var sourceTotal, outputTotal int64

	for _, f := range report.Files {
		table.Append([]string{
			string(f.RelPath),
			string(f.Class),
			fmt.Sprintf("%d", f.SourceBytes),
			fmt.Sprintf("%d", f.OutputBytes),
			f.Fingerprint,
		})

		sourceTotal += f.SourceBytes
		outputTotal += f.OutputBytes
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(report.Files)),
		classSummary(report),
		fmt.Sprintf("%d", sourceTotal),
		fmt.Sprintf("%d", outputTotal),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

func classSummary(report m.BuildReport) string {
	return fmt.Sprintf("%d/%d/%d/%d",
		report.Count(m.ClassMarkup),
		report.Count(m.ClassStylesheet),
		report.Count(m.ClassScript),
		report.Count(m.ClassOpaque),
	)
}

func renderEntriesTable(entries []m.ArchiveEntry) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Name", "Class", "Size", "Compressed", "Fingerprint"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	var size, compressed uint64

	for _, e := range entries {
		table.Append([]string{
			e.Name,
			string(e.Class),
			fmt.Sprintf("%d", e.UncompressedSize),
			fmt.Sprintf("%d", e.CompressedSize),
			e.Fingerprint,
		})

		size += e.UncompressedSize
		compressed += e.CompressedSize
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Entries %d", len(entries)),
		"",
		fmt.Sprintf("%d", size),
		fmt.Sprintf("%d", compressed),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
