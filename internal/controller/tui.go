package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "veilpack.dev/pkg/veilpack/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	classStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Width(11)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// recentFiles is how many processed files the progress view keeps on screen.
const recentFiles = 5

// TUI implements UI using Bubble Tea for interactive progress display.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress program in the background.
func (p *TUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.program = tea.NewProgram(newProgressModel(), tea.WithOutput(p.output), tea.WithInput(nil), tea.WithContext(ctx))
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)

		if _, err := p.program.Run(); err != nil {
			slog.Debug("progress program stopped", "error", err)
		}
	}()

	return nil
}

// Close stops the progress program.
func (p *TUI) Close(_ context.Context) {
	p.once.Do(func() {
		if p.program != nil {
			p.program.Send(doneMsg{})
		}
	})
}

// Wait blocks until the progress program has exited.
func (p *TUI) Wait(ctx context.Context) {
	if p.done == nil {
		return
	}

	select {
	case <-p.done:
	case <-ctx.Done():
	}
}

// DisplayBuildEvent forwards a build event to the progress program.
func (p *TUI) DisplayBuildEvent(ctx context.Context, event m.BuildEvent) {
	if ctx.Err() != nil || p.program == nil {
		return
	}

	p.program.Send(eventMsg(event))
}

// DisplayBuildReport prints a styled summary after the progress program ends.
func (p *TUI) DisplayBuildReport(ctx context.Context, report m.BuildReport, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	p.Close(ctx)
	p.Wait(ctx)

	if err != nil {
		_, _ = fmt.Fprintln(p.output, errorStyle.Render("✗ build failed: ")+err.Error())
		return err
	}

	var b strings.Builder

	b.WriteString(renderReportTable(report))
	fmt.Fprintf(&b, "%s %s %s\n",
		successStyle.Render("✓ built"),
		string(report.Archive),
		faintStyle.Render(fmt.Sprintf("seed %d, %d files", report.Seed, len(report.Files))),
	)

	_, writeErr := fmt.Fprint(p.output, b.String())

	return writeErr
}

// DisplayArchiveEntries prints a styled entries table.
func (p *TUI) DisplayArchiveEntries(ctx context.Context, archive m.Path, entries []m.ArchiveEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(p.output, "%s\n\n%s", titleStyle.Render(string(archive)), renderEntriesTable(entries))

	return err
}

type eventMsg m.BuildEvent

type doneMsg struct{}

// progressModel is the Bubble Tea model shown while a build runs.
type progressModel struct {
	spinner   spinner.Model
	root      string
	stage     m.BuildStage
	processed int
	recent    []m.FileResult
	quitting  bool
}

func newProgressModel() progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	return progressModel{spinner: s}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return pm.handleEvent(m.BuildEvent(msg))

	case doneMsg:
		pm.quitting = true
		return pm, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			pm.quitting = true
			return pm, tea.Quit
		}

		return pm, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

func (pm progressModel) handleEvent(event m.BuildEvent) (tea.Model, tea.Cmd) {
	pm.stage = event.Stage

	switch event.Stage {
	case m.StageWalking:
		pm.root = string(event.Path)
	case m.StageFileProcessed:
		if event.File != nil {
			pm.processed++

			pm.recent = append(pm.recent, *event.File)
			if len(pm.recent) > recentFiles {
				pm.recent = pm.recent[len(pm.recent)-recentFiles:]
			}
		}
	case m.StageArchiving:
	case m.StageDone:
		pm.quitting = true
		return pm, tea.Quit
	}

	return pm, nil
}

func (pm progressModel) View() string {
	if pm.quitting {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s %s\n\n",
		pm.spinner.View(),
		titleStyle.Render("veilpack"),
		faintStyle.Render(pm.root),
	)

	for _, f := range pm.recent {
		fmt.Fprintf(&b, "  %s %s\n", classStyle.Render(string(f.Class)), f.RelPath)
	}

	fmt.Fprintf(&b, "\n  %s %d file(s) processed\n", faintStyle.Render(pm.stage.String()), pm.processed)

	return b.String()
}
