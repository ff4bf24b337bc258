package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "vfault.dev/pkg/vfault/internal/model"
)

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	fileStyle    = lipgloss.NewStyle().Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// TUI implements UI for interactive terminals. Diffs collected during a run
// are shown in a scrollable viewer when Wait is called; in watch mode they are
// printed immediately instead.
type TUI struct {
	*SimpleUI

	mu    sync.Mutex
	mode  StartMode
	diffs []string

	run func(model tea.Model) error
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	t := &TUI{SimpleUI: NewSimpleUI(cmd)}
	t.run = t.runProgram

	return t
}

// Start records the mode and clears collected diffs.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options...)

	t.mu.Lock()
	t.mode = cfg.mode
	t.diffs = nil
	t.mu.Unlock()

	return nil
}

// DisplayDiff colours the diff and queues it for the viewer.
func (t *TUI) DisplayDiff(ctx context.Context, path m.Path, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		t.statusf("%s\n", statusStyle.Render(fmt.Sprintf("No changes in %s", path)))
		return nil
	}

	coloured := colourDiff(diff)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mode == ModeWatch {
		t.printf("%s", coloured)
		return nil
	}

	t.diffs = append(t.diffs, coloured)

	return nil
}

// DisplayInjection prints the run outcome with colour.
func (t *TUI) DisplayInjection(ctx context.Context, report m.RunReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	style := statusStyle
	if report.Status == m.StatusFailed {
		style = removedStyle
	}

	t.statusf("%s\n", style.Render(describeRun(report)))
}

// Wait shows the queued diffs until the user quits the viewer.
func (t *TUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.mu.Lock()
	diffs := t.diffs
	t.diffs = nil
	t.mu.Unlock()

	if len(diffs) == 0 {
		return
	}

	if err := t.run(newDiffViewerModel(strings.Join(diffs, "\n"))); err != nil {
		t.statusf("diff viewer error: %v\n", err)
		t.printf("%s", strings.Join(diffs, "\n"))
	}
}

func (t *TUI) runProgram(model tea.Model) error {
	program := tea.NewProgram(model, tea.WithOutput(t.cmd.OutOrStdout()), tea.WithAltScreen())
	_, err := program.Run()

	return err
}

func colourDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")

	var b strings.Builder

	for _, line := range lines {
		if line == "" {
			continue
		}

		text := strings.TrimSuffix(line, "\n")

		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			b.WriteString(fileStyle.Render(text))
		case strings.HasPrefix(text, "@@"):
			b.WriteString(hunkStyle.Render(text))
		case strings.HasPrefix(text, "+"):
			b.WriteString(addedStyle.Render(text))
		case strings.HasPrefix(text, "-"):
			b.WriteString(removedStyle.Render(text))
		default:
			b.WriteString(text)
		}

		b.WriteString("\n")
	}

	return b.String()
}

const (
	headerHeight = 2
	footerHeight = 2
)

// diffViewerModel is the Bubble Tea model of the diff viewer.
type diffViewerModel struct {
	content  string
	viewport viewport.Model
	ready    bool
	quitting bool
}

func newDiffViewerModel(content string) diffViewerModel {
	return diffViewerModel{content: content}
}

func (dv diffViewerModel) Init() tea.Cmd {
	return nil
}

func (dv diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-headerHeight-footerHeight, 1)

		if !dv.ready {
			dv.viewport = viewport.New(msg.Width, height)
			dv.viewport.SetContent(dv.content)
			dv.ready = true
		} else {
			dv.viewport.Width = msg.Width
			dv.viewport.Height = height
		}

		return dv, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			dv.quitting = true
			return dv, tea.Quit
		case "g", "home":
			dv.viewport.GotoTop()
			return dv, nil
		case "G", "end":
			dv.viewport.GotoBottom()
			return dv, nil
		}
	}

	var cmd tea.Cmd

	dv.viewport, cmd = dv.viewport.Update(msg)

	return dv, cmd
}

func (dv diffViewerModel) View() string {
	if dv.quitting {
		return ""
	}

	if !dv.ready {
		return "Loading diff..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("vfault - mutation diff"))
	b.WriteString("\n\n")
	b.WriteString(dv.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%3.f%% | ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit",
		dv.viewport.ScrollPercent()*100)))

	return b.String()
}
