package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shubhampopalghat/userbot/internal/domain"
)

type restoreDoneMsg struct {
	restored []domain.AccountName
}

type restoreSpinnerModel struct {
	spinner  spinner.Model
	label    string
	restore  tea.Cmd
	restored []domain.AccountName
	done     bool
}

func newRestoreSpinnerModel(label string, restore tea.Cmd) restoreSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return restoreSpinnerModel{
		spinner: s,
		label:   label,
		restore: restore,
	}
}

func (m restoreSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.restore)
}

func (m restoreSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case restoreDoneMsg:
		m.done = true
		m.restored = msg.restored
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m restoreSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

func runRestoreSpinner(ctx context.Context, output io.Writer, restore func(context.Context) []domain.AccountName) ([]domain.AccountName, error) {
	restoreCmd := func() tea.Msg {
		return restoreDoneMsg{restored: restore(ctx)}
	}

	p := tea.NewProgram(
		newRestoreSpinnerModel("Checking for existing account sessions...", restoreCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	result, ok := finalModel.(restoreSpinnerModel)
	if !ok {
		return nil, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.restored, nil
}
