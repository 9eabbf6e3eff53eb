package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const confirmModalWidth = 56

// confirmState is an open delete confirmation for ids.
type confirmState struct {
	ids []string
}

func newConfirm(ids []string) *confirmState {
	out := make([]string, len(ids))
	copy(out, ids)
	return &confirmState{ids: out}
}

// message returns the confirmation prompt.
func (c *confirmState) message() string {
	if len(c.ids) == 1 {
		return "Are you sure you want to delete this customer? This action cannot be undone."
	}
	return fmt.Sprintf("Are you sure you want to delete these %d customers? This action cannot be undone.", len(c.ids))
}

// handleConfirmKey processes keyboard input for the delete dialog.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.pending = true
		return m, m.deleteCustomersCmd(m.confirm.ids)
	case key.Matches(msg, m.keys.Cancel):
		m.confirm = nil
	}
	return m, nil
}

// renderConfirm renders the delete confirmation dialog.
func (m Model) renderConfirm() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	inner := confirmModalWidth - 6

	var b strings.Builder
	b.WriteString(bg.Render("Delete Customer", styles.DangerText))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(inner).
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Render(m.confirm.message()))
	b.WriteString("\n\n")

	if m.pending {
		b.WriteString(m.spinner.View() + bg.Space() + bg.Render("Deleting...", styles.WarningText))
	} else {
		del := lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.Danger)).
			Foreground(lipgloss.Color(m.theme.Background)).
			Bold(true).
			Padding(0, 1).
			Render("Delete")
		b.WriteString(del + bg.Spaces(2) +
			bg.Render("y", styles.AccentText) + bg.Sep(":") + bg.Render("Delete", styles.MutedText) + bg.Spaces(2) +
			bg.Render("n/esc", styles.AccentText) + bg.Sep(":") + bg.Render("Cancel", styles.MutedText))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		BorderBackground(lipgloss.Color(m.theme.Surface)).
		Background(lipgloss.Color(m.theme.Surface)).
		Padding(1, 2).
		Width(confirmModalWidth).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
}
