package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmAction is a destructive operation waiting for a y/n answer.
// Nothing is sent to the server until the user confirms.
type confirmAction struct {
	title  string
	detail string
	cmd    tea.Cmd
}

func (m *Model) askConfirm(title, detail string, cmd tea.Cmd) {
	m.confirm = &confirmAction{title: title, detail: detail, cmd: cmd}
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirm := m.confirm
	switch msg.String() {
	case "y", "enter":
		m.confirm = nil
		return m, confirm.cmd
	case "n", "esc":
		m.confirm = nil
	}
	return m, nil
}

func (m Model) renderConfirm() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render(m.confirm.title))
	b.WriteString("\n\n")
	if m.confirm.detail != "" {
		b.WriteString(styles.Text.Render(m.confirm.detail))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.AccentText.Render("y"))
	b.WriteString(styles.MutedText.Render(": confirm   "))
	b.WriteString(styles.AccentText.Render("n"))
	b.WriteString(styles.MutedText.Render(": cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Padding(1, 2).
		Width(48).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
