package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"1/2/3", "Dashboard/Questions/Experiments"},
				{"tab", "Cycle views / toggle filter focus"},
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"esc", "Back"},
			},
		},
		{
			title: "Questions",
			items: []helpItem{
				{"Space", "Toggle filter option"},
				{"a", "Select all/none"},
				{"r", "Reset filters"},
				{"[/]", "Prev/next page"},
				{"s", "Cycle sort"},
				{"Enter", "Question detail"},
			},
		},
		{
			title: "Experiments",
			items: []helpItem{
				{"n/e/D", "New/Edit/Delete"},
				{"g/j", "Generate/Judge"},
				{"a/J/t", "Answers/Judgments/Stats"},
				{"c", "Count matching variants"},
				{"x/X", "Delete answers/judgments"},
				{"R", "Reset stuck status"},
				{"m", "Cycle judge filter"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"f/l/c", "Dashboard filters and courses"},
				{"T", "Cycle theme"},
				{"?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 34)))
	b.WriteString("\n\n")

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			keyStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Warning)).
				Width(12)
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(48)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
