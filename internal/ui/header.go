package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasDashboard {
		return m.renderConnectingHeader(styles, bg)
	}

	content := m.buildStatusContent(styles, bg)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(content)
}

// renderConnectingHeader shows the connecting/error state before the
// first dashboard arrives.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snapshot.LastError != nil {
		last := "soon"
		if !m.lastUpdated.IsZero() {
			last = m.lastUpdated.Format("15:04:05")
		}
		parts := []string{
			bg.Render("lexview", styles.Logo),
			bg.Render("API "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(last, styles.MutedText),
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("lexview", styles.Logo) + sep +
			bg.Render("Connecting to LEXam API...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < 100
	sep := bg.Spaces(2)

	var parts []string

	parts = append(parts, bg.Render("lexview", styles.Logo))

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	} else {
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	parts = append(parts,
		bg.Render("Questions:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", m.snapshot.Dashboard.TotalQuestions), styles.Text),
	)
	parts = append(parts,
		bg.Render("Experiments:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Experiments)), styles.Text),
	)

	if busy := m.busyExperimentCount(); busy > 0 {
		parts = append(parts,
			bg.Render("Running:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", busy), styles.InfoText),
		)
	}

	if timeStr := m.formatTimestamp(); timeStr != "" {
		parts = append(parts, bg.Render(timeStr, styles.MutedText))
	}

	if m.snapshot.LastError != nil {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		errText := truncate(m.snapshot.LastError.Error(), maxErr)
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(errText, styles.DangerText),
		)
	}

	if m.statusMsg != "" {
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(m.statusMsg, styles.WarningText),
		)
	}

	return bg.Join(parts, sep)
}

func (m Model) busyExperimentCount() int {
	busy := 0
	for _, exp := range m.snapshot.Experiments {
		if exp.Busy() {
			busy++
		}
	}
	return busy
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}
	timeStr := m.lastUpdated.Format("15:04:05")
	return timeStr + " (" + humanizeDuration(time.Since(m.lastUpdated)) + ")"
}

// classifyConnectionError returns a short description of the connection
// error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewQuestions:
		if m.questions.focusFilters {
			commands = []cmd{
				{"j/k", "Option"},
				{"h/l", "Dimension"},
				{"Space", "Toggle"},
				{"a", "All/None"},
				{"r", "Reset"},
				{"Tab", "Table"},
				{"?", "More"},
			}
		} else {
			commands = []cmd{
				{"j/k", "Navigate"},
				{"[/]", "Page"},
				{"s", "Sort"},
				{"Enter", "Detail"},
				{"Tab", "Filters"},
				{"?", "More"},
			}
		}
	case ViewExperiments:
		switch m.exps.mode {
		case expModeDetail:
			commands = []cmd{
				{"g", "Generate"},
				{"j", "Judge"},
				{"a", "Answers"},
				{"J", "Judgments"},
				{"t", "Stats"},
				{"c", "Count"},
				{"x/X", "Clear"},
				{"R", "Reset"},
				{"Esc", "Back"},
			}
		case expModeAnswers, expModeJudgments:
			commands = []cmd{
				{"j/k", "Navigate"},
				{"[/]", "Page"},
				{"Enter", "Full text"},
				{"m", "Judge filter"},
				{"Esc", "Back"},
			}
		case expModeStats:
			commands = []cmd{
				{"Esc", "Back"},
			}
		case expModeForm:
			commands = []cmd{
				{"Tab", "Next field"},
				{"Enter", "Save"},
				{"Esc", "Cancel"},
			}
		default:
			commands = []cmd{
				{"Enter", "Open"},
				{"n", "New"},
				{"e", "Edit"},
				{"D", "Delete"},
				{"j/k", "Navigate"},
				{"?", "More"},
			}
		}
	default: // ViewDashboard
		commands = []cmd{
			{"f", "Config: " + singleLabelShort(m.dash.query)},
			{"l", "Language"},
			{"c", ternary(m.dash.showCourses, "Overview", "Courses")},
			{"1/2/3", "Views"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
