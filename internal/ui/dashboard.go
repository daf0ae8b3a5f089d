package ui

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexam-dev/lexview/internal/filter"
	"github.com/lexam-dev/lexview/internal/lexam"
)

// dashboardState holds the aggregate view's filter and drill-down state.
// The unfiltered dashboard arrives with every poll; a filtered variant is
// fetched on demand when a config or language constraint is active.
type dashboardState struct {
	query         *filter.QueryState
	filtered      *lexam.Dashboard
	stats         *lexam.Stats
	showCourses   bool
	courseSummary []lexam.CourseSummary
	courseOffset  int
}

func newDashboardState() dashboardState {
	return dashboardState{
		query: filter.NewQueryState(),
	}
}

// seedUniverses captures the config and language option lists from the
// first filters payload so the dashboard can cycle through them.
func (d *dashboardState) seedUniverses(opts lexam.FilterOptions) {
	if len(d.query.Universe(filter.DimConfig)) == 0 {
		d.query.SetUniverse(filter.DimConfig, universeFromStrings(opts.Configs))
	}
	if len(d.query.Universe(filter.DimLanguage)) == 0 {
		d.query.SetUniverse(filter.DimLanguage, universeFromStrings(opts.Languages))
	}
}

func (d dashboardState) encode() url.Values {
	return d.query.EncodeDimensions(filter.DimConfig, filter.DimLanguage)
}

// filterActive reports whether a config or language constraint narrows
// the dashboard.
func (d dashboardState) filterActive() bool {
	return len(d.encode()) > 0
}

// needsFetch reports whether entering the view requires a request: the
// snapshot only carries the unfiltered dashboard.
func (d dashboardState) needsFetch() bool {
	return d.filterActive() && d.filtered == nil
}

// current picks the dashboard to render: the filtered fetch when a
// constraint is active, the polled snapshot otherwise.
func (m Model) currentDashboard() (lexam.Dashboard, bool) {
	if m.dash.filterActive() && m.dash.filtered != nil {
		return *m.dash.filtered, true
	}
	return m.snapshot.Dashboard, m.snapshot.HasDashboard
}

// handleDashboardKey processes keyboard input for the dashboard view.
func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.dash
	switch msg.String() {
	case "f":
		cycleSingle(d.query, filter.DimConfig)
		return m, m.refetchDashboard()
	case "l":
		cycleSingle(d.query, filter.DimLanguage)
		return m, m.refetchDashboard()
	case "c":
		d.showCourses = !d.showCourses
		d.courseOffset = 0
		if d.showCourses && d.courseSummary == nil && m.client != nil {
			return m, fetchCourseSummaryCmd(m.ctx, m.client)
		}
	case "j", "down":
		if d.showCourses && d.courseOffset < len(d.courseSummary)-1 {
			d.courseOffset++
		}
	case "k", "up":
		if d.showCourses && d.courseOffset > 0 {
			d.courseOffset--
		}
	case "g", "home":
		d.courseOffset = 0
	}
	return m, nil
}

func (m *Model) refetchDashboard() tea.Cmd {
	m.dash.filtered = nil
	if m.client == nil {
		return nil
	}
	return fetchDashboardCmd(m.ctx, m.client, m.dash.encode())
}

// cycleSingle steps a dimension through: all, then each single option in
// universe order, then back to all.
func cycleSingle(q *filter.QueryState, dim string) {
	u := q.Universe(dim)
	if len(u) == 0 {
		return
	}
	sel := q.Selection(dim)

	cur := -1
	if sel.State() == filter.Partial {
		for i, v := range u {
			if sel.Has(v) {
				cur = i
				break
			}
		}
	}

	*sel = filter.NewSelection()
	next := cur + 1
	if next < len(u) {
		sel.ToggleAll() // All -> None
		sel.ToggleOne(u[next], u)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// singleLabelShort abbreviates the active config constraint for the
// command bar.
func singleLabelShort(q *filter.QueryState) string {
	return truncate(singleLabel(q, filter.DimConfig), 14)
}

// singleLabel names the currently cycled option, or "all".
func singleLabel(q *filter.QueryState, dim string) string {
	sel := q.Selection(dim)
	u := q.Universe(dim)
	if sel.State() != filter.Partial {
		return "all"
	}
	for _, v := range u {
		if sel.Has(v) {
			return v
		}
	}
	return "all"
}

// Rendering

func (m Model) renderDashboard() string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()

	dash, ok := m.currentDashboard()
	if !ok {
		msg := styles.MutedText.Render("Waiting for dashboard data...")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	if m.dash.showCourses {
		return m.renderCourseSummary(contentHeight)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	left := m.renderTitledBox("Overview", m.renderOverview(dash, leftWidth-4), leftWidth, contentHeight, false)
	right := m.renderTitledBox("Distributions", m.renderDistributions(dash, rightWidth-4), rightWidth, contentHeight, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderOverview(dash lexam.Dashboard, width int) string {
	styles := m.theme.Styles()
	var b strings.Builder

	writeStat := func(label string, value string) {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-16s", label)))
		b.WriteString(styles.Text.Bold(true).Render(value))
		b.WriteString("\n")
	}

	writeStat("Questions", fmt.Sprintf("%d", dash.TotalQuestions))
	writeStat("Courses", fmt.Sprintf("%d", dash.TotalCourses))
	writeStat("German", fmt.Sprintf("%d", dash.TotalDE))
	writeStat("English", fmt.Sprintf("%d", dash.TotalEN))
	if dash.MinYear > 0 {
		writeStat("Years", fmt.Sprintf("%d-%d", dash.MinYear, dash.MaxYear))
	}
	if s := m.dash.stats; s != nil {
		writeStat("Variants", fmt.Sprintf("%d", s.TotalVariants))
		if len(s.ByConfig) > 0 {
			parts := make([]string, 0, len(s.ByConfig))
			for _, name := range sortedKeys(s.ByConfig) {
				parts = append(parts, fmt.Sprintf("%s %d", name, s.ByConfig[name]))
			}
			b.WriteString(styles.FaintText.Render(fmt.Sprintf("%-16s%s", "", strings.Join(parts, "  "))))
			b.WriteString("\n")
		}
	}

	if m.dash.filterActive() {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render(fmt.Sprintf("filtered: config=%s language=%s",
			singleLabel(m.dash.query, filter.DimConfig),
			singleLabel(m.dash.query, filter.DimLanguage))))
		b.WriteString("\n")
	}

	// Questions per year with per-area stacking collapsed to totals.
	if len(dash.Years) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("By year"))
		b.WriteString("\n")
		maxTotal := 0
		for _, y := range dash.Years {
			if y.Total > maxTotal {
				maxTotal = y.Total
			}
		}
		barWidth := max(width-18, 8)
		for _, y := range dash.Years {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%4d ", y.Year)))
			b.WriteString(styles.InfoText.Render(renderBar(y.Total, maxTotal, barWidth)))
			b.WriteString(styles.Text.Render(fmt.Sprintf(" %d", y.Total)))
			b.WriteString("\n")
		}
	}

	if len(dash.Splits) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Splits"))
		b.WriteString("\n")
		for _, s := range dash.Splits {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-12s ", truncate(s.Name, 12))))
			b.WriteString(styles.Text.Render(fmt.Sprintf("%6d ", s.Value)))
			b.WriteString(styles.FaintText.Render(s.Pct))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderDistributions(dash lexam.Dashboard, width int) string {
	styles := m.theme.Styles()
	var b strings.Builder

	writeChart := func(title string, rows []lexam.NameValue) {
		if len(rows) == 0 {
			return
		}
		b.WriteString(styles.AccentText.Bold(true).Render(title))
		b.WriteString("\n")
		maxValue := 0
		for _, r := range rows {
			if r.Value > maxValue {
				maxValue = r.Value
			}
		}
		barWidth := max(width-28, 8)
		for _, r := range rows {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-16s ", truncate(r.Name, 16))))
			b.WriteString(styles.InfoText.Render(renderBar(r.Value, maxValue, barWidth)))
			b.WriteString(styles.Text.Render(fmt.Sprintf(" %d", r.Value)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeChart("Legal areas", dash.Areas)
	writeChart("Jurisdictions", dash.Jurisdictions)

	if len(dash.LangArea) > 0 {
		b.WriteString(styles.AccentText.Bold(true).Render("Language by area"))
		b.WriteString("\n")
		for _, la := range dash.LangArea {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-16s ", truncate(la.Area, 16))))
			b.WriteString(styles.Text.Render(fmt.Sprintf("de %-5d en %d", la.DE, la.EN)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(dash.AnswerStats) > 0 {
		b.WriteString(styles.AccentText.Bold(true).Render("Answer length (words)"))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%-16s %6s %6s %6s %6s", "", "avg", "med", "min", "max")))
		b.WriteString("\n")
		for _, s := range dash.AnswerStats {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-16s ", truncate(s.Area, 16))))
			b.WriteString(styles.Text.Render(fmt.Sprintf("%6d %6d %6d %6d", s.AvgWords, s.MedianWords, s.MinWords, s.MaxWords)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderCourseSummary renders the per-course drill-down table.
func (m Model) renderCourseSummary(height int) string {
	styles := m.theme.Styles()
	d := m.dash

	var b strings.Builder
	header := fmt.Sprintf("%-34s %-16s %-6s %6s %6s %6s %6s %7s",
		"Course", "Area", "Lang", "mcq4", "mcqA", "open", "dev", "total")
	b.WriteString(styles.FaintText.Render(header))
	b.WriteString("\n")

	if len(d.courseSummary) == 0 {
		b.WriteString(styles.MutedText.Render("Loading course summary..."))
	}

	visible := height - 4
	for i := d.courseOffset; i < len(d.courseSummary) && i < d.courseOffset+visible; i++ {
		row := d.courseSummary[i]
		line := fmt.Sprintf("%-34s %-16s %-6s %6d %6d %6d %6d %7d",
			truncate(row.Course, 34), truncate(row.Area, 16), row.Language,
			row.MCQ4, row.MCQAll, row.OpenQA, row.OpenDev, row.Total)
		if i == d.courseOffset {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}

	title := fmt.Sprintf("Course summary (%d)", len(d.courseSummary))
	return m.renderTitledBox(title, b.String(), m.width, height, true)
}
