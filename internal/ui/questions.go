package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexam-dev/lexview/internal/filter"
	"github.com/lexam-dev/lexview/internal/lexam"
)

// filterRow is one focusable row of the filter panel: the seven
// multi-select dimensions followed by the two tri-state toggles.
var (
	triRowNegative = len(filter.Dimensions)
	triRowIntl     = triRowNegative + 1
	filterRowCount = triRowIntl + 1
)

var sortKeys = []string{"year", "course", "area", "language"}

type questionsState struct {
	query *filter.QueryState
	page  lexam.QuestionPage

	// fetchGen fences responses: a reply tagged with an older generation
	// is dropped instead of overwriting newer state.
	fetchGen    int
	debounceGen int
	loading     bool

	// suppressGen marks the one debounce generation scheduled by
	// server-side pruning. A user toggle inside the same window bumps
	// debounceGen past it and still refetches.
	suppressGen int

	selectedRow  int
	focusFilters bool
	filterRow    int
	filterOpt    int
	showDetail   bool
}

func newQuestionsState() questionsState {
	return questionsState{
		query:    filter.NewQueryState(),
		fetchGen: 1,
		loading:  true,
	}
}

// scheduleRefetch starts (or restarts) the debounce window after a filter
// mutation. Only the newest generation's timer is honored, so a burst of
// toggles produces one request.
func (m *Model) scheduleRefetch() tea.Cmd {
	m.questions.debounceGen++
	return debounceCmd(m.questions.debounceGen)
}

// refetchQuestions issues the fenced questions request for the current
// query state.
func (m *Model) refetchQuestions() tea.Cmd {
	if m.client == nil {
		return nil
	}
	m.questions.fetchGen++
	m.questions.loading = true
	return fetchQuestionsCmd(m.ctx, m.client, m.questions.fetchGen, m.questions.query.Encode())
}

// refetchQuestionsAndFilters also refreshes the viable filter options,
// used after filter mutations where the option universes may narrow.
func (m *Model) refetchQuestionsAndFilters() tea.Cmd {
	if m.client == nil {
		return nil
	}
	m.questions.fetchGen++
	m.questions.loading = true
	return tea.Batch(
		fetchQuestionsCmd(m.ctx, m.client, m.questions.fetchGen, m.questions.query.Encode()),
		fetchFiltersCmd(m.ctx, m.client, m.questions.fetchGen, m.questions.query.EncodeFilters()),
	)
}

func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.questions.debounceGen {
		// Superseded by a later toggle in the same burst.
		return m, nil
	}
	if msg.gen == m.questions.suppressGen {
		// This generation was scheduled by server-side pruning, which
		// already reflects the latest response. Refetching would echo it.
		m.questions.suppressGen = 0
		return m, nil
	}
	return m, m.refetchQuestionsAndFilters()
}

func (m Model) handleQuestionsMsg(msg questionsMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.questions.fetchGen {
		return m, nil
	}
	m.questions.loading = false
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.questions.page = msg.page
	if m.questions.selectedRow >= len(msg.page.Items) {
		m.questions.selectedRow = max(0, len(msg.page.Items)-1)
	}
	return m, nil
}

func (m Model) handleFiltersMsg(msg filtersMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.questions.fetchGen {
		return m, nil
	}
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}

	changed := applyUniverses(m.questions.query, msg.opts)
	m.dash.seedUniverses(msg.opts)
	m.clampFilterCursor()
	if changed {
		// Pruning counts as a state change, but only the generation
		// scheduled here is suppressed. The filter-level flag is consumed
		// now so it cannot swallow an unrelated later debounce.
		cmd := m.scheduleRefetch()
		m.questions.query.ConsumeSuppressedRefetch()
		m.questions.suppressGen = m.questions.debounceGen
		return m, cmd
	}
	return m, nil
}

// handleQuestionsKey processes keyboard input for the questions view.
func (m Model) handleQuestionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.questions.focusFilters {
		return m.handleFilterPanelKey(msg)
	}

	q := &m.questions
	switch msg.String() {
	case "j", "down":
		if q.selectedRow < len(q.page.Items)-1 {
			q.selectedRow++
		}
	case "k", "up":
		if q.selectedRow > 0 {
			q.selectedRow--
		}
	case "g", "home":
		q.selectedRow = 0
	case "G", "end":
		q.selectedRow = max(0, len(q.page.Items)-1)
	case "enter", "v":
		q.showDetail = !q.showDetail
	case "]", "n":
		q.query.NextPage(q.page.Total)
		q.selectedRow = 0
		return m, m.refetchQuestions()
	case "[", "p":
		q.query.PrevPage()
		q.selectedRow = 0
		return m, m.refetchQuestions()
	case "s":
		cycleSort(q.query)
		q.query.FirstPage()
		q.selectedRow = 0
		return m, m.refetchQuestions()
	case "r":
		q.query.Reset()
		q.selectedRow = 0
		return m, m.refetchQuestionsAndFilters()
	case "esc":
		q.showDetail = false
	}
	return m, nil
}

// handleFilterPanelKey processes keyboard input while the filter panel
// has focus. Every mutation rewinds pagination and goes through the
// debounce window.
func (m Model) handleFilterPanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := &m.questions

	switch msg.String() {
	case "j", "down":
		limit := m.filterOptionCount(q.filterRow)
		if q.filterOpt < limit-1 {
			q.filterOpt++
		} else if q.filterRow < filterRowCount-1 {
			q.filterRow++
			q.filterOpt = 0
		}
	case "k", "up":
		if q.filterOpt > 0 {
			q.filterOpt--
		} else if q.filterRow > 0 {
			q.filterRow--
			q.filterOpt = max(0, m.filterOptionCount(q.filterRow)-1)
		}
	case "h", "left":
		if q.filterRow > 0 {
			q.filterRow--
			q.filterOpt = 0
		}
	case "l", "right":
		if q.filterRow < filterRowCount-1 {
			q.filterRow++
			q.filterOpt = 0
		}
	case " ", "enter":
		return m.toggleFocusedFilter()
	case "a":
		if dim, ok := m.focusedDimension(); ok {
			q.query.Selection(dim).ToggleAll()
			q.query.FirstPage()
			q.selectedRow = 0
			return m, m.scheduleRefetch()
		}
	case "r":
		q.query.Reset()
		q.selectedRow = 0
		return m, m.refetchQuestionsAndFilters()
	case "esc":
		q.focusFilters = false
	}
	return m, nil
}

// toggleFocusedFilter flips the option (or tri-state) under the cursor.
func (m Model) toggleFocusedFilter() (Model, tea.Cmd) {
	q := &m.questions

	switch q.filterRow {
	case triRowNegative:
		q.query.NegativeQuestion = q.query.NegativeQuestion.Cycle()
	case triRowIntl:
		q.query.International = q.query.International.Cycle()
	default:
		dim, ok := m.focusedDimension()
		if !ok {
			return m, nil
		}
		u := q.query.Universe(dim)
		if q.filterOpt >= len(u) {
			return m, nil
		}
		q.query.Selection(dim).ToggleOne(u[q.filterOpt], u)
	}
	q.query.FirstPage()
	q.selectedRow = 0
	return m, m.scheduleRefetch()
}

func (m Model) focusedDimension() (string, bool) {
	if m.questions.filterRow >= len(filter.Dimensions) {
		return "", false
	}
	return filter.Dimensions[m.questions.filterRow], true
}

func (m Model) filterOptionCount(row int) int {
	if row >= len(filter.Dimensions) {
		return 1
	}
	return max(1, len(m.questions.query.Universe(filter.Dimensions[row])))
}

// clampFilterCursor keeps the option cursor valid after universes shrink.
func (m *Model) clampFilterCursor() {
	limit := m.filterOptionCount(m.questions.filterRow)
	if m.questions.filterOpt >= limit {
		m.questions.filterOpt = limit - 1
	}
}

// cycleSort advances through the sort keys: unsorted, then each key
// ascending, then the same key descending.
func cycleSort(q *filter.QueryState) {
	if q.SortBy == "" {
		q.ToggleSort(sortKeys[0])
		return
	}
	if q.SortDir == "asc" {
		q.ToggleSort(q.SortBy) // flip to desc
		return
	}
	for i, key := range sortKeys {
		if key == q.SortBy {
			if i+1 < len(sortKeys) {
				q.ToggleSort(sortKeys[i+1])
			} else {
				q.SortBy = ""
				q.SortDir = "asc"
			}
			return
		}
	}
	q.ToggleSort(sortKeys[0])
}

func sortLabel(q *filter.QueryState) string {
	if q.SortBy == "" {
		return "none"
	}
	arrow := "↑"
	if q.SortDir == "desc" {
		arrow = "↓"
	}
	return q.SortBy + arrow
}

// Rendering

func (m Model) renderQuestions() string {
	contentHeight := m.contentHeight()

	panelWidth := m.width * 30 / 100
	if panelWidth < 28 {
		panelWidth = min(28, m.width/2)
	}
	tableWidth := m.width - panelWidth

	panel := m.renderFilterPanel(panelWidth, contentHeight)
	table := m.renderQuestionTable(tableWidth, contentHeight)

	return lipgloss.JoinHorizontal(lipgloss.Top, panel, table)
}

// renderFilterPanel renders the dimension selections and tri-state rows.
func (m Model) renderFilterPanel(width, height int) string {
	styles := m.theme.Styles()
	q := m.questions
	focused := q.focusFilters

	var b strings.Builder
	for row, dim := range filter.Dimensions {
		m.writeDimensionRow(&b, styles, row, dim)
	}
	b.WriteString("\n")
	m.writeTriRow(&b, styles, triRowNegative, "Negative", q.query.NegativeQuestion)
	m.writeTriRow(&b, styles, triRowIntl, "International", q.query.International)

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("sort: " + sortLabel(q.query)))

	title := "Filters"
	return m.renderTitledBox(title, b.String(), width, height, focused)
}

func (m Model) writeDimensionRow(b *strings.Builder, styles Styles, row int, dim string) {
	q := m.questions
	sel := q.query.Selection(dim)
	u := q.query.Universe(dim)

	label := dimensionLabel(dim)
	summary := selectionSummary(sel, u)

	cursor := "  "
	if q.focusFilters && q.filterRow == row {
		cursor = styles.AccentText.Render("▸ ")
	}
	b.WriteString(cursor)
	b.WriteString(styles.Text.Bold(true).Render(label))
	b.WriteString(" ")
	b.WriteString(styles.MutedText.Render(summary))
	b.WriteString("\n")

	// Expand the options list only for the focused dimension; the rest
	// stay collapsed to their summary.
	if !q.focusFilters || q.filterRow != row {
		return
	}
	for i, v := range u {
		mark := "[ ]"
		if sel.Has(v) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, truncate(filter.Canon(v), 22))
		if i == q.filterOpt {
			b.WriteString("    " + styles.AccentText.Render(line))
		} else {
			b.WriteString("    " + styles.MutedText.Render(line))
		}
		b.WriteString("\n")
	}
}

func (m Model) writeTriRow(b *strings.Builder, styles Styles, row int, label string, t filter.Tri) {
	q := m.questions
	cursor := "  "
	if q.focusFilters && q.filterRow == row {
		cursor = styles.AccentText.Render("▸ ")
	}
	b.WriteString(cursor)
	b.WriteString(styles.Text.Bold(true).Render(label))
	b.WriteString(" ")
	b.WriteString(styles.MutedText.Render(triLabel(t)))
	b.WriteString("\n")
}

func triLabel(t filter.Tri) string {
	switch t {
	case filter.TriTrue:
		return "yes"
	case filter.TriFalse:
		return "no"
	default:
		return "any"
	}
}

func dimensionLabel(dim string) string {
	switch dim {
	case filter.DimConfig:
		return "Config"
	case filter.DimSplit:
		return "Split"
	case filter.DimArea:
		return "Area"
	case filter.DimLanguage:
		return "Language"
	case filter.DimCourse:
		return "Course"
	case filter.DimJurisdiction:
		return "Jurisdiction"
	case filter.DimYear:
		return "Year"
	default:
		return dim
	}
}

// selectionSummary renders the collapsed state of one dimension.
func selectionSummary(sel *filter.Selection, u filter.Universe) string {
	switch sel.State() {
	case filter.All:
		return "all"
	case filter.None:
		return "none"
	default:
		return fmt.Sprintf("%d/%d", sel.Count(u), len(u))
	}
}

// renderQuestionTable renders the paginated question list, with the
// selected question's variants expanded below when toggled.
func (m Model) renderQuestionTable(width, height int) string {
	styles := m.theme.Styles()
	q := m.questions

	title := m.questionTableTitle()
	inner := width - 4

	var b strings.Builder
	if q.loading && len(q.page.Items) == 0 {
		b.WriteString(styles.MutedText.Render("Loading questions..."))
	} else if len(q.page.Items) == 0 {
		b.WriteString(styles.MutedText.Render("No questions match the current filters"))
	}

	detailBudget := 0
	if q.showDetail {
		detailBudget = height / 2
	}
	rowBudget := height - 2 - detailBudget

	for i, item := range q.page.Items {
		if i >= rowBudget {
			break
		}
		line := m.formatQuestionRow(item, inner, i == q.selectedRow)
		b.WriteString(line)
		b.WriteString("\n")
	}

	if q.showDetail {
		if item := m.selectedQuestion(); item != nil {
			b.WriteString("\n")
			b.WriteString(m.renderQuestionDetail(*item, inner, detailBudget-1))
		}
	}

	return m.renderTitledBox(title, b.String(), width, height, !q.focusFilters)
}

func (m Model) questionTableTitle() string {
	q := m.questions
	if q.page.Total == 0 {
		return "Questions"
	}
	first := q.page.Offset + 1
	last := q.page.Offset + len(q.page.Items)
	return fmt.Sprintf("Questions %d-%d of %d", first, last, q.page.Total)
}

func (m *Model) selectedQuestion() *lexam.Question {
	q := m.questions
	if q.selectedRow < 0 || q.selectedRow >= len(q.page.Items) {
		return nil
	}
	return &q.page.Items[q.selectedRow]
}

func (m Model) formatQuestionRow(item lexam.Question, width int, selected bool) string {
	styles := m.theme.Styles()

	year := fmt.Sprintf("%d", item.Year)
	course := truncate(item.Course, 24)
	area := truncate(item.Area, 12)
	lang := item.Language

	meta := fmt.Sprintf("%s  %-24s %-12s %s", year, course, area, lang)
	textWidth := max(width-len(meta)-3, 10)
	preview := truncate(firstLine(item.Question), textWidth)

	line := meta + "  " + preview
	if selected {
		return styles.Selected.Width(width).Render(line)
	}
	return styles.Text.Width(width).Render(line)
}

// renderQuestionDetail shows the full question text and its variants.
func (m Model) renderQuestionDetail(item lexam.Question, width, height int) string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(item.ID))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%s · %s · %d · %s", item.Course, item.Area, item.Year, item.Jurisdiction)))
	b.WriteString("\n")

	text := lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(item.Question))
	b.WriteString(styles.Text.Render(text))
	b.WriteString("\n")

	for _, v := range item.Variants {
		b.WriteString(styles.InfoText.Render(v.Config))
		b.WriteString(styles.FaintText.Render(" (" + v.Split + ")"))
		if choices := v.ChoiceList(); len(choices) > 0 {
			gold := -1
			if v.Gold != nil {
				gold = *v.Gold
			}
			for ci, choice := range choices {
				marker := "  "
				style := styles.MutedText
				if ci == gold {
					marker = "✓ "
					style = styles.SuccessText
				}
				b.WriteString("\n  " + marker + style.Render(truncate(choice, width-6)))
			}
		} else if v.Answer != "" {
			b.WriteString("\n  " + styles.MutedText.Render(truncate(firstLine(v.Answer), width-4)))
		}
		b.WriteString("\n")
	}

	lines := strings.Split(b.String(), "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
