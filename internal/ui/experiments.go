package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexam-dev/lexview/internal/lexam"
	"github.com/lexam-dev/lexview/internal/progress"
)

// expMode enumerates the experiment view's sub-screens.
type expMode int

const (
	expModeList expMode = iota
	expModeForm
	expModeDetail
	expModeAnswers
	expModeJudgments
	expModeStats
)

type experimentsState struct {
	mode        expMode
	selectedRow int

	// Detail
	detailID int
	detail   *lexam.Experiment

	// Background job polling. Trackers are owned: started when a job is
	// seen running, stopped on teardown. wasRunning flags let the tick
	// handler notice the running -> stopped edge and refresh counts.
	genTracker      *progress.Tracker
	judgeTracker    *progress.Tracker
	genWasRunning   bool
	judgeWasRunning bool

	// Answers / judgments browsing
	answers     lexam.AnswerPage
	answerRow   int
	judgments   lexam.JudgmentPage
	judgmentRow int
	judgeFilter string
	pageLimit   int
	showFull    bool

	// Stats
	stats      *lexam.ExperimentStats
	byQuestion []lexam.QuestionStats
	summary    []lexam.JudgeSummary
	compare    []lexam.JudgeComparison

	// Create/edit form
	nameInput      textinput.Model
	modelInput     textinput.Model
	tempInput      textinput.Model
	maxTokensInput textinput.Model
	nAnswersInput  textinput.Model
	formFocus      int
	formErr        string
	formEditID     int
}

func newExperimentsState() experimentsState {
	name := textinput.New()
	name.Placeholder = "experiment name"
	name.CharLimit = 120
	name.Width = 40

	model := textinput.New()
	model.Placeholder = "model name"
	model.CharLimit = 200
	model.Width = 40

	numeric := func(placeholder string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 10
		in.Width = 12
		return in
	}

	return experimentsState{
		nameInput:      name,
		modelInput:     model,
		tempInput:      numeric("0.7"),
		maxTokensInput: numeric("2048"),
		nAnswersInput:  numeric("1"),
		pageLimit:      20,
	}
}

// formInputs returns the form fields in focus order.
func (e *experimentsState) formInputs() []*textinput.Model {
	return []*textinput.Model{
		&e.nameInput, &e.modelInput, &e.tempInput, &e.maxTokensInput, &e.nAnswersInput,
	}
}

func (e *experimentsState) focusFormField(i int) {
	inputs := e.formInputs()
	e.formFocus = ((i % len(inputs)) + len(inputs)) % len(inputs)
	for j, in := range inputs {
		if j == e.formFocus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// clampExperimentRow keeps the list cursor valid when the snapshot shrinks.
func (m *Model) clampExperimentRow() {
	count := len(m.snapshot.Experiments)
	if count == 0 {
		m.exps.selectedRow = 0
		return
	}
	if m.exps.selectedRow >= count {
		m.exps.selectedRow = count - 1
	}
}

func (m *Model) selectedExperiment() *lexam.Experiment {
	if m.exps.selectedRow < 0 || m.exps.selectedRow >= len(m.snapshot.Experiments) {
		return nil
	}
	return &m.snapshot.Experiments[m.exps.selectedRow]
}

// refreshDetailFromSnapshot keeps the open detail row in step with the
// poller, so status transitions show without an explicit refetch.
func (m *Model) refreshDetailFromSnapshot() {
	if m.exps.detailID == 0 {
		return
	}
	if exp, ok := m.snapshot.Experiment(m.exps.detailID); ok {
		m.exps.detail = &exp
	}
}

// handleExperimentsKey dispatches by sub-screen.
func (m Model) handleExperimentsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.exps.mode {
	case expModeList:
		return m.handleExperimentListKey(msg)
	case expModeDetail:
		return m.handleDetailKey(msg)
	case expModeAnswers:
		return m.handleAnswersKey(msg)
	case expModeJudgments:
		return m.handleJudgmentsKey(msg)
	case expModeStats:
		return m.handleStatsKey(msg)
	}
	return m, nil
}

func (m Model) handleExperimentListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.exps
	count := len(m.snapshot.Experiments)

	switch msg.String() {
	case "j", "down":
		if e.selectedRow < count-1 {
			e.selectedRow++
		}
	case "k", "up":
		if e.selectedRow > 0 {
			e.selectedRow--
		}
	case "g", "home":
		e.selectedRow = 0
	case "G", "end":
		e.selectedRow = max(0, count-1)
	case "enter":
		if exp := m.selectedExperiment(); exp != nil {
			return m.openDetail(exp.ID)
		}
	case "n":
		m.openForm(nil)
	case "e":
		if exp := m.selectedExperiment(); exp != nil {
			m.openForm(exp)
		}
	case "D":
		if exp := m.selectedExperiment(); exp != nil {
			if exp.Busy() {
				m.setStatus("experiment is busy; wait or reset its status first")
				return m, nil
			}
			id := exp.ID
			m.askConfirm(
				fmt.Sprintf("Delete experiment %q?", exp.Name),
				"All answers and judgments will be removed.",
				actionCmd("experiment deleted", 0, true, func() error {
					return m.client.DeleteExperiment(m.ctx, id)
				}),
			)
		}
	}
	return m, nil
}

// openDetail switches to the detail screen and refreshes the row.
func (m Model) openDetail(id int) (Model, tea.Cmd) {
	m.exps.mode = expModeDetail
	m.exps.detailID = id
	if exp, ok := m.snapshot.Experiment(id); ok {
		m.exps.detail = &exp
	}
	m.ensureTrackers()
	if m.client == nil {
		return m, nil
	}
	return m, fetchExperimentCmd(m.ctx, m.client, id)
}

// openForm prepares the create form. Editing prefills every field from
// the existing row so untouched values round-trip unchanged.
func (m *Model) openForm(exp *lexam.Experiment) {
	e := &m.exps
	e.mode = expModeForm
	e.formErr = ""
	if exp != nil {
		e.formEditID = exp.ID
		e.nameInput.SetValue(exp.Name)
		e.modelInput.SetValue(exp.ModelName)
		e.tempInput.SetValue(strconv.FormatFloat(exp.Temperature, 'g', -1, 64))
		e.maxTokensInput.SetValue(strconv.Itoa(exp.MaxTokens))
		e.nAnswersInput.SetValue(strconv.Itoa(exp.NAnswers))
	} else {
		e.formEditID = 0
		for _, in := range e.formInputs() {
			in.SetValue("")
		}
	}
	e.focusFormField(0)
}

// handleFormKey runs the create/edit form. Validation happens client-side
// before any request: a blank name never leaves the process.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.exps

	switch msg.String() {
	case "esc":
		e.mode = expModeList
		return m, nil

	case "tab", "down":
		e.focusFormField(e.formFocus + 1)
		return m, nil

	case "shift+tab", "up":
		e.focusFormField(e.formFocus - 1)
		return m, nil

	case "enter":
		return m.submitForm()
	}

	focused := e.formInputs()[e.formFocus]
	var cmd tea.Cmd
	*focused, cmd = focused.Update(msg)
	return m, cmd
}

// buildDraft validates the form and assembles the request body. Blank
// optional fields stay nil so a create takes the server defaults and an
// update leaves the stored values alone.
func (e *experimentsState) buildDraft() (lexam.ExperimentDraft, string) {
	name := strings.TrimSpace(e.nameInput.Value())
	if name == "" {
		return lexam.ExperimentDraft{}, "name is required"
	}

	draft := lexam.ExperimentDraft{Name: name}
	if model := strings.TrimSpace(e.modelInput.Value()); model != "" {
		draft.ModelName = &model
	}
	if v := strings.TrimSpace(e.tempInput.Value()); v != "" {
		temp, err := strconv.ParseFloat(v, 64)
		if err != nil || temp < 0 {
			return lexam.ExperimentDraft{}, "temperature must be a non-negative number"
		}
		draft.Temperature = &temp
	}
	if v := strings.TrimSpace(e.maxTokensInput.Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return lexam.ExperimentDraft{}, "max tokens must be a positive integer"
		}
		draft.MaxTokens = &n
	}
	if v := strings.TrimSpace(e.nAnswersInput.Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return lexam.ExperimentDraft{}, "runs per variant must be at least 1"
		}
		draft.NAnswers = &n
	}
	return draft, ""
}

func (m Model) submitForm() (Model, tea.Cmd) {
	e := &m.exps

	draft, errMsg := e.buildDraft()
	if errMsg != "" {
		e.formErr = errMsg
		return m, nil
	}
	if m.client == nil {
		return m, nil
	}

	if e.formEditID > 0 {
		id := e.formEditID
		return m, actionCmd("experiment updated", id, true, func() error {
			_, err := m.client.UpdateExperiment(m.ctx, id, draft)
			return err
		})
	}
	return m, actionCmd("experiment created", 0, true, func() error {
		_, err := m.client.CreateExperiment(m.ctx, draft)
		return err
	})
}

// Rendering

func (m Model) renderExperiments() string {
	switch m.exps.mode {
	case expModeForm:
		return m.renderExperimentForm()
	case expModeDetail:
		return m.renderExperimentDetail()
	case expModeAnswers:
		return m.renderAnswers()
	case expModeJudgments:
		return m.renderJudgments()
	case expModeStats:
		return m.renderStats()
	default:
		return m.renderExperimentList()
	}
}

func (m Model) renderExperimentList() string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()

	if len(m.snapshot.Experiments) == 0 {
		empty := styles.MutedText.Render("No experiments yet. Press n to create one.")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, empty)
	}

	var b strings.Builder
	header := fmt.Sprintf("%-4s %-28s %-28s %-12s %8s %8s %s",
		"ID", "Name", "Model", "Status", "Answers", "Judged", "Created")
	b.WriteString(styles.FaintText.Render(header))
	b.WriteString("\n")

	for i, exp := range m.snapshot.Experiments {
		if i >= contentHeight-4 {
			break
		}
		line := m.formatExperimentRow(exp, i == m.exps.selectedRow)
		b.WriteString(line)
		b.WriteString("\n")
	}

	title := fmt.Sprintf("Experiments (%d)", len(m.snapshot.Experiments))
	return m.renderTitledBox(title, b.String(), m.width, contentHeight, true)
}

func (m Model) formatExperimentRow(exp lexam.Experiment, selected bool) string {
	styles := m.theme.Styles()

	created := ""
	if ts := exp.ParsedCreatedAt(); !ts.IsZero() {
		created = ts.Format("2006-01-02 15:04")
	}

	meta := fmt.Sprintf("%-4d %-28s %-28s ",
		exp.ID, truncate(exp.Name, 28), truncate(exp.ModelName, 28))
	tail := fmt.Sprintf(" %8d %8d %s", exp.AnswerCount, exp.JudgmentCount, created)

	if selected {
		return styles.Selected.Render(meta + fmt.Sprintf("%-12s", exp.Status) + tail)
	}
	badge := styles.StatusStyle(exp.Status).Render(exp.Status)
	pad := strings.Repeat(" ", max(0, 12-len(exp.Status)-2))
	return styles.Text.Render(meta) + badge + pad + styles.Text.Render(tail)
}

func (m Model) renderExperimentForm() string {
	styles := m.theme.Styles()
	e := m.exps

	title := "New experiment"
	if e.formEditID > 0 {
		title = fmt.Sprintf("Edit experiment #%d", e.formEditID)
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")

	writeField := func(label string, in textinput.Model) {
		b.WriteString(styles.MutedText.Render(label))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	writeField("Name", e.nameInput)
	writeField("Model", e.modelInput)
	writeField("Temperature", e.tempInput)
	writeField("Max tokens", e.maxTokensInput)
	writeField("Runs per variant", e.nAnswersInput)

	if e.formErr != "" {
		b.WriteString(styles.DangerText.Render(e.formErr))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.FaintText.Render("enter: save   tab: next field   esc: cancel"))

	form := styles.Panel.Width(52).Render(b.String())
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, form)
}
