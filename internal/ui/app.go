// Package ui provides a Bubble Tea-based TUI for lexview.
package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexam-dev/lexview/internal/filter"
	"github.com/lexam-dev/lexview/internal/lexam"
	"github.com/lexam-dev/lexview/internal/prefs"
	"github.com/lexam-dev/lexview/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewQuestions
	ViewExperiments
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Client     *lexam.Client
	Store      *state.Store
	PollTick   time.Duration
	ThemeName  string
	JudgeModel string
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	client     *lexam.Client
	store      *state.Store
	prefsPath  string
	pollTick   time.Duration
	judgeModel string

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	confirm     *confirmAction
	statusMsg   string
	statusAt    time.Time

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// View state
	dash      dashboardState
	questions questionsState
	exps      experimentsState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = 2 * time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:        ctx,
		client:     opts.Client,
		store:      opts.Store,
		prefsPath:  prefsPath,
		pollTick:   pollTick,
		judgeModel: opts.JudgeModel,
		theme:      GetTheme(themeName),

		currentView: ViewDashboard,
		dash:        newDashboardState(),
		questions:   newQuestionsState(),
		exps:        newExperimentsState(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.client != nil {
		// Initial unfiltered fetches seed the question list and the
		// viable filter universes.
		cmds = append(cmds,
			fetchQuestionsCmd(m.ctx, m.client, m.questions.fetchGen, m.questions.query.Encode()),
			fetchFiltersCmd(m.ctx, m.client, m.questions.fetchGen, m.questions.query.EncodeFilters()),
			fetchDatasetStatsCmd(m.ctx, m.client),
		)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeInputs()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.clampExperimentRow()
		m.refreshDetailFromSnapshot()
		m.ensureTrackers()
		return m, nil

	case debounceMsg:
		return m.handleDebounce(msg)

	case questionsMsg:
		return m.handleQuestionsMsg(msg)

	case filtersMsg:
		return m.handleFiltersMsg(msg)

	case dashboardMsg:
		return m.handleDashboardMsg(msg)

	case courseSummaryMsg:
		return m.handleCourseSummaryMsg(msg)

	case datasetStatsMsg:
		// Best effort: the overview just omits variant totals on error.
		if msg.err == nil {
			m.dash.stats = msg.stats
		}
		return m, nil

	case experimentMsg:
		return m.handleExperimentMsg(msg)

	case answersMsg:
		return m.handleAnswersMsg(msg)

	case judgmentsMsg:
		return m.handleJudgmentsMsg(msg)

	case statsMsg:
		return m.handleStatsMsg(msg)

	case actionMsg:
		return m.handleActionMsg(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.confirm != nil {
		return m.renderConfirm()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}

	// The create/edit form owns the keyboard while open so typed
	// characters never trigger global bindings.
	if m.currentView == ViewExperiments && m.exps.mode == expModeForm {
		return m.handleFormKey(msg)
	}

	// Global keys
	switch msg.String() {
	case "ctrl+c":
		m.stopTrackers()
		return m, tea.Quit

	case "q":
		if m.atTopLevel() {
			m.stopTrackers()
			return m, tea.Quit
		}

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, JudgeModel: m.judgeModel})
		}
		return m, nil

	case "1":
		return m.switchView(ViewDashboard)

	case "2":
		return m.switchView(ViewQuestions)

	case "3":
		return m.switchView(ViewExperiments)

	case "tab":
		if m.currentView == ViewQuestions {
			m.questions.focusFilters = !m.questions.focusFilters
			return m, nil
		}
		next := View((int(m.currentView) + 1) % 3)
		return m.switchView(next)
	}

	// View-specific keys
	switch m.currentView {
	case ViewDashboard:
		return m.handleDashboardKey(msg)
	case ViewQuestions:
		return m.handleQuestionsKey(msg)
	case ViewExperiments:
		return m.handleExperimentsKey(msg)
	}

	return m, nil
}

// atTopLevel reports whether q should quit rather than navigate back.
func (m Model) atTopLevel() bool {
	return m.currentView != ViewExperiments || m.exps.mode == expModeList
}

// switchView changes the active view, fetching what it needs on entry.
func (m Model) switchView(v View) (Model, tea.Cmd) {
	if m.currentView == v {
		return m, nil
	}
	m.currentView = v

	switch v {
	case ViewDashboard:
		var cmds []tea.Cmd
		if m.client != nil {
			if m.dash.needsFetch() {
				cmds = append(cmds, fetchDashboardCmd(m.ctx, m.client, m.dash.encode()))
			}
			if m.dash.stats == nil {
				cmds = append(cmds, fetchDatasetStatsCmd(m.ctx, m.client))
			}
		}
		return m, tea.Batch(cmds...)
	case ViewExperiments:
		m.clampExperimentRow()
	}
	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	// Refresh the detail row when a background job just finished so the
	// final counts appear without waiting for another keypress.
	if cmd := m.trackerFollowUp(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	if !m.statusAt.IsZero() && time.Since(m.statusAt) > 6*time.Second {
		m.statusMsg = ""
		m.statusAt = time.Time{}
	}

	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// setStatus records a transient message for the header.
func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusAt = time.Now()
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.setStatus(truncate(err.Error(), 80))
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.renderDashboard()
	case ViewQuestions:
		return m.renderQuestions()
	case ViewExperiments:
		return m.renderExperiments()
	default:
		return ""
	}
}

// contentHeight is the rows left for the active view below the header
// and command bar.
func (m Model) contentHeight() int {
	h := m.height - 2
	if h < 1 {
		return 1
	}
	return h
}

// handleDashboardMsg stores a filtered dashboard payload.
func (m Model) handleDashboardMsg(msg dashboardMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.dash.filtered = msg.dashboard
	return m, nil
}

func (m Model) handleCourseSummaryMsg(msg courseSummaryMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.dash.courseSummary = msg.rows
	return m, nil
}

// handleActionMsg reports a mutation outcome and refreshes affected data.
func (m Model) handleActionMsg(msg actionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	if msg.note != "" {
		m.setStatus(msg.note)
	}
	if msg.toList {
		m.exps.mode = expModeList
		m.exps.detail = nil
		m.exps.detailID = 0
		m.stopTrackers()
	}

	var cmds []tea.Cmd
	if msg.refreshID > 0 && m.client != nil {
		cmds = append(cmds, fetchExperimentCmd(m.ctx, m.client, msg.refreshID))
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return m, tea.Batch(cmds...)
}

// applyUniverses merges a /api/filters payload into a query state and
// reports whether any selection was pruned.
func applyUniverses(q *filter.QueryState, opts lexam.FilterOptions) bool {
	return q.SyncUniverses(map[string]filter.Universe{
		filter.DimConfig:       universeFromStrings(opts.Configs),
		filter.DimSplit:        universeFromStrings(opts.Splits),
		filter.DimArea:         universeFromStrings(opts.Areas),
		filter.DimLanguage:     universeFromStrings(opts.Languages),
		filter.DimCourse:       universeFromStrings(opts.Courses),
		filter.DimJurisdiction: universeFromStrings(opts.Jurisdictions),
		filter.DimYear:         universeFromInts(opts.Years),
	})
}

func universeFromStrings(values []string) filter.Universe {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return filter.NewUniverse(out...)
}

func universeFromInts(values []int) filter.Universe {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return filter.NewUniverse(out...)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
