package ui

import (
	"context"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexam-dev/lexview/internal/lexam"
	"github.com/lexam-dev/lexview/internal/state"
)

// filterDebounce is how long a burst of filter toggles coalesces before
// a single refetch fires.
const filterDebounce = 150 * time.Millisecond

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// debounceMsg fires after the filter debounce window. gen identifies the
// burst; stale generations are dropped.
type debounceMsg struct {
	gen int
}

// questionsMsg carries a questions page. gen fences out responses from
// superseded requests.
type questionsMsg struct {
	gen  int
	page lexam.QuestionPage
	err  error
}

type filtersMsg struct {
	gen  int
	opts lexam.FilterOptions
	err  error
}

type dashboardMsg struct {
	dashboard *lexam.Dashboard
	err       error
}

type courseSummaryMsg struct {
	rows []lexam.CourseSummary
	err  error
}

type datasetStatsMsg struct {
	stats *lexam.Stats
	err   error
}

type experimentMsg struct {
	exp *lexam.Experiment
	err error
}

type answersMsg struct {
	page lexam.AnswerPage
	err  error
}

type judgmentsMsg struct {
	page lexam.JudgmentPage
	err  error
}

type statsMsg struct {
	stats      *lexam.ExperimentStats
	byQuestion []lexam.QuestionStats
	summary    []lexam.JudgeSummary
	compare    []lexam.JudgeComparison
	err        error
}

// actionMsg reports the outcome of a mutating request (create, delete,
// start generation, and so on). refreshID asks for a detail refetch.
type actionMsg struct {
	note      string
	err       error
	refreshID int
	toList    bool
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func debounceCmd(gen int) tea.Cmd {
	return tea.Tick(filterDebounce, func(time.Time) tea.Msg {
		return debounceMsg{gen: gen}
	})
}

func fetchQuestionsCmd(ctx context.Context, client *lexam.Client, gen int, query url.Values) tea.Cmd {
	return func() tea.Msg {
		page, err := client.FetchQuestions(ctx, query)
		return questionsMsg{gen: gen, page: page, err: err}
	}
}

func fetchFiltersCmd(ctx context.Context, client *lexam.Client, gen int, query url.Values) tea.Cmd {
	return func() tea.Msg {
		opts, err := client.FetchFilters(ctx, query)
		return filtersMsg{gen: gen, opts: opts, err: err}
	}
}

func fetchDashboardCmd(ctx context.Context, client *lexam.Client, query url.Values) tea.Cmd {
	return func() tea.Msg {
		dash, err := client.FetchDashboard(ctx, query)
		return dashboardMsg{dashboard: dash, err: err}
	}
}

func fetchCourseSummaryCmd(ctx context.Context, client *lexam.Client) tea.Cmd {
	return func() tea.Msg {
		rows, err := client.FetchCourseSummary(ctx)
		return courseSummaryMsg{rows: rows, err: err}
	}
}

func fetchDatasetStatsCmd(ctx context.Context, client *lexam.Client) tea.Cmd {
	return func() tea.Msg {
		stats, err := client.FetchStats(ctx)
		return datasetStatsMsg{stats: stats, err: err}
	}
}

func fetchExperimentCmd(ctx context.Context, client *lexam.Client, id int) tea.Cmd {
	return func() tea.Msg {
		exp, err := client.GetExperiment(ctx, id)
		return experimentMsg{exp: exp, err: err}
	}
}

func fetchAnswersCmd(ctx context.Context, client *lexam.Client, id, offset, limit int) tea.Cmd {
	return func() tea.Msg {
		page, err := client.FetchAnswers(ctx, id, offset, limit)
		return answersMsg{page: page, err: err}
	}
}

func fetchJudgmentsCmd(ctx context.Context, client *lexam.Client, id, offset, limit int, judgeModel string) tea.Cmd {
	return func() tea.Msg {
		page, err := client.FetchJudgments(ctx, id, offset, limit, judgeModel)
		return judgmentsMsg{page: page, err: err}
	}
}

// fetchStatsCmd gathers the full evaluation picture for the stats view.
// The by-question and judge endpoints are best-effort: the aggregate stats
// alone are enough to render.
func fetchStatsCmd(ctx context.Context, client *lexam.Client, id int) tea.Cmd {
	return func() tea.Msg {
		stats, err := client.FetchExperimentStats(ctx, id, "", "")
		if err != nil {
			return statsMsg{err: err}
		}
		msg := statsMsg{stats: stats}
		if rows, err := client.FetchStatsByQuestion(ctx, id, "", ""); err == nil {
			msg.byQuestion = rows
		}
		if summary, err := client.FetchJudgeSummary(ctx, id); err == nil {
			msg.summary = summary
		}
		if compare, err := client.CompareJudges(ctx, id); err == nil {
			msg.compare = compare
		}
		return msg
	}
}

// actionCmd runs a mutating request and reports its outcome.
func actionCmd(note string, refreshID int, toList bool, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{note: note, refreshID: refreshID, toList: toList}
	}
}
