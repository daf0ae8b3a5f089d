package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexam-dev/lexview/internal/lexam"
	"github.com/lexam-dev/lexview/internal/progress"
)

// ensureTrackers resumes progress polling for the open detail row. The
// nil-safe Running guard keeps this idempotent: re-entering the view or a
// fresh snapshot never spawns a second loop for the same job.
func (m *Model) ensureTrackers() {
	e := &m.exps
	if e.detail == nil || m.client == nil {
		return
	}
	id := e.detail.ID

	if e.detail.Status == "generating" && !e.genTracker.Running() {
		e.genTracker = progress.Start(m.ctx, m.pollTick, func(ctx context.Context) (lexam.ProgressReport, error) {
			return m.client.FetchGenerationProgress(ctx, id)
		})
		e.genWasRunning = true
	}
	if e.detail.Status == "judging" && !e.judgeTracker.Running() {
		judge := m.judgeModel
		e.judgeTracker = progress.Start(m.ctx, m.pollTick, func(ctx context.Context) (lexam.ProgressReport, error) {
			return m.client.FetchJudgeProgress(ctx, id, judge)
		})
		e.judgeWasRunning = true
	}
}

// stopTrackers tears down both poll loops. Called on quit and whenever the
// detail row is abandoned.
func (m *Model) stopTrackers() {
	m.exps.genTracker.Stop()
	m.exps.judgeTracker.Stop()
	m.exps.genTracker = nil
	m.exps.judgeTracker = nil
	m.exps.genWasRunning = false
	m.exps.judgeWasRunning = false
}

// trackerFollowUp notices a job finishing between ticks and refreshes the
// detail row so final counts and status land promptly.
func (m *Model) trackerFollowUp() tea.Cmd {
	e := &m.exps
	var refresh bool

	if e.genWasRunning && !e.genTracker.Running() {
		e.genWasRunning = false
		refresh = true
	}
	if e.judgeWasRunning && !e.judgeTracker.Running() {
		e.judgeWasRunning = false
		refresh = true
	}
	if !refresh || e.detailID == 0 || m.client == nil {
		return nil
	}
	return fetchExperimentCmd(m.ctx, m.client, e.detailID)
}

func (m *Model) resizeInputs() {
	// Text inputs track the window so long model names stay visible.
	w := max(20, m.width/2-8)
	m.exps.nameInput.Width = w
	m.exps.modelInput.Width = w
}

// Message handlers

func (m Model) handleExperimentMsg(msg experimentMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	if msg.exp == nil || msg.exp.ID != m.exps.detailID {
		return m, nil
	}
	m.exps.detail = msg.exp
	m.ensureTrackers()
	return m, nil
}

func (m Model) handleAnswersMsg(msg answersMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.exps.answers = msg.page
	if m.exps.answerRow >= len(msg.page.Items) {
		m.exps.answerRow = max(0, len(msg.page.Items)-1)
	}
	return m, nil
}

func (m Model) handleJudgmentsMsg(msg judgmentsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.exps.judgments = msg.page
	if m.exps.judgmentRow >= len(msg.page.Items) {
		m.exps.judgmentRow = max(0, len(msg.page.Items)-1)
	}
	return m, nil
}

func (m Model) handleStatsMsg(msg statsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.exps.stats = msg.stats
	m.exps.byQuestion = msg.byQuestion
	m.exps.summary = msg.summary
	m.exps.compare = msg.compare
	return m, nil
}

// Key handlers

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.exps
	exp := e.detail
	if exp == nil {
		if msg.String() == "esc" {
			e.mode = expModeList
		}
		return m, nil
	}
	id := exp.ID

	switch msg.String() {
	case "esc":
		e.mode = expModeList
		e.detail = nil
		e.detailID = 0
		m.stopTrackers()
		return m, nil

	case "g":
		if exp.Busy() {
			m.setStatus("a job is already running on this experiment")
			return m, nil
		}
		return m, actionCmd("generation started", id, false, func() error {
			return m.client.StartGeneration(m.ctx, id)
		})

	case "j":
		if exp.Busy() {
			m.setStatus("a job is already running on this experiment")
			return m, nil
		}
		if exp.AnswerCount == 0 {
			m.setStatus("no answers to judge yet")
			return m, nil
		}
		judge := m.judgeModel
		return m, actionCmd("judging started with "+judge, id, false, func() error {
			return m.client.StartJudging(m.ctx, id, judge)
		})

	case "a":
		e.mode = expModeAnswers
		e.answerRow = 0
		e.showFull = false
		return m, fetchAnswersCmd(m.ctx, m.client, id, 0, e.pageLimit)

	case "J":
		e.mode = expModeJudgments
		e.judgmentRow = 0
		e.judgeFilter = ""
		e.showFull = false
		return m, fetchJudgmentsCmd(m.ctx, m.client, id, 0, e.pageLimit, "")

	case "t":
		e.mode = expModeStats
		return m, fetchStatsCmd(m.ctx, m.client, id)

	case "x":
		if exp.Busy() {
			m.setStatus("a job is already running on this experiment")
			return m, nil
		}
		m.askConfirm(
			fmt.Sprintf("Delete all %d answers?", exp.AnswerCount),
			"Judgments on those answers are removed too.",
			actionCmd("answers deleted", id, false, func() error {
				return m.client.DeleteAnswers(m.ctx, id)
			}),
		)
		return m, nil

	case "X":
		if exp.Busy() {
			m.setStatus("a job is already running on this experiment")
			return m, nil
		}
		m.askConfirm(
			fmt.Sprintf("Delete all %d judgments?", exp.JudgmentCount),
			"Generated answers are kept.",
			actionCmd("judgments deleted", id, false, func() error {
				return m.client.DeleteJudgments(m.ctx, id, "")
			}),
		)
		return m, nil

	case "c":
		cfg := exp.FilterConfig
		return m, func() tea.Msg {
			n, err := m.client.PreviewQuestionCount(m.ctx, id, cfg)
			if err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{note: fmt.Sprintf("%d variants match the experiment filter", n)}
		}

	case "R":
		m.askConfirm(
			"Reset experiment status?",
			"Use this when a job crashed and left the experiment stuck.",
			actionCmd("status reset", id, false, func() error {
				_, err := m.client.ResetStatus(m.ctx, id)
				return err
			}),
		)
		return m, nil
	}
	return m, nil
}

func (m Model) handleAnswersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.exps
	switch msg.String() {
	case "esc":
		if e.showFull {
			e.showFull = false
			return m, nil
		}
		e.mode = expModeDetail
		return m, nil
	case "j", "down":
		if e.answerRow < len(e.answers.Items)-1 {
			e.answerRow++
		}
	case "k", "up":
		if e.answerRow > 0 {
			e.answerRow--
		}
	case "enter", "v":
		e.showFull = !e.showFull
	case "]", "n":
		if e.answers.Offset+e.answers.Limit < e.answers.Total {
			return m, fetchAnswersCmd(m.ctx, m.client, e.detailID, e.answers.Offset+e.answers.Limit, e.pageLimit)
		}
	case "[", "p":
		if e.answers.Offset > 0 {
			return m, fetchAnswersCmd(m.ctx, m.client, e.detailID, max(0, e.answers.Offset-e.answers.Limit), e.pageLimit)
		}
	}
	return m, nil
}

func (m Model) handleJudgmentsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.exps
	switch msg.String() {
	case "esc":
		if e.showFull {
			e.showFull = false
			return m, nil
		}
		e.mode = expModeDetail
		return m, nil
	case "j", "down":
		if e.judgmentRow < len(e.judgments.Items)-1 {
			e.judgmentRow++
		}
	case "k", "up":
		if e.judgmentRow > 0 {
			e.judgmentRow--
		}
	case "enter", "v":
		e.showFull = !e.showFull
	case "m":
		e.judgeFilter = m.nextJudgeFilter()
		e.judgmentRow = 0
		return m, fetchJudgmentsCmd(m.ctx, m.client, e.detailID, 0, e.pageLimit, e.judgeFilter)
	case "]", "n":
		if e.judgments.Offset+e.judgments.Limit < e.judgments.Total {
			return m, fetchJudgmentsCmd(m.ctx, m.client, e.detailID, e.judgments.Offset+e.judgments.Limit, e.pageLimit, e.judgeFilter)
		}
	case "[", "p":
		if e.judgments.Offset > 0 {
			return m, fetchJudgmentsCmd(m.ctx, m.client, e.detailID, max(0, e.judgments.Offset-e.judgments.Limit), e.pageLimit, e.judgeFilter)
		}
	}
	return m, nil
}

// nextJudgeFilter cycles all -> each judge model on the experiment -> all.
func (m Model) nextJudgeFilter() string {
	e := m.exps
	if e.detail == nil || len(e.detail.Judges) == 0 {
		return ""
	}
	if e.judgeFilter == "" {
		return e.detail.Judges[0].Model
	}
	for i, j := range e.detail.Judges {
		if j.Model == e.judgeFilter {
			if i+1 < len(e.detail.Judges) {
				return e.detail.Judges[i+1].Model
			}
			return ""
		}
	}
	return ""
}

func (m Model) handleStatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.exps.mode = expModeDetail
	}
	return m, nil
}

// Rendering

func (m Model) renderExperimentDetail() string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()
	e := m.exps

	if e.detail == nil {
		msg := styles.MutedText.Render("Loading experiment...")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}
	exp := *e.detail
	inner := m.width - 4

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(exp.Name))
	b.WriteString("  ")
	b.WriteString(styles.StatusStyle(exp.Status).Render(exp.Status))
	b.WriteString("\n")
	if exp.Description != "" {
		b.WriteString(styles.MutedText.Render(truncate(exp.Description, inner)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	writeField := func(label, value string) {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-14s", label)))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}
	writeField("Model", exp.ModelName)
	writeField("Temperature", fmt.Sprintf("%.2f", exp.Temperature))
	writeField("Max tokens", fmt.Sprintf("%d", exp.MaxTokens))
	writeField("Runs/variant", fmt.Sprintf("%d", exp.NAnswers))
	writeField("Answers", fmt.Sprintf("%d", exp.AnswerCount))
	writeField("Judgments", fmt.Sprintf("%d", exp.JudgmentCount))

	if len(exp.Judges) > 0 {
		var judges []string
		for _, j := range exp.Judges {
			judges = append(judges, fmt.Sprintf("%s (%d)", truncate(j.Model, 30), j.Count))
		}
		writeField("Judges", strings.Join(judges, ", "))
	}

	if section := m.renderProgressSection(inner); section != "" {
		b.WriteString("\n")
		b.WriteString(section)
	}

	title := fmt.Sprintf("Experiment #%d", exp.ID)
	return m.renderTitledBox(title, b.String(), m.width, contentHeight, true)
}

// renderProgressSection renders live generation/judging progress while a
// tracker is running, or its final report right after.
func (m Model) renderProgressSection(width int) string {
	var parts []string
	if s := m.renderTrackerProgress("Generation", m.exps.genTracker, width); s != "" {
		parts = append(parts, s)
	}
	if s := m.renderTrackerProgress("Judging", m.exps.judgeTracker, width); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderTrackerProgress(label string, t *progress.Tracker, width int) string {
	if t == nil {
		return ""
	}
	report, pollErr := t.Latest()
	if report.Total == 0 && report.Status == "" {
		return ""
	}
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(label))
	b.WriteString(" ")
	b.WriteString(styles.MutedText.Render(report.Status))
	b.WriteString("\n")

	barWidth := max(width-30, 10)
	b.WriteString(styles.InfoText.Render(renderBar(report.Done(), max(report.Total, 1), barWidth)))
	b.WriteString(styles.Text.Render(fmt.Sprintf(" %d/%d", report.Done(), report.Total)))
	if report.Failed > 0 {
		b.WriteString(styles.DangerText.Render(fmt.Sprintf(" (%d failed)", report.Failed)))
	}
	b.WriteString("\n")

	b.WriteString(styles.MutedText.Render(fmt.Sprintf("elapsed %s  eta %s  %.1f/s",
		formatClock(report.Elapsed), formatClock(report.ETA), report.Rate)))
	b.WriteString("\n")

	if report.ErrorMessage != "" {
		b.WriteString(styles.DangerText.Render(truncate(report.ErrorMessage, width)))
		b.WriteString("\n")
	}
	if pollErr != nil {
		b.WriteString(styles.WarningText.Render("progress poll failed, retrying"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderAnswers() string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()
	e := m.exps

	if e.showFull {
		if e.answerRow < len(e.answers.Items) {
			return m.renderAnswerFull(e.answers.Items[e.answerRow])
		}
		// Row vanished under us; fall through to the table.
	}

	var b strings.Builder
	header := fmt.Sprintf("%-14s %-18s %-4s %-3s %8s %8s  %s",
		"Question", "Config", "Run", "MCQ", "in-tok", "out-tok", "Answer")
	b.WriteString(styles.FaintText.Render(header))
	b.WriteString("\n")

	if len(e.answers.Items) == 0 {
		b.WriteString(styles.MutedText.Render("No answers"))
	}

	for i, a := range e.answers.Items {
		if i >= contentHeight-4 {
			break
		}
		mcq := "-"
		style := styles.MutedText
		if a.MCQCorrect != nil {
			if *a.MCQCorrect {
				mcq = "✓"
				style = styles.SuccessText
			} else {
				mcq = "✗"
				style = styles.DangerText
			}
		}
		line := fmt.Sprintf("%-14s %-18s %-4d ",
			truncate(a.QuestionID, 14), truncate(a.Config, 18), a.RunIndex)
		tail := fmt.Sprintf(" %8s %8s  %s",
			formatTokens(a.InputTokens), formatTokens(a.OutputTokens),
			truncate(firstLine(a.AnswerText), max(m.width-70, 10)))

		if i == e.answerRow {
			b.WriteString(styles.Selected.Render(line + mcq + "  " + tail))
		} else {
			b.WriteString(styles.Text.Render(line) + style.Render(mcq) + "  " + styles.Text.Render(tail))
		}
		b.WriteString("\n")
	}

	title := fmt.Sprintf("Answers %d-%d of %d", e.answers.Offset+1,
		e.answers.Offset+len(e.answers.Items), e.answers.Total)
	if e.answers.Total == 0 {
		title = "Answers"
	}
	return m.renderTitledBox(title, b.String(), m.width, contentHeight, true)
}

// renderAnswerFull shows one answer with its thinking trace, when present,
// separated from the final answer.
func (m Model) renderAnswerFull(a lexam.Answer) string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()
	inner := m.width - 6

	var b strings.Builder
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%s · %s · run %d · %s", a.QuestionID, a.Config, a.RunIndex, a.ModelName)))
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Question"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Foreground(lipgloss.Color(m.theme.Text)).Render(strings.TrimSpace(a.QuestionText)))
	b.WriteString("\n\n")

	trace, answer, hasTrace := extractThinking(a.AnswerText)
	if hasTrace {
		b.WriteString(styles.AccentText.Bold(true).Render("Thinking"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(inner).Foreground(lipgloss.Color(m.theme.Faint)).Render(strings.TrimSpace(trace)))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.AccentText.Bold(true).Render("Answer"))
	if a.ExtractedLetter != "" {
		b.WriteString(styles.InfoText.Render("  extracted: " + a.ExtractedLetter))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Foreground(lipgloss.Color(m.theme.Text)).Render(strings.TrimSpace(answer)))
	b.WriteString("\n\n")

	if a.GoldAnswer != "" {
		b.WriteString(styles.AccentText.Bold(true).Render("Reference"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(inner).Foreground(lipgloss.Color(m.theme.Muted)).Render(truncate(a.GoldAnswer, 800)))
	}

	lines := strings.Split(b.String(), "\n")
	if len(lines) > contentHeight-2 {
		lines = lines[:contentHeight-2]
	}
	return m.renderTitledBox("Answer #"+fmt.Sprint(a.ID), strings.Join(lines, "\n"), m.width, contentHeight, true)
}

func (m Model) renderJudgments() string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()
	e := m.exps

	if e.showFull {
		if e.judgmentRow < len(e.judgments.Items) {
			return m.renderJudgmentFull(e.judgments.Items[e.judgmentRow])
		}
	}

	var b strings.Builder
	header := fmt.Sprintf("%-14s %-18s %-24s %6s  %s",
		"Question", "Config", "Judge", "Score", "Judgment")
	b.WriteString(styles.FaintText.Render(header))
	b.WriteString("\n")

	if len(e.judgments.Items) == 0 {
		b.WriteString(styles.MutedText.Render("No judgments"))
	}

	for i, j := range e.judgments.Items {
		if i >= contentHeight-4 {
			break
		}
		score := "  -  "
		var scoreRendered string
		if j.Score != nil {
			score = fmt.Sprintf("%.2f", *j.Score)
			scoreRendered = scoreStyle(*j.Score).Render(fmt.Sprintf("%6s", score))
		} else {
			scoreRendered = styles.MutedText.Render(fmt.Sprintf("%6s", score))
		}

		line := fmt.Sprintf("%-14s %-18s %-24s ",
			truncate(j.QuestionID, 14), truncate(j.Config, 18), truncate(j.JudgeModel, 24))
		tail := "  " + truncate(firstLine(j.JudgmentText), max(m.width-72, 10))

		if i == e.judgmentRow {
			b.WriteString(styles.Selected.Render(line + fmt.Sprintf("%6s", score) + tail))
		} else {
			b.WriteString(styles.Text.Render(line) + scoreRendered + styles.Text.Render(tail))
		}
		b.WriteString("\n")
	}

	judgeLabel := "all judges"
	if e.judgeFilter != "" {
		judgeLabel = e.judgeFilter
	}
	title := fmt.Sprintf("Judgments %d-%d of %d · %s", e.judgments.Offset+1,
		e.judgments.Offset+len(e.judgments.Items), e.judgments.Total, judgeLabel)
	if e.judgments.Total == 0 {
		title = "Judgments · " + judgeLabel
	}
	return m.renderTitledBox(title, b.String(), m.width, contentHeight, true)
}

func (m Model) renderJudgmentFull(j lexam.Judgment) string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()
	inner := m.width - 6

	var b strings.Builder
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%s · %s · judged by %s", j.QuestionID, j.Config, j.JudgeModel)))
	if j.Score != nil {
		b.WriteString("  ")
		b.WriteString(scoreStyle(*j.Score).Render(fmt.Sprintf("%.2f", *j.Score)))
	}
	b.WriteString("\n\n")

	writeBlock := func(title, text string, style lipgloss.Style) {
		if strings.TrimSpace(text) == "" {
			return
		}
		b.WriteString(styles.AccentText.Bold(true).Render(title))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(inner).Inherit(style).Render(strings.TrimSpace(text)))
		b.WriteString("\n\n")
	}

	writeBlock("Question", truncate(j.QuestionText, 600), styles.Text)
	writeBlock("Model answer", truncate(j.ModelAnswer, 800), styles.Text)
	writeBlock("Reference", truncate(j.GoldAnswer, 600), styles.MutedText)

	trace, rest, hasTrace := extractThinking(j.JudgmentText)
	if hasTrace {
		writeBlock("Judge thinking", truncate(trace, 600), styles.FaintText)
	}
	writeBlock("Judgment", truncate(rest, 800), styles.Text)

	lines := strings.Split(b.String(), "\n")
	if len(lines) > contentHeight-2 {
		lines = lines[:contentHeight-2]
	}
	return m.renderTitledBox("Judgment #"+fmt.Sprint(j.ID), strings.Join(lines, "\n"), m.width, contentHeight, true)
}

func (m Model) renderStats() string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()
	e := m.exps

	if e.stats == nil {
		msg := styles.MutedText.Render("Loading stats...")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}
	s := *e.stats

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("MCQ accuracy"))
	b.WriteString("\n")
	if s.MCQ.Total > 0 {
		b.WriteString(scoreStyle(s.MCQ.Accuracy).Render(fmt.Sprintf("%.1f%%", s.MCQ.Accuracy*100)))
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  %d/%d correct", s.MCQ.Correct, s.MCQ.Total)))
	} else {
		b.WriteString(styles.MutedText.Render("no MCQ answers"))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Open questions"))
	b.WriteString("\n")
	if s.Open.Judged > 0 {
		b.WriteString(scoreStyle(s.Open.AvgScore).Render(fmt.Sprintf("avg %.2f", s.Open.AvgScore)))
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  median %.2f  %d/%d judged", s.Open.MedianScore, s.Open.Judged, s.Open.Total)))
		b.WriteString("\n")
		maxCount := 0
		for _, bucket := range s.Open.ScoreDistribution {
			if bucket.Count > maxCount {
				maxCount = bucket.Count
			}
		}
		for _, bucket := range s.Open.ScoreDistribution {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-10s ", bucket.Range)))
			b.WriteString(styles.InfoText.Render(renderBar(bucket.Count, maxCount, max(leftWidth-24, 8))))
			b.WriteString(styles.Text.Render(fmt.Sprintf(" %d", bucket.Count)))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(styles.MutedText.Render("no judged answers"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Tokens"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("generation "))
	b.WriteString(styles.Text.Render(formatTokens(s.Tokens.GenerationInput) + " in / " + formatTokens(s.Tokens.GenerationOutput) + " out"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("judging    "))
	b.WriteString(styles.Text.Render(formatTokens(s.Tokens.JudgeInput) + " in / " + formatTokens(s.Tokens.JudgeOutput) + " out"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("total      "))
	b.WriteString(styles.Text.Bold(true).Render(formatTokens(s.Tokens.Total)))
	b.WriteString("\n")

	if sc := s.SelfConsistency; sc != nil && sc.TotalVariants > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Self-consistency"))
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(fmt.Sprintf("%d/%d unanimous (%s)",
			sc.Unanimous, sc.TotalVariants, percent(sc.Unanimous, sc.TotalVariants))))
		b.WriteString("\n")
	}

	left := m.renderTitledBox("Results", b.String(), leftWidth, contentHeight, false)
	right := m.renderTitledBox("Breakdown", m.renderStatsBreakdown(rightWidth-4), rightWidth, contentHeight, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderStatsBreakdown(width int) string {
	styles := m.theme.Styles()
	e := m.exps
	nameW := max(14, min(26, width-20))
	var b strings.Builder

	writeGroups := func(title string, rows []lexam.GroupStats) {
		if len(rows) == 0 {
			return
		}
		b.WriteString(styles.AccentText.Bold(true).Render(title))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%-*s %8s %8s", nameW, "", "mcq", "open")))
		b.WriteString("\n")
		for _, g := range rows {
			mcq := "    -"
			if g.MCQAccuracy != nil {
				mcq = fmt.Sprintf("%.1f%%", *g.MCQAccuracy*100)
			}
			open := "    -"
			if g.OpenAvgScore != nil {
				open = fmt.Sprintf("%.2f", *g.OpenAvgScore)
			}
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-*s ", nameW, truncate(g.Name, nameW))))
			b.WriteString(styles.Text.Render(fmt.Sprintf("%8s %8s", mcq, open)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeGroups("By area", e.stats.ByArea)
	writeGroups("By course", e.stats.ByCourse)

	if len(e.compare) > 0 {
		b.WriteString(styles.AccentText.Bold(true).Render("Judges"))
		b.WriteString("\n")
		for _, jc := range e.compare {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-26s ", truncate(jc.JudgeModel, 26))))
			b.WriteString(scoreStyle(jc.AvgScore).Render(fmt.Sprintf("%.2f", jc.AvgScore)))
			b.WriteString(styles.FaintText.Render(fmt.Sprintf("  med %.2f  n=%d", jc.MedianScore, jc.Judged)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Worst-scoring questions first surface where the model struggles.
	if len(e.byQuestion) > 0 {
		b.WriteString(styles.AccentText.Bold(true).Render("Questions"))
		b.WriteString("\n")
		shown := 0
		for _, qs := range e.byQuestion {
			if shown >= 10 {
				break
			}
			marker := "-"
			style := styles.MutedText
			if qs.MCQCorrect != nil {
				if *qs.MCQCorrect {
					marker, style = "✓", styles.SuccessText
				} else {
					marker, style = "✗", styles.DangerText
				}
			} else if qs.AvgScore != nil {
				marker = fmt.Sprintf("%.2f", *qs.AvgScore)
				style = scoreStyle(*qs.AvgScore)
			}
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-14s %-18s ", truncate(qs.QuestionID, 14), truncate(qs.Config, 18))))
			b.WriteString(style.Render(marker))
			b.WriteString("\n")
			shown++
		}
	}

	return b.String()
}
