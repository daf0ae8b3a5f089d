// Package ui provides the terminal user interface for lexview.
//
// # Architecture Overview
//
// The UI is a Bubble Tea application. A single root Model owns all view
// state; messages arrive from keyboard input, the poll tick, and command
// completions, and View renders the active screen with Lipgloss.
//
// # Package Structure
//
//   - app.go: root Model, Options, Update dispatch, and the Run function
//   - commands.go: message types and the tea.Cmd constructors that call the API
//   - dashboard.go: aggregate dataset view with config/language cycling
//   - questions.go: question browser with the multi-select filter panel
//   - experiments.go: experiment list and the create/edit form
//   - experiment_detail.go: detail screen, job progress, answers, judgments, stats
//   - theme.go / style_helpers.go / layout.go: colors and rendering primitives
//
// # Views
//
// Three top-level views are available on the 1/2/3 keys:
//
//   - Dashboard: dataset totals and distribution charts, with an optional
//     per-course summary table
//   - Questions: paginated question list behind seven multi-select filter
//     dimensions plus two tri-state toggles
//   - Experiments: experiment lifecycle management, from creation through
//     answer generation, judging, and result statistics
//
// # Data Flow
//
// The dashboard and experiment list refresh from state.Store on every poll
// tick. Everything else is fetched on demand by commands in commands.go.
// Filter mutations coalesce through a 150ms debounce, and every questions
// request carries a generation number so a slow, superseded response can
// never overwrite newer results. Long-running generation and judging jobs
// are followed by progress.Tracker instances owned by the detail screen.
//
// # Key Bindings
//
//   - 1/2/3 or Tab: switch views
//   - j/k, g/G: navigate lists
//   - Space: toggle the focused filter option
//   - [/]: page through results
//   - Enter: open detail / full text
//   - T: cycle theme (persisted to prefs)
//   - ?: help overlay
//   - q or Ctrl+C: quit
package ui
