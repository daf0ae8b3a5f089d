package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lexam-dev/lexview/internal/filter"
	"github.com/lexam-dev/lexview/internal/lexam"
)

func TestCycleSort(t *testing.T) {
	q := filter.NewQueryState()

	want := []struct {
		by  string
		dir string
	}{
		{"year", "asc"},
		{"year", "desc"},
		{"course", "asc"},
		{"course", "desc"},
		{"area", "asc"},
		{"area", "desc"},
		{"language", "asc"},
		{"language", "desc"},
		{"", "asc"},
		{"year", "asc"}, // wraps around
	}
	for i, step := range want {
		cycleSort(q)
		if q.SortBy != step.by || q.SortDir != step.dir {
			t.Fatalf("step %d: got (%q, %q), want (%q, %q)", i, q.SortBy, q.SortDir, step.by, step.dir)
		}
	}
}

func TestSelectionSummary(t *testing.T) {
	u := filter.NewUniverse("a", "b", "c")
	sel := filter.NewSelection()

	if got := selectionSummary(&sel, u); got != "all" {
		t.Errorf("all state = %q", got)
	}
	sel.ToggleAll()
	if got := selectionSummary(&sel, u); got != "none" {
		t.Errorf("none state = %q", got)
	}
	sel.ToggleOne("b", u)
	if got := selectionSummary(&sel, u); got != "1/3" {
		t.Errorf("partial state = %q", got)
	}
}

// A response tagged with a superseded generation must never overwrite
// state from a newer request.
func TestQuestionsResponseFencing(t *testing.T) {
	m := New(Options{})
	m.questions.fetchGen = 3
	m.questions.page = lexam.QuestionPage{Total: 10}

	stale := questionsMsg{gen: 2, page: lexam.QuestionPage{Total: 999}}
	updated, _ := m.handleQuestionsMsg(stale)
	m = updated.(Model)
	if m.questions.page.Total != 10 {
		t.Fatalf("stale response overwrote newer state: total = %d", m.questions.page.Total)
	}

	fresh := questionsMsg{gen: 3, page: lexam.QuestionPage{Total: 42}}
	updated, _ = m.handleQuestionsMsg(fresh)
	m = updated.(Model)
	if m.questions.page.Total != 42 {
		t.Fatalf("current response dropped: total = %d", m.questions.page.Total)
	}
}

// Only the newest debounce generation fires a refetch; earlier timers in
// the same burst are no-ops.
func TestDebounceSupersededGeneration(t *testing.T) {
	client, err := lexam.NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatal(err)
	}
	m := New(Options{Client: client})
	m.questions.debounceGen = 5

	_, cmd := m.handleDebounce(debounceMsg{gen: 4})
	if cmd != nil {
		t.Fatal("superseded debounce generation should not refetch")
	}

	updated, cmd := m.handleDebounce(debounceMsg{gen: 5})
	if cmd == nil {
		t.Fatal("current debounce generation should refetch")
	}
	if got := updated.(Model).questions.fetchGen; got != m.questions.fetchGen+1 {
		t.Fatalf("refetch should advance the fetch generation, got %d", got)
	}
}

// pruneSetup narrows a Partial area selection via a filters response, the
// path that schedules a suppressed debounce.
func pruneSetup(t *testing.T) Model {
	t.Helper()
	client, err := lexam.NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatal(err)
	}
	m := New(Options{Client: client})
	q := m.questions.query

	areas := filter.NewUniverse("Private", "Public", "Criminal")
	q.SetUniverse(filter.DimArea, areas)
	sel := q.Selection(filter.DimArea)
	sel.ToggleAll() // all -> none
	sel.ToggleOne("Private", areas)
	sel.ToggleOne("Public", areas)

	updated, cmd := m.handleFiltersMsg(filtersMsg{
		gen:  m.questions.fetchGen,
		opts: lexam.FilterOptions{Areas: []string{"Private"}},
	})
	if cmd == nil {
		t.Fatal("narrowing the universe should schedule a debounce")
	}
	return updated.(Model)
}

// The debounce a prune schedules must not produce an echo request, and
// the suppression spends itself on that one generation.
func TestDebounceSuppressedAfterPrune(t *testing.T) {
	m := pruneSetup(t)

	_, cmd := m.handleDebounce(debounceMsg{gen: m.questions.debounceGen})
	if cmd != nil {
		t.Fatal("the pruning-triggered debounce must be suppressed")
	}

	// The next user-triggered debounce goes through again.
	m.questions.debounceGen++
	_, cmd = m.handleDebounce(debounceMsg{gen: m.questions.debounceGen})
	if cmd == nil {
		t.Fatal("suppression must apply to exactly one refetch")
	}
}

// A toggle landing inside the prune's debounce window bumps the
// generation, so the suppression stays pinned to the prune's own timer
// and the user's refetch still goes out.
func TestToggleDuringPruneWindowStillRefetches(t *testing.T) {
	m := pruneSetup(t)
	pruneGen := m.questions.debounceGen

	if cmd := m.scheduleRefetch(); cmd == nil {
		t.Fatal("toggle should schedule a debounce")
	}
	userGen := m.questions.debounceGen
	if userGen == pruneGen {
		t.Fatal("toggle should advance the debounce generation")
	}

	// The prune's timer fires first and is simply stale.
	if _, cmd := m.handleDebounce(debounceMsg{gen: pruneGen}); cmd != nil {
		t.Fatal("superseded prune debounce must not refetch")
	}

	// The user's timer must not inherit the prune's suppression.
	updated, cmd := m.handleDebounce(debounceMsg{gen: userGen})
	if cmd == nil {
		t.Fatal("user-initiated refetch was swallowed by prune suppression")
	}
	if got := updated.(Model).questions.fetchGen; got != m.questions.fetchGen+1 {
		t.Fatalf("refetch should advance the fetch generation, got %d", got)
	}
}

// Pruned selections keep surviving values explicit instead of widening
// back to every option.
func TestApplyUniversesKeepsSurvivors(t *testing.T) {
	q := filter.NewQueryState()
	areas := filter.NewUniverse("Private", "Public", "Criminal", "Interdisciplinary")
	q.SetUniverse(filter.DimArea, areas)

	sel := q.Selection(filter.DimArea)
	sel.ToggleAll()
	sel.ToggleOne("Private", areas)
	sel.ToggleOne("Public", areas)
	sel.ToggleOne("Criminal", areas)

	applyUniverses(q, lexam.FilterOptions{
		Areas: []string{"Private", "Criminal"},
	})

	got := sel.Values(q.Universe(filter.DimArea))
	want := []string{"Private", "Criminal"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("surviving selection mismatch (-want +got):\n%s", diff)
	}
	if sel.State() != filter.Partial {
		t.Fatalf("selection widened to %v", sel.State())
	}
}

func TestFilterOptionCursorClamping(t *testing.T) {
	m := New(Options{})
	m.questions.filterRow = 2 // area
	m.questions.filterOpt = 5

	q := m.questions.query
	q.SetUniverse(filter.DimArea, filter.NewUniverse("Private", "Public"))
	m.clampFilterCursor()

	if m.questions.filterOpt != 1 {
		t.Fatalf("cursor not clamped, got %d", m.questions.filterOpt)
	}
}
