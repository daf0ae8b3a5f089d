package ui

import (
	"testing"

	"github.com/lexam-dev/lexview/internal/filter"
	"github.com/lexam-dev/lexview/internal/lexam"
)

func TestCycleSingleWalksOptionsThenAll(t *testing.T) {
	q := filter.NewQueryState()
	q.SetUniverse(filter.DimConfig, filter.NewUniverse("open_question", "mcq_4_choices", "mcq_8_choices"))

	if got := singleLabel(q, filter.DimConfig); got != "all" {
		t.Fatalf("initial label = %q", got)
	}

	cycleSingle(q, filter.DimConfig)
	if got := singleLabel(q, filter.DimConfig); got != "open_question" {
		t.Fatalf("after first cycle = %q", got)
	}

	cycleSingle(q, filter.DimConfig)
	if got := singleLabel(q, filter.DimConfig); got != "mcq_4_choices" {
		t.Fatalf("after second cycle = %q", got)
	}

	cycleSingle(q, filter.DimConfig)
	cycleSingle(q, filter.DimConfig)
	if got := singleLabel(q, filter.DimConfig); got != "all" {
		t.Fatalf("cycle should wrap back to all, got %q", got)
	}
}

func TestCycleSingleEmptyUniverse(t *testing.T) {
	q := filter.NewQueryState()
	cycleSingle(q, filter.DimConfig)
	if got := singleLabel(q, filter.DimConfig); got != "all" {
		t.Fatalf("empty universe should stay at all, got %q", got)
	}
}

func TestDashboardFilterActive(t *testing.T) {
	d := newDashboardState()
	d.query.SetUniverse(filter.DimConfig, filter.NewUniverse("open_question", "mcq_4_choices"))

	if d.filterActive() {
		t.Fatal("no constraint should not count as active")
	}
	cycleSingle(d.query, filter.DimConfig)
	if !d.filterActive() {
		t.Fatal("a single-config constraint should count as active")
	}
}

func TestSeedUniversesOnlyOnce(t *testing.T) {
	d := newDashboardState()
	d.seedUniverses(lexam.FilterOptions{
		Configs:   []string{"open_question"},
		Languages: []string{"de", "en"},
	})
	// A later, narrowed payload must not clobber the full option list.
	d.seedUniverses(lexam.FilterOptions{
		Configs:   []string{},
		Languages: []string{"de"},
	})

	if got := len(d.query.Universe(filter.DimLanguage)); got != 2 {
		t.Fatalf("language universe reseeded, len = %d", got)
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(5, 10, 10); got != "█████░░░░░" {
		t.Errorf("renderBar(5,10,10) = %q", got)
	}
	if got := renderBar(0, 10, 4); got != "░░░░" {
		t.Errorf("renderBar(0,10,4) = %q", got)
	}
	// Tiny nonzero values still show at least one cell.
	if got := renderBar(1, 1000, 8); got != "█░░░░░░░" {
		t.Errorf("renderBar(1,1000,8) = %q", got)
	}
	if got := renderBar(10, 10, 6); got != "██████" {
		t.Errorf("renderBar(10,10,6) = %q", got)
	}
	if got := renderBar(3, 0, 6); got != "" {
		t.Errorf("renderBar with zero max = %q", got)
	}
}

func TestNextJudgeFilterCycles(t *testing.T) {
	m := New(Options{})
	m.exps.detail = &lexam.Experiment{
		Judges: []lexam.JudgeCount{
			{Model: "judge-a", Count: 3},
			{Model: "judge-b", Count: 1},
		},
	}

	if got := m.nextJudgeFilter(); got != "judge-a" {
		t.Fatalf("from all = %q", got)
	}
	m.exps.judgeFilter = "judge-a"
	if got := m.nextJudgeFilter(); got != "judge-b" {
		t.Fatalf("from judge-a = %q", got)
	}
	m.exps.judgeFilter = "judge-b"
	if got := m.nextJudgeFilter(); got != "" {
		t.Fatalf("from last judge = %q", got)
	}
}
