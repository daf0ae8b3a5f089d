package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSyncUniverses_Idempotent(t *testing.T) {
	q := NewQueryState()
	full := NewUniverse("a", "b", "c", "d")
	q.SetUniverse(DimCourse, full)
	sel := q.Selection(DimCourse)
	sel.ToggleAll()
	sel.ToggleOne("a", full)
	sel.ToggleOne("b", full)
	sel.ToggleOne("c", full)

	narrowed := map[string]Universe{DimCourse: NewUniverse("a", "c")}
	if !q.SyncUniverses(narrowed) {
		t.Fatalf("first sync should report a change")
	}
	if q.SyncUniverses(narrowed) {
		t.Fatalf("second sync with identical universes should be a no-op")
	}
}

// Selecting 3 of 4 areas, then the server narrowing the viable list to 2 of
// those 3, must leave exactly those 2 explicitly selected.
func TestSyncUniverses_NarrowingKeepsExplicitSurvivors(t *testing.T) {
	q := NewQueryState()
	full := NewUniverse("Private", "Public", "Criminal", "Interdisciplinary")
	q.SetUniverse(DimArea, full)

	sel := q.Selection(DimArea)
	sel.ToggleOne("Interdisciplinary", full) // all minus one = 3 of 4

	narrowed := NewUniverse("Private", "Criminal")
	if !q.SyncUniverses(map[string]Universe{DimArea: narrowed}) {
		t.Fatalf("sync should report a change")
	}

	if sel.State() != Partial {
		t.Fatalf("state = %v, want Partial (not All, not the original 3)", sel.State())
	}
	got := sel.Values(q.Universe(DimArea))
	want := []string{"Private", "Criminal"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("surviving selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncUniverses_AllAndNoneNeverPruned(t *testing.T) {
	q := NewQueryState()
	q.Selection(DimSplit).ToggleAll() // None
	// DimConfig stays All.

	changed := q.SyncUniverses(map[string]Universe{
		DimConfig: NewUniverse("open_question"),
		DimSplit:  NewUniverse("dev"),
	})
	if changed {
		t.Fatalf("sync over All/None selections reported a change")
	}
	if q.Selection(DimConfig).State() != All || q.Selection(DimSplit).State() != None {
		t.Fatalf("states = %v %v, want All None",
			q.Selection(DimConfig).State(), q.Selection(DimSplit).State())
	}
	if q.ConsumeSuppressedRefetch() {
		t.Fatalf("no mutation happened, nothing to suppress")
	}
}

func TestSyncUniverses_SuppressesExactlyOneRefetch(t *testing.T) {
	q := NewQueryState()
	full := NewUniverse("x", "y", "z")
	q.SetUniverse(DimJurisdiction, full)
	sel := q.Selection(DimJurisdiction)
	sel.ToggleOne("z", full) // {x, y}

	q.SyncUniverses(map[string]Universe{DimJurisdiction: NewUniverse("x")})
	if !q.ConsumeSuppressedRefetch() {
		t.Fatalf("pruning should suppress the next refetch")
	}
	if q.ConsumeSuppressedRefetch() {
		t.Fatalf("suppression must clear after one consumption")
	}
}

func TestSyncUniverses_UpdatesStoredUniverses(t *testing.T) {
	q := NewQueryState()
	years := NewUniverse(2023, 2022, 2021)
	q.SyncUniverses(map[string]Universe{DimYear: years})
	got := q.Universe(DimYear)
	want := Universe{"2023", "2022", "2021"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stored universe mismatch (-want +got):\n%s", diff)
	}
}
