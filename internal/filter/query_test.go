package filter

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQueryState_EncodeDefaultsEmitOnlyPagination(t *testing.T) {
	q := NewQueryState()
	got := q.Encode()
	want := url.Values{"offset": {"0"}, "limit": {"50"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Encode mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryState_AllAndNoneAreWireEquivalent(t *testing.T) {
	q := NewQueryState()
	q.SetUniverse(DimArea, NewUniverse("Private", "Public"))

	allEncoded := q.Encode().Encode()
	q.Selection(DimArea).ToggleAll() // now None
	noneEncoded := q.Encode().Encode()
	if allEncoded != noneEncoded {
		t.Fatalf("All encoded %q, None encoded %q, want identical", allEncoded, noneEncoded)
	}
	if q.Encode().Has(DimArea) {
		t.Fatalf("None selection emitted an %q key", DimArea)
	}
}

func TestQueryState_PartialEmitsRepeatedKeysInUniverseOrder(t *testing.T) {
	q := NewQueryState()
	u := NewUniverse("Private", "Public", "Criminal", "Interdisciplinary")
	q.SetUniverse(DimArea, u)

	sel := q.Selection(DimArea)
	sel.ToggleAll()
	sel.ToggleOne("Interdisciplinary", u)
	sel.ToggleOne("Private", u)

	got := q.Encode()[DimArea]
	want := []string{"Private", "Interdisciplinary"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("area values mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryState_ScalarTriFilters(t *testing.T) {
	q := NewQueryState()
	if q.Encode().Has("international") {
		t.Fatalf("unset tri filter emitted a key")
	}
	q.International = q.International.Cycle()
	if got := q.Encode().Get("international"); got != "true" {
		t.Fatalf("international = %q, want true", got)
	}
	q.International = q.International.Cycle()
	if got := q.Encode().Get("international"); got != "false" {
		t.Fatalf("international = %q, want false", got)
	}
	q.International = q.International.Cycle()
	if q.Encode().Has("international") {
		t.Fatalf("cycled-back tri filter emitted a key")
	}
}

func TestQueryState_SortOnlyWhenChosen(t *testing.T) {
	q := NewQueryState()
	if q.Encode().Has("sort_by") || q.Encode().Has("sort_dir") {
		t.Fatalf("sort keys emitted with no sort chosen")
	}
	q.ToggleSort("year")
	v := q.Encode()
	if v.Get("sort_by") != "year" || v.Get("sort_dir") != "asc" {
		t.Fatalf("sort = %s %s, want year asc", v.Get("sort_by"), v.Get("sort_dir"))
	}
	q.ToggleSort("year")
	if got := q.Encode().Get("sort_dir"); got != "desc" {
		t.Fatalf("sort_dir = %q, want desc after re-toggle", got)
	}
	q.ToggleSort("course")
	v = q.Encode()
	if v.Get("sort_by") != "course" || v.Get("sort_dir") != "asc" {
		t.Fatalf("sort = %s %s, want course asc", v.Get("sort_by"), v.Get("sort_dir"))
	}
}

func TestQueryState_Pagination(t *testing.T) {
	q := NewQueryState()
	q.NextPage(120)
	if q.Offset != 50 {
		t.Fatalf("offset = %d, want 50", q.Offset)
	}
	q.NextPage(120)
	if q.Offset != 100 {
		t.Fatalf("offset = %d, want 100", q.Offset)
	}
	q.NextPage(120) // past the end, stays put
	if q.Offset != 100 {
		t.Fatalf("offset = %d, want 100 at last page", q.Offset)
	}
	q.PrevPage()
	q.PrevPage()
	q.PrevPage() // clamps at zero
	if q.Offset != 0 {
		t.Fatalf("offset = %d, want 0", q.Offset)
	}
}

func TestQueryState_ResetRestoresInitialState(t *testing.T) {
	q := NewQueryState()
	u := NewUniverse("de", "en")
	q.SetUniverse(DimLanguage, u)
	q.Selection(DimLanguage).ToggleOne("de", u)
	q.International = TriTrue
	q.Offset = 100
	q.ToggleSort("course")

	q.Reset()
	got := q.Encode()
	want := url.Values{"offset": {"0"}, "limit": {"50"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Encode after Reset mismatch (-want +got):\n%s", diff)
	}
	if q.Selection(DimLanguage).State() != All {
		t.Fatalf("language selection = %v, want All", q.Selection(DimLanguage).State())
	}
}

func TestQueryState_EncodeDimensionsSubset(t *testing.T) {
	q := NewQueryState()
	cu := NewUniverse("open_question", "mcq_4_choices")
	q.SetUniverse(DimConfig, cu)
	au := NewUniverse("Private", "Public")
	q.SetUniverse(DimArea, au)
	q.Selection(DimConfig).ToggleOne("mcq_4_choices", cu) // {open_question}
	q.Selection(DimArea).ToggleOne("Public", au)          // {Private}

	got := q.EncodeDimensions(DimConfig, DimLanguage)
	want := url.Values{DimConfig: {"open_question"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("EncodeDimensions mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryState_EncodeIsPure(t *testing.T) {
	q := NewQueryState()
	u := NewUniverse("a", "b", "c")
	q.SetUniverse(DimCourse, u)
	q.Selection(DimCourse).ToggleOne("c", u)

	first := q.Encode().Encode()
	second := q.Encode().Encode()
	if first != second {
		t.Fatalf("Encode not deterministic: %q then %q", first, second)
	}
}
