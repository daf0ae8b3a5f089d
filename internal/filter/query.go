package filter

import (
	"net/url"
	"strconv"
)

// Dimension keys match the API's repeated query parameters.
const (
	DimConfig       = "config"
	DimSplit        = "split"
	DimArea         = "area"
	DimLanguage     = "language"
	DimCourse       = "course"
	DimJurisdiction = "jurisdiction"
	DimYear         = "year"
)

// Dimensions lists every multi-select dimension in a stable order.
var Dimensions = []string{
	DimConfig,
	DimSplit,
	DimArea,
	DimLanguage,
	DimCourse,
	DimJurisdiction,
	DimYear,
}

// Tri is a tri-valued boolean filter: unset, true, or false. Unset emits
// no query parameter, matching the server's "no constraint" default.
type Tri int

const (
	TriUnset Tri = iota
	TriTrue
	TriFalse
)

// Cycle advances unset -> true -> false -> unset.
func (t Tri) Cycle() Tri {
	switch t {
	case TriUnset:
		return TriTrue
	case TriTrue:
		return TriFalse
	default:
		return TriUnset
	}
}

// String returns the wire value, or "" when unset.
func (t Tri) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return ""
	}
}

const defaultPageLimit = 50

// QueryState aggregates one Selection per filter dimension plus scalar
// filters, pagination, and sort. It is the single source the query builder
// serializes from, so filtering, sorting, and pagination requests all
// encode identically.
type QueryState struct {
	selections map[string]*Selection
	universes  map[string]Universe

	NegativeQuestion Tri
	International    Tri

	Offset int
	Limit  int

	SortBy  string
	SortDir string

	suppressRefetch bool
}

// NewQueryState returns a state with every dimension set to All, no scalar
// constraints, and pagination at the first page.
func NewQueryState() *QueryState {
	q := &QueryState{
		selections: make(map[string]*Selection, len(Dimensions)),
		universes:  make(map[string]Universe, len(Dimensions)),
		Limit:      defaultPageLimit,
		SortDir:    "asc",
	}
	for _, dim := range Dimensions {
		sel := NewSelection()
		q.selections[dim] = &sel
	}
	return q
}

// Selection returns the selection for a dimension. Unknown dimensions
// return a throwaway All selection so callers need no nil checks.
func (q *QueryState) Selection(dim string) *Selection {
	if sel, ok := q.selections[dim]; ok {
		return sel
	}
	sel := NewSelection()
	return &sel
}

// Universe returns the last-synced viable option list for a dimension.
func (q *QueryState) Universe(dim string) Universe {
	return q.universes[dim]
}

// SetUniverse replaces a dimension's option list without pruning, used for
// the initial fetch before any selection exists.
func (q *QueryState) SetUniverse(dim string, u Universe) {
	q.universes[dim] = u
}

// Reset restores the initial state: all dimensions All, scalars unset,
// first page, default sort. Universes are kept; they describe the server,
// not the user.
func (q *QueryState) Reset() {
	for _, dim := range Dimensions {
		sel := NewSelection()
		q.selections[dim] = &sel
	}
	q.NegativeQuestion = TriUnset
	q.International = TriUnset
	q.Offset = 0
	q.SortBy = ""
	q.SortDir = "asc"
	q.suppressRefetch = false
}

// FirstPage rewinds pagination, keeping filters and sort.
func (q *QueryState) FirstPage() {
	q.Offset = 0
}

// NextPage advances pagination when more rows exist beyond the current
// window.
func (q *QueryState) NextPage(total int) {
	if q.Offset+q.Limit < total {
		q.Offset += q.Limit
	}
}

// PrevPage rewinds one page, clamping at zero.
func (q *QueryState) PrevPage() {
	q.Offset -= q.Limit
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// ToggleSort selects a sort key, flipping direction when the key is
// already active.
func (q *QueryState) ToggleSort(key string) {
	if q.SortBy == key {
		if q.SortDir == "asc" {
			q.SortDir = "desc"
		} else {
			q.SortDir = "asc"
		}
		return
	}
	q.SortBy = key
	q.SortDir = "asc"
}

// Encode serializes the full state for /api/questions: dimension filters,
// scalar filters, sort, and pagination. Pure: no field is mutated.
//
// All and None both emit nothing for their dimension; the server default is
// unfiltered, so "everything" and "explicitly nothing" are intentionally
// indistinguishable on the wire. Partial emits one repeated key per value
// in the universe's order, not insertion order, so equal states always
// produce equal query strings.
func (q *QueryState) Encode() url.Values {
	values := q.EncodeFilters()
	values.Set("offset", strconv.Itoa(q.Offset))
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.SortBy != "" {
		values.Set("sort_by", q.SortBy)
		values.Set("sort_dir", q.SortDir)
	}
	return values
}

// EncodeFilters serializes only the filter constraints, the form consumed
// by /api/filters when asking for viable options.
func (q *QueryState) EncodeFilters() url.Values {
	values := url.Values{}
	for _, dim := range Dimensions {
		sel := q.selections[dim]
		for _, v := range sel.Values(q.universes[dim]) {
			values.Add(dim, v)
		}
	}
	if s := q.NegativeQuestion.String(); s != "" {
		values.Set("negative_question", s)
	}
	if s := q.International.String(); s != "" {
		values.Set("international", s)
	}
	return values
}

// EncodeDimensions serializes a subset of dimensions, used by the
// dashboard which filters on config and language only.
func (q *QueryState) EncodeDimensions(dims ...string) url.Values {
	values := url.Values{}
	for _, dim := range dims {
		sel, ok := q.selections[dim]
		if !ok {
			continue
		}
		for _, v := range sel.Values(q.universes[dim]) {
			values.Add(dim, v)
		}
	}
	return values
}
