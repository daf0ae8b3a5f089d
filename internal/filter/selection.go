package filter

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// State enumerates the three logical selection states.
type State int

const (
	// All means every current and future option is selected (no constraint).
	All State = iota
	// None means the explicit selection set is empty.
	None
	// Partial means an explicit, non-empty proper subset is selected.
	Partial
)

// String returns a short label for the state.
func (s State) String() string {
	switch s {
	case All:
		return "all"
	case None:
		return "none"
	case Partial:
		return "partial"
	default:
		return "unknown"
	}
}

// Universe is the ordered, server-supplied option list for one filter
// dimension. Values are stored in canonical string form.
type Universe []string

// NewUniverse canonicalizes raw option values into a Universe, preserving
// the server's order.
func NewUniverse(values ...any) Universe {
	u := make(Universe, 0, len(values))
	for _, v := range values {
		u = append(u, Canon(v))
	}
	return u
}

// Contains reports whether the universe includes the canonical form of v.
func (u Universe) Contains(v any) bool {
	c := Canon(v)
	for _, o := range u {
		if o == c {
			return true
		}
	}
	return false
}

// Canon converts an option value to its canonical string form. Numeric and
// string identities compare equal after canonicalization, so a year served
// as 2022 and the label "2022" select the same option.
func Canon(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return canonNumber(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func canonNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil {
		return Canon(f)
	}
	return n.String()
}

// Selection models a tri-state choice over a Universe: all options, no
// options, or an explicit subset. The zero value is All.
//
// The explicit set is only meaningful in the Partial state and holds
// canonical value strings. Selection never stores a copy of the universe;
// callers pass the current universe to operations that need it.
type Selection struct {
	state  State
	chosen map[string]bool
}

// NewSelection returns a selection in the All state.
func NewSelection() Selection {
	return Selection{state: All}
}

// State returns the current logical state.
func (s *Selection) State() State {
	return s.state
}

// Has reports whether the canonical form of v is currently selected.
// In the All state every value is selected; in None no value is.
func (s *Selection) Has(v any) bool {
	switch s.state {
	case All:
		return true
	case None:
		return false
	default:
		return s.chosen[Canon(v)]
	}
}

// Count returns how many universe options are currently selected.
func (s *Selection) Count(u Universe) int {
	switch s.state {
	case All:
		return len(u)
	case None:
		return 0
	default:
		n := 0
		for _, o := range u {
			if s.chosen[o] {
				n++
			}
		}
		return n
	}
}

// Values returns the explicitly selected values in universe order.
// All and None return nil: neither constrains the query.
func (s *Selection) Values(u Universe) []string {
	if s.state != Partial {
		return nil
	}
	out := make([]string, 0, len(s.chosen))
	seen := make(map[string]bool, len(s.chosen))
	for _, o := range u {
		if s.chosen[o] {
			out = append(out, o)
			seen[o] = true
		}
	}
	// Selected values the current universe no longer lists still encode,
	// appended after the ordered ones so output stays deterministic.
	if len(seen) < len(s.chosen) {
		var extra []string
		for c := range s.chosen {
			if !seen[c] {
				extra = append(extra, c)
			}
		}
		sort.Strings(extra)
		out = append(out, extra...)
	}
	return out
}

// ToggleAll flips between All and None. A Partial selection becomes All.
func (s *Selection) ToggleAll() {
	if s.state == All {
		s.state = None
	} else {
		s.state = All
	}
	s.chosen = nil
}

// ToggleOne flips membership of a single value. Transitions:
//
//   - All: becomes the explicit set "universe minus v"
//   - None: becomes the explicit set {v}
//   - Partial: v is removed if present, added otherwise
//
// The result is re-normalized immediately: an empty explicit set collapses
// to None and a set covering the whole universe collapses to All, so a
// Partial selection is always a proper non-empty subset.
func (s *Selection) ToggleOne(v any, u Universe) {
	c := Canon(v)
	switch s.state {
	case All:
		s.chosen = make(map[string]bool, len(u))
		for _, o := range u {
			if o != c {
				s.chosen[o] = true
			}
		}
		s.state = Partial
	case None:
		s.chosen = map[string]bool{c: true}
		s.state = Partial
	default:
		if s.chosen[c] {
			delete(s.chosen, c)
		} else {
			s.chosen[c] = true
		}
	}
	s.normalize(u)
}

// Select makes v a member of the explicit set without toggling, used when
// restoring saved filter configs.
func (s *Selection) Select(v any, u Universe) {
	if s.state == All || s.Has(v) {
		return
	}
	if s.state == None {
		s.chosen = make(map[string]bool, 1)
		s.state = Partial
	}
	s.chosen[Canon(v)] = true
	s.normalize(u)
}

// Prune intersects a Partial selection with a new universe, dropping
// selected values the server no longer reports as viable. All and None are
// vacuously valid under any universe and are never pruned.
//
// An explicit set that survives intact, even one covering the entire new
// universe, stays Partial: the viable list for a dimension is computed
// ignoring that dimension's own selection, so covering it does not mean
// "every option chosen". Only an emptied set collapses (to None).
//
// Returns true when the selection changed. Pruning with the same universe
// twice is a no-op on the second application.
func (s *Selection) Prune(u Universe) bool {
	if s.state != Partial {
		return false
	}
	keep := make(map[string]bool, len(s.chosen))
	for _, o := range u {
		if s.chosen[o] {
			keep[o] = true
		}
	}
	if len(keep) == len(s.chosen) {
		return false
	}
	if len(keep) == 0 {
		s.state = None
		s.chosen = nil
		return true
	}
	s.chosen = keep
	return true
}

func (s *Selection) normalize(u Universe) {
	if s.state != Partial {
		return
	}
	if len(s.chosen) == 0 {
		s.state = None
		s.chosen = nil
		return
	}
	if len(u) == 0 {
		return
	}
	for _, o := range u {
		if !s.chosen[o] {
			return
		}
	}
	if len(s.chosen) == len(u) {
		s.state = All
		s.chosen = nil
	}
}
