package filter

// SyncUniverses reconciles the query state against server-reported viable
// option lists, typically the response to /api/filters after other filters
// changed. Each dimension's Partial selection is intersected with its own
// new universe; All and None pass through untouched.
//
// When any selection changed, the suppress-refetch flag is set so the next
// automatic refetch triggered by this self-inflicted mutation is skipped.
// Without the guard, pruning would schedule a refetch whose response prunes
// again, looping forever.
//
// Applying the same universes twice in a row is a no-op on the second pass.
func (q *QueryState) SyncUniverses(universes map[string]Universe) bool {
	changed := false
	for _, dim := range Dimensions {
		u, ok := universes[dim]
		if !ok {
			continue
		}
		if q.selections[dim].Prune(u) {
			changed = true
		}
		q.universes[dim] = u
	}
	if changed {
		q.suppressRefetch = true
	}
	return changed
}

// ConsumeSuppressedRefetch reports whether the next automatic refetch
// should be skipped, clearing the flag. Each sync-induced mutation
// suppresses exactly one refetch.
func (q *QueryState) ConsumeSuppressedRefetch() bool {
	s := q.suppressRefetch
	q.suppressRefetch = false
	return s
}
