// Package filter models the questions-view filter state: one tri-state
// selection per filter dimension, scalar tri-valued filters, pagination,
// and sort, plus the deterministic query-string encoding the API consumes.
//
// # Selection semantics
//
// A Selection is in one of three states:
//
//   - All: every current and future option (the default; no constraint)
//   - None: explicitly nothing
//   - Partial: an explicit, proper, non-empty subset
//
// User toggles keep the Partial state in bounds: an explicit set that
// empties collapses to None, and one that covers the whole option universe
// collapses to All. Values are compared in canonical string form so numeric
// years and string labels never diverge into distinct options.
//
// # Server reconciliation
//
// The server narrows each dimension's viable options contextually as other
// filters change. SyncUniverses intersects explicit selections with the
// fresh lists, and flags the mutation so the state change it causes does
// not trigger another refetch.
//
// # Wire format
//
// Encode emits repeated key=value pairs per Partial dimension in universe
// order, nothing for All or None, scalar keys only when set, and always
// offset/limit. The same QueryState therefore always yields the same query
// string across the questions, filters, and dashboard requests.
package filter
