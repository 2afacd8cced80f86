package core

import "strings"

// FilterQuery is the user's current search text and status selection.
type FilterQuery struct {
	Query  string
	Status StatusFilter
}

// Key identifies the query for caching.
func (q FilterQuery) Key() string {
	return q.Status.Value() + "|" + q.Query
}

// Filter returns the records whose description or category contains query
// (case-insensitive) and whose status passes the status filter. Store order
// is preserved and the input is never modified.
func Filter(records []ExpenseRecord, query string, status StatusFilter) []ExpenseRecord {
	needle := strings.ToLower(query)
	out := make([]ExpenseRecord, 0, len(records))
	for _, r := range records {
		if !status.Matches(r.Status) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(r.Description), needle) &&
			!strings.Contains(strings.ToLower(r.Category), needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Apply runs Filter with the query's fields.
func (q FilterQuery) Apply(records []ExpenseRecord) []ExpenseRecord {
	return Filter(records, q.Query, q.Status)
}
