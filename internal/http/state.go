package http

import (
	"net/url"

	"expensemate/internal/core"
)

// ListState is the expense list's view state as carried in the query string.
type ListState struct {
	Query     string
	StatusRaw string
	Status    core.StatusFilter
	// StatusValid is false when the status parameter named no known status.
	StatusValid bool
}

// ParseListState reads q and status. The query is kept verbatim apart from
// control characters; an unknown status yields a filter that matches nothing.
func ParseListState(values url.Values) ListState {
	raw := values.Get("status")
	f, ok := core.ParseStatusFilter(raw)
	return ListState{
		Query:       stripControl(values.Get("q")),
		StatusRaw:   raw,
		Status:      f,
		StatusValid: ok,
	}
}

func (s ListState) Filter() core.FilterQuery {
	return core.FilterQuery{Query: s.Query, Status: s.Status}
}

type statusOption struct {
	Value    string
	Label    string
	Selected bool
}

// StatusOptions lists the status select entries with the current one marked.
func (s ListState) StatusOptions() []statusOption {
	current := s.Status.Value()
	opts := []statusOption{{Value: "all", Label: "All Statuses", Selected: current == "all"}}
	for _, st := range core.Statuses {
		opts = append(opts, statusOption{Value: st.String(), Label: st.Label(), Selected: current == st.String()})
	}
	return opts
}

// AnalyticsState is the analytics page's selected time range.
type AnalyticsState struct {
	Range core.TimeRange
	// RangeValid is false when the range parameter was not recognized and
	// the default was used instead.
	RangeValid bool
}

func ParseAnalyticsState(values url.Values) AnalyticsState {
	tr, err := core.ParseTimeRange(values.Get("range"))
	if err != nil {
		return AnalyticsState{Range: core.RangeYear}
	}
	return AnalyticsState{Range: tr, RangeValid: true}
}

type rangeOption struct {
	Value    string
	Label    string
	Selected bool
}

func (s AnalyticsState) RangeOptions() []rangeOption {
	opts := make([]rangeOption, len(core.TimeRanges))
	for i, tr := range core.TimeRanges {
		opts[i] = rangeOption{Value: tr.String(), Label: tr.Label(), Selected: tr == s.Range}
	}
	return opts
}
