package core

import (
	"fmt"
	"math"
	"time"
)

// UnassignedDepartment groups records that carry no department.
const UnassignedDepartment = "Unassigned"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
	Count  int
}

// CategoryShare is a category's percentage of the grand total.
type CategoryShare struct {
	Name    string
	Percent float64
	Amount  Money
}

// MonthPoint is one month of the expenses-vs-budget series.
type MonthPoint struct {
	Month    int // 1-12
	Label    string
	Expenses Money
	Budget   Money
}

// OverBudget reports whether the month spent more than its budget.
func (p MonthPoint) OverBudget() bool {
	return p.Budget.Cents > 0 && p.Expenses.Cents > p.Budget.Cents
}

// Total sums the amounts of all records.
func Total(records []ExpenseRecord) Money {
	var total Money
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// TotalsByCategory groups amounts by category in order of first appearance.
func TotalsByCategory(records []ExpenseRecord) []CategoryAmount {
	return groupBy(records, func(r ExpenseRecord) string { return r.Category })
}

// TotalsByDepartment groups amounts by department in order of first appearance.
func TotalsByDepartment(records []ExpenseRecord) []CategoryAmount {
	return groupBy(records, func(r ExpenseRecord) string {
		if r.Department == "" {
			return UnassignedDepartment
		}
		return r.Department
	})
}

func groupBy(records []ExpenseRecord, key func(ExpenseRecord) string) []CategoryAmount {
	index := make(map[string]int)
	var out []CategoryAmount
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, CategoryAmount{Name: k})
		}
		out[i].Amount = out[i].Amount.Add(r.Amount)
		out[i].Count++
	}
	return out
}

// CategoryShares returns each category's share of the total amount, rounded
// to one decimal place. An empty or zero-valued dataset yields zero shares.
func CategoryShares(records []ExpenseRecord) []CategoryShare {
	totals := TotalsByCategory(records)
	grand := Total(records)
	out := make([]CategoryShare, 0, len(totals))
	for _, c := range totals {
		var pct float64
		if grand.Cents > 0 {
			pct = math.Round(float64(c.Amount.Cents)*1000/float64(grand.Cents)) / 10
		}
		out = append(out, CategoryShare{Name: c.Name, Percent: pct, Amount: c.Amount})
	}
	return out
}

// MonthlyTotals returns twelve points for the given year, January first.
func MonthlyTotals(records []ExpenseRecord, year int, budget Money) []MonthPoint {
	points := make([]MonthPoint, 12)
	for i := range points {
		points[i] = MonthPoint{
			Month:  i + 1,
			Label:  time.Month(i + 1).String()[:3],
			Budget: budget,
		}
	}
	for _, r := range records {
		if r.Date.Year() != year {
			continue
		}
		p := &points[r.Date.Month()-1]
		p.Expenses = p.Expenses.Add(r.Amount)
	}
	return points
}

// CountByStatus counts records per status.
func CountByStatus(records []ExpenseRecord) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, r := range records {
		counts[r.Status]++
	}
	return counts
}

// LatestDate returns the most recent record date and false for an empty set.
func LatestDate(records []ExpenseRecord) (Date, bool) {
	var latest Date
	for _, r := range records {
		if latest.IsZero() || latest.Before(r.Date) {
			latest = r.Date
		}
	}
	return latest, !latest.IsZero()
}

// TimeRange is the analytics window.
type TimeRange uint8

const (
	RangeMonth TimeRange = iota + 1
	RangeQuarter
	RangeYear
	RangeCustom
)

// TimeRanges lists the selectable windows in display order.
var TimeRanges = []TimeRange{RangeMonth, RangeQuarter, RangeYear, RangeCustom}

func ParseTimeRange(s string) (TimeRange, error) {
	switch s {
	case "month":
		return RangeMonth, nil
	case "quarter":
		return RangeQuarter, nil
	case "year", "":
		return RangeYear, nil
	case "custom":
		return RangeCustom, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeRange, s)
}

func (t TimeRange) String() string {
	switch t {
	case RangeMonth:
		return "month"
	case RangeQuarter:
		return "quarter"
	case RangeYear:
		return "year"
	case RangeCustom:
		return "custom"
	}
	return "unknown"
}

func (t TimeRange) Label() string {
	switch t {
	case RangeMonth:
		return "This Month"
	case RangeQuarter:
		return "This Quarter"
	case RangeYear:
		return "This Year"
	case RangeCustom:
		return "Custom Range"
	}
	return ""
}

// ApplyTimeRange keeps the records falling in the month, quarter or year
// containing ref. RangeCustom has no bounds of its own and keeps everything.
func ApplyTimeRange(records []ExpenseRecord, tr TimeRange, ref Date) []ExpenseRecord {
	out := make([]ExpenseRecord, 0, len(records))
	for _, r := range records {
		if inRange(r.Date, tr, ref) {
			out = append(out, r)
		}
	}
	return out
}

func inRange(d Date, tr TimeRange, ref Date) bool {
	switch tr {
	case RangeMonth:
		return d.Year() == ref.Year() && d.Month() == ref.Month()
	case RangeQuarter:
		return d.Year() == ref.Year() && (d.Month()-1)/3 == (ref.Month()-1)/3
	case RangeYear:
		return d.Year() == ref.Year()
	}
	return true
}
