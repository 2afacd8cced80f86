package core

import (
	"fmt"
	"math"
	"time"
)

// TrendDirection is the arrow shown next to a stat card value.
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

type Trend struct {
	Value     string
	Direction TrendDirection
}

// DashboardInput carries the figures the dashboard needs besides records.
type DashboardInput struct {
	AnnualBudget Money
	RecentLimit  int
}

// BudgetUsage is the "spent of limit" widget.
type BudgetUsage struct {
	Spent   Money
	Limit   Money
	Percent int
}

// Dashboard is the summary shown on the landing page.
type Dashboard struct {
	TotalExpenses Money
	PendingCount  int
	Budget        BudgetUsage
	MonthLabel    string
	MonthTotal    Money
	MonthTrend    Trend
	PendingTrend  Trend
	Recent        []ExpenseRecord
	Pending       []ExpenseRecord
	Categories    []CategoryAmount
}

// BuildDashboard computes the dashboard figures. Month figures refer to the
// latest month present in the data and are compared with the month before.
func BuildDashboard(records []ExpenseRecord, in DashboardInput) Dashboard {
	limit := in.RecentLimit
	if limit <= 0 {
		limit = 4
	}
	if limit > len(records) {
		limit = len(records)
	}

	total := Total(records)
	d := Dashboard{
		TotalExpenses: total,
		Budget:        BudgetUsage{Spent: total, Limit: in.AnnualBudget, Percent: percentOf(total, in.AnnualBudget)},
		Recent:        append([]ExpenseRecord(nil), records[:limit]...),
		Pending:       Filter(records, "", OnlyStatus(StatusPending)),
		Categories:    TotalsByCategory(records),
	}
	d.PendingCount = len(d.Pending)

	latest, ok := LatestDate(records)
	if !ok {
		d.MonthTrend = Trend{Value: "0%", Direction: TrendFlat}
		d.PendingTrend = Trend{Value: "0", Direction: TrendFlat}
		return d
	}
	prev := NewDate(latest.Year(), latest.Month(), 1).AddDate(0, -1, 0)
	current := ApplyTimeRange(records, RangeMonth, latest)
	previous := ApplyTimeRange(records, RangeMonth, Date{Time: prev})

	d.MonthLabel = latest.Format("January 2006")
	d.MonthTotal = Total(current)
	d.MonthTrend = percentTrend(d.MonthTotal, Total(previous))
	d.PendingTrend = countTrend(
		len(Filter(current, "", OnlyStatus(StatusPending))),
		len(Filter(previous, "", OnlyStatus(StatusPending))),
	)
	return d
}

func percentOf(part, whole Money) int {
	if whole.Cents <= 0 {
		return 0
	}
	return int(math.Round(float64(part.Cents) * 100 / float64(whole.Cents)))
}

func percentTrend(cur, prev Money) Trend {
	if prev.Cents == 0 {
		if cur.Cents == 0 {
			return Trend{Value: "0%", Direction: TrendFlat}
		}
		return Trend{Value: "n/a", Direction: TrendUp}
	}
	change := math.Round(float64(cur.Cents-prev.Cents)*1000/float64(prev.Cents)) / 10
	switch {
	case change > 0:
		return Trend{Value: fmt.Sprintf("+%.1f%%", change), Direction: TrendUp}
	case change < 0:
		return Trend{Value: fmt.Sprintf("%.1f%%", change), Direction: TrendDown}
	}
	return Trend{Value: "0%", Direction: TrendFlat}
}

func countTrend(cur, prev int) Trend {
	delta := cur - prev
	switch {
	case delta > 0:
		return Trend{Value: fmt.Sprintf("+%d", delta), Direction: TrendUp}
	case delta < 0:
		return Trend{Value: fmt.Sprintf("%d", delta), Direction: TrendDown}
	}
	return Trend{Value: "0", Direction: TrendFlat}
}

// ReferenceDate is the date analytics windows are anchored to: the latest
// record date, or today for an empty dataset.
func ReferenceDate(records []ExpenseRecord, now time.Time) Date {
	if d, ok := LatestDate(records); ok {
		return d
	}
	return NewDate(now.Year(), int(now.Month()), now.Day())
}
