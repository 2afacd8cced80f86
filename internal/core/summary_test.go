package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestTotalsByCategory(t *testing.T) {
	got := TotalsByCategory(sampleRecords())
	want := []CategoryAmount{
		{Name: "Food", Amount: Money{Cents: 21074}, Count: 2},
		{Name: "Office", Amount: Money{Cents: 4250}, Count: 1},
		{Name: "Travel", Amount: Money{Cents: 55350}, Count: 3},
		{Name: "Software", Amount: Money{Cents: 9999}, Count: 1},
		{Name: "Marketing", Amount: Money{Cents: 15000}, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TotalsByCategory() = %+v, want %+v", got, want)
	}
}

func TestTotalsReconcile(t *testing.T) {
	records := sampleRecords()
	grand := Total(records)
	if grand.Cents != 105673 {
		t.Fatalf("Total() = %d, want 105673", grand.Cents)
	}

	groupings := map[string][]CategoryAmount{
		"category":   TotalsByCategory(records),
		"department": TotalsByDepartment(records),
	}
	for name, groups := range groupings {
		t.Run(name, func(t *testing.T) {
			var sum Money
			count := 0
			for _, g := range groups {
				sum = sum.Add(g.Amount)
				count += g.Count
			}
			if sum != grand {
				t.Errorf("sum of groups = %d, want %d", sum.Cents, grand.Cents)
			}
			if count != len(records) {
				t.Errorf("count of groups = %d, want %d", count, len(records))
			}
		})
	}
}

func TestTotalsByDepartment_Unassigned(t *testing.T) {
	records := []ExpenseRecord{
		{ID: "a", Amount: Money{Cents: 100}, Department: ""},
		{ID: "b", Amount: Money{Cents: 200}, Department: "HR"},
		{ID: "c", Amount: Money{Cents: 300}, Department: ""},
	}
	got := TotalsByDepartment(records)
	if len(got) != 2 || got[0].Name != UnassignedDepartment || got[0].Amount.Cents != 400 {
		t.Fatalf("unexpected grouping: %+v", got)
	}
}

func TestCategoryShares(t *testing.T) {
	records := []ExpenseRecord{
		{ID: "a", Category: "Travel", Amount: Money{Cents: 300}},
		{ID: "b", Category: "Food", Amount: Money{Cents: 100}},
		{ID: "c", Category: "Travel", Amount: Money{Cents: 600}},
	}
	got := CategoryShares(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(got))
	}
	if got[0].Name != "Travel" || got[0].Percent != 90 {
		t.Errorf("Travel share = %+v", got[0])
	}
	if got[1].Name != "Food" || got[1].Percent != 10 {
		t.Errorf("Food share = %+v", got[1])
	}

	if shares := CategoryShares(nil); len(shares) != 0 {
		t.Errorf("expected no shares for empty input, got %v", shares)
	}
}

func TestMonthlyTotals(t *testing.T) {
	budget := Money{Cents: 500000}
	points := MonthlyTotals(sampleRecords(), 2023, budget)
	if len(points) != 12 {
		t.Fatalf("expected 12 points, got %d", len(points))
	}
	if points[0].Label != "Jan" || points[11].Label != "Dec" {
		t.Errorf("unexpected labels %q..%q", points[0].Label, points[11].Label)
	}
	if points[7].Expenses.Cents != 22850 {
		t.Errorf("August = %d, want 22850", points[7].Expenses.Cents)
	}
	if points[8].Expenses.Cents != 82823 {
		t.Errorf("September = %d, want 82823", points[8].Expenses.Cents)
	}
	if points[0].Expenses.Cents != 0 || points[0].Budget != budget {
		t.Errorf("January = %+v", points[0])
	}
	if points[8].OverBudget() {
		t.Error("September should be within budget")
	}

	if other := MonthlyTotals(sampleRecords(), 2022, budget); other[8].Expenses.Cents != 0 {
		t.Error("records from another year were counted")
	}
}

func TestCountByStatus(t *testing.T) {
	got := CountByStatus(sampleRecords())
	want := map[Status]int{StatusApproved: 5, StatusPending: 2, StatusRejected: 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CountByStatus() = %v, want %v", got, want)
	}
}

func TestApplyTimeRange(t *testing.T) {
	records := sampleRecords()
	ref := NewDate(2023, 9, 15)

	tests := []struct {
		tr   TimeRange
		want int
	}{
		{RangeMonth, 6},
		{RangeQuarter, 8},
		{RangeYear, 8},
		{RangeCustom, 8},
	}
	for _, tt := range tests {
		t.Run(tt.tr.String(), func(t *testing.T) {
			if got := ApplyTimeRange(records, tt.tr, ref); len(got) != tt.want {
				t.Errorf("got %d records, want %d", len(got), tt.want)
			}
		})
	}

	if got := ApplyTimeRange(records, RangeQuarter, NewDate(2023, 10, 1)); len(got) != 0 {
		t.Errorf("Q4 should be empty, got %d", len(got))
	}
}

func TestParseTimeRange(t *testing.T) {
	for _, tr := range TimeRanges {
		got, err := ParseTimeRange(tr.String())
		if err != nil || got != tr {
			t.Fatalf("round trip of %s failed: %v, %v", tr, got, err)
		}
	}
	if got, _ := ParseTimeRange(""); got != RangeYear {
		t.Errorf("default range = %s, want year", got)
	}
	if _, err := ParseTimeRange("decade"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}
}
