package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"expensemate/internal/core"
	applog "expensemate/internal/log"
	"expensemate/internal/notify"
	"expensemate/internal/store"
)

type fakeLister struct {
	mu      sync.Mutex
	records []core.ExpenseRecord
	err     error
	calls   int
	pingErr error
}

func (f *fakeLister) ListRecords(context.Context) ([]core.ExpenseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]core.ExpenseRecord(nil), f.records...), nil
}

func (f *fakeLister) Ping(context.Context) error { return f.pingErr }

type recordingNotifier struct {
	sent []notify.Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) error {
	r.sent = append(r.sent, n)
	return r.err
}

func newService(t *testing.T, lister store.RecordLister, n notify.Notifier) *ExpenseService {
	t.Helper()
	svc := NewExpenseService(lister, n, Options{
		AnnualBudget:  core.Money{Cents: 5000000},
		MonthlyBudget: core.Money{Cents: 500000},
		CacheSize:     10,
		CacheTTL:      time.Minute,
	})
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestExpenseService_ListExpenses(t *testing.T) {
	lister := &fakeLister{records: store.DemoRecords()}
	svc := newService(t, lister, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		query core.FilterQuery
		want  []string
	}{
		{"all", core.FilterQuery{Status: core.FilterAll}, []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"search and status", core.FilterQuery{Query: "o", Status: core.OnlyStatus(core.StatusApproved)}, []string{"1", "3", "5"}},
		{"category search", core.FilterQuery{Query: "TRAVEL", Status: core.FilterAll}, []string{"3", "5", "8"}},
		{"unrecognized status", core.FilterQuery{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.ListExpenses(ctx, tt.query)
			if err != nil {
				t.Fatalf("ListExpenses() error = %v", err)
			}
			if res.Total != 8 {
				t.Errorf("Total = %d, want 8", res.Total)
			}
			if len(res.Records) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(res.Records), len(tt.want))
			}
			for i, id := range tt.want {
				if res.Records[i].ID != id {
					t.Errorf("record %d = %s, want %s", i, res.Records[i].ID, id)
				}
			}
		})
	}

	if lister.calls != 1 {
		t.Errorf("provider called %d times, want 1 (snapshot cached)", lister.calls)
	}
}

func TestExpenseService_ListExpensesReturnsCopies(t *testing.T) {
	svc := newService(t, &fakeLister{records: store.DemoRecords()}, nil)
	ctx := context.Background()
	q := core.FilterQuery{Status: core.FilterAll}

	first, _ := svc.ListExpenses(ctx, q)
	first.Records[0].Description = "changed"

	second, _ := svc.ListExpenses(ctx, q)
	if second.Records[0].Description != "Team lunch at Olive Garden" {
		t.Fatalf("cached result was mutated: %q", second.Records[0].Description)
	}
}

func TestExpenseService_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	svc := newService(t, &fakeLister{err: boom}, nil)

	if _, err := svc.ListExpenses(context.Background(), core.FilterQuery{Status: core.FilterAll}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	if _, err := svc.Dashboard(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestExpenseService_FilterFollowsSnapshotReload(t *testing.T) {
	lister := &fakeLister{records: store.DemoRecords()}
	svc := NewExpenseService(lister, nil, Options{CacheSize: 10, CacheTTL: 200 * time.Millisecond})
	ctx := context.Background()
	all := core.FilterQuery{Status: core.FilterAll}

	// The filter entry is cached after the snapshot, so it expires later.
	if _, err := svc.Records(ctx); err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	time.Sleep(120 * time.Millisecond)
	if res, _ := svc.ListExpenses(ctx, all); len(res.Records) != 8 {
		t.Fatalf("got %d records before reload, want 8", len(res.Records))
	}

	lister.mu.Lock()
	lister.records = store.DemoRecords()[:2]
	lister.mu.Unlock()
	time.Sleep(120 * time.Millisecond)

	res, err := svc.ListExpenses(ctx, all)
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if lister.calls != 2 {
		t.Fatalf("provider called %d times, want 2", lister.calls)
	}
	if res.Total != 2 || len(res.Records) != 2 {
		t.Fatalf("Total = %d, Records = %d, want 2 and 2", res.Total, len(res.Records))
	}
}

func TestExpenseService_Dashboard(t *testing.T) {
	svc := newService(t, &fakeLister{records: store.DemoRecords()}, nil)

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if d.TotalExpenses.Cents != 105673 {
		t.Errorf("TotalExpenses = %d, want 105673", d.TotalExpenses.Cents)
	}
	if d.PendingCount != 2 || len(d.Recent) != 4 {
		t.Errorf("PendingCount = %d, Recent = %d", d.PendingCount, len(d.Recent))
	}
	if d.Budget.Percent != 2 {
		t.Errorf("Budget.Percent = %d, want 2", d.Budget.Percent)
	}
}

func TestExpenseService_Analytics(t *testing.T) {
	svc := newService(t, &fakeLister{records: store.DemoRecords()}, nil)
	ctx := context.Background()

	tests := []struct {
		tr       core.TimeRange
		count    int
		total    int64
		approved int
		pending  int
	}{
		{core.RangeMonth, 6, 82823, 3, 2},
		{core.RangeQuarter, 8, 105673, 5, 2},
		{core.RangeYear, 8, 105673, 5, 2},
		{core.RangeCustom, 8, 105673, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.tr.String(), func(t *testing.T) {
			a, err := svc.Analytics(ctx, tt.tr)
			if err != nil {
				t.Fatalf("Analytics() error = %v", err)
			}
			if a.Count != tt.count || a.Total.Cents != tt.total {
				t.Errorf("Count/Total = %d/%d, want %d/%d", a.Count, a.Total.Cents, tt.count, tt.total)
			}
			if a.Approved != tt.approved || a.Pending != tt.pending {
				t.Errorf("Approved/Pending = %d/%d, want %d/%d", a.Approved, a.Pending, tt.approved, tt.pending)
			}
			if a.Year != 2023 || len(a.Monthly) != 12 {
				t.Errorf("Year = %d, months = %d", a.Year, len(a.Monthly))
			}
			var deptTotal int64
			for _, d := range a.Departments {
				deptTotal += d.Amount.Cents
			}
			if deptTotal != a.Total.Cents {
				t.Errorf("department totals %d do not reconcile with %d", deptTotal, a.Total.Cents)
			}
		})
	}
}

func TestExpenseService_AnalyticsEmptyDataset(t *testing.T) {
	svc := newService(t, &fakeLister{}, nil)

	a, err := svc.Analytics(context.Background(), core.RangeYear)
	if err != nil {
		t.Fatalf("Analytics() error = %v", err)
	}
	if a.Count != 0 || a.Total.Cents != 0 || a.Average.Cents != 0 {
		t.Errorf("unexpected figures for empty dataset: %+v", a)
	}
	if a.Year != 2024 {
		t.Errorf("Year = %d, want current year 2024", a.Year)
	}
}

func TestExpenseService_Notify(t *testing.T) {
	t.Run("delivers", func(t *testing.T) {
		n := &recordingNotifier{}
		svc := newService(t, &fakeLister{}, n)
		svc.Notify(context.Background(), notify.NotImplemented("export"))
		if len(n.sent) != 1 || n.sent[0].Action != "export" {
			t.Fatalf("sent = %+v", n.sent)
		}
	})

	t.Run("swallows delivery errors", func(t *testing.T) {
		n := &recordingNotifier{err: errors.New("broker down")}
		svc := newService(t, &fakeLister{}, n)
		svc.Notify(context.Background(), notify.ExpenseSubmitted())
		if len(n.sent) != 1 {
			t.Fatalf("sent = %d, want 1", len(n.sent))
		}
	})

	t.Run("logs delivery errors with the service logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := applog.New(applog.Config{Handler: slog.NewTextHandler(&buf, nil), Component: applog.ComponentApp})
		svc := NewExpenseService(&fakeLister{}, &recordingNotifier{err: errors.New("broker down")}, Options{Logger: logger})

		svc.Notify(context.Background(), notify.ExpenseSubmitted())

		out := buf.String()
		for _, want := range []string{"Failed to deliver notification", "component=expense", "broker down"} {
			if !strings.Contains(out, want) {
				t.Errorf("log output missing %q: %s", want, out)
			}
		}
	})

	t.Run("nil notifier", func(t *testing.T) {
		svc := newService(t, &fakeLister{}, nil)
		svc.Notify(context.Background(), notify.ExpenseSubmitted())
	})
}

func TestExpenseService_Ready(t *testing.T) {
	lister := &fakeLister{pingErr: errors.New("down")}
	svc := newService(t, lister, nil)

	if err := svc.Ready(context.Background()); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("Ready() = %v, want ErrUnavailable", err)
	}
	lister.pingErr = nil
	if err := svc.Ready(context.Background()); err != nil {
		t.Fatalf("Ready() = %v", err)
	}
}
