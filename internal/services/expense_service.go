package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"expensemate/internal/cache"
	"expensemate/internal/core"
	applog "expensemate/internal/log"
	"expensemate/internal/notify"
	"expensemate/internal/store"
)

const snapshotKey = "records"

var (
	filterMatches = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "expensemate_filter_matched_records",
		Help:    "Number of records returned by the expense filter",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
	})

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expensemate_notifications_total",
			Help: "Notifications raised, by severity and delivery result",
		},
		[]string{"severity", "result"},
	)
)

// Options configures an ExpenseService.
type Options struct {
	AnnualBudget  core.Money
	MonthlyBudget core.Money
	CacheSize     int
	CacheTTL      time.Duration
	RecentLimit   int
	Logger        *applog.Logger
}

// ExpenseService answers the read queries behind every page: filtered
// lists, the dashboard and analytics. The provider snapshot and filter
// results are cached for CacheTTL. Filter results are keyed by the snapshot
// generation that produced them, so a reload never serves stale matches.
type ExpenseService struct {
	records  store.RecordLister
	notifier notify.Notifier
	opts     Options
	logger   *applog.Logger

	snapshot   cache.Cache[snapshot]
	filtered   cache.Cache[[]core.ExpenseRecord]
	generation atomic.Uint64

	now func() time.Time
}

type snapshot struct {
	gen     uint64
	records []core.ExpenseRecord
}

func NewExpenseService(records store.RecordLister, notifier notify.Notifier, opts Options) *ExpenseService {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 100
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	return &ExpenseService{
		records:  records,
		notifier: notifier,
		opts:     opts,
		logger:   logger.WithComponent(applog.ComponentExpense),
		snapshot: cache.NewLRUCache[snapshot]("records", 1, opts.CacheTTL),
		filtered: cache.NewLRUCache[[]core.ExpenseRecord]("filter", opts.CacheSize, opts.CacheTTL),
		now:      time.Now,
	}
}

// ListResult is one page of the expense list.
type ListResult struct {
	Query   core.FilterQuery
	Records []core.ExpenseRecord
	Total   int
}

// Analytics holds the figures of the analytics page for one time range.
type Analytics struct {
	Range       core.TimeRange
	Reference   core.Date
	Year        int
	Count       int
	Total       core.Money
	Average     core.Money
	Approved    int
	Pending     int
	Categories  []core.CategoryShare
	Departments []core.CategoryAmount
	Monthly     []core.MonthPoint
}

// Records returns the provider snapshot, loading it on a cache miss.
func (s *ExpenseService) Records(ctx context.Context) ([]core.ExpenseRecord, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.records, nil
}

func (s *ExpenseService) load(ctx context.Context) (snapshot, error) {
	if snap, ok := s.snapshot.Get(snapshotKey); ok {
		return snap, nil
	}
	records, err := s.records.ListRecords(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("list records: %w", err)
	}
	snap := snapshot{gen: s.generation.Add(1), records: records}
	s.snapshot.Set(snapshotKey, snap)
	s.filtered.Purge()
	s.logger.DebugContext(ctx, "Record snapshot loaded",
		applog.FieldTotal, len(records),
		"generation", snap.gen)
	return snap, nil
}

// ListExpenses applies the filter to the snapshot.
func (s *ExpenseService) ListExpenses(ctx context.Context, q core.FilterQuery) (ListResult, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return ListResult{}, err
	}
	records := snap.records

	key := fmt.Sprintf("%d|%s", snap.gen, q.Key())
	matched, ok := s.filtered.Get(key)
	if !ok {
		matched = q.Apply(records)
		s.filtered.Set(key, matched)
	}
	filterMatches.Observe(float64(len(matched)))

	// The cached slice is shared between requests.
	return ListResult{
		Query:   q,
		Records: append([]core.ExpenseRecord(nil), matched...),
		Total:   len(records),
	}, nil
}

func (s *ExpenseService) Dashboard(ctx context.Context) (core.Dashboard, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return core.Dashboard{}, err
	}
	return core.BuildDashboard(records, core.DashboardInput{
		AnnualBudget: s.opts.AnnualBudget,
		RecentLimit:  s.opts.RecentLimit,
	}), nil
}

// Analytics computes the analytics figures for the window containing the
// latest record. The monthly series always covers that record's year.
func (s *ExpenseService) Analytics(ctx context.Context, tr core.TimeRange) (Analytics, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return Analytics{}, err
	}

	ref := core.ReferenceDate(records, s.now())
	window := core.ApplyTimeRange(records, tr, ref)
	counts := core.CountByStatus(window)

	a := Analytics{
		Range:       tr,
		Reference:   ref,
		Year:        ref.Year(),
		Count:       len(window),
		Total:       core.Total(window),
		Approved:    counts[core.StatusApproved],
		Pending:     counts[core.StatusPending],
		Categories:  core.CategoryShares(window),
		Departments: core.TotalsByDepartment(window),
		Monthly:     core.MonthlyTotals(records, ref.Year(), s.opts.MonthlyBudget),
	}
	if a.Count > 0 {
		a.Average = core.Money{Cents: a.Total.Cents / int64(a.Count)}
	}
	return a, nil
}

// Notify delivers n and records the outcome. Delivery failures are logged,
// never returned, so a broken broker cannot fail a page.
func (s *ExpenseService) Notify(ctx context.Context, n notify.Notification) {
	if s.notifier == nil {
		notificationsSent.WithLabelValues(n.Severity.String(), "skipped").Inc()
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		notificationsSent.WithLabelValues(n.Severity.String(), "failed").Inc()
		s.logger.ErrorContext(ctx, "Failed to deliver notification",
			applog.FieldNotificationID, n.ID,
			applog.FieldAction, n.Action,
			applog.FieldError, err)
		return
	}
	notificationsSent.WithLabelValues(n.Severity.String(), "sent").Inc()
}

// Ready reports whether the record provider is reachable.
func (s *ExpenseService) Ready(ctx context.Context) error {
	if p, ok := s.records.(store.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return errors.Join(store.ErrUnavailable, err)
		}
	}
	return nil
}
