package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"expensemate/internal/core"
	"expensemate/internal/notify"
	"expensemate/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.RecordLister = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const listRecordsQuery = `
SELECT id, description, amount_cents, category, department, expense_date, status, attachment_count
FROM expense_records
ORDER BY position`

// ListRecords implements store.RecordLister
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]core.ExpenseRecord, error) {
	rows, err := r.db.QueryContext(ctx, listRecordsQuery)
	if err != nil {
		return nil, fmt.Errorf("query expense records: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		var (
			rec            core.ExpenseRecord
			date, status   string
			amount, attach int64
		)
		if err := rows.Scan(&rec.ID, &rec.Description, &amount, &rec.Category, &rec.Department, &date, &status, &attach); err != nil {
			return nil, fmt.Errorf("scan expense record: %w", err)
		}
		if rec.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		if rec.Status, err = core.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		rec.Amount = core.Money{Cents: amount}
		rec.AttachmentCount = int(attach)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense records: %w", err)
	}
	return out, nil
}

// RecordNotification stores a delivered notification. Redelivery of the same
// notification ID is ignored.
func (r *SQLiteRepository) RecordNotification(ctx context.Context, n notify.Notification, receivedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO notification_log (id, title, message, severity, action, created_at, received_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING`,
		n.ID, n.Title, n.Message, n.Severity.String(), n.Action,
		n.CreatedAt.UTC().Format(time.RFC3339Nano), receivedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert notification %s: %w", n.ID, err)
	}
	return nil
}

// RecentNotifications returns up to limit logged notifications, newest first.
func (r *SQLiteRepository) RecentNotifications(ctx context.Context, limit int) ([]notify.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, message, severity, action, created_at
FROM notification_log
ORDER BY created_at DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []notify.Notification
	for rows.Next() {
		var (
			n                   notify.Notification
			severity, createdAt string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &severity, &n.Action, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if n.Severity, err = notify.ParseSeverity(severity); err != nil {
			return nil, fmt.Errorf("notification %s: %w", n.ID, err)
		}
		if n.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("notification %s created_at: %w", n.ID, err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
