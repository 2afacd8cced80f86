// Package postgres serves expense records from a PostgreSQL table through a
// pgx connection pool. Schema and demo seed are applied with golang-migrate.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"expensemate/internal/core"
	"expensemate/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var _ store.RecordLister = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

// Connect creates the pool and pings the server.
func Connect(ctx context.Context, dsn string, logger *slog.Logger) (*Repository, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", store.ErrUnavailable, err)
	}

	logger.Info("Connected to PostgreSQL",
		slog.String("host", poolCfg.ConnConfig.Host),
		slog.Int("port", int(poolCfg.ConnConfig.Port)),
		slog.String("database", poolCfg.ConnConfig.Database),
	)

	return &Repository{pool: pool}, nil
}

// Migrate applies the embedded migrations. Re-running is a no-op.
func Migrate(dsn string, logger *slog.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbURL, err := migrateURL(dsn)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Migrations applied",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
	)
	return nil
}

// migrateURL rewrites a postgres:// DSN into the pgx5:// scheme the migrate
// driver registers under.
func migrateURL(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse postgres dsn: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql", "pgx5":
		u.Scheme = "pgx5"
	default:
		return "", fmt.Errorf("unsupported postgres dsn scheme %q", u.Scheme)
	}
	return u.String(), nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repository) Close() {
	r.pool.Close()
}

const listRecordsQuery = `
SELECT id, description, amount_cents, category, department,
       to_char(expense_date, 'YYYY-MM-DD'), status, attachment_count
FROM expense_records
ORDER BY position`

// ListRecords implements store.RecordLister
func (r *Repository) ListRecords(ctx context.Context) ([]core.ExpenseRecord, error) {
	rows, err := r.pool.Query(ctx, listRecordsQuery)
	if err != nil {
		return nil, fmt.Errorf("query expense records: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		var row recordRow
		if err := rows.Scan(&row.id, &row.description, &row.amountCents, &row.category,
			&row.department, &row.date, &row.status, &row.attachments); err != nil {
			return nil, fmt.Errorf("scan expense record: %w", err)
		}
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense records: %w", err)
	}
	return out, nil
}

type recordRow struct {
	id          string
	description string
	amountCents int64
	category    string
	department  string
	date        string
	status      string
	attachments int32
}

func (row recordRow) toRecord() (core.ExpenseRecord, error) {
	date, err := core.ParseDate(row.date)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("record %s: %w", row.id, err)
	}
	status, err := core.ParseStatus(row.status)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("record %s: %w", row.id, err)
	}
	rec := core.ExpenseRecord{
		ID:              row.id,
		Description:     row.description,
		Amount:          core.Money{Cents: row.amountCents},
		Category:        row.category,
		Department:      row.department,
		Date:            date,
		Status:          status,
		AttachmentCount: int(row.attachments),
	}
	if err := rec.Validate(); err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("record %s: %w", row.id, err)
	}
	return rec, nil
}
