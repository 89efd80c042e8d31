// Package store wraps the pgx connection pool behind a small surface
// (Exec, QueryRow, Query, BulkInsert, WithTx) so every other package binds
// parameters instead of interpolating SQL, and so store-unavailability is a
// distinct error from "no rows" or "validation failed".
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnavailable is returned when the pool cannot serve a connection
// (exhausted, connection refused, context deadline). Distinct from a
// query that ran but matched no rows or failed validation.
var ErrUnavailable = errors.New("store unavailable")

// Store is the service's sole entry point into the database.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-opened pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool exposes the underlying pool for callers (migrations, health checks)
// that genuinely need it; everyday query code should not need this.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// Exec runs a parameterised statement and returns the number of rows it
// affected.
func (s *Store) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, classify(err)
	}
	return tag.RowsAffected(), nil
}

// QueryRow runs a parameterised statement expected to match at most one
// row. Callers Scan the returned pgx.Row; pgx.ErrNoRows is returned
// unwrapped so callers can errors.Is against it directly.
func (s *Store) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.pool.QueryRow(ctx, sql, args...)
}

// Query runs a parameterised statement returning zero or more rows. The
// caller must close the returned Rows.
func (s *Store) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// BulkInsert builds and executes a single multi-row INSERT INTO <table>
// (<columns...>) VALUES (...),(...),... statement in one round-trip.
// rows must be non-empty and every row must have len(columns) values.
// suffix, if non-empty, is appended verbatim (e.g. "RETURNING id").
func (s *Store) BulkInsert(ctx context.Context, table string, columns []string, rows [][]any, suffix string) (int64, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("bulk insert into %s: rows must be non-empty", table)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))

	args := make([]any, 0, len(rows)*len(columns))
	n := 1
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("bulk insert into %s: row %d has %d values, want %d", table, i, len(row), len(columns))
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "$%d", n)
			n++
		}
		sb.WriteByte(')')
		args = append(args, row...)
	}
	if suffix != "" {
		sb.WriteByte(' ')
		sb.WriteString(suffix)
	}

	tag, err := s.pool.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, classify(err)
	}
	return tag.RowsAffected(), nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on any error fn returns (or panics with).
func (s *Store) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// WithTimeout derives a context bounded by d, for call sites (e.g. tenant
// lookup, maintenance steps) that need a stricter cap than the request's
// own deadline.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, d)
}
