// Package tenant resolves an API key hash to a Tenant record: a thin read
// path over the store, bounded by a timeout distinct from "not found".
package tenant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akave-ai/akavelog/internal/model"
)

// ErrNotFound means the hash matched no project row.
var ErrNotFound = errors.New("tenant not found")

// ErrUnavailable means the lookup did not complete within Timeout.
var ErrUnavailable = errors.New("tenant lookup unavailable")

// Registry looks tenants up by api_key_hash, bounded by Timeout (default
// ~10s). It is safe for concurrent use.
type Registry struct {
	pool    *pgxpool.Pool
	Timeout time.Duration
}

// New returns a Registry with the default 10s lookup timeout.
func New(pool *pgxpool.Pool) *Registry {
	return &Registry{pool: pool, Timeout: 10 * time.Second}
}

// ByAPIKeyHash resolves hash (hex-encoded SHA-256 of the plaintext key) to
// its Tenant. It returns ErrNotFound if no project matches, or
// ErrUnavailable if the lookup does not complete within r.Timeout.
func (r *Registry) ByAPIKeyHash(ctx context.Context, hash string) (*model.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var t model.Tenant
	err := r.pool.QueryRow(ctx, `
		SELECT id, slug, name, api_key_hash, retention_days, minute_cap, sample_policy, created_at, updated_at
		FROM projects
		WHERE api_key_hash = $1`, hash,
	).Scan(&t.ID, &t.Slug, &t.Name, &t.APIKeyHash, &t.RetentionDays, &t.MinuteCap, &t.SamplePolicy, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrUnavailable
		}
		return nil, fmt.Errorf("lookup tenant: %w", err)
	}
	return &t, nil
}
