// Package ratelimit implements the two-tier, minute-bucketed limiter: an
// atomic upsert-and-read over a shared store, scoped independently by
// tenant id and by source address.
package ratelimit

import (
	"context"
	"time"

	"github.com/akave-ai/akavelog/internal/apperr"
	"github.com/akave-ai/akavelog/internal/model"
)

// Counter is the narrow store dependency Limiter needs: an atomic
// increment-and-read over (kind, key, minute). Satisfied directly by
// *store.Store, or by a fake in tests.
type Counter interface {
	IncrementAndRead(ctx context.Context, kind model.CounterKind, key string, minuteUTC int64) (count int64, err error)
}

// Limiter evaluates both tiers for one request.
type Limiter struct {
	Counters Counter
}

// New builds a Limiter over counters.
func New(counters Counter) *Limiter {
	return &Limiter{Counters: counters}
}

// Result carries the observability headers set for a tier that did not
// trip the cap.
type Result struct {
	Tier      string // "address" or "tenant", used in header names
	Limit     int
	Count     int64
	Remaining int64
	ResetUnix int64
}

// minuteBucket returns floor(now_unix_seconds / 60).
func minuteBucket(now time.Time) int64 {
	return now.Unix() / 60
}

// checkTier runs one tier's increment-and-read-and-compare, the shared core
// of CheckAddress and CheckTenant.
func (l *Limiter) checkTier(ctx context.Context, tier string, kind model.CounterKind, key string, limit int, exceededCode apperr.Code, now time.Time) (*Result, error) {
	m := minuteBucket(now)
	count, err := l.Counters.IncrementAndRead(ctx, kind, key, m)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDatabaseError, "rate limit counter update failed", err)
	}

	if count > int64(limit) {
		msg := "rate limit exceeded"
		return nil, apperr.RateLimited(exceededCode, msg)
	}

	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Tier:      tier,
		Limit:     limit,
		Count:     count,
		Remaining: remaining,
		ResetUnix: (m + 1) * 60,
	}, nil
}

// CheckAddress evaluates the address tier: key is the source IP, cap is
// RATE_LIMIT_PER_IP. Applied to every authenticated API request.
func (l *Limiter) CheckAddress(ctx context.Context, addr string, limit int, now time.Time) (*Result, error) {
	return l.checkTier(ctx, "address", model.CounterKindAddress, addr, limit, apperr.CodeIPRateLimitExceeded, now)
}

// CheckTenant evaluates the tenant tier: key is the stringified tenant id,
// cap is the tenant's minute_cap. Applied after successful authentication.
func (l *Limiter) CheckTenant(ctx context.Context, tenantKey string, limit int, now time.Time) (*Result, error) {
	return l.checkTier(ctx, "tenant", model.CounterKindTenant, tenantKey, limit, apperr.CodeProjectRateLimitExceeded, now)
}
