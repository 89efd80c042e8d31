package store

import (
	"context"
	"time"

	"github.com/akave-ai/akavelog/internal/model"
)

// rateLimiterCounterHorizon is how far behind the current minute a
// kind=address counter may lag before maintenance purges it.
const rateLimiterCounterHorizon = 2

// tenantActivityCounterHorizon is the longer retention window for
// kind=tenant counters, kept around for future activity introspection.
const tenantActivityCounterHorizon = 120

// fingerprintIdleHorizon is how long a fingerprint tracker may sit idle
// before maintenance purges it.
const fingerprintIdleHorizon = 24 * time.Hour

func nowMinute(now time.Time) int64 { return now.Unix() / 60 }

// PurgeAddressCounters implements the rate-limiter counter expiry step.
func (s *Store) PurgeAddressCounters(ctx context.Context, now time.Time) error {
	_, err := s.PurgeCounters(ctx, model.CounterKindAddress, nowMinute(now)-rateLimiterCounterHorizon)
	return err
}

// PurgeTenantActivityCounters implements the tenant-activity counter
// expiry step.
func (s *Store) PurgeTenantActivityCounters(ctx context.Context, now time.Time) error {
	_, err := s.PurgeCounters(ctx, model.CounterKindTenant, nowMinute(now)-tenantActivityCounterHorizon)
	return err
}

// PurgeRetention deletes log rows older than each tenant's own
// retention_days, iterating tenants rather than applying a single global
// default.
func (s *Store) PurgeRetention(ctx context.Context, now time.Time) error {
	rows, err := s.pool.Query(ctx, `SELECT id, retention_days FROM projects`)
	if err != nil {
		return classify(err)
	}
	defer rows.Close()

	type tenantRetention struct {
		id            int64
		retentionDays int
	}
	var tenants []tenantRetention
	for rows.Next() {
		var t tenantRetention
		if err := rows.Scan(&t.id, &t.retentionDays); err != nil {
			return err
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, t := range tenants {
		cutoff := dayIDOf(now.AddDate(0, 0, -t.retentionDays))
		if _, err := s.Exec(ctx, `DELETE FROM logs WHERE project_id = $1 AND day_id < $2`, t.id, cutoff); err != nil {
			return err
		}
	}
	return nil
}

// PurgeIdleFingerprints deletes fingerprint trackers idle longer than
// fingerprintIdleHorizon.
func (s *Store) PurgeIdleFingerprints(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-fingerprintIdleHorizon)
	_, err := s.Exec(ctx, `DELETE FROM fingerprint_trackers WHERE last_seen < $1`, cutoff)
	return err
}

// TryBeginMaintenance atomically claims maintenance_state.in_progress.
// If force is true, it claims the flag even if another pass already holds
// it, for crash recovery.
func (s *Store) TryBeginMaintenance(ctx context.Context, force bool) (bool, error) {
	sql := `UPDATE maintenance_state SET in_progress = TRUE WHERE id = TRUE AND in_progress = FALSE`
	if force {
		sql = `UPDATE maintenance_state SET in_progress = TRUE WHERE id = TRUE`
	}
	n, err := s.Exec(ctx, sql)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// EndMaintenance clears in_progress and records the completion time.
func (s *Store) EndMaintenance(ctx context.Context, at time.Time) error {
	_, err := s.Exec(ctx, `UPDATE maintenance_state SET in_progress = FALSE, last_maintenance = $1 WHERE id = TRUE`, at)
	return err
}

// MaintenanceInProgressSince reports whether the store-wide flag is set,
// and the last_maintenance timestamp recorded (used by the caller as a
// proxy for "since", since the flag itself carries no started-at column).
func (s *Store) MaintenanceInProgressSince(ctx context.Context) (bool, time.Time, error) {
	var inProgress bool
	var since time.Time
	err := s.pool.QueryRow(ctx, `SELECT in_progress, last_maintenance FROM maintenance_state WHERE id = TRUE`).Scan(&inProgress, &since)
	if err != nil {
		return false, time.Time{}, classify(err)
	}
	return inProgress, since, nil
}

func dayIDOf(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
