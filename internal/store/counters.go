package store

import (
	"context"

	"github.com/akave-ai/akavelog/internal/model"
)

// IncrementAndRead atomically upserts (kind, key, minuteUTC), incrementing
// count, and returns the post-increment value: the linearisation point the
// rate limiter relies on for monotone reads within a minute bucket.
func (s *Store) IncrementAndRead(ctx context.Context, kind model.CounterKind, key string, minuteUTC int64) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO project_minute_counters (kind, key, minute_utc, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (kind, key, minute_utc)
		DO UPDATE SET count = project_minute_counters.count + 1
		RETURNING count`,
		string(kind), key, minuteUTC,
	).Scan(&count)
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}

// PurgeCounters deletes counter rows whose minute_utc is older than
// cutoffMinute, for the given kind. Used by maintenance for both the
// rate-limiter expiry (cutoff now-2) and tenant-activity expiry (now-120).
func (s *Store) PurgeCounters(ctx context.Context, kind model.CounterKind, cutoffMinute int64) (int64, error) {
	return s.Exec(ctx, `DELETE FROM project_minute_counters WHERE kind = $1 AND minute_utc < $2`, string(kind), cutoffMinute)
}
