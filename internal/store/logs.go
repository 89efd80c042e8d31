package store

import (
	"context"

	"github.com/akave-ai/akavelog/internal/model"
)

var logColumns = []string{
	"project_id", "ts", "level", "message", "source", "env",
	"ctx_json", "user_id", "request_id", "tags", "fingerprint", "day_id", "created_at",
}

// BulkInsertLogs builds a single multi-row INSERT for rows and executes it
// in one round-trip. An empty rows slice short-circuits with zero inserted
// and no error.
func (s *Store) BulkInsertLogs(ctx context.Context, rows []model.StoredLog) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	values := make([][]any, len(rows))
	for i, r := range rows {
		var ctxJSON any
		if r.CtxJSON != nil {
			ctxJSON = r.CtxJSON
		}
		values[i] = []any{
			r.ProjectID, r.Ts, r.Level, r.Message, r.Source, r.Env,
			ctxJSON, r.UserID, r.RequestID, r.Tags, r.Fingerprint, r.DayID, r.CreatedAt,
		}
	}

	return s.BulkInsert(ctx, "logs", logColumns, values, "")
}
