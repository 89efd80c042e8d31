package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/akave-ai/akavelog/internal/model"
	"github.com/akave-ai/akavelog/internal/query"
)

// QueryLogs implements query.Reader: a parameterised, tenant-scoped,
// filter+paginate SELECT ordered by created_at DESC.
func (s *Store) QueryLogs(ctx context.Context, f query.Filter) ([]model.StoredLog, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, project_id, ts, level, message, source, env, ctx_json, user_id, request_id, tags, fingerprint, day_id, created_at
		FROM logs WHERE project_id = $1`)
	args := []any{f.ProjectID}

	if f.Level != "" {
		args = append(args, f.Level)
		fmt.Fprintf(&sb, " AND level = $%d", len(args))
	}
	if f.Since != nil {
		args = append(args, *f.Since)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
	}

	args = append(args, f.Limit)
	fmt.Fprintf(&sb, " ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, f.Offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []model.StoredLog
	for rows.Next() {
		var r model.StoredLog
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.Ts, &r.Level, &r.Message, &r.Source, &r.Env,
			&r.CtxJSON, &r.UserID, &r.RequestID, &r.Tags, &r.Fingerprint, &r.DayID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
