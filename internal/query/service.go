// Package query implements the tenant-scoped read path: parameterised
// filter+paginate reads over the log table.
package query

import (
	"context"
	"time"

	"github.com/akave-ai/akavelog/internal/model"
)

// hardLimit is the absolute cap on rows returned by one query, regardless
// of the caller-supplied limit.
const hardLimit = 1000

// defaultLimit is used when the caller does not specify one.
const defaultLimit = 50

// Reader is the narrow store dependency Service needs.
type Reader interface {
	QueryLogs(ctx context.Context, f Filter) ([]model.StoredLog, error)
}

// Filter describes one GET /api/log request, already parsed and clamped.
type Filter struct {
	ProjectID int64
	Level     string     // "" means no filter
	Since     *time.Time // nil means no filter
	Limit     int
	Offset    int
}

// NormalizeLimit clamps limit into (0, hardLimit], defaulting to
// defaultLimit when limit is <= 0.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > hardLimit {
		return hardLimit
	}
	return limit
}

// Service answers GET /api/log, scoped to the authenticated tenant.
type Service struct {
	Reader Reader
}

// New builds a Service over reader.
func New(reader Reader) *Service {
	return &Service{Reader: reader}
}

// Query runs f against the store. Ordering is created_at DESC, stable
// within this call but not across concurrent inserts.
func (s *Service) Query(ctx context.Context, f Filter) ([]model.StoredLog, error) {
	f.Limit = NormalizeLimit(f.Limit)
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.Reader.QueryLogs(ctx, f)
}
