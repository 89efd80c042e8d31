package ingest

import (
	"encoding/json"
	"time"

	"github.com/akave-ai/akavelog/internal/model"
)

// truncate returns s cut to at most n bytes (byte truncation; event fields
// are short ASCII-leaning identifiers in practice).
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// dayID returns the integer YYYYMMDD for t in its own location, matching
// the server wall clock at ingestion. day_id follows created_at, not the
// client-supplied ts.
func dayID(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Derive turns one validated LogEvent into a StoredLog row, applying
// defaulting, truncation and fingerprinting. now is the server's ingestion
// wall-clock time, shared by every event in the batch so their day_id is
// consistent within one request.
func Derive(e model.LogEvent, projectID int64, tenantSlug string, now time.Time) (model.StoredLog, error) {
	ts := now
	if e.Ts != "" {
		parsed, err := time.Parse(time.RFC3339, e.Ts)
		if err == nil {
			ts = parsed
		}
	}

	source := e.Source
	if source == "" {
		source = tenantSlug
	}
	source = truncate(source, 64)

	env := e.Env
	if env == "" {
		env = "production"
	}
	env = truncate(env, 32)

	message := truncate(e.Message, 1024)

	var ctxJSON json.RawMessage
	if len(e.Ctx) > 0 {
		ctxJSON = e.Ctx
	}

	return model.StoredLog{
		ProjectID:   projectID,
		Ts:          ts,
		Level:       e.Level,
		Message:     message,
		Source:      source,
		Env:         env,
		CtxJSON:     ctxJSON,
		UserID:      e.UserID,
		RequestID:   e.RequestID,
		Tags:        e.Tags,
		Fingerprint: Fingerprint(message, e.Source, json.RawMessage(e.Ctx)),
		DayID:       dayID(now),
		CreatedAt:   now,
	}, nil
}
