package model

import (
	"encoding/json"
	"time"
)

// Level is one of the five accepted severities.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

// ValidLevel reports whether l is one of the accepted severities.
func ValidLevel(l string) bool {
	switch Level(l) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal:
		return true
	}
	return false
}

// LogEvent is one submitted event inside an ingest batch, as decoded from
// the request body. Fields not provided by the client are filled in by the
// ingestion pipeline (see ingest.Derive).
type LogEvent struct {
	Ts        string          `json:"ts,omitempty"`
	Level     string          `json:"level" validate:"required,oneof=debug info warn error fatal"`
	Message   string          `json:"message" validate:"required,min=1,max=1024"`
	Source    string          `json:"source,omitempty" validate:"max=64"`
	Env       string          `json:"env,omitempty" validate:"max=32"`
	Ctx       json.RawMessage `json:"ctx,omitempty"`
	UserID    string          `json:"user_id,omitempty" validate:"max=64"`
	RequestID string          `json:"request_id,omitempty" validate:"max=64"`
	Tags      string          `json:"tags,omitempty" validate:"max=128"`
}

// Batch is the request body of POST /api/log. It also accepts a bare
// JSON array of LogEvent in place of the wrapped object (see UnmarshalJSON).
type Batch struct {
	Events []LogEvent `json:"events"`
}

// UnmarshalJSON accepts either {"events":[...]} or a bare [...] array.
func (b *Batch) UnmarshalJSON(data []byte) error {
	type wrapped struct {
		Events []LogEvent `json:"events"`
	}
	var w wrapped
	if err := json.Unmarshal(data, &w); err == nil && w.Events != nil {
		b.Events = w.Events
		return nil
	}
	var bare []LogEvent
	if err := json.Unmarshal(data, &bare); err != nil {
		return err
	}
	b.Events = bare
	return nil
}

// StoredLog is an immutable persisted row, serialised as the body of a
// GET /api/log response with the same snake_case field naming as LogEvent.
type StoredLog struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"project_id"`
	Ts          time.Time       `json:"ts"`
	Level       string          `json:"level"`
	Message     string          `json:"message"`
	Source      string          `json:"source"`
	Env         string          `json:"env"`
	CtxJSON     json.RawMessage `json:"ctx,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
	RequestID   string          `json:"request_id,omitempty"`
	Tags        string          `json:"tags,omitempty"`
	Fingerprint string          `json:"fingerprint"`
	DayID       int             `json:"day_id"`
	CreatedAt   time.Time       `json:"created_at"`
}
