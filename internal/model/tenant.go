package model

import (
	"encoding/json"
	"time"
)

// Tenant is an authenticated client of the ingest API (a.k.a. project).
// The plaintext API key is never stored; only its SHA-256 hex digest is.
type Tenant struct {
	ID            int64
	Slug          string
	Name          string
	APIKeyHash    string
	RetentionDays int
	MinuteCap     int
	SamplePolicy  json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
