// Package ingest implements the ingestion pipeline: batch validation,
// per-event derivation and fingerprinting, and a single bulk insert per
// request. It never talks to HTTP; the server package decodes the request
// and calls Pipeline.Ingest.
package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/akave-ai/akavelog/internal/apperr"
	"github.com/akave-ai/akavelog/internal/model"
)

// LogInserter is the narrow store dependency the pipeline needs: bulk
// persistence of already-derived rows. Satisfied directly by *store.Store,
// or by a fake in tests.
type LogInserter interface {
	BulkInsertLogs(ctx context.Context, rows []model.StoredLog) (inserted int64, err error)
}

// MaintenanceTrigger is the narrow dependency the pipeline uses to fire the
// on-path maintenance scheduler after a successful ingest, without the
// pipeline knowing anything about its trigger rule or tasks.
type MaintenanceTrigger interface {
	TriggerAsync(now time.Time)
}

// Pipeline wires together validation, derivation and persistence.
type Pipeline struct {
	Inserter    LogInserter
	Maintenance MaintenanceTrigger
	MaxEvents   int
}

// New builds a Pipeline.
func New(inserter LogInserter, maintenance MaintenanceTrigger, maxEvents int) *Pipeline {
	return &Pipeline{Inserter: inserter, Maintenance: maintenance, MaxEvents: maxEvents}
}

// Result is the success response body for a successful ingest.
type Result struct {
	Received  int    `json:"received"`
	Processed int64  `json:"processed"`
	RequestID string `json:"requestId"`
}

// Ingest validates events, derives and bulk-inserts rows for tenant, and
// triggers maintenance on success. now is the server's ingestion
// wall-clock time (injected so tests can pin it).
func (p *Pipeline) Ingest(ctx context.Context, tenant *model.Tenant, events []model.LogEvent, now time.Time) (Result, error) {
	if err := ValidateBatch(events, p.MaxEvents); err != nil {
		return Result{}, err
	}

	rows := make([]model.StoredLog, 0, len(events))
	for _, e := range events {
		row, err := Derive(e, tenant.ID, tenant.Slug, now)
		if err != nil {
			return Result{}, apperr.Wrap(apperr.CodeInvalidEventData, "failed to derive event", err)
		}
		rows = append(rows, row)
	}

	inserted, err := p.Inserter.BulkInsertLogs(ctx, rows)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.CodeDBBulkInsertFailed, "failed to persist batch", err)
	}

	if p.Maintenance != nil {
		p.Maintenance.TriggerAsync(now)
	}

	return Result{
		Received:  len(events),
		Processed: inserted,
		RequestID: uuid.New().String(),
	}, nil
}
