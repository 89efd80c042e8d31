// Package database owns the pgx connection pool and schema migrations.
// It opens the pool; internal/store wraps it in the Store type the rest of the
// service uses, and internal/tenant queries the pool directly for key lookups.
package database

import (
	"context"
	"fmt"

	pgxzerolog "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog/log"

	"github.com/akave-ai/akavelog/internal/config"
)

// multiTracer fans query events out to several pgx.QueryTracer
// implementations; pgx only accepts one tracer per connection, so this is
// how zerolog query logging and New Relic DB spans coexist.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (m multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, t := range m.tracers {
		ctx = t.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (m multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, t := range m.tracers {
		t.TraceQueryEnd(ctx, conn, data)
	}
}

// NewPool opens a pgxpool.Pool sized per cfg (min/max 2/10 by default, to
// suit shared-hosting limits), with a zerolog query tracer and New Relic
// APM instrumentation attached to every connection.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	logTracer := &tracelog.TraceLog{
		Logger:   pgxzerolog.NewLogger(log.Logger),
		LogLevel: tracelog.LogLevelWarn,
	}
	poolCfg.ConnConfig.Tracer = multiTracer{tracers: []pgx.QueryTracer{logTracer, nrpgx5.NewTracer()}}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}
