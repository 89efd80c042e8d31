package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// connectForMigration opens a single unpooled connection, since tern's
// migrator owns its own transaction lifecycle and must not share a pool.
func connectForMigration(ctx context.Context, dsn string) (*pgx.Conn, error) {
	return pgx.Connect(ctx, dsn)
}
