package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/tern/v2/migrate"
)

// migrationsSubdir is relative to the process's working directory: the
// process is expected to start from the module root.
const migrationsSubdir = "internal/database/migrations"

// RunMigrations applies every pending .sql migration under migrationsSubdir
// using tern's migration engine. baseDir is the directory migrationsSubdir
// is resolved against (the working directory the process was started from).
func RunMigrations(ctx context.Context, dsn string, baseDir string) error {
	dir := filepath.Join(baseDir, migrationsSubdir)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("migrations dir %s: %w", dir, err)
	}

	conn, err := connectForMigration(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	migrator, err := migrate.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("new migrator: %w", err)
	}

	if err := migrator.LoadMigrations(os.DirFS(dir)); err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if migrator.Migrations == nil || len(migrator.Migrations) == 0 {
		return fmt.Errorf("no migrations found in %s", dir)
	}

	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}
