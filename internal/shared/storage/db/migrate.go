package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"sync"

	"github.com/pressly/goose/v3"

	"resume-builder/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

var (
	errNilDB = errors.New("migrations need a database connection")
	// goose keeps its dialect and filesystem in package globals.
	gooseMu sync.Mutex
)

// RunMigrations applies every pending migration. A nil database is a no-op
// so processes running on memory repositories can call it unconditionally.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	return withGoose(func() error {
		if err := goose.UpContext(ctx, database, migrationsDir); err != nil {
			return err
		}
		version, err := goose.GetDBVersionContext(ctx, database)
		if err == nil {
			telemetry.Info("db.migrated", map[string]any{"version": version})
		}
		return nil
	})
}

// RollbackMigration reverts the most recently applied migration.
func RollbackMigration(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return errNilDB
	}
	return withGoose(func() error { return goose.DownContext(ctx, database, migrationsDir) })
}

// MigrationStatus prints the applied state of every embedded migration.
func MigrationStatus(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return errNilDB
	}
	return withGoose(func() error { return goose.StatusContext(ctx, database, migrationsDir) })
}

// SchemaVersion is the newest applied migration.
func SchemaVersion(ctx context.Context, database *sql.DB) (int64, error) {
	if database == nil {
		return 0, errNilDB
	}
	var version int64
	err := withGoose(func() error {
		v, err := goose.GetDBVersionContext(ctx, database)
		version = v
		return err
	})
	return version, err
}

func withGoose(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return fn()
}
