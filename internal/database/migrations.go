package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite3/*.sql
var migrationsFS embed.FS

// RunMigrations brings the schema up to date for the given database type.
func RunMigrations(ctx context.Context, db *sqlx.DB, dbType string) error {
	dialect, dir := "postgres", "migrations/postgres"
	if dbType != "postgres" {
		dialect, dir = "sqlite3", "migrations/sqlite3"
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
