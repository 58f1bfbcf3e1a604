// Package database opens the SQL connection pool and runs schema migrations.
// PostgreSQL is used in production; SQLite serves local development and tests.
package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/artbucket-io/artbucket/internal/config"
)

// Open connects to the configured database and applies pool settings.
func Open(cfg *config.Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Database.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.SSLMode,
		)
		db, err = sqlx.Open("postgres", dsn)
	case "sqlite", "":
		dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on", cfg.Database.Path)
		db, err = sqlx.Open("sqlite3", dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Database.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConns)
	}
	if cfg.Database.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdle)
	}
	if cfg.Database.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(cfg.Database.ConnMaxLifetime); err == nil {
			db.SetConnMaxLifetime(d)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
