package models

import (
	"database/sql"
	"time"
)

// Session maps an opaque cookie token to an authenticated creator.
type Session struct {
	ID        int64     `db:"id"`
	CreatorID int64     `db:"creator_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// APIToken is a long-lived bearer credential for programmatic access.
type APIToken struct {
	ID        int64        `json:"id" db:"id"`
	CreatorID int64        `json:"-" db:"creator_id"`
	Token     string       `json:"token" db:"token"`
	Name      string       `json:"name" db:"name"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	ExpiresAt sql.NullTime `json:"-" db:"expires_at"`
}

// CleanupTask is a pending deletion of an orphaned storage asset.
type CleanupTask struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Attempts  int       `db:"attempts"`
	CreatedAt time.Time `db:"created_at"`
}
