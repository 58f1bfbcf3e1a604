package models

import (
	"database/sql"
	"time"
)

// Creator represents a registered store owner.
type Creator struct {
	ID           int64          `json:"id" db:"id"`
	UserName     string         `json:"userName" db:"user_name"`
	Email        string         `json:"email" db:"email"`
	StoreName    string         `json:"storeName" db:"store_name"`
	HashedPass   string         `json:"-" db:"hashed_pass"` // never sent to the client
	Title        string         `json:"title" db:"title"`
	Whatsapp     string         `json:"whatsapp" db:"whatsapp"`
	Instagram    string         `json:"instagram" db:"instagram"`
	Profile      string         `json:"profile" db:"profile"`
	SessionToken sql.NullString `json:"-" db:"session_token"`
	Connections  int64          `json:"connections" db:"connections"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// CreatorSummary is the public projection returned by the creators listing.
type CreatorSummary struct {
	ID        int64  `json:"id" db:"id"`
	UserName  string `json:"user_name" db:"user_name"`
	Title     string `json:"title" db:"title"`
	StoreName string `json:"store_name" db:"store_name"`
	Profile   string `json:"profile" db:"profile"`
}
