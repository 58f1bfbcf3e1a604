package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/artbucket-io/artbucket/internal/models"
)

// CreateSession persists a freshly minted session token.
func (s *Store) CreateSession(ctx context.Context, creatorID int64, token string, expiresAt time.Time) (*models.Session, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, s.rebind(
		`INSERT INTO sessions (creator_id, token, expires_at) VALUES (?, ?, ?) RETURNING id`),
		creatorID, token, expiresAt,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		ID:        id,
		CreatorID: creatorID,
		Token:     token,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}, nil
}

// GetSession looks up a session by its token.
func (s *Store) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var sess models.Session
	err := s.db.GetContext(ctx, &sess, s.rebind(`SELECT * FROM sessions WHERE token = ?`), token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes a session by token. Deleting an unknown token is
// not an error; logout is idempotent.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM sessions WHERE token = ?`), token)
	return err
}

// DeleteExpiredSessions sweeps out sessions past their expiry.
func (s *Store) DeleteExpiredSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM sessions WHERE expires_at < ?`), time.Now())
	return err
}
