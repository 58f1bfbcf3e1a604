package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/artbucket-io/artbucket/internal/models"
)

// CreateAPIToken stores a signed API token so it can be listed and revoked.
func (s *Store) CreateAPIToken(ctx context.Context, creatorID int64, name, token string, expiresAt time.Time) (*models.APIToken, error) {
	t := &models.APIToken{
		CreatorID: creatorID,
		Token:     token,
		Name:      name,
		ExpiresAt: sql.NullTime{Time: expiresAt, Valid: !expiresAt.IsZero()},
	}
	err := s.db.QueryRowxContext(ctx, s.rebind(
		`INSERT INTO api_tokens (creator_id, token, name, expires_at)
		 VALUES (?, ?, ?, ?) RETURNING id, created_at`),
		t.CreatorID, t.Token, t.Name, t.ExpiresAt,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetAPIToken looks up a token by value; revoked tokens are gone from the
// table and therefore rejected even if the signature still verifies.
func (s *Store) GetAPIToken(ctx context.Context, token string) (*models.APIToken, error) {
	var t models.APIToken
	err := s.db.GetContext(ctx, &t, s.rebind(`SELECT * FROM api_tokens WHERE token = ?`), token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAPITokens returns all tokens belonging to a creator.
func (s *Store) ListAPITokens(ctx context.Context, creatorID int64) ([]models.APIToken, error) {
	tokens := []models.APIToken{}
	err := s.db.SelectContext(ctx, &tokens, s.rebind(
		`SELECT * FROM api_tokens WHERE creator_id = ? ORDER BY id`), creatorID)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteAPIToken revokes a token owned by the given creator.
func (s *Store) DeleteAPIToken(ctx context.Context, creatorID, tokenID int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`DELETE FROM api_tokens WHERE id = ? AND creator_id = ?`), tokenID, creatorID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
