package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/artbucket-io/artbucket/internal/models"
	"github.com/artbucket-io/artbucket/internal/storage"
)

// CreateCreator inserts a new creator and bumps the creator counter in one
// transaction. Duplicate email or store name yields ErrEmailTaken or
// ErrStoreNameTaken; the unique constraints back up the existence checks
// against concurrent registrations.
func (s *Store) CreateCreator(ctx context.Context, c *models.Creator) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			s.rebind(`SELECT EXISTS(SELECT 1 FROM creators WHERE email = ?)`), c.Email); err != nil {
			return err
		}
		if exists {
			return ErrEmailTaken
		}

		if err := tx.GetContext(ctx, &exists,
			s.rebind(`SELECT EXISTS(SELECT 1 FROM creators WHERE store_name = ?)`), c.StoreName); err != nil {
			return err
		}
		if exists {
			return ErrStoreNameTaken
		}

		err := tx.QueryRowxContext(ctx, s.rebind(
			`INSERT INTO creators (user_name, email, store_name, title, hashed_pass)
			 VALUES (?, ?, ?, ?, ?) RETURNING id`),
			c.UserName, c.Email, c.StoreName, c.Title, c.HashedPass,
		).Scan(&id)
		if err != nil {
			return mapUniqueViolation(err)
		}

		return s.bumpCount(tx, CreatorTable, 1)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// mapUniqueViolation translates a unique-constraint failure into the
// matching business error, for the narrow race where two registrations pass
// the existence checks at once.
func mapUniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key") && !strings.Contains(msg, "UNIQUE constraint") {
		return err
	}
	if strings.Contains(msg, "store_name") {
		return ErrStoreNameTaken
	}
	if strings.Contains(msg, "email") {
		return ErrEmailTaken
	}
	return err
}

func (s *Store) GetCreatorByID(ctx context.Context, id int64) (*models.Creator, error) {
	return s.getCreator(ctx, `SELECT * FROM creators WHERE id = ?`, id)
}

func (s *Store) GetCreatorByEmail(ctx context.Context, email string) (*models.Creator, error) {
	return s.getCreator(ctx, `SELECT * FROM creators WHERE email = ?`, email)
}

func (s *Store) GetCreatorByStoreName(ctx context.Context, storeName string) (*models.Creator, error) {
	return s.getCreator(ctx, `SELECT * FROM creators WHERE store_name = ?`, storeName)
}

func (s *Store) getCreator(ctx context.Context, query string, arg any) (*models.Creator, error) {
	var c models.Creator
	err := s.db.GetContext(ctx, &c, s.rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}

// ListCreators returns the public creator directory.
func (s *Store) ListCreators(ctx context.Context) ([]models.CreatorSummary, error) {
	creators := []models.CreatorSummary{}
	err := s.db.SelectContext(ctx, &creators,
		`SELECT id, user_name, title, store_name, profile FROM creators ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return creators, nil
}

// UpdateProfile updates the mutable profile fields. The store-name
// uniqueness check exempts the creator's own row, so re-submitting the
// current name is a no-op success.
func (s *Store) UpdateProfile(ctx context.Context, id int64, userName, storeName, title, whatsapp, instagram string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var taken bool
		if err := tx.GetContext(ctx, &taken,
			s.rebind(`SELECT EXISTS(SELECT 1 FROM creators WHERE store_name = ? AND id <> ?)`),
			storeName, id); err != nil {
			return err
		}
		if taken {
			return ErrStoreNameTaken
		}

		res, err := tx.ExecContext(ctx, s.rebind(
			`UPDATE creators SET user_name = ?, store_name = ?, title = ?, whatsapp = ?, instagram = ?,
			 updated_at = CURRENT_TIMESTAMP WHERE id = ?`),
			userName, storeName, title, whatsapp, instagram, id)
		if err != nil {
			return mapUniqueViolation(err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// UpdateProfileImage stores the URL of a freshly uploaded profile picture.
func (s *Store) UpdateProfileImage(ctx context.Context, id int64, imageURL string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE creators SET profile = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`), imageURL, id)
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

// SetSessionToken persists the current session token on the creator row.
func (s *Store) SetSessionToken(ctx context.Context, id int64, token string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE creators SET session_token = ? WHERE id = ?`), token, id)
	return err
}

// ClearSessionToken removes a persisted session token wherever it appears.
func (s *Store) ClearSessionToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE creators SET session_token = NULL WHERE session_token = ?`), token)
	return err
}

// IncrementConnections bumps the public popularity counter of a store.
func (s *Store) IncrementConnections(ctx context.Context, storeName string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE creators SET connections = connections + 1 WHERE store_name = ?`), storeName)
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

// EmailRegistered reports whether a creator already uses the given email.
func (s *Store) EmailRegistered(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		s.rebind(`SELECT EXISTS(SELECT 1 FROM creators WHERE email = ?)`), email)
	return exists, err
}

// DeleteCreator removes a creator and everything they own: products go
// first (their image assets are queued for cleanup), both counters are
// adjusted, then the creator row itself is deleted. All of it commits or
// rolls back together; the actual storage deletion happens later in the
// background worker.
func (s *Store) DeleteCreator(ctx context.Context, id int64) (deletedProducts int64, err error) {
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		var images []string
		if err := tx.SelectContext(ctx, &images,
			s.rebind(`SELECT image FROM products WHERE creator_id = ?`), id); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM products WHERE creator_id = ?`), id)
		if err != nil {
			return err
		}
		deletedProducts, err = res.RowsAffected()
		if err != nil {
			return err
		}

		if deletedProducts > 0 {
			if err := s.bumpCount(tx, ProductTable, -deletedProducts); err != nil {
				return err
			}
		}

		for _, img := range images {
			if err := s.enqueueCleanup(ctx, tx, storage.PublicIDFromURL(img)); err != nil {
				return err
			}
		}

		var profile string
		if err := tx.GetContext(ctx, &profile,
			s.rebind(`SELECT profile FROM creators WHERE id = ?`), id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		// Placeholder profiles have no backing asset.
		if strings.HasPrefix(profile, "http") {
			if err := s.enqueueCleanup(ctx, tx, storage.PublicIDFromURL(profile)); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM creators WHERE id = ?`), id); err != nil {
			return err
		}

		return s.bumpCount(tx, CreatorTable, -1)
	})
	if err != nil {
		return 0, err
	}
	return deletedProducts, nil
}
