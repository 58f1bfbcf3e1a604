package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/artbucket-io/artbucket/internal/models"
	"github.com/artbucket-io/artbucket/internal/storage"
)

// ProductWithStore is the product detail projection including the owning
// store, used by the public product page.
type ProductWithStore struct {
	models.Product
	StoreName string `db:"store_name"`
	UserName  string `db:"user_name"`
	Whatsapp  string `db:"whatsapp"`
	Instagram string `db:"instagram"`
	Profile   string `db:"profile"`
}

// CreateProduct inserts a product and bumps the product counter in one
// transaction. The creator_id foreign key guarantees the owner exists.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, s.rebind(
			`INSERT INTO products (creator_id, name, description, price, image)
			 VALUES (?, ?, ?, ?, ?) RETURNING id`),
			p.CreatorID, p.Name, p.Description, p.Price, p.Image,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
		return s.bumpCount(tx, ProductTable, 1)
	})
}

// GetProductWithStore fetches a product together with its owner's store
// details.
func (s *Store) GetProductWithStore(ctx context.Context, id int64) (*ProductWithStore, error) {
	var p ProductWithStore
	err := s.db.GetContext(ctx, &p, s.rebind(
		`SELECT p.id, p.creator_id, p.name, p.description, p.price, p.image, p.created_at,
		        c.store_name, c.user_name, c.whatsapp, c.instagram, c.profile
		 FROM products p
		 JOIN creators c ON c.id = p.creator_id
		 WHERE p.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &p, nil
}

// ListProductsByCreator returns all products owned by a creator.
func (s *Store) ListProductsByCreator(ctx context.Context, creatorID int64) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, s.rebind(
		`SELECT * FROM products WHERE creator_id = ? ORDER BY id`), creatorID)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// MarketProducts returns the full public marketplace listing.
func (s *Store) MarketProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, `SELECT * FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// DeleteProduct removes a product after verifying ownership, decrements the
// product counter, and queues the image asset for cleanup, all in one
// transaction.
func (s *Store) DeleteProduct(ctx context.Context, productID, ownerID int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var row struct {
			CreatorID int64  `db:"creator_id"`
			Image     string `db:"image"`
		}
		err := tx.GetContext(ctx, &row, s.rebind(
			`SELECT creator_id, image FROM products WHERE id = ?`), productID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if row.CreatorID != ownerID {
			return ErrNotOwner
		}

		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM products WHERE id = ?`), productID); err != nil {
			return err
		}
		if err := s.bumpCount(tx, ProductTable, -1); err != nil {
			return err
		}
		return s.enqueueCleanup(ctx, tx, storage.PublicIDFromURL(row.Image))
	})
}
