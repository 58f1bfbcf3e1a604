// Package store holds all database access. Every mutation that touches a
// counted table adjusts the matching entity_counts row inside the same
// transaction, and every delete that orphans a storage asset enqueues a
// cleanup task in that transaction too.
package store

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Counter kinds tracked in entity_counts.
const (
	CreatorTable = "creator_table"
	ProductTable = "product_table"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrStoreNameTaken = errors.New("store name already taken")
	ErrNotOwner       = errors.New("product owned by another creator")
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// withTx begins a transaction, runs fn, and commits on success or rolls back
// on error or panic. Panics are rethrown.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(tx)
	return err
}

// rebind converts ?-style placeholders to the driver's bind form.
func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}
