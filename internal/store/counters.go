package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// bumpCount adjusts a denormalized counter inside the caller's transaction.
func (s *Store) bumpCount(tx *sqlx.Tx, kind string, delta int64) error {
	res, err := tx.Exec(s.rebind(`UPDATE entity_counts SET total = total + ? WHERE kind = ?`), delta, kind)
	if err != nil {
		return fmt.Errorf("failed to adjust %s counter: %w", kind, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("counter row %s missing", kind)
	}
	return nil
}

// Counts returns the denormalized creator and product totals.
func (s *Store) Counts(ctx context.Context) (creators, products int64, err error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT kind, total FROM entity_counts`)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var total int64
		if err := rows.Scan(&kind, &total); err != nil {
			return 0, 0, err
		}
		switch kind {
		case CreatorTable:
			creators = total
		case ProductTable:
			products = total
		}
	}
	return creators, products, rows.Err()
}

// ReconcileCounts recomputes both counters from COUNT(*), repairing any
// drift left behind by a crash between a mutation and its counter update.
func (s *Store) ReconcileCounts(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, s.rebind(
			`UPDATE entity_counts SET total = (SELECT COUNT(*) FROM creators) WHERE kind = ?`), CreatorTable); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, s.rebind(
			`UPDATE entity_counts SET total = (SELECT COUNT(*) FROM products) WHERE kind = ?`), ProductTable)
		return err
	})
}
