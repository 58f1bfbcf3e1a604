package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/artbucket-io/artbucket/internal/models"
)

// enqueueCleanup records a pending asset deletion inside the caller's
// transaction, so a committed row delete always leaves a durable task
// behind even if the process dies before the asset is removed.
func (s *Store) enqueueCleanup(ctx context.Context, tx *sqlx.Tx, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := tx.ExecContext(ctx, s.rebind(
		`INSERT INTO cleanup_tasks (public_id) VALUES (?)`), publicID)
	return err
}

// NextCleanupTasks returns up to limit pending asset deletions, oldest first.
func (s *Store) NextCleanupTasks(ctx context.Context, limit int) ([]models.CleanupTask, error) {
	tasks := []models.CleanupTask{}
	err := s.db.SelectContext(ctx, &tasks, s.rebind(
		`SELECT * FROM cleanup_tasks ORDER BY id LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// DeleteCleanupTask removes a completed task.
func (s *Store) DeleteCleanupTask(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM cleanup_tasks WHERE id = ?`), id)
	return err
}

// BumpCleanupAttempts records one more failed attempt for a task.
func (s *Store) BumpCleanupAttempts(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE cleanup_tasks SET attempts = attempts + 1 WHERE id = ?`), id)
	return err
}
