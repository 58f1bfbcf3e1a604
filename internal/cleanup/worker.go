// Package cleanup drains the durable queue of orphaned storage assets.
// Deleting a product or profile only enqueues a task; this worker performs
// the actual object-store deletion off the request path, with retries.
package cleanup

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/artbucket-io/artbucket/internal/logging"
	"github.com/artbucket-io/artbucket/internal/store"
)

// AssetDeleter removes one asset from object storage by its public id.
type AssetDeleter interface {
	DeleteAsset(ctx context.Context, publicID string) error
}

type Worker struct {
	store       *store.Store
	deleter     AssetDeleter
	log         logging.Logger
	interval    time.Duration
	maxAttempts int
	batchSize   int
}

func NewWorker(st *store.Store, deleter AssetDeleter, log logging.Logger, interval time.Duration, maxAttempts, batchSize int) *Worker {
	return &Worker{
		store:       st,
		deleter:     deleter,
		log:         log.With("component", "cleanup"),
		interval:    interval,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
	}
}

// Run drains the queue on a ticker until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.drain(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// drain processes one batch of pending tasks. A task is removed once its
// asset is gone or once it has exhausted its attempts; otherwise it stays
// for the next pass.
func (w *Worker) drain(ctx context.Context) {
	tasks, err := w.store.NextCleanupTasks(ctx, w.batchSize)
	if err != nil {
		w.log.Error(ctx, "failed to fetch cleanup tasks", "error", err)
		return
	}

	for _, task := range tasks {
		backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			return retry.RetryableError(w.deleter.DeleteAsset(ctx, task.PublicID))
		})
		if err == nil {
			if err := w.store.DeleteCleanupTask(ctx, task.ID); err != nil {
				w.log.Error(ctx, "failed to remove finished cleanup task", "task", task.ID, "error", err)
			}
			continue
		}

		w.log.Warn(ctx, "asset deletion failed", "public_id", task.PublicID, "attempts", task.Attempts+1, "error", err)

		if task.Attempts+1 >= w.maxAttempts {
			// The asset is leaked; stop retrying but keep a trace in the log.
			w.log.Error(ctx, "giving up on cleanup task", "public_id", task.PublicID, "attempts", task.Attempts+1)
			if err := w.store.DeleteCleanupTask(ctx, task.ID); err != nil {
				w.log.Error(ctx, "failed to remove exhausted cleanup task", "task", task.ID, "error", err)
			}
			continue
		}

		if err := w.store.BumpCleanupAttempts(ctx, task.ID); err != nil {
			w.log.Error(ctx, "failed to record cleanup attempt", "task", task.ID, "error", err)
		}
	}
}
