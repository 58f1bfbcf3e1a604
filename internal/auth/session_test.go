package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artbucket-io/artbucket/internal/database"
	"github.com/artbucket-io/artbucket/internal/models"
	"github.com/artbucket-io/artbucket/internal/store"
)

func newTestStore(t *testing.T) (*store.Store, int64) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := sqlx.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(context.Background(), db, "sqlite"))

	st := store.New(db)
	creatorID, err := st.CreateCreator(context.Background(), &models.Creator{
		UserName:   "tester",
		Email:      "tester@example.com",
		StoreName:  "tester-store",
		HashedPass: "irrelevant",
	})
	require.NoError(t, err)
	return st, creatorID
}

func TestSessionsCreateAndValidate(t *testing.T) {
	st, creatorID := newTestStore(t)
	sessions := NewSessions(st, time.Hour, "session", false)

	sess, err := sessions.Create(context.Background(), creatorID)
	require.NoError(t, err)
	assert.Len(t, sess.Token, 64)

	got, err := sessions.Validate(context.Background(), sess.Token)
	require.NoError(t, err)
	assert.Equal(t, creatorID, got)
}

func TestSessionsValidateUnknownToken(t *testing.T) {
	st, _ := newTestStore(t)
	sessions := NewSessions(st, time.Hour, "session", false)

	_, err := sessions.Validate(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionsValidateExpired(t *testing.T) {
	st, creatorID := newTestStore(t)
	sessions := NewSessions(st, -time.Minute, "session", false)

	sess, err := sessions.Create(context.Background(), creatorID)
	require.NoError(t, err)

	_, err = sessions.Validate(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionsDestroy(t *testing.T) {
	st, creatorID := newTestStore(t)
	sessions := NewSessions(st, time.Hour, "session", false)

	sess, err := sessions.Create(context.Background(), creatorID)
	require.NoError(t, err)

	require.NoError(t, sessions.Destroy(context.Background(), sess.Token))
	_, err = sessions.Validate(context.Background(), sess.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Destroying an already-destroyed session is a no-op.
	assert.NoError(t, sessions.Destroy(context.Background(), sess.Token))
}

func TestSessionsCleanupExpired(t *testing.T) {
	st, creatorID := newTestStore(t)

	expired := NewSessions(st, -time.Minute, "session", false)
	live := NewSessions(st, time.Hour, "session", false)

	old, err := expired.Create(context.Background(), creatorID)
	require.NoError(t, err)
	fresh, err := live.Create(context.Background(), creatorID)
	require.NoError(t, err)

	require.NoError(t, live.CleanupExpired(context.Background()))

	_, err = live.Validate(context.Background(), old.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = live.Validate(context.Background(), fresh.Token)
	assert.NoError(t, err)
}
