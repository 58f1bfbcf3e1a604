package store

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
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := sqlx.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(context.Background(), db, "sqlite"))
	return New(db)
}

func mustCreateCreator(t *testing.T, s *Store, userName, email, storeName string) int64 {
	t.Helper()
	id, err := s.CreateCreator(context.Background(), &models.Creator{
		UserName:   userName,
		Email:      email,
		StoreName:  storeName,
		Title:      "art",
		HashedPass: "hashed",
	})
	require.NoError(t, err)
	return id
}

func mustCreateProduct(t *testing.T, s *Store, creatorID int64, name, image string) *models.Product {
	t.Helper()
	p := &models.Product{
		CreatorID:   creatorID,
		Name:        name,
		Description: "a " + name,
		Price:       "25.00",
		Image:       image,
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	require.NotZero(t, p.ID)
	return p
}

func TestCreateCreatorBumpsCounter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	creators, products, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, creators)
	assert.Zero(t, products)

	mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")
	mustCreateCreator(t, s, "bob", "bob@example.com", "bobs-prints")

	creators, products, err = s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, creators)
	assert.Zero(t, products)
}

func TestCreateCreatorDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")

	_, err := s.CreateCreator(ctx, &models.Creator{
		UserName: "other", Email: "alice@example.com", StoreName: "other-store", HashedPass: "x",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = s.CreateCreator(ctx, &models.Creator{
		UserName: "other", Email: "other@example.com", StoreName: "alice-art", HashedPass: "x",
	})
	assert.ErrorIs(t, err, ErrStoreNameTaken)

	// Failed registrations must not move the counter.
	creators, _, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, creators)
}

func TestGetCreatorDefaults(t *testing.T) {
	s := newTestStore(t)
	id := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")

	c, err := s.GetCreatorByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "not added", c.Whatsapp)
	assert.Equal(t, "not added", c.Instagram)
	assert.Equal(t, "not added", c.Profile)
	assert.Zero(t, c.Connections)
}

func TestGetCreatorNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetCreatorByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetCreatorByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetCreatorByStoreName(ctx, "no-such-store")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")
	mustCreateCreator(t, s, "bob", "bob@example.com", "bobs-prints")

	// Keeping the current store name is allowed.
	require.NoError(t, s.UpdateProfile(ctx, id, "alice2", "alice-art", "painter", "+123", "@alice"))

	c, err := s.GetCreatorByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice2", c.UserName)
	assert.Equal(t, "painter", c.Title)
	assert.Equal(t, "+123", c.Whatsapp)
	assert.Equal(t, "@alice", c.Instagram)

	// Taking another creator's store name is not.
	err = s.UpdateProfile(ctx, id, "alice2", "bobs-prints", "painter", "", "")
	assert.ErrorIs(t, err, ErrStoreNameTaken)

	err = s.UpdateProfile(ctx, 9999, "ghost", "ghost-store", "", "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfileImage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")

	require.NoError(t, s.UpdateProfileImage(ctx, id, "https://cdn.example.com/artbucket/profile_1"))

	c, err := s.GetCreatorByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/artbucket/profile_1", c.Profile)

	assert.ErrorIs(t, s.UpdateProfileImage(ctx, 9999, "x"), ErrNotFound)
}

func TestIncrementConnections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")

	require.NoError(t, s.IncrementConnections(ctx, "alice-art"))
	require.NoError(t, s.IncrementConnections(ctx, "alice-art"))

	c, err := s.GetCreatorByID(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, c.Connections)

	assert.ErrorIs(t, s.IncrementConnections(ctx, "no-such-store"), ErrNotFound)
}

func TestEmailRegistered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")

	ok, err := s.EmailRegistered(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.EmailRegistered(ctx, "new@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")

	p := mustCreateProduct(t, s, id, "vase", "https://cdn.example.com/artbucket/product_1_a.jpg")

	_, products, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, products)

	got, err := s.GetProductWithStore(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "vase", got.Name)
	assert.Equal(t, "alice-art", got.StoreName)
	assert.Equal(t, "alice", got.UserName)

	require.NoError(t, s.DeleteProduct(ctx, p.ID, id))

	_, products, err = s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, products)

	_, err = s.GetProductWithStore(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The image asset is queued for background deletion.
	tasks, err := s.NextCleanupTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "artbucket/product_1_a", tasks[0].PublicID)
}

func TestDeleteProductOwnership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")
	bob := mustCreateCreator(t, s, "bob", "bob@example.com", "bobs-prints")

	p := mustCreateProduct(t, s, alice, "vase", "https://cdn.example.com/artbucket/product_1_a.jpg")

	assert.ErrorIs(t, s.DeleteProduct(ctx, p.ID, bob), ErrNotOwner)
	assert.ErrorIs(t, s.DeleteProduct(ctx, 9999, alice), ErrNotFound)

	// The failed attempts must leave the row and the counter untouched.
	_, products, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, products)
}

func TestMarketAndCreatorListings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")
	bob := mustCreateCreator(t, s, "bob", "bob@example.com", "bobs-prints")

	mustCreateProduct(t, s, alice, "vase", "https://cdn.example.com/artbucket/product_1_a.jpg")
	mustCreateProduct(t, s, bob, "print", "https://cdn.example.com/artbucket/product_2_b.jpg")

	market, err := s.MarketProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, market, 2)

	mine, err := s.ListProductsByCreator(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "vase", mine[0].Name)

	creators, err := s.ListCreators(ctx)
	require.NoError(t, err)
	require.Len(t, creators, 2)
	assert.Equal(t, "alice-art", creators[0].StoreName)
}

func TestDeleteCreatorCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")

	mustCreateProduct(t, s, id, "vase", "https://cdn.example.com/artbucket/product_1_a.jpg")
	mustCreateProduct(t, s, id, "print", "https://cdn.example.com/artbucket/product_1_b.jpg")
	require.NoError(t, s.UpdateProfileImage(ctx, id, "https://cdn.example.com/artbucket/profile_1"))

	deleted, err := s.DeleteCreator(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	creators, products, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, creators)
	assert.Zero(t, products)

	_, err = s.GetCreatorByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	// Two product images plus the uploaded profile picture.
	tasks, err := s.NextCleanupTasks(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestDeleteCreatorPlaceholderProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")

	deleted, err := s.DeleteCreator(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	// The "not added" placeholder is not a storage asset.
	tasks, err := s.NextCleanupTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDeleteCreatorNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.DeleteCreator(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReconcileCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")
	mustCreateProduct(t, s, id, "vase", "https://cdn.example.com/artbucket/product_1_a.jpg")

	// Simulate drift left behind by a crash.
	_, err := s.db.ExecContext(ctx, `UPDATE entity_counts SET total = 99 WHERE kind = 'creator_table'`)
	require.NoError(t, err)

	require.NoError(t, s.ReconcileCounts(ctx))

	creators, products, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, creators)
	assert.EqualValues(t, 1, products)
}

func TestCleanupTaskQueue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")

	p1 := mustCreateProduct(t, s, id, "vase", "https://cdn.example.com/artbucket/product_1_a.jpg")
	p2 := mustCreateProduct(t, s, id, "print", "https://cdn.example.com/artbucket/product_1_b.jpg")
	require.NoError(t, s.DeleteProduct(ctx, p1.ID, id))
	require.NoError(t, s.DeleteProduct(ctx, p2.ID, id))

	tasks, err := s.NextCleanupTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	first := tasks[0]
	assert.Equal(t, "artbucket/product_1_a", first.PublicID)

	require.NoError(t, s.BumpCleanupAttempts(ctx, first.ID))
	tasks, err = s.NextCleanupTasks(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, tasks[0].Attempts)

	require.NoError(t, s.DeleteCleanupTask(ctx, first.ID))
	tasks, err = s.NextCleanupTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "artbucket/product_1_b", tasks[0].PublicID)
}

func TestAPITokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateCreator(t, s, "alice", "alice@example.com", "alice-art")
	bob := mustCreateCreator(t, s, "bob", "bob@example.com", "bobs-prints")

	tok, err := s.CreateAPIToken(ctx, alice, "ci", "signed-token-value", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.NotZero(t, tok.ID)

	got, err := s.GetAPIToken(ctx, "signed-token-value")
	require.NoError(t, err)
	assert.Equal(t, alice, got.CreatorID)
	assert.Equal(t, "ci", got.Name)

	list, err := s.ListAPITokens(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// A creator cannot revoke another creator's token.
	assert.ErrorIs(t, s.DeleteAPIToken(ctx, bob, tok.ID), ErrNotFound)

	require.NoError(t, s.DeleteAPIToken(ctx, alice, tok.ID))
	_, err = s.GetAPIToken(ctx, "signed-token-value")
	assert.ErrorIs(t, err, ErrNotFound)
}
